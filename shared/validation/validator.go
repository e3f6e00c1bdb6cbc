package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validator validates request payloads and renders English error messages
// that use the JSON field names clients send.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// Error lists the failed fields in validation order.
type Error struct {
	Fields   map[string]string
	Names    []string
	Messages []string
}

func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	return e.Messages[0]
}

// New creates a Validator with the English translations registered.
func New() (*Validator, error) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// Struct validates s. Failures are returned as *Error.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	out := &Error{Fields: make(map[string]string, len(validationErrs))}
	for _, fe := range validationErrs {
		msg := fe.Translate(v.trans)
		field := fieldPath(fe.Namespace())
		out.Fields[field] = msg
		out.Names = append(out.Names, field)
		out.Messages = append(out.Messages, msg)
	}

	return out
}

// fieldPath drops the root struct name from a namespace such as "EmailRequest.to[0]".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
