// Package notify renders booking lifecycle emails and hands them to the email relay.
package notify

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/vasapolrittideah/mentorship-api/shared/emailclient"
)

type Kind string

const (
	BookingRequested Kind = "booking_requested"
	BookingConfirmed Kind = "booking_confirmed"
	BookingCancelled Kind = "booking_cancelled"
)

//go:embed templates.yaml
var defaultTemplates []byte

// Data is the set of values templates can reference.
type Data struct {
	RecipientName string
	MentorName    string
	MenteeName    string
	SessionDate   string
	StartTime     string
	EndTime       string
	MeetLink      string
}

type templateSource struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

type template struct {
	subject *texttemplate.Template
	body    *htmltemplate.Template
}

// Renderer turns a Kind and Data into a subject and an HTML body.
type Renderer struct {
	templates map[Kind]template
}

// NewRenderer parses the built-in templates.
func NewRenderer() (*Renderer, error) {
	return ParseTemplates(defaultTemplates)
}

// ParseTemplates parses a YAML document mapping kinds to subject/body templates.
func ParseTemplates(src []byte) (*Renderer, error) {
	var sources map[Kind]templateSource
	if err := yaml.Unmarshal(src, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := &Renderer{templates: make(map[Kind]template, len(sources))}
	for kind, s := range sources {
		subject, err := texttemplate.New(string(kind)).Option("missingkey=error").Parse(s.Subject)
		if err != nil {
			return nil, fmt.Errorf("template %s subject: %w", kind, err)
		}
		body, err := htmltemplate.New(string(kind)).Option("missingkey=error").Parse(s.Body)
		if err != nil {
			return nil, fmt.Errorf("template %s body: %w", kind, err)
		}
		r.templates[kind] = template{subject: subject, body: body}
	}

	return r, nil
}

// Render executes the templates of kind.
func (r *Renderer) Render(kind Kind, data Data) (string, string, error) {
	tmpl, ok := r.templates[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown notification %q", kind)
	}

	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return "", "", err
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return "", "", err
	}

	return subject.String(), body.String(), nil
}

type sender interface {
	Send(ctx context.Context, msg emailclient.Message) (string, error)
}

// Notifier sends rendered notifications. Failures are logged, never returned,
// so a notification cannot undo the booking change that triggered it.
type Notifier struct {
	renderer *Renderer
	sender   sender
	logger   *zerolog.Logger
}

func NewNotifier(renderer *Renderer, sender sender, logger *zerolog.Logger) *Notifier {
	return &Notifier{renderer: renderer, sender: sender, logger: logger}
}

// Notify sends kind to the given address.
func (n *Notifier) Notify(ctx context.Context, kind Kind, to string, data Data) {
	if to == "" {
		return
	}

	subject, body, err := n.renderer.Render(kind, data)
	if err != nil {
		n.logger.Error().Err(err).Str("notification", string(kind)).Msg("failed to render notification")
		return
	}

	messageID, err := n.sender.Send(ctx, emailclient.Message{
		To:          []string{to},
		Subject:     subject,
		Content:     body,
		ContentType: "text/html",
	})
	if err != nil {
		n.logger.Warn().Err(err).Str("notification", string(kind)).Msg("failed to send notification")
		return
	}

	n.logger.Debug().Str("notification", string(kind)).Str("message_id", messageID).Msg("notification sent")
}
