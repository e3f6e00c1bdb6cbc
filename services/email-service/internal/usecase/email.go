package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vasapolrittideah/mentorship-api/shared/mailer"
	"github.com/vasapolrittideah/mentorship-api/shared/provider"
)

const (
	ContentTypeHTML  = "text/html"
	ContentTypePlain = "text/plain"

	testSuccess = "success"
	testFailed  = "failed"
)

var (
	ErrInvalidAttachment = errors.New("attachment content is not valid base64")
	ErrSendFailed        = errors.New("email sending failed")
)

// Sender delivers one email over SMTP.
type Sender interface {
	Send(email mailer.Email) error
}

// MailAccount checks the Zoho Mail API credentials.
type MailAccount interface {
	AccessToken(ctx context.Context) (string, error)
	CheckAccount(ctx context.Context, accessToken string) error
}

// Attachment carries base64 encoded file content.
type Attachment struct {
	FileName    string
	Content     string
	ContentType string
}

// Message is one email to send.
type Message struct {
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Content     string
	ContentType string
	FromName    string
	Attachments []Attachment
}

// SendDetails describes what the SMTP server accepted.
type SendDetails struct {
	Accepted    []string `json:"accepted"`
	ContentType string   `json:"contentType"`
	Attachments int      `json:"attachments"`
}

// SendResult is the outcome of one message.
type SendResult struct {
	Success   bool         `json:"success"`
	MessageID string       `json:"messageId,omitempty"`
	Details   *SendDetails `json:"details,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// ConfigStatus reports which credentials are present and whether Zoho accepts them.
type ConfigStatus struct {
	HasClientID         bool   `json:"hasClientId"`
	HasClientSecret     bool   `json:"hasClientSecret"`
	HasRefreshToken     bool   `json:"hasRefreshToken"`
	FromEmail           string `json:"fromEmail"`
	FromName            string `json:"fromName"`
	Environment         string `json:"environment"`
	AccessTokenTest     string `json:"accessTokenTest"`
	AccessTokenLength   int    `json:"accessTokenLength,omitempty"`
	AccessTokenError    string `json:"accessTokenError,omitempty"`
	APIPermissionsTest  string `json:"apiPermissionsTest,omitempty"`
	APIPermissionsError string `json:"apiPermissionsError,omitempty"`
}

// EmailUsecase defines the business logic of the email relay.
type EmailUsecase interface {
	// Send delivers one message and returns its message id.
	Send(ctx context.Context, msg Message) (*SendResult, error)

	// SendBulk delivers messages in concurrent batches with a pause between
	// batches. Failures are reported per message.
	SendBulk(ctx context.Context, msgs []Message) ([]SendResult, error)

	// ConfigStatus checks the Zoho credentials.
	ConfigStatus(ctx context.Context) ConfigStatus
}

// EmailOptions configures the email usecase.
type EmailOptions struct {
	BatchSize   int
	BatchDelay  time.Duration
	FromEmail   string
	FromName    string
	Environment string
	Zoho        provider.ZohoConfig
}

type emailUsecase struct {
	sender  Sender
	account MailAccount
	opts    EmailOptions
	domain  string
	logger  *zerolog.Logger
}

// NewEmailUsecase creates a new instance of EmailUsecase.
func NewEmailUsecase(sender Sender, account MailAccount, opts EmailOptions, logger *zerolog.Logger) EmailUsecase {
	if opts.BatchSize < 1 {
		opts.BatchSize = 1
	}

	domain := "localhost"
	if _, host, ok := strings.Cut(opts.FromEmail, "@"); ok && host != "" {
		domain = host
	}

	return &emailUsecase{
		sender:  sender,
		account: account,
		opts:    opts,
		domain:  domain,
		logger:  logger,
	}
}

func (u *emailUsecase) Send(_ context.Context, msg Message) (*SendResult, error) {
	email, err := u.toEmail(msg)
	if err != nil {
		return nil, err
	}

	if err := u.sender.Send(email); err != nil {
		u.logger.Error().Err(err).Strs("to", msg.To).Msg("failed to send email")
		return nil, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	u.logger.Info().Str("message_id", email.MessageID).Int("recipients", len(msg.To)).Msg("email sent")

	return &SendResult{
		Success:   true,
		MessageID: email.MessageID,
		Details: &SendDetails{
			Accepted:    msg.To,
			ContentType: contentType(msg),
			Attachments: len(msg.Attachments),
		},
	}, nil
}

func (u *emailUsecase) SendBulk(ctx context.Context, msgs []Message) ([]SendResult, error) {
	results := make([]SendResult, len(msgs))

	for start := 0; start < len(msgs); start += u.opts.BatchSize {
		end := min(start+u.opts.BatchSize, len(msgs))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				result, err := u.Send(ctx, msgs[i])
				if err != nil {
					results[i] = SendResult{Success: false, Error: err.Error()}
					return nil
				}
				results[i] = *result
				return nil
			})
		}
		_ = g.Wait()

		if end < len(msgs) {
			if err := pause(ctx, u.opts.BatchDelay); err != nil {
				return nil, err
			}
		}
	}

	return results, nil
}

func (u *emailUsecase) ConfigStatus(ctx context.Context) ConfigStatus {
	status := ConfigStatus{
		HasClientID:     u.opts.Zoho.ClientID != "",
		HasClientSecret: u.opts.Zoho.ClientSecret != "",
		HasRefreshToken: u.opts.Zoho.RefreshToken != "",
		FromEmail:       u.opts.FromEmail,
		FromName:        u.opts.FromName,
		Environment:     u.opts.Environment,
	}

	token, err := u.account.AccessToken(ctx)
	if err != nil {
		status.AccessTokenTest = testFailed
		status.AccessTokenError = err.Error()
		return status
	}
	status.AccessTokenTest = testSuccess
	status.AccessTokenLength = len(token)

	if err := u.account.CheckAccount(ctx, token); err != nil {
		status.APIPermissionsTest = testFailed
		status.APIPermissionsError = err.Error()
		return status
	}
	status.APIPermissionsTest = testSuccess

	return status
}

func (u *emailUsecase) toEmail(msg Message) (mailer.Email, error) {
	email := mailer.Email{
		MessageID: uuid.NewString() + "@" + u.domain,
		To:        msg.To,
		Cc:        msg.Cc,
		Bcc:       msg.Bcc,
		FromName:  msg.FromName,
		Subject:   msg.Subject,
	}

	if contentType(msg) == ContentTypePlain {
		email.Body = msg.Content
	} else {
		email.HTMLBody = msg.Content
	}

	for _, a := range msg.Attachments {
		data, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return mailer.Email{}, fmt.Errorf("%w: %s", ErrInvalidAttachment, a.FileName)
		}
		email.Attachments = append(email.Attachments, mailer.Attachment{
			FileName:    a.FileName,
			ContentType: a.ContentType,
			Data:        data,
		})
	}

	return email, nil
}

func contentType(msg Message) string {
	if msg.ContentType == "" {
		return ContentTypeHTML
	}
	return msg.ContentType
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
