package payload

import (
	"time"

	"github.com/vasapolrittideah/mentorship-api/services/email-service/internal/usecase"
)

type AttachmentRequest struct {
	FileName    string `json:"fileName"    validate:"required"`
	Content     string `json:"content"     validate:"required,base64"`
	ContentType string `json:"contentType" validate:"required"`
}

type SendEmailRequest struct {
	To          []string            `json:"to"          validate:"required,min=1,dive,email"`
	Cc          []string            `json:"cc"          validate:"omitempty,dive,email"`
	Bcc         []string            `json:"bcc"         validate:"omitempty,dive,email"`
	Subject     string              `json:"subject"     validate:"required,max=200"`
	Content     string              `json:"content"     validate:"required,max=1000000"`
	ContentType string              `json:"contentType" validate:"omitempty,oneof=text/plain text/html"`
	FromName    string              `json:"fromName"    validate:"omitempty,max=100"`
	Attachments []AttachmentRequest `json:"attachments" validate:"omitempty,dive"`
}

func (r *SendEmailRequest) ToMessage() usecase.Message {
	msg := usecase.Message{
		To:          r.To,
		Cc:          r.Cc,
		Bcc:         r.Bcc,
		Subject:     r.Subject,
		Content:     r.Content,
		ContentType: r.ContentType,
		FromName:    r.FromName,
	}
	if msg.ContentType == "" {
		msg.ContentType = usecase.ContentTypeHTML
	}

	for _, a := range r.Attachments {
		msg.Attachments = append(msg.Attachments, usecase.Attachment(a))
	}

	return msg
}

type SendBulkRequest struct {
	Messages []SendEmailRequest `json:"messages" validate:"required,min=1,max=50,dive"`
}

func (r *SendBulkRequest) ToMessages() []usecase.Message {
	msgs := make([]usecase.Message, len(r.Messages))
	for i := range r.Messages {
		msgs[i] = r.Messages[i].ToMessage()
	}
	return msgs
}

type SendEmailResponse struct {
	Success   bool                 `json:"success"`
	MessageID string               `json:"messageId"`
	Details   *usecase.SendDetails `json:"details"`
}

type SendBulkResponse struct {
	Success     bool                 `json:"success"`
	Results     []usecase.SendResult `json:"results"`
	TotalSent   int                  `json:"totalSent"`
	TotalFailed int                  `json:"totalFailed"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

type ConfigTestResponse struct {
	Success   bool                 `json:"success"`
	Config    usecase.ConfigStatus `json:"config"`
	Timestamp time.Time            `json:"timestamp"`
}
