package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/mentorship-api/shared/emailclient"
)

type recordingSender struct {
	sent []emailclient.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg emailclient.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, msg)
	return "msg-1", nil
}

func TestRenderBuiltinTemplates(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	data := Data{
		RecipientName: "Grace",
		MentorName:    "Grace",
		MenteeName:    "Alan <script>",
		SessionDate:   "04/03/2025",
		StartTime:     "10:00",
		EndTime:       "11:00",
	}

	subject, body, err := r.Render(BookingRequested, data)
	require.NoError(t, err)
	assert.Equal(t, "New session request from Alan <script>", subject)
	assert.Contains(t, body, "Alan &lt;script&gt;")
	assert.Contains(t, body, "10:00 - 11:00")

	_, body, err = r.Render(BookingConfirmed, Data{MeetLink: "https://meet.google.com/abc"})
	require.NoError(t, err)
	assert.Contains(t, body, `href="https://meet.google.com/abc"`)

	_, _, err = r.Render(Kind("unknown"), data)
	assert.Error(t, err)
}

func TestParseTemplatesRejectsBrokenTemplate(t *testing.T) {
	_, err := ParseTemplates([]byte("broken:\n  subject: \"{{.Name\"\n  body: ok\n"))
	assert.Error(t, err)
}

func TestNotifierSendsRenderedMessage(t *testing.T) {
	sender := &recordingSender{}
	logger := zerolog.Nop()
	r, err := NewRenderer()
	require.NoError(t, err)

	n := NewNotifier(r, sender, &logger)
	n.Notify(context.Background(), BookingCancelled, "ada@example.com", Data{SessionDate: "04/03/2025"})
	n.Notify(context.Background(), BookingCancelled, "", Data{})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"ada@example.com"}, sender.sent[0].To)
	assert.Equal(t, "Session on 04/03/2025 cancelled", sender.sent[0].Subject)
	assert.Equal(t, "text/html", sender.sent[0].ContentType)
}

func TestNotifierSwallowsSendErrors(t *testing.T) {
	logger := zerolog.Nop()
	r, err := NewRenderer()
	require.NoError(t, err)

	n := NewNotifier(r, &recordingSender{err: errors.New("relay down")}, &logger)
	assert.NotPanics(t, func() {
		n.Notify(context.Background(), BookingConfirmed, "ada@example.com", Data{})
	})
}
