package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/mentorship-api/shared/mailer"
	"github.com/vasapolrittideah/mentorship-api/shared/provider"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []mailer.Email
	failFor  string
	delay    time.Duration
	inFlight int
	peak     int
}

func (s *fakeSender) Send(email mailer.Email) error {
	s.mu.Lock()
	s.inFlight++
	s.peak = max(s.peak, s.inFlight)
	s.mu.Unlock()

	time.Sleep(s.delay)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if s.failFor != "" && email.To[0] == s.failFor {
		return errors.New("550 mailbox unavailable")
	}
	s.sent = append(s.sent, email)
	return nil
}

type fakeAccount struct {
	token    string
	tokenErr error
	checkErr error
}

func (a *fakeAccount) AccessToken(context.Context) (string, error) {
	return a.token, a.tokenErr
}

func (a *fakeAccount) CheckAccount(context.Context, string) error {
	return a.checkErr
}

func newTestUsecase(sender Sender, account MailAccount, batchDelay time.Duration) EmailUsecase {
	logger := zerolog.Nop()
	return NewEmailUsecase(sender, account, EmailOptions{
		BatchSize:   5,
		BatchDelay:  batchDelay,
		FromEmail:   "info@example.com",
		FromName:    "Mentorship Platform",
		Environment: "test",
		Zoho:        provider.ZohoConfig{ClientID: "id", RefreshToken: "refresh"},
	}, &logger)
}

func TestSend(t *testing.T) {
	pdf := []byte("%PDF-1.4")

	tests := []struct {
		name      string
		msg       Message
		wantHTML  string
		wantPlain string
	}{
		{
			name:     "html by default",
			msg:      Message{To: []string{"ada@example.com"}, Subject: "Hi", Content: "<p>Hi</p>"},
			wantHTML: "<p>Hi</p>",
		},
		{
			name: "plain text",
			msg: Message{
				To:          []string{"ada@example.com"},
				Subject:     "Hi",
				Content:     "Hi",
				ContentType: ContentTypePlain,
			},
			wantPlain: "Hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			u := newTestUsecase(sender, &fakeAccount{}, 0)

			tt.msg.Attachments = []Attachment{{
				FileName:    "agenda.pdf",
				Content:     base64.StdEncoding.EncodeToString(pdf),
				ContentType: "application/pdf",
			}}

			result, err := u.Send(context.Background(), tt.msg)
			require.NoError(t, err)
			assert.True(t, result.Success)
			assert.True(t, strings.HasSuffix(result.MessageID, "@example.com"))
			assert.Equal(t, []string{"ada@example.com"}, result.Details.Accepted)
			assert.Equal(t, 1, result.Details.Attachments)

			require.Len(t, sender.sent, 1)
			email := sender.sent[0]
			assert.Equal(t, result.MessageID, email.MessageID)
			assert.Equal(t, tt.wantHTML, email.HTMLBody)
			assert.Equal(t, tt.wantPlain, email.Body)
			require.Len(t, email.Attachments, 1)
			assert.Equal(t, pdf, email.Attachments[0].Data)
		})
	}
}

func TestSendErrors(t *testing.T) {
	sender := &fakeSender{failFor: "bounce@example.com"}
	u := newTestUsecase(sender, &fakeAccount{}, 0)

	_, err := u.Send(context.Background(), Message{
		To:          []string{"ada@example.com"},
		Attachments: []Attachment{{FileName: "x.txt", Content: "not base64!"}},
	})
	assert.ErrorIs(t, err, ErrInvalidAttachment)
	assert.Empty(t, sender.sent)

	_, err = u.Send(context.Background(), Message{To: []string{"bounce@example.com"}, Content: "x"})
	require.ErrorIs(t, err, ErrSendFailed)
	assert.Contains(t, err.Error(), "550 mailbox unavailable")
}

func TestSendBulk(t *testing.T) {
	sender := &fakeSender{failFor: "bounce@example.com", delay: 5 * time.Millisecond}
	u := newTestUsecase(sender, &fakeAccount{}, time.Millisecond)

	msgs := make([]Message, 12)
	for i := range msgs {
		msgs[i] = Message{To: []string{"user@example.com"}, Subject: "Hi", Content: "x"}
	}
	msgs[7].To = []string{"bounce@example.com"}

	results, err := u.SendBulk(context.Background(), msgs)
	require.NoError(t, err)
	require.Len(t, results, 12)

	for i, result := range results {
		if i == 7 {
			assert.False(t, result.Success)
			assert.Contains(t, result.Error, "550 mailbox unavailable")
			continue
		}
		assert.True(t, result.Success, "message %d", i)
		assert.NotEmpty(t, result.MessageID)
	}

	assert.Len(t, sender.sent, 11)
	assert.LessOrEqual(t, sender.peak, 5)
}

func TestSendBulkStopsWhenContextEnds(t *testing.T) {
	sender := &fakeSender{}
	u := newTestUsecase(sender, &fakeAccount{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msgs := make([]Message, 6)
	for i := range msgs {
		msgs[i] = Message{To: []string{"user@example.com"}, Content: "x"}
	}

	_, err := u.SendBulk(ctx, msgs)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, sender.sent, 5)
}

func TestConfigStatus(t *testing.T) {
	tests := []struct {
		name    string
		account *fakeAccount
		want    ConfigStatus
	}{
		{
			name:    "working credentials",
			account: &fakeAccount{token: "1000.abc"},
			want: ConfigStatus{
				AccessTokenTest:    "success",
				AccessTokenLength:  8,
				APIPermissionsTest: "success",
			},
		},
		{
			name:    "token refused",
			account: &fakeAccount{tokenErr: provider.ErrZohoNotConfigured},
			want: ConfigStatus{
				AccessTokenTest:  "failed",
				AccessTokenError: provider.ErrZohoNotConfigured.Error(),
			},
		},
		{
			name:    "missing permissions",
			account: &fakeAccount{token: "1000.abc", checkErr: errors.New("unexpected status: 401")},
			want: ConfigStatus{
				AccessTokenTest:     "success",
				AccessTokenLength:   8,
				APIPermissionsTest:  "failed",
				APIPermissionsError: "unexpected status: 401",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newTestUsecase(&fakeSender{}, tt.account, 0)

			want := tt.want
			want.HasClientID = true
			want.HasRefreshToken = true
			want.FromEmail = "info@example.com"
			want.FromName = "Mentorship Platform"
			want.Environment = "test"

			assert.Equal(t, want, u.ConfigStatus(context.Background()))
		})
	}
}
