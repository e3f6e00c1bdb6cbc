package emailclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vasapolrittideah/mentorship-api/shared/discovery"
	"github.com/vasapolrittideah/mentorship-api/shared/middleware"
)

var ErrSendFailed = errors.New("email relay failed")

// Message is one email accepted by the relay.
type Message struct {
	To          []string `json:"to"`
	Cc          []string `json:"cc,omitempty"`
	Bcc         []string `json:"bcc,omitempty"`
	Subject     string   `json:"subject"`
	Content     string   `json:"content"`
	ContentType string   `json:"contentType,omitempty"`
	FromName    string   `json:"fromName,omitempty"`
}

type sendResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
}

// Client calls the email relay with the service API key.
type Client struct {
	baseURL    discovery.URLFunc
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return NewResolvingClient(discovery.StaticURL(baseURL), apiKey, timeout)
}

// NewResolvingClient looks the relay address up through baseURL before each request.
func NewResolvingClient(baseURL discovery.URLFunc, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send delivers one message and returns the relay's message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}

	baseURL, err := c.baseURL(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/api/email/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(middleware.APIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: status %d", ErrSendFailed, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK || !out.Success {
		return "", fmt.Errorf("%w: %s", ErrSendFailed, out.Error)
	}

	return out.MessageID, nil
}
