// Package calcom talks to the Cal.com proxy server that holds mentors' Cal.com
// API keys. The proxy answers in several shapes, so list responses are parsed
// leniently.
package calcom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vasapolrittideah/mentorship-api/shared/utilities"
)

// Booking statuses reported by Cal.com.
const (
	StatusAccepted  = "ACCEPTED"
	StatusPending   = "PENDING"
	StatusCancelled = "CANCELLED"
)

var ErrUnexpectedResponse = errors.New("unexpected Cal.com response")

// BookingID is a Cal.com booking id, which the proxy sends as a number or a string.
type BookingID string

func (id *BookingID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = BookingID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("booking id: %w", err)
	}
	*id = BookingID(n.String())

	return nil
}

type Attendee struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	TimeZone string `json:"timeZone"`
}

type EventType struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type Booking struct {
	ID        BookingID  `json:"id"`
	UID       string     `json:"uid"`
	StartTime time.Time  `json:"startTime"`
	EndTime   time.Time  `json:"endTime"`
	Status    string     `json:"status"`
	Attendees []Attendee `json:"attendees"`
	EventType EventType  `json:"eventType"`
	Location  string     `json:"location,omitempty"`
}

// APIError is a non-2xx answer from the proxy.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calcom: %d %s", e.StatusCode, e.Message)
}

// Client calls the Cal.com proxy. The caller's bearer token is taken from the
// headers forwarded into ctx.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetBookings lists the Cal.com bookings of a mentor.
func (c *Client) GetBookings(ctx context.Context, mentorUID string) ([]Booking, error) {
	raw, err := c.post(ctx, "/calcom/bookings/list", map[string]any{"mentorUid": mentorUID})
	if err != nil {
		return nil, err
	}

	return ParseBookings(raw)
}

// CancelBooking cancels a booking on Cal.com.
func (c *Client) CancelBooking(ctx context.Context, mentorUID, bookingID, reason string) error {
	body := map[string]any{"mentorUid": mentorUID, "bookingId": bookingID}
	if reason != "" {
		body["reason"] = reason
	}

	_, err := c.post(ctx, "/calcom/bookings/cancel", body)
	return err
}

func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	utilities.ApplyForwardedHeaders(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	decodeErr := json.NewDecoder(resp.Body).Decode(&raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := resp.Status
		var errBody struct {
			Error string `json:"error"`
		}
		if decodeErr == nil && json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			msg = errBody.Error
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, decodeErr)
	}

	return raw, nil
}

// ParseBookings accepts [...], {bookings:[...]}, {data:{bookings:[...]}} and
// {data:[...]}. Any other object yields an empty list.
func ParseBookings(raw json.RawMessage) ([]Booking, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '[' {
		var bookings []Booking
		if err := json.Unmarshal(raw, &bookings); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
		}
		return bookings, nil
	}

	var envelope struct {
		Bookings json.RawMessage `json:"bookings"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	if isArray(envelope.Bookings) {
		return ParseBookings(envelope.Bookings)
	}
	if isArray(envelope.Data) {
		return ParseBookings(envelope.Data)
	}
	if len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		var inner struct {
			Bookings json.RawMessage `json:"bookings"`
		}
		if err := json.Unmarshal(envelope.Data, &inner); err == nil && isArray(inner.Bookings) {
			return ParseBookings(inner.Bookings)
		}
	}

	return nil, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// IDPrefix marks Cal.com bookings in merged booking lists.
const IDPrefix = "calcom-"

// FormatID returns the merged-list id of a Cal.com booking.
func FormatID(id BookingID) string {
	return IDPrefix + string(id)
}

// ParseID strips the calcom- prefix used for Cal.com bookings in merged lists.
func ParseID(id string) (string, bool) {
	rest, ok := strings.CutPrefix(id, IDPrefix)
	return rest, ok && rest != ""
}
