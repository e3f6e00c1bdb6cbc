package meetclient

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

	"github.com/vasapolrittideah/mentorship-api/shared/discovery"
	"github.com/vasapolrittideah/mentorship-api/shared/utilities"
)

// Methods the relay reports for a created meeting.
const (
	MethodGoogleMeet       = "google-meet-api"
	MethodCalendarFallback = "calendar-fallback"
)

var ErrMeetingFailed = errors.New("meeting relay failed")

// Booking is the booking summary the relay needs to create an event.
type Booking struct {
	ID          string    `json:"id"`
	MentorName  string    `json:"mentorName"`
	MenteeName  string    `json:"menteeName"`
	MentorEmail string    `json:"mentorEmail"`
	MenteeEmail string    `json:"menteeEmail"`
	SessionDate time.Time `json:"sessionDate"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
}

// Meeting is the relay's answer to a create request.
type Meeting struct {
	Success  bool   `json:"success"`
	MeetLink string `json:"meetLink"`
	EventID  string `json:"eventId,omitempty"`
	HTMLLink string `json:"htmlLink,omitempty"`
	Method   string `json:"method"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	Details  string `json:"details,omitempty"`
}

// Client calls the meet relay.
type Client struct {
	baseURL    discovery.URLFunc
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewResolvingClient(discovery.StaticURL(baseURL), timeout)
}

// NewResolvingClient looks the relay address up through baseURL before each request.
func NewResolvingClient(baseURL discovery.URLFunc, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateMeeting asks the relay for a meeting link.
func (c *Client) CreateMeeting(ctx context.Context, booking Booking) (*Meeting, error) {
	payload, err := json.Marshal(map[string]any{"booking": booking})
	if err != nil {
		return nil, err
	}

	baseURL, err := c.baseURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMeetingFailed, err)
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/api/create-meeting"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var meeting Meeting
	if err := json.Unmarshal(body, &meeting); err != nil {
		return nil, fmt.Errorf("%w: status %d: invalid response body", ErrMeetingFailed, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK || !meeting.Success {
		msg := meeting.Error
		if msg == "" {
			msg = resp.Status
		}
		if meeting.Details != "" {
			msg += ": " + meeting.Details
		}
		return nil, fmt.Errorf("%w: %s", ErrMeetingFailed, msg)
	}

	return &meeting, nil
}
