package calcom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/mentorship-api/shared/utilities"
)

const bookingJSON = `{"id":%s,"uid":"u1","startTime":"2025-03-04T10:00:00.000Z","endTime":"2025-03-04T11:00:00.000Z",` +
	`"status":"ACCEPTED","attendees":[{"name":"Ada","email":"ada@example.com","timeZone":"Europe/London"}],` +
	`"eventType":{"id":7,"title":"Intro call"}}`

func TestParseBookings(t *testing.T) {
	numeric := []byte(`{"id":42,"status":"PENDING","startTime":"2025-03-04T10:00:00Z","endTime":"2025-03-04T11:00:00Z"}`)
	str := []byte(`{"id":"abc","status":"ACCEPTED","startTime":"2025-03-04T10:00:00Z","endTime":"2025-03-04T11:00:00Z"}`)

	tests := []struct {
		name    string
		body    string
		wantIDs []BookingID
	}{
		{name: "bare array", body: `[` + string(numeric) + `]`, wantIDs: []BookingID{"42"}},
		{name: "bookings key", body: `{"bookings":[` + string(str) + `]}`, wantIDs: []BookingID{"abc"}},
		{name: "nested data bookings", body: `{"data":{"bookings":[` + string(numeric) + `,` + string(str) + `]}}`, wantIDs: []BookingID{"42", "abc"}},
		{name: "data array", body: `{"data":[` + string(str) + `]}`, wantIDs: []BookingID{"abc"}},
		{name: "unknown object", body: `{"status":"ok"}`, wantIDs: nil},
		{name: "null", body: `null`, wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings, err := ParseBookings(json.RawMessage(tt.body))
			require.NoError(t, err)

			var ids []BookingID
			for _, b := range bookings {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestParseBookingsRejectsMalformedArray(t *testing.T) {
	_, err := ParseBookings(json.RawMessage(`[{"id":true}]`))
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestClientGetBookingsForwardsAuthorization(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calcom/bookings/list", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bookings":[` + fmt.Sprintf(bookingJSON, `101`) + `]}`))
	}))
	defer srv.Close()

	inbound := http.Header{}
	inbound.Set("Authorization", "Bearer token-1")
	ctx := utilities.WithForwardedHeaders(context.Background(), inbound, nil)

	client := NewClient(srv.URL+"/", time.Second)
	bookings, err := client.GetBookings(ctx, "mentor-1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	assert.Equal(t, "Bearer token-1", gotAuth)
	assert.Equal(t, "mentor-1", gotBody["mentorUid"])
	assert.Equal(t, BookingID("101"), bookings[0].ID)
	assert.Equal(t, "Intro call", bookings[0].EventType.Title)
	assert.Equal(t, time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC), bookings[0].StartTime.UTC())
}

func TestClientReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"Cal.com not connected"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).CancelBooking(context.Background(), "m", "1", "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "Cal.com not connected", apiErr.Message)
}

func TestClientCancelAcceptsEmptyBody(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).CancelBooking(context.Background(), "m", "55", "Cancelled by mentor")
	require.NoError(t, err)
	assert.Equal(t, "55", gotBody["bookingId"])
	assert.Equal(t, "Cancelled by mentor", gotBody["reason"])
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("calcom-123")
	assert.True(t, ok)
	assert.Equal(t, "123", id)

	_, ok = ParseID("calcom-")
	assert.False(t, ok)

	_, ok = ParseID("b7c1")
	assert.False(t, ok)

	assert.Equal(t, "calcom-9", FormatID("9"))
}
