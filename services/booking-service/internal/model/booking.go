package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingOrigin tells where a booking in a merged list comes from.
type BookingOrigin string

const (
	BookingOriginInternal BookingOrigin = "internal"
	BookingOriginCalCom   BookingOrigin = "calcom"
)

type CalComEventType struct {
	ID    int64  `bson:"id"    json:"id"`
	Title string `bson:"title" json:"title"`
}

type CalComAttendee struct {
	Name     string `bson:"name"      json:"name"`
	Email    string `bson:"email"     json:"email"`
	TimeZone string `bson:"time_zone" json:"timeZone"`
}

// Booking represents a mentoring session between a mentor and a mentee.
type Booking struct {
	ID                      string           `bson:"_id"                                json:"id"`
	MentorID                string           `bson:"mentor_id"                          json:"mentorId"`
	MenteeID                string           `bson:"mentee_id"                          json:"menteeId"`
	MentorName              string           `bson:"mentor_name"                        json:"mentorName"`
	MenteeName              string           `bson:"mentee_name"                        json:"menteeName"`
	MentorEmail             string           `bson:"mentor_email"                       json:"mentorEmail"`
	MenteeEmail             string           `bson:"mentee_email"                       json:"menteeEmail"`
	Day                     string           `bson:"day"                                json:"day"`
	StartTime               string           `bson:"start_time"                         json:"startTime"`
	EndTime                 string           `bson:"end_time"                           json:"endTime"`
	Status                  BookingStatus    `bson:"status"                             json:"status"`
	CreatedAt               time.Time        `bson:"created_at"                         json:"createdAt"`
	SessionDate             time.Time        `bson:"session_date"                       json:"sessionDate"`
	SlotID                  string           `bson:"slot_id,omitempty"                  json:"slotId,omitempty"`
	MeetLink                string           `bson:"meet_link,omitempty"                json:"meetLink,omitempty"`
	EventID                 string           `bson:"event_id,omitempty"                 json:"eventId,omitempty"`
	Origin                  BookingOrigin    `bson:"origin"                             json:"origin"`
	IsCalComBooking         bool             `bson:"is_calcom_booking"                  json:"isCalComBooking"`
	CalComBookingID         string           `bson:"calcom_booking_id,omitempty"        json:"calComBookingId,omitempty"`
	CalComEventType         *CalComEventType `bson:"calcom_event_type,omitempty"        json:"calComEventType,omitempty"`
	CalComAttendees         []CalComAttendee `bson:"calcom_attendees,omitempty"         json:"calComAttendees,omitempty"`
	FeedbackSubmittedMentor bool             `bson:"feedback_submitted_mentor"          json:"feedbackSubmittedMentor"`
	FeedbackSubmittedMentee bool             `bson:"feedback_submitted_mentee"          json:"feedbackSubmittedMentee"`
}

// IsParticipant reports whether uid is the mentor or the mentee of b.
func (b *Booking) IsParticipant(uid string) bool {
	return b.MentorID == uid || b.MenteeID == uid
}
