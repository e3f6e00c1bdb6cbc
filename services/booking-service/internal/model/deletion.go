package model

import "time"

// DeletionBatch keeps snapshots of bulk-deleted bookings until the undo window closes.
type DeletionBatch struct {
	ID        string    `bson:"_id"        json:"batchId"`
	UserID    string    `bson:"user_id"    json:"userId"`
	Bookings  []Booking `bson:"bookings"   json:"bookings"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	ExpiresAt time.Time `bson:"expires_at" json:"undoExpiresAt"`
}

// DismissedBooking hides a Cal.com booking from one user's list.
type DismissedBooking struct {
	UserID      string    `bson:"user_id"      json:"userId"`
	BookingID   string    `bson:"booking_id"   json:"bookingId"`
	DismissedAt time.Time `bson:"dismissed_at" json:"dismissedAt"`
}
