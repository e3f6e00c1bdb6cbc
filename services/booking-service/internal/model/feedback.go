package model

import "time"

// FeedbackType is the role of the user giving feedback.
type FeedbackType string

const (
	FeedbackTypeMentor FeedbackType = "mentor"
	FeedbackTypeMentee FeedbackType = "mentee"
)

type FeedbackQuestion struct {
	QuestionID   string `bson:"question_id"   json:"questionId"`
	Question     string `bson:"question"      json:"question"`
	Response     string `bson:"response"      json:"response"`
	Notes        string `bson:"notes"         json:"notes"`
	QuestionType string `bson:"question_type" json:"questionType"`
}

// Feedback is submitted once per participant after a session.
type Feedback struct {
	ID             string             `bson:"_id"              json:"id"`
	BookingID      string             `bson:"booking_id"       json:"bookingId"`
	GiverUserID    string             `bson:"giver_user_id"    json:"giverUserId"`
	ReceiverUserID string             `bson:"receiver_user_id" json:"receiverUserId"`
	FeedbackType   FeedbackType       `bson:"feedback_type"    json:"feedbackType"`
	Questions      []FeedbackQuestion `bson:"questions"        json:"questions"`
	SubmittedAt    time.Time          `bson:"submitted_at"     json:"submittedAt"`
}
