package model

import "time"

// UserType is the role a profile plays in matching and booking.
type UserType string

const (
	UserTypeMentor UserType = "mentor"
	UserTypeMentee UserType = "mentee"
)

// Valid reports whether t is a known role.
func (t UserType) Valid() bool {
	return t == UserTypeMentor || t == UserTypeMentee
}

// Opposite returns the role a user of type t is matched against.
func (t UserType) Opposite() UserType {
	if t == UserTypeMentor {
		return UserTypeMentee
	}
	return UserTypeMentor
}

// Profile represents the mentor or mentee profile of a user, keyed by uid.
type Profile struct {
	UID               string    `bson:"_id"                json:"uid"`
	Name              string    `bson:"name"               json:"name"`
	Email             string    `bson:"email"              json:"email"`
	Phone             string    `bson:"phone"              json:"phone"`
	Age               string    `bson:"age"                json:"age"`
	Degree            string    `bson:"degree"             json:"degree"`
	EducationLevel    string    `bson:"education_level"    json:"educationLevel"`
	Country           string    `bson:"country"            json:"country"`
	CurrentProfession string    `bson:"current_profession" json:"currentProfession"`
	PastProfessions   []string  `bson:"past_professions"   json:"pastProfessions"`
	LinkedIn          string    `bson:"linkedin"           json:"linkedin"`
	Hobbies           []string  `bson:"hobbies"            json:"hobbies"`
	Ethnicity         string    `bson:"ethnicity"          json:"ethnicity"`
	Religion          string    `bson:"religion"           json:"religion"`
	Skills            []string  `bson:"skills"             json:"skills"`
	LookingFor        []string  `bson:"looking_for"        json:"lookingFor"`
	Type              UserType  `bson:"type"               json:"type"`
	CreatedAt         time.Time `bson:"created_at"         json:"createdAt"`
	UpdatedAt         time.Time `bson:"updated_at"         json:"updatedAt"`
}
