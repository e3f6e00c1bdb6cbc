package model

import "time"

// TimeSlot is a recurring weekly slot. Day is an English weekday name and the
// times are "HH:MM" in the platform time zone.
type TimeSlot struct {
	ID          string `bson:"id"           json:"id"`
	Day         string `bson:"day"          json:"day"`
	StartTime   string `bson:"start_time"   json:"startTime"`
	EndTime     string `bson:"end_time"     json:"endTime"`
	IsAvailable bool   `bson:"is_available" json:"isAvailable"`
}

// MentorAvailability holds all slots of one mentor.
type MentorAvailability struct {
	MentorID    string     `bson:"_id"          json:"mentorId"`
	TimeSlots   []TimeSlot `bson:"time_slots"   json:"timeSlots"`
	LastUpdated time.Time  `bson:"last_updated" json:"lastUpdated"`
}

// FindSlot returns the slot with the given id.
func (a *MentorAvailability) FindSlot(id string) (TimeSlot, bool) {
	for _, slot := range a.TimeSlots {
		if slot.ID == id {
			return slot, true
		}
	}
	return TimeSlot{}, false
}
