package payload

import "github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"

type TimeSlotRequest struct {
	ID          string `json:"id"`
	Day         string `json:"day"         validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime   string `json:"startTime"   validate:"required,datetime=15:04"`
	EndTime     string `json:"endTime"     validate:"required,datetime=15:04"`
	IsAvailable *bool  `json:"isAvailable"`
}

type SetAvailabilityRequest struct {
	TimeSlots []TimeSlotRequest `json:"timeSlots" validate:"max=200,dive"`
}

// ToModel converts the request slots. Slots default to available.
func (r *SetAvailabilityRequest) ToModel() []model.TimeSlot {
	slots := make([]model.TimeSlot, 0, len(r.TimeSlots))
	for _, s := range r.TimeSlots {
		available := true
		if s.IsAvailable != nil {
			available = *s.IsAvailable
		}
		slots = append(slots, model.TimeSlot{
			ID:          s.ID,
			Day:         s.Day,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			IsAvailable: available,
		})
	}
	return slots
}

type AvailabilityResponse struct {
	Success      bool                      `json:"success"`
	Availability *model.MentorAvailability `json:"availability"`
}
