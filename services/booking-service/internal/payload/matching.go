package payload

import "github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/usecase"

type MatchesResponse struct {
	Success bool                  `json:"success"`
	Matches []usecase.MatchResult `json:"matches"`
}

type WeekViewResponse struct {
	Success bool `json:"success"`
	*usecase.WeekView
}
