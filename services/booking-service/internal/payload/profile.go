package payload

import "github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"

type UpsertProfileRequest struct {
	Name              string   `json:"name"              validate:"required,max=200"`
	Email             string   `json:"email"             validate:"omitempty,email"`
	Phone             string   `json:"phone"             validate:"max=50"`
	Age               string   `json:"age"               validate:"max=10"`
	Degree            string   `json:"degree"            validate:"max=200"`
	EducationLevel    string   `json:"educationLevel"    validate:"max=100"`
	Country           string   `json:"country"           validate:"max=100"`
	CurrentProfession string   `json:"currentProfession" validate:"max=200"`
	PastProfessions   []string `json:"pastProfessions"   validate:"max=50"`
	LinkedIn          string   `json:"linkedin"          validate:"omitempty,url"`
	Hobbies           []string `json:"hobbies"           validate:"max=50"`
	Ethnicity         string   `json:"ethnicity"         validate:"max=100"`
	Religion          string   `json:"religion"          validate:"max=100"`
	Skills            []string `json:"skills"            validate:"max=100"`
	LookingFor        []string `json:"lookingFor"        validate:"max=100"`
	Type              string   `json:"type"              validate:"required,oneof=mentor mentee"`
}

func (r *UpsertProfileRequest) ToModel() *model.Profile {
	return &model.Profile{
		Name:              r.Name,
		Email:             r.Email,
		Phone:             r.Phone,
		Age:               r.Age,
		Degree:            r.Degree,
		EducationLevel:    r.EducationLevel,
		Country:           r.Country,
		CurrentProfession: r.CurrentProfession,
		PastProfessions:   r.PastProfessions,
		LinkedIn:          r.LinkedIn,
		Hobbies:           r.Hobbies,
		Ethnicity:         r.Ethnicity,
		Religion:          r.Religion,
		Skills:            r.Skills,
		LookingFor:        r.LookingFor,
		Type:              model.UserType(r.Type),
	}
}

type ProfileResponse struct {
	Success bool           `json:"success"`
	Profile *model.Profile `json:"profile"`
}
