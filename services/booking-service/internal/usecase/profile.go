package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/repository"
)

var ErrInvalidUserType = errors.New("type must be mentor or mentee")

// ProfileUsecase defines the business logic for mentor and mentee profiles.
type ProfileUsecase interface {
	// GetProfile returns the profile of uid.
	GetProfile(ctx context.Context, uid string) (*model.Profile, error)

	// UpsertMyProfile creates or replaces the caller's own profile.
	UpsertMyProfile(ctx context.Context, caller Caller, profile *model.Profile) (*model.Profile, error)
}

type profileUsecase struct {
	profileRepo repository.ProfileRepository
}

// NewProfileUsecase creates a new instance of ProfileUsecase.
func NewProfileUsecase(profileRepo repository.ProfileRepository) ProfileUsecase {
	return &profileUsecase{profileRepo: profileRepo}
}

func (u *profileUsecase) GetProfile(ctx context.Context, uid string) (*model.Profile, error) {
	profile, err := u.profileRepo.GetProfile(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return profile, nil
}

func (u *profileUsecase) UpsertMyProfile(
	ctx context.Context,
	caller Caller,
	profile *model.Profile,
) (*model.Profile, error) {
	if !profile.Type.Valid() {
		return nil, ErrInvalidUserType
	}

	profile.UID = caller.UserID
	if profile.Email == "" {
		profile.Email = caller.Email
	}
	if profile.Name == "" {
		profile.Name = caller.Name
	}

	return u.profileRepo.UpsertProfile(ctx, profile)
}
