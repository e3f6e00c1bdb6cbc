package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/repository"
)

// Score weights of the match scorer.
const (
	skillWeight          = 10
	educationLevelWeight = 3
	countryWeight        = 2
	hobbyWeight          = 1
	professionWeight     = 1
)

var ErrProfileNotFound = errors.New("profile not found")

// MatchResult is one scored candidate.
type MatchResult struct {
	User       model.Profile `json:"user"`
	Score      int           `json:"score"`
	Percentage int           `json:"percentage"`
	Reasons    []string      `json:"reasons"`
}

// MatchingUsecase defines the business logic for mentor and mentee matching.
type MatchingUsecase interface {
	// GetBestMatchesForUser scores every profile of the opposite role against
	// the user and returns them by descending score.
	GetBestMatchesForUser(ctx context.Context, uid string) ([]MatchResult, error)
}

type matchingUsecase struct {
	profileRepo repository.ProfileRepository
}

// NewMatchingUsecase creates a new instance of MatchingUsecase.
func NewMatchingUsecase(profileRepo repository.ProfileRepository) MatchingUsecase {
	return &matchingUsecase{profileRepo: profileRepo}
}

func (u *matchingUsecase) GetBestMatchesForUser(ctx context.Context, uid string) ([]MatchResult, error) {
	user, err := u.profileRepo.GetProfile(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	candidates, err := u.profileRepo.ListProfilesByType(ctx, user.Type.Opposite())
	if err != nil {
		return nil, err
	}

	best := maxScore(user)
	results := make([]MatchResult, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]
		if candidate.UID == user.UID || candidate.Type == user.Type {
			continue
		}

		score, reasons := ScoreCandidate(user, candidate)
		results = append(results, MatchResult{
			User:       *candidate,
			Score:      score,
			Percentage: percentage(score, best),
			Reasons:    reasons,
		})
	}

	slices.SortStableFunc(results, func(a, b MatchResult) int {
		return b.Score - a.Score
	})

	return results, nil
}

// ScoreCandidate computes the additive match score of candidate for user and
// the reasons that contributed to it.
func ScoreCandidate(user, candidate *model.Profile) (int, []string) {
	score := 0
	reasons := []string{}

	if n := countShared(wantedSkills(user), offeredSkills(candidate, user.Type)); n > 0 {
		score += n * skillWeight
		reasons = append(reasons, fmt.Sprintf("%d skill(s) matched", n))
	}

	if sameNonEmpty(user.EducationLevel, candidate.EducationLevel) {
		score += educationLevelWeight
		reasons = append(reasons, "Same education level")
	}

	if sameNonEmpty(user.Country, candidate.Country) {
		score += countryWeight
		reasons = append(reasons, "Same country")
	}

	if n := countShared(user.Hobbies, candidate.Hobbies); n > 0 {
		score += n * hobbyWeight
		reasons = append(reasons, fmt.Sprintf("%d hobby/interests matched", n))
	}

	if sameNonEmpty(user.CurrentProfession, candidate.CurrentProfession) {
		score += professionWeight
		reasons = append(reasons, "Same profession")
	}

	return score, reasons
}

// wantedSkills is the side of the skill overlap the user brings: what a mentor
// offers or what a mentee is looking for.
func wantedSkills(user *model.Profile) []string {
	if user.Type == model.UserTypeMentor {
		return user.Skills
	}
	return user.LookingFor
}

func offeredSkills(candidate *model.Profile, userType model.UserType) []string {
	if userType == model.UserTypeMentor {
		return candidate.LookingFor
	}
	return candidate.Skills
}

// countShared counts the elements of a that also appear in b. Duplicates in a
// are counted each time.
func countShared(a, b []string) int {
	n := 0
	for _, x := range a {
		if slices.Contains(b, x) {
			n++
		}
	}
	return n
}

func sameNonEmpty(a, b string) bool {
	return a != "" && a == b
}

func maxScore(user *model.Profile) int {
	return len(wantedSkills(user))*skillWeight +
		educationLevelWeight +
		countryWeight +
		len(user.Hobbies)*hobbyWeight +
		professionWeight
}

func percentage(score, best int) int {
	if best <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(best)))
}
