package usecase

// Caller identifies the authenticated user a usecase acts for.
type Caller struct {
	UserID string
	Email  string
	Name   string
}
