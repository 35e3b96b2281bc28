package users

import "time"

// UserProfileResponse is the authenticated user's own profile.
type UserProfileResponse struct {
	ID        string    `json:"id" example:"3f1c2a9e-7b8d-4c55-9a0e-2d4b6f8e1a37"`
	Username  string    `json:"username" example:"ada@example.com"`
	FirstName string    `json:"firstName" example:"Ada"`
	LastName  string    `json:"lastName" example:"Lovelace"`
	CreatedAt time.Time `json:"createdAt" example:"2025-01-15T10:30:00Z"`
}

// UpdateUserProfileRequest is a partial update; nil fields are left alone.
type UpdateUserProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=50" example:"Ada"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=50" example:"King"`
}

// DirectoryEntry is the public part of a user, as listed on the leaderboard.
type DirectoryEntry struct {
	ID        string `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
}
