// Package users serves profile reads and updates, and the public user
// directory the leaderboard ranks.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/unicode/norm"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/validation"
)

// UserService provides methods for user profile management.
type UserService struct {
	db       *pgxpool.Pool
	validate *validator.Validate
}

// NewUserService creates a new UserService.
func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db, validate: validation.New()}
}

// GetUserProfile retrieves a user's profile by their ID.
func (s *UserService) GetUserProfile(ctx context.Context, userID string) (*UserProfileResponse, error) {
	query := `
		SELECT id, username, first_name, last_name, created_at
		FROM users
		WHERE id = $1
	`
	var p UserProfileResponse
	err := s.db.QueryRow(ctx, query, userID).Scan(&p.ID, &p.Username, &p.FirstName, &p.LastName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %s not found", userID), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user profile", err)
	}
	return &p, nil
}

// UpdateUserProfile changes the supplied name fields and returns the new profile.
func (s *UserService) UpdateUserProfile(ctx context.Context, userID string, req *UpdateUserProfileRequest) (*UserProfileResponse, error) {
	if req.FirstName == nil && req.LastName == nil {
		return nil, apperror.NewValidationError("no fields provided for update", nil)
	}
	trim := func(p *string) {
		if p != nil {
			*p = norm.NFC.String(strings.TrimSpace(*p))
		}
	}
	trim(req.FirstName)
	trim(req.LastName)
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}

	// COALESCE keeps the current value for a field that was not sent.
	query := `
		UPDATE users
		SET first_name = COALESCE($1, first_name),
		    last_name  = COALESCE($2, last_name),
		    updated_at = now()
		WHERE id = $3
		RETURNING id, username, first_name, last_name, created_at
	`
	var p UserProfileResponse
	err := s.db.QueryRow(ctx, query, req.FirstName, req.LastName, userID).
		Scan(&p.ID, &p.Username, &p.FirstName, &p.LastName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %s not found", userID), nil)
		}
		return nil, apperror.NewDatabaseError("failed to update user profile", err)
	}
	return &p, nil
}

// ListDirectory returns every registered user, ordered by id.
func (s *UserService) ListDirectory(ctx context.Context) ([]DirectoryEntry, error) {
	rows, err := s.db.Query(ctx, `SELECT id, username, first_name, last_name FROM users ORDER BY id`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list users", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[DirectoryEntry])
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to read users", err)
	}
	return entries, nil
}
