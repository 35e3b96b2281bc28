package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

var (
	errUserNotFound  = errors.New("user not found")
	errUsernameTaken = errors.New("username already taken")
)

// userRepository is the storage the AuthService needs. Implementations return
// errUserNotFound and errUsernameTaken for those two conditions and raw errors
// for everything else.
type userRepository interface {
	Create(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

type pgUserRepository struct {
	db *pgxpool.Pool
}

func (r *pgUserRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, username, first_name, last_name, password)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING created_at`
	err := r.db.QueryRow(ctx, query, user.ID, user.Username, user.FirstName, user.LastName, user.HashedPassword).
		Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return errUsernameTaken
		}
		return err
	}
	return nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT id, username, first_name, last_name, password, created_at FROM users WHERE username = $1`
	return r.scanOne(ctx, query, username)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT id, username, first_name, last_name, password, created_at FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *pgUserRepository) scanOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := r.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.HashedPassword, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
