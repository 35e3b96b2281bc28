package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/db/dbtest"
)

func TestPostgresUserRepository(t *testing.T) {
	pool := dbtest.Open(t)
	ctx := context.Background()
	repo := &pgUserRepository{db: pool}

	u := &User{ID: "u1", Username: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", HashedPassword: "hash"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.CreatedAt.IsZero() {
		t.Errorf("Create did not fill CreatedAt")
	}

	dup := &User{ID: "u2", Username: "ada@example.com", FirstName: "A", LastName: "L", HashedPassword: "hash"}
	if err := repo.Create(ctx, dup); !errors.Is(err, errUsernameTaken) {
		t.Errorf("duplicate Create error = %v, want errUsernameTaken", err)
	}

	byName, err := repo.FindByUsername(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("FindByUsername failed: %v", err)
	}
	byID, err := repo.FindByID(ctx, "u1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if byName.ID != "u1" || byID.Username != "ada@example.com" || byID.HashedPassword != "hash" {
		t.Errorf("lookups = %+v / %+v", byName, byID)
	}

	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, errUserNotFound) {
		t.Errorf("FindByUsername(nobody) error = %v, want errUserNotFound", err)
	}
	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, errUserNotFound) {
		t.Errorf("FindByID(missing) error = %v, want errUserNotFound", err)
	}
}

func TestPostgresSignupAndSignin(t *testing.T) {
	pool := dbtest.Open(t)
	ctx := context.Background()
	s := NewAuthService(pool, testAuthConfig)
	s.hashCost = bcrypt.MinCost

	created, err := s.Signup(ctx, validSignup())
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if _, err := s.Signup(ctx, validSignup()); !apperror.IsConflictError(err) {
		t.Errorf("second Signup error = %v, want conflict", err)
	}

	signedIn, err := s.Signin(ctx, SigninRequest{Username: "ADA@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Signin failed: %v", err)
	}
	if signedIn.User.ID != created.User.ID {
		t.Errorf("Signin user = %s, want %s", signedIn.User.ID, created.User.ID)
	}
	if _, err := s.Signin(ctx, SigninRequest{Username: "ada@example.com", Password: "wrong-horse"}); !apperror.IsAuthError(err) {
		t.Errorf("wrong password error = %v, want auth error", err)
	}
}
