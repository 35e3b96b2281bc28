package users

import (
	"context"
	"reflect"
	"testing"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/db/dbtest"
)

func TestPostgresListDirectory(t *testing.T) {
	pool := dbtest.Open(t)
	ctx := context.Background()
	svc := NewUserService(pool)

	empty, err := svc.ListDirectory(ctx)
	if err != nil {
		t.Fatalf("ListDirectory failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("empty directory = %#v, want empty non-nil slice", empty)
	}

	dbtest.InsertUser(t, pool, "u2", "bob")
	dbtest.InsertUser(t, pool, "u1", "alice")

	got, err := svc.ListDirectory(ctx)
	if err != nil {
		t.Fatalf("ListDirectory failed: %v", err)
	}
	want := []DirectoryEntry{
		{ID: "u1", Username: "alice", FirstName: "Fu1", LastName: "Lu1"},
		{ID: "u2", Username: "bob", FirstName: "Fu2", LastName: "Lu2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("directory = %+v, want %+v", got, want)
	}
}

func TestPostgresProfile(t *testing.T) {
	pool := dbtest.Open(t)
	ctx := context.Background()
	svc := NewUserService(pool)
	dbtest.InsertUser(t, pool, "u1", "alice")

	name := "Alicia"
	updated, err := svc.UpdateUserProfile(ctx, "u1", &UpdateUserProfileRequest{FirstName: &name})
	if err != nil {
		t.Fatalf("UpdateUserProfile failed: %v", err)
	}
	if updated.FirstName != "Alicia" || updated.LastName != "Lu1" {
		t.Errorf("updated = %+v", updated)
	}

	got, err := svc.GetUserProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUserProfile failed: %v", err)
	}
	if got.FirstName != "Alicia" || got.Username != "alice" {
		t.Errorf("profile = %+v", got)
	}

	if _, err := svc.GetUserProfile(ctx, "missing"); !apperror.IsNotFound(err) {
		t.Errorf("missing user error = %v, want not found", err)
	}
}
