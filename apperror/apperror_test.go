package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", NewValidationError("bad", nil), http.StatusBadRequest},
		{"missing field", NewMissingFieldError("alternative"), http.StatusBadRequest},
		{"not found", NewNotFoundError("gone", nil), http.StatusNotFound},
		{"aggregation", NewAggregationError("boom", nil), http.StatusInternalServerError},
		{"database", NewDatabaseError("boom", nil), http.StatusInternalServerError},
		{"auth", NewAuthError("who", nil), http.StatusUnauthorized},
		{"forbidden", NewUnauthorizedError("no", nil), http.StatusForbidden},
		{"conflict", NewConflictError("dup", nil), http.StatusConflict},
		{"upstream", NewExternalServiceError("ai down", nil), http.StatusBadGateway},
		{"unknown", NewAppError(UnknownError, "?", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.StatusCode(); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMissingFieldIsValidationError(t *testing.T) {
	err := NewMissingFieldError("userId")

	if !IsValidationError(err) {
		t.Fatalf("missing field error should count as a validation error")
	}
	if !IsMissingField(err) {
		t.Fatalf("IsMissingField() = false, want true")
	}
	if err.Field != "userId" {
		t.Errorf("Field = %q, want %q", err.Field, "userId")
	}
	if IsMissingField(NewValidationError("bad number", nil)) {
		t.Errorf("plain validation error reported as missing field")
	}
}

func TestToResponseHidesCause(t *testing.T) {
	cause := errors.New("pq: relation \"purchases\" does not exist")
	err := NewDatabaseError("failed to load purchase history", cause)

	resp := err.ToResponse()
	if resp.Error != "failed to load purchase history" {
		t.Errorf("ToResponse().Error = %q", resp.Error)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Unwrap chain lost the cause")
	}
}

func TestFromErrorFollowsWrapping(t *testing.T) {
	inner := NewAggregationError("leaderboard unavailable", nil)
	wrapped := fmt.Errorf("handler: %w", inner)

	got, ok := FromError(wrapped)
	if !ok {
		t.Fatalf("FromError() did not find wrapped AppError")
	}
	if got != inner {
		t.Errorf("FromError() returned a different error")
	}
	if !IsAggregationError(wrapped) {
		t.Errorf("IsAggregationError(wrapped) = false")
	}

	if _, ok := FromError(errors.New("plain")); ok {
		t.Errorf("FromError() matched a plain error")
	}
	if _, ok := FromError(nil); ok {
		t.Errorf("FromError(nil) reported ok")
	}
}
