// Package apperror is the error taxonomy shared by every service.
//
// Services return *AppError values; auth.WriteError turns them into a status
// code and a `{"error": "..."}` body. Only Message reaches the client. Err is
// kept for the logs.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the kind of an AppError. It decides the HTTP status.
type ErrorType int

const (
	UnknownError ErrorType = iota
	DatabaseError
	ConfigError
	AuthError         // no or bad credentials
	UnauthorizedError // authenticated but not allowed
	NotFoundError
	ValidationError
	MissingFieldError // a ValidationError for an absent required field
	BadRequestError
	InternalError
	ExternalServiceError // AI, image store, places
	MigrationError
	ConflictError
	AggregationError // leaderboard and other derived views
)

var statusByType = map[ErrorType]int{
	AuthError:            http.StatusUnauthorized,
	UnauthorizedError:    http.StatusForbidden,
	NotFoundError:        http.StatusNotFound,
	ValidationError:      http.StatusBadRequest,
	MissingFieldError:    http.StatusBadRequest,
	BadRequestError:      http.StatusBadRequest,
	ExternalServiceError: http.StatusBadGateway,
	ConflictError:        http.StatusConflict,
}

// AppError carries a client-safe Message and the cause behind it.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	// Field is the JSON path of the offending request field, when known.
	Field string
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// StatusCode maps the error type onto an HTTP status. Anything not listed,
// store and aggregation faults included, is a 500.
func (e *AppError) StatusCode() int {
	if code, ok := statusByType[e.Type]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{Type: errType, Message: message, Err: cause}
}

func NewDatabaseError(message string, cause error) *AppError {
	return NewAppError(DatabaseError, message, cause)
}

func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ConfigError, message, cause)
}

func NewAuthError(message string, cause error) *AppError {
	return NewAppError(AuthError, message, cause)
}

func NewUnauthorizedError(message string, cause error) *AppError {
	return NewAppError(UnauthorizedError, message, cause)
}

func NewNotFoundError(message string, cause error) *AppError {
	return NewAppError(NotFoundError, message, cause)
}

func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ValidationError, message, cause)
}

// NewFieldValidationError is a ValidationError pointing at one request field.
func NewFieldValidationError(field, message string) *AppError {
	e := NewAppError(ValidationError, message, nil)
	e.Field = field
	return e
}

// NewMissingFieldError reports a required field that was not supplied.
func NewMissingFieldError(field string) *AppError {
	e := NewAppError(MissingFieldError, fmt.Sprintf("missing required field: %s", field), nil)
	e.Field = field
	return e
}

func NewBadRequestError(message string, cause error) *AppError {
	return NewAppError(BadRequestError, message, cause)
}

func NewInternalError(message string, cause error) *AppError {
	return NewAppError(InternalError, message, cause)
}

func NewExternalServiceError(message string, cause error) *AppError {
	return NewAppError(ExternalServiceError, message, cause)
}

func NewMigrationError(message string, cause error) *AppError {
	return NewAppError(MigrationError, message, cause)
}

func NewConflictError(message string, cause error) *AppError {
	return NewAppError(ConflictError, message, cause)
}

func NewAggregationError(message string, cause error) *AppError {
	return NewAppError(AggregationError, message, cause)
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error" example:"missing required field: alternative"`
	Field string `json:"field,omitempty" example:"alternative"`
}

// ToResponse drops the cause.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Field: e.Field}
}

// FromError returns the first *AppError in err's chain.
func FromError(err error) (*AppError, bool) {
	var ae *AppError
	if err == nil || !errors.As(err, &ae) {
		return nil, false
	}
	return ae, true
}

func hasType(err error, types ...ErrorType) bool {
	ae, ok := FromError(err)
	if !ok {
		return false
	}
	for _, t := range types {
		if ae.Type == t {
			return true
		}
	}
	return false
}

func IsNotFound(err error) bool             { return hasType(err, NotFoundError) }
func IsAuthError(err error) bool            { return hasType(err, AuthError) }
func IsUnauthorizedError(err error) bool    { return hasType(err, UnauthorizedError) }
func IsConflictError(err error) bool        { return hasType(err, ConflictError) }
func IsAggregationError(err error) bool     { return hasType(err, AggregationError) }
func IsExternalServiceError(err error) bool { return hasType(err, ExternalServiceError) }
func IsMissingField(err error) bool         { return hasType(err, MissingFieldError) }

// IsValidationError also holds for missing fields.
func IsValidationError(err error) bool {
	return hasType(err, ValidationError, MissingFieldError)
}
