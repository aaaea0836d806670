package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error returns formatted string", func(t *testing.T) {
		err := New(ErrCodeNotFound, "Post not found")
		assert.Equal(t, "NOT_FOUND: Post not found", err.Error())
	})

	t.Run("Error with cause includes cause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := Wrap(ErrCodeDatabase, "Database error", cause)
		assert.Contains(t, err.Error(), "DATABASE_ERROR")
		assert.Contains(t, err.Error(), "Database error")
		assert.Contains(t, err.Error(), "database connection failed")
	})

	t.Run("WithCause adds cause to error", func(t *testing.T) {
		cause := errors.New("original error")
		err := New(ErrCodeInternal, "Something went wrong").WithCause(cause)
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("WithDetails adds details to error", func(t *testing.T) {
		details := map[string]string{"field": "rating", "reason": "out of range"}
		err := New(ErrCodeValidation, "Validation failed").WithDetails(details)
		assert.Equal(t, details, err.Details)
	})
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		constructor  func() *AppError
		expectedCode ErrorCode
	}{
		{"InvalidCredentials", func() *AppError { return InvalidCredentials() }, ErrCodeInvalidCredentials},
		{"Unauthorized", func() *AppError { return Unauthorized("test") }, ErrCodeUnauthorized},
		{"NotFound", func() *AppError { return NotFound("Post") }, ErrCodeNotFound},
		{"AlreadyExists", func() *AppError { return AlreadyExists("Slug") }, ErrCodeAlreadyExists},
		{"ValidationError", func() *AppError { return ValidationError("test") }, ErrCodeValidation},
		{"InvalidInput", func() *AppError { return InvalidInput("rating", "must be 1-5") }, ErrCodeInvalidInput},
		{"MissingRequired", func() *AppError { return MissingRequired("title") }, ErrCodeMissingRequired},
		{"PayloadTooLarge", func() *AppError { return PayloadTooLarge(10) }, ErrCodePayloadTooLarge},
		{"UnsupportedMediaType", func() *AppError { return UnsupportedMediaType("x/y") }, ErrCodeUnsupportedMedia},
		{"RateLimitExceeded", func() *AppError { return RateLimitExceeded() }, ErrCodeRateLimitExceeded},
		{"Internal", func() *AppError { return Internal("test") }, ErrCodeInternal},
		{"Unavailable", func() *AppError { return Unavailable("Contact form") }, ErrCodeUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.constructor()
			assert.Equal(t, tc.expectedCode, err.Code)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestInvalidCredentialsMessage(t *testing.T) {
	assert.Equal(t, "Invalid email or password", InvalidCredentials().Message)
}

func TestInvalidInputDetails(t *testing.T) {
	err := InvalidInput("rating", "must be between 1 and 5")
	assert.Equal(t, map[string]string{"field": "rating", "reason": "must be between 1 and 5"}, err.Details)
}

func TestDatabase(t *testing.T) {
	t.Run("wraps database error", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Database(cause)
		assert.Equal(t, ErrCodeDatabase, err.Code)
		assert.Equal(t, cause, err.Unwrap())
	})
}

func TestExternal(t *testing.T) {
	t.Run("wraps external service error", func(t *testing.T) {
		cause := errors.New("timeout")
		err := External("resend", cause)
		assert.Equal(t, ErrCodeExternal, err.Code)
		assert.Contains(t, err.Message, "resend")
	})
}

func TestHelpers(t *testing.T) {
	t.Run("AsAppError finds wrapped AppError", func(t *testing.T) {
		wrapped := fmt.Errorf("context: %w", NotFound("Review"))
		appErr, ok := AsAppError(wrapped)
		assert.True(t, ok)
		assert.Equal(t, ErrCodeNotFound, appErr.Code)
	})

	t.Run("GetCode defaults to internal", func(t *testing.T) {
		assert.Equal(t, ErrCodeInternal, GetCode(errors.New("plain")))
		assert.Equal(t, ErrCodeUnauthorized, GetCode(Unauthorized("x")))
	})

	t.Run("Is matches code", func(t *testing.T) {
		assert.True(t, Is(NotFound("Media"), ErrCodeNotFound))
		assert.False(t, Is(NotFound("Media"), ErrCodeUnauthorized))
		assert.False(t, Is(errors.New("plain"), ErrCodeNotFound))
		assert.False(t, IsAppError(errors.New("plain")))
	})
}
