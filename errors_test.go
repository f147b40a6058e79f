package signup_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-signup"
	"github.com/stretchr/testify/assert"
)

func TestIsTokenExpiredError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Structured token expired error",
			err:      signup.ErrTokenExpired,
			expected: true,
		},
		{
			name:     "Legacy token expired error (string match)",
			err:      errors.New("some wrapper: token is expired"),
			expected: true,
		},
		{
			name:     "Different structured error",
			err:      signup.ErrTokenMalformed,
			expected: false,
		},
		{
			name:     "Different legacy error",
			err:      errors.New("invalid token"),
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, signup.IsTokenExpiredError(tt.err))
		})
	}
}

func TestIsMalformedError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Structured malformed error",
			err:      signup.ErrTokenMalformed,
			expected: true,
		},
		{
			name:     "Legacy malformed error (string match)",
			err:      errors.New("token is malformed: could not base64 decode"),
			expected: true,
		},
		{
			name:     "Missing JWT error",
			err:      errors.New("missing or malformed JWT"),
			expected: true,
		},
		{
			name:     "Expired is not malformed",
			err:      signup.ErrTokenExpired,
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, signup.IsMalformedError(tt.err))
		})
	}
}

func TestIsConflictError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Identity conflict",
			err:      signup.ErrIdentityTaken,
			expected: true,
		},
		{
			name:     "Profile conflict",
			err:      signup.ErrProfileConflict,
			expected: true,
		},
		{
			name:     "Conflict with metadata attached",
			err:      signup.ErrIdentityTaken.WithMetadata(map[string]any{"email": "x@example.com"}),
			expected: true,
		},
		{
			name:     "Wrapped conflict",
			err:      goerrors.Wrap(signup.ErrProfileConflict, goerrors.CategoryConflict, "transaction failed"),
			expected: true,
		},
		{
			name:     "Non-conflict rich error",
			err:      signup.ErrTokenExpired,
			expected: false,
		},
		{
			name:     "Plain error",
			err:      errors.New("boom"),
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, signup.IsConflictError(tt.err))
		})
	}
}

func TestErrorTextCodes(t *testing.T) {
	assertTextCode(t, signup.ErrTokenExpired, "CLAIM_TOKEN_EXPIRED")
	assertTextCode(t, signup.ErrTokenMalformed, "CLAIM_TOKEN_MALFORMED")
	assertTextCode(t, signup.ErrMissingSigningKey, "MISSING_SIGNING_KEY")
	assertTextCode(t, signup.ErrIdentityTaken, "IDENTITY_TAKEN")
	assertTextCode(t, signup.ErrProfileConflict, "PROFILE_CONFLICT")
}
