package signup

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeTokenExpired      = "CLAIM_TOKEN_EXPIRED"
	TextCodeTokenMalformed    = "CLAIM_TOKEN_MALFORMED"
	TextCodeMissingSigningKey = "MISSING_SIGNING_KEY"
	TextCodeIdentityTaken     = "IDENTITY_TAKEN"
	TextCodeProfileConflict   = "PROFILE_CONFLICT"
	TextCodeAccountConflict   = "ACCOUNT_CONFLICT"
	TextCodeSignupDisabled    = "SIGNUP_DISABLED"
)

// ErrSignupDisabled is returned when the registration feature gate denies the
// request.
var ErrSignupDisabled = errors.New("signup is currently disabled", errors.CategoryAuthz).
	WithTextCode(TextCodeSignupDisabled).
	WithCode(errors.CodeForbidden)

// ErrTokenExpired is returned when a claim token's embedded expiry has passed.
var ErrTokenExpired = errors.New("claim token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a claim token fails signature or
// structural verification.
var ErrTokenMalformed = errors.New("claim token malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrMissingSigningKey is returned at construction time when no signing
// secret was configured. Fatal: the process must not serve requests.
var ErrMissingSigningKey = errors.New("signing key is required", errors.CategoryInternal).
	WithTextCode(TextCodeMissingSigningKey).
	WithCode(errors.CodeInternal)

// ErrIdentityTaken is returned when the email/username pair lost the race
// between the availability check and account creation.
var ErrIdentityTaken = errors.New("email or username already claimed", errors.CategoryConflict).
	WithTextCode(TextCodeIdentityTaken).
	WithCode(errors.CodeConflict)

// ErrProfileConflict is returned when profile provisioning hits the store's
// unique email constraint.
var ErrProfileConflict = errors.New("profile already exists for email", errors.CategoryConflict).
	WithTextCode(TextCodeProfileConflict).
	WithCode(errors.CodeConflict)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsConflictError reports whether err carries a conflict category, which the
// persistence layer uses to signal a uniqueness violation at write time.
func IsConflictError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.Category == errors.CategoryConflict
	}

	return false
}
