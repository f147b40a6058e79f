package signup

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds registration options
type Config interface {
	GetSigningKey() string
	GetClaimTokenDuration() int
	GetAuthTokenDuration() int
	GetIssuer() string
	GetAudience() []string
}

// TokenCodec encodes and decodes signed, expiring claim tokens. Both
// operations are pure: no state is kept between calls, and decoding the same
// token twice yields the same claim set.
type TokenCodec interface {
	CreateToken(durationSeconds int, claims ClaimSet) (string, error)
	Decode(token string) (ClaimSet, error)
}

// AvailabilityChecker answers whether a proposed identity is free. Each call
// is a direct existence query; callers must tolerate a race between check
// and eventual account creation.
type AvailabilityChecker interface {
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
}

// ProfileLinker resolves an email to an existing profile identity or
// provisions a new one.
type ProfileLinker interface {
	FindProfileUUIDByEmail(ctx context.Context, email string) (string, bool, error)
	CreateNewProfile(ctx context.Context, email string) (string, error)
}

// Mailer delivers the out-of-band profile-linking token. Delivery failure
// handling belongs to the implementation; handlers treat dispatch as
// fire-and-forget.
type Mailer interface {
	SendAccountClaimTokenEmail(ctx context.Context, email, token string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SIGNUP "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SIGNUP "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SIGNUP "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SIGNUP "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
