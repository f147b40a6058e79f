package signup

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimSet is the decoded payload of a claim token. Email and Username are
// always present on issued tokens; ProfileUUID is set only on the token
// delivered out-of-band when the email maps to a pre-existing profile.
//
// An empty ProfileUUID means a new profile must be provisioned at
// finalization time, keyed on Email — never on identity supplied afresh by
// the finalize request.
type ClaimSet struct {
	Email       string
	Username    string
	ProfileUUID string
}

// HasProfile reports whether the claim set links to an existing profile.
func (c ClaimSet) HasProfile() bool {
	return c.ProfileUUID != ""
}

// ClaimTokenClaims is the JWT representation of a ClaimSet.
type ClaimTokenClaims struct {
	jwt.RegisteredClaims
	Email       string `json:"email,omitempty"`
	Username    string `json:"username,omitempty"`
	ProfileUUID string `json:"profile_uuid,omitempty"`
}

// ClaimSet extracts the domain claims from the token payload.
func (c *ClaimTokenClaims) ClaimSet() ClaimSet {
	return ClaimSet{
		Email:       c.Email,
		Username:    c.Username,
		ProfileUUID: c.ProfileUUID,
	}
}

// Expires returns the embedded absolute expiry, zero when unset.
func (c *ClaimTokenClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IssuedTime returns the issuance timestamp, zero when unset.
func (c *ClaimTokenClaims) IssuedTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}
