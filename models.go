package signup

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountStatus is the account's lifecycle status
type AccountStatus = string

const (
	// AccountStatusPending marks an account between creation and activation
	AccountStatusPending AccountStatus = "pending"
	// AccountStatusActive marks a finalized, usable account
	AccountStatusActive AccountStatus = "active"
	// AccountStatusDisabled marks an administratively disabled account
	AccountStatusDisabled AccountStatus = "disabled"
)

// Profile is a durable identity record addressed by UUID, independent of any
// single account credential. One profile may eventually be linked to an
// account.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:prf"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Account is the account model. The (email, username) pair is unique across
// accounts; ProfileUUID always refers to an existing Profile.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string        `bun:"email,notnull,unique" json:"email,omitempty"`
	Username      string        `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string        `bun:"password_hash,notnull" json:"password_hash,omitempty"`
	ProfileUUID   uuid.UUID     `bun:"profile_uuid,notnull,type:uuid" json:"profile_uuid,omitempty"`
	Profile       *Profile      `bun:"rel:has-one,join:profile_uuid=id" json:"profile,omitempty"`
	Phone         string        `bun:"phone_number" json:"phone_number,omitempty"`
	Status        AccountStatus `bun:"status,notnull" json:"status,omitempty"`
	CreatedAt     *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time    `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureStatus backfills the zero value with the pending status.
func (a *Account) EnsureStatus() {
	if a.Status == "" {
		a.Status = AccountStatusPending
	}
}

// IsPending reports whether the account awaits finalization.
func (a *Account) IsPending() bool { return a.Status == AccountStatusPending }

// IsActive reports whether the account is usable.
func (a *Account) IsActive() bool { return a.Status == AccountStatusActive }

// IsDisabled reports whether the account was administratively disabled.
func (a *Account) IsDisabled() bool { return a.Status == AccountStatusDisabled }

// RegistrationStep names a stage within one of the two registration phases.
type RegistrationStep = string

const (
	// StepValidatingInput is phase one's entry stage
	StepValidatingInput RegistrationStep = "validating-input"
	// StepCheckingAvailability queries email/username existence
	StepCheckingAvailability RegistrationStep = "checking-availability"
	// StepIssuingToken mints the caller's claim token
	StepIssuingToken RegistrationStep = "issuing-token"
	// StepDispatchingConfirmation delivers the profile-linking token by email
	StepDispatchingConfirmation RegistrationStep = "dispatching-confirmation"

	// StepValidatingClaimToken is phase two's entry stage
	StepValidatingClaimToken RegistrationStep = "validating-claim-token"
	// StepValidatingCredential checks the submitted password against policy
	StepValidatingCredential RegistrationStep = "validating-credential"
	// StepResolvingProfile resolves or provisions the profile identity
	StepResolvingProfile RegistrationStep = "resolving-profile"
	// StepCreatingAccount persists the account record
	StepCreatingAccount RegistrationStep = "creating-account"

	// StepDone is the terminal success stage of either phase
	StepDone RegistrationStep = "done"
	// StepRejected is the terminal failure stage of either phase
	StepRejected RegistrationStep = "rejected"
)
