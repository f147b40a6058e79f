package signup

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

type FinalizeRegistrationMessage struct {
	ClaimToken string `json:"claimToken" doc:"Claim token issued during initialization."`
	Email      string `json:"email" doc:"Echoed email; the token's copy is authoritative."`
	Password   string `json:"password" doc:"New account credential."`
	Phone      string `json:"phone_number,omitempty" doc:"Optional contact number."`
	OnResponse func(resp *FinalizeRegistrationResponse)
}

func (m FinalizeRegistrationMessage) Type() string { return "registration.finalize" }

// HasValidPassword enforces the credential policy: required, 10 to 100
// characters.
func (m FinalizeRegistrationMessage) HasValidPassword() bool {
	return validation.Validate(m.Password, validation.Required, validation.Length(10, 100)) == nil
}

// HasValidPhone accepts an absent phone; present values must parse as an
// international number.
func (m FinalizeRegistrationMessage) HasValidPhone() bool {
	if m.Phone == "" {
		return true
	}
	num, err := phonenumbers.Parse(m.Phone, "")
	return err == nil && phonenumbers.IsValidNumber(num)
}

// FinalizeRegistrationResponse reports every failed precondition together.
// AuthToken is nil unless the account was created.
type FinalizeRegistrationResponse struct {
	ClaimTokenInvalid bool
	PasswordInvalid   bool
	PhoneInvalid      bool
	AuthToken         *string
	Account           *Account
	Step              RegistrationStep
}

// Success reports whether phase two created the account.
func (r *FinalizeRegistrationResponse) Success() bool {
	return r.Step == StepDone
}

type FinalizeRegistrationHandler struct {
	repo        RepositoryManager
	codec       TokenCodec
	minter      AuthTokenMinter
	config      Config
	machine     RegistrationStateMachine
	logger      Logger
	featureGate gate.FeatureGate
}

// NewFinalizeRegistrationHandler creates a handler with sane defaults. The
// codec doubles as the auth token minter when it implements AuthTokenMinter.
func NewFinalizeRegistrationHandler(repo RepositoryManager, codec TokenCodec, cfg Config) *FinalizeRegistrationHandler {
	h := &FinalizeRegistrationHandler{
		repo:    repo,
		codec:   codec,
		config:  cfg,
		machine: NewRegistrationStateMachine(),
		logger:  defLogger{},
	}

	if minter, ok := codec.(AuthTokenMinter); ok {
		h.minter = minter
	}

	return h
}

// WithAuthTokenMinter overrides how session tokens are issued on success.
func (h *FinalizeRegistrationHandler) WithAuthTokenMinter(m AuthTokenMinter) *FinalizeRegistrationHandler {
	if m != nil {
		h.minter = m
	}
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *FinalizeRegistrationHandler) WithLogger(logger Logger) *FinalizeRegistrationHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithFeatureGate makes the handler honor the signup feature gate.
func (h *FinalizeRegistrationHandler) WithFeatureGate(featureGate gate.FeatureGate) *FinalizeRegistrationHandler {
	h.featureGate = featureGate
	return h
}

func (h *FinalizeRegistrationHandler) Execute(ctx context.Context, event FinalizeRegistrationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during registration finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizeRegistrationHandler) execute(ctx context.Context, event FinalizeRegistrationMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := requireSignupGate(ctx, h.featureGate); err != nil {
		return err
	}

	progress, err := h.machine.Start(StepValidatingClaimToken)
	if err != nil {
		return err
	}

	resp := &FinalizeRegistrationResponse{}

	// evaluate every precondition before deciding: the caller gets all
	// failures in one round trip
	claims, decodeErr := h.decodeClaims(event.ClaimToken)
	resp.ClaimTokenInvalid = decodeErr != nil

	if err := h.machine.Advance(progress, StepValidatingCredential); err != nil {
		return err
	}

	resp.PasswordInvalid = !event.HasValidPassword()
	resp.PhoneInvalid = !event.HasValidPhone()

	if resp.ClaimTokenInvalid || resp.PasswordInvalid || resp.PhoneInvalid {
		// abort before any mutation, no partial account state
		return h.reject(progress, resp, event)
	}

	account := &Account{}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := h.machine.Advance(progress, StepResolvingProfile); err != nil {
			return err
		}

		profileUUID, err := h.resolveProfile(ctx, tx, claims)
		if err != nil {
			return err
		}

		if err := h.machine.Advance(progress, StepCreatingAccount); err != nil {
			return err
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
		}

		// email and username come from the token, which captured the pair
		// the availability check cleared; the request body never overrides
		// them
		account.Email = claims.Email
		account.Username = claims.Username
		account.PasswordHash = hash
		account.ProfileUUID = profileUUID
		account.Phone = event.Phone
		account.Status = AccountStatusActive

		if account, err = h.repo.Accounts().CreateTx(ctx, tx, account); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "registration finalization transaction failed")
	}

	authToken, err := h.mintAuthToken(account)
	if err != nil {
		return err
	}
	resp.AuthToken = &authToken
	resp.Account = account

	if err := h.machine.Advance(progress, StepDone); err != nil {
		return err
	}

	resp.Step = progress.Step()

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

// decodeClaims treats a missing token, a bad signature, and an expired token
// uniformly: the claim is not honored.
func (h *FinalizeRegistrationHandler) decodeClaims(token string) (ClaimSet, error) {
	if token == "" {
		return ClaimSet{}, ErrTokenMalformed
	}

	claims, err := h.codec.Decode(token)
	if err != nil {
		h.logger.Debug("claim token rejected: %v", err)
		return ClaimSet{}, err
	}

	return claims, nil
}

// resolveProfile picks the profile identity the account will bind to. A
// profile_uuid claim is proof of mailbox ownership and wins outright;
// otherwise a profile is provisioned for the email captured in the claim.
func (h *FinalizeRegistrationHandler) resolveProfile(ctx context.Context, tx bun.IDB, claims ClaimSet) (uuid.UUID, error) {
	if claims.HasProfile() {
		id, err := uuid.Parse(claims.ProfileUUID)
		if err != nil {
			return uuid.Nil, ErrTokenMalformed.WithMetadata(map[string]any{
				"reason": "profile_uuid claim is not a UUID",
			})
		}
		return id, nil
	}

	profile, err := h.repo.Profiles().GetOrCreateByEmailTx(ctx, tx, claims.Email)
	if err != nil {
		return uuid.Nil, err
	}

	return profile.ID, nil
}

func (h *FinalizeRegistrationHandler) mintAuthToken(account *Account) (string, error) {
	if h.minter == nil {
		return "", goerrors.New("auth token minter is not configured", goerrors.CategoryInternal)
	}

	token, err := h.minter.MintAuthToken(account.ID.String(), h.config.GetAuthTokenDuration())
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint auth token")
	}

	return token, nil
}

func (h *FinalizeRegistrationHandler) reject(progress *RegistrationProgress, resp *FinalizeRegistrationResponse, event FinalizeRegistrationMessage) error {
	if err := h.machine.Advance(progress, StepRejected); err != nil {
		return err
	}

	resp.Step = progress.Step()

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
