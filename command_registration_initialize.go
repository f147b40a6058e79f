package signup

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-featuregate/gate"
)

type InitializeRegistrationMessage struct {
	Email      string `json:"email" example:"pepe.rone@example.com" doc:"Email to claim."`
	Username   string `json:"username" example:"peperone" doc:"Username to claim."`
	OnResponse func(resp *InitializeRegistrationResponse)
}

func (m InitializeRegistrationMessage) Type() string { return "registration.initialize" }

// HasValidEmail checks the email field in isolation so the response can flag
// it independently of the username.
func (m InitializeRegistrationMessage) HasValidEmail() bool {
	return validation.Validate(m.Email, validation.Required, is.Email) == nil
}

// HasValidUsername requires a username longer than two characters.
func (m InitializeRegistrationMessage) HasValidUsername() bool {
	return validation.Validate(m.Username, validation.Required, validation.Length(3, 0)) == nil
}

// InitializeRegistrationResponse reports every precondition outcome together.
// Pointer fields stay nil when validation failed before that check ran.
type InitializeRegistrationResponse struct {
	EmailInvalid    bool
	UsernameInvalid bool
	EmailClaimed    *bool
	UsernameClaimed *bool
	ProfileExists   *bool
	ClaimToken      *string
	Step            RegistrationStep
}

// Success reports whether phase one completed with the pair reserved.
func (r *InitializeRegistrationResponse) Success() bool {
	return r.Step == StepDone
}

type InitializeRegistrationHandler struct {
	checker     AvailabilityChecker
	linker      ProfileLinker
	codec       TokenCodec
	mailer      Mailer
	config      Config
	machine     RegistrationStateMachine
	logger      Logger
	featureGate gate.FeatureGate
}

// NewInitializeRegistrationHandler creates a handler with sane defaults.
func NewInitializeRegistrationHandler(repo RepositoryManager, codec TokenCodec, cfg Config) *InitializeRegistrationHandler {
	return &InitializeRegistrationHandler{
		checker: NewAvailabilityChecker(repo),
		linker:  NewProfileLinker(repo),
		codec:   codec,
		mailer:  noopMailer{},
		config:  cfg,
		machine: NewRegistrationStateMachine(),
		logger:  defLogger{},
	}
}

// WithMailer sets the collaborator that delivers the out-of-band token.
func (h *InitializeRegistrationHandler) WithMailer(m Mailer) *InitializeRegistrationHandler {
	h.mailer = normalizeMailer(m)
	return h
}

// WithAvailabilityChecker overrides the availability collaborator.
func (h *InitializeRegistrationHandler) WithAvailabilityChecker(c AvailabilityChecker) *InitializeRegistrationHandler {
	if c != nil {
		h.checker = c
	}
	return h
}

// WithProfileLinker overrides the profile-linking collaborator.
func (h *InitializeRegistrationHandler) WithProfileLinker(l ProfileLinker) *InitializeRegistrationHandler {
	if l != nil {
		h.linker = l
	}
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *InitializeRegistrationHandler) WithLogger(logger Logger) *InitializeRegistrationHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithFeatureGate makes the handler honor the signup feature gate.
func (h *InitializeRegistrationHandler) WithFeatureGate(featureGate gate.FeatureGate) *InitializeRegistrationHandler {
	h.featureGate = featureGate
	return h
}

func (h *InitializeRegistrationHandler) Execute(ctx context.Context, event InitializeRegistrationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during registration initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializeRegistrationHandler) execute(ctx context.Context, event InitializeRegistrationMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := requireSignupGate(ctx, h.featureGate); err != nil {
		return err
	}

	progress, err := h.machine.Start(StepValidatingInput)
	if err != nil {
		return err
	}

	resp := &InitializeRegistrationResponse{
		EmailInvalid:    !event.HasValidEmail(),
		UsernameInvalid: !event.HasValidUsername(),
	}

	if resp.EmailInvalid || resp.UsernameInvalid {
		return h.reject(progress, resp, event)
	}

	if err := h.machine.Advance(progress, StepCheckingAvailability); err != nil {
		return err
	}

	emailTaken, err := h.checker.IsEmailTaken(ctx, event.Email)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email availability")
	}

	usernameTaken, err := h.checker.IsUsernameTaken(ctx, event.Username)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username availability")
	}

	// both flags are always populated so the caller gets full diagnostic
	// information in one round trip
	resp.EmailClaimed = &emailTaken
	resp.UsernameClaimed = &usernameTaken

	if emailTaken || usernameTaken {
		return h.reject(progress, resp, event)
	}

	if err := h.machine.Advance(progress, StepIssuingToken); err != nil {
		return err
	}

	// the pair is available, lock it in for the holder of this token
	claimToken, err := h.codec.CreateToken(h.config.GetClaimTokenDuration(), ClaimSet{
		Email:    event.Email,
		Username: event.Username,
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint claim token")
	}
	resp.ClaimToken = &claimToken

	profileUUID, profileExists, err := h.linker.FindProfileUUIDByEmail(ctx, event.Email)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve profile for email")
	}
	resp.ProfileExists = &profileExists

	if profileExists {
		if err := h.machine.Advance(progress, StepDispatchingConfirmation); err != nil {
			return err
		}

		// the linking token goes to the claimed mailbox, never to the
		// caller: possession proves mailbox ownership
		linkToken, err := h.codec.CreateToken(h.config.GetClaimTokenDuration(), ClaimSet{
			Email:       event.Email,
			Username:    event.Username,
			ProfileUUID: profileUUID,
		})
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint profile link token")
		}

		mailer := normalizeMailer(h.mailer)
		go func(email, token string) {
			if err := mailer.SendAccountClaimTokenEmail(context.WithoutCancel(ctx), email, token); err != nil {
				h.logger.Warn("claim token email dispatch error: %v", err)
			}
		}(event.Email, linkToken)
	}

	if err := h.machine.Advance(progress, StepDone); err != nil {
		return err
	}

	resp.Step = progress.Step()

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

func (h *InitializeRegistrationHandler) reject(progress *RegistrationProgress, resp *InitializeRegistrationResponse, event InitializeRegistrationMessage) error {
	if err := h.machine.Advance(progress, StepRejected); err != nil {
		return err
	}

	resp.Step = progress.Step()

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
