package signup

import (
	"github.com/goliatone/go-errors"
)

const (
	textCodeInvalidTransition = "INVALID_REGISTRATION_TRANSITION"
	textCodeTerminalStep      = "TERMINAL_REGISTRATION_STEP"
)

// ErrInvalidTransition is returned when a requested stage change is not allowed.
var ErrInvalidTransition = errors.New("invalid registration step transition", errors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(errors.CodeBadRequest)

// ErrTerminalStep is returned when attempting to move away from a terminal
// stage (done, rejected).
var ErrTerminalStep = errors.New("registration step is terminal", errors.CategoryConflict).
	WithTextCode(textCodeTerminalStep).
	WithCode(errors.CodeConflict)

// RegistrationProgress tracks how far a single request has moved through its
// phase. One instance per request; never shared.
type RegistrationProgress struct {
	step RegistrationStep
}

// Step returns the current stage.
func (p *RegistrationProgress) Step() RegistrationStep {
	return p.step
}

// Done reports whether the progress reached the terminal success stage.
func (p *RegistrationProgress) Done() bool {
	return p.step == StepDone
}

// Rejected reports whether the progress reached the terminal failure stage.
func (p *RegistrationProgress) Rejected() bool {
	return p.step == StepRejected
}

// RegistrationStateMachine governs stage ordering for both phases.
type RegistrationStateMachine interface {
	Start(initial RegistrationStep) (*RegistrationProgress, error)
	Advance(p *RegistrationProgress, target RegistrationStep) error
}

// NewRegistrationStateMachine returns the default transition graph:
//
//	validating-input → checking-availability → issuing-token →
//	dispatching-confirmation? → done
//	validating-claim-token → validating-credential → resolving-profile →
//	creating-account → done
//
// Rejected is reachable from every validating stage and from the mutation
// stages, which may hit write-time uniqueness conflicts.
func NewRegistrationStateMachine(opts ...RegistrationStateMachineOption) RegistrationStateMachine {
	sm := &registrationStateMachine{
		starts: map[RegistrationStep]struct{}{
			StepValidatingInput:      {},
			StepValidatingClaimToken: {},
		},
		transitions: map[RegistrationStep]map[RegistrationStep]struct{}{
			StepValidatingInput: {
				StepCheckingAvailability: {},
				StepRejected:             {},
			},
			StepCheckingAvailability: {
				StepIssuingToken: {},
				StepRejected:     {},
			},
			StepIssuingToken: {
				StepDispatchingConfirmation: {},
				StepDone:                    {},
			},
			StepDispatchingConfirmation: {
				StepDone: {},
			},
			StepValidatingClaimToken: {
				StepValidatingCredential: {},
				StepRejected:             {},
			},
			StepValidatingCredential: {
				StepResolvingProfile: {},
				StepRejected:         {},
			},
			StepResolvingProfile: {
				StepCreatingAccount: {},
				StepRejected:        {},
			},
			StepCreatingAccount: {
				StepDone:     {},
				StepRejected: {},
			},
		},
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

// RegistrationStateMachineOption customizes state machine construction.
type RegistrationStateMachineOption func(*registrationStateMachine)

// WithStateMachineLogger overrides the logger used for transition failures.
func WithStateMachineLogger(logger Logger) RegistrationStateMachineOption {
	return func(sm *registrationStateMachine) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

type registrationStateMachine struct {
	starts      map[RegistrationStep]struct{}
	transitions map[RegistrationStep]map[RegistrationStep]struct{}
	logger      Logger
}

func (sm *registrationStateMachine) Start(initial RegistrationStep) (*RegistrationProgress, error) {
	if _, ok := sm.starts[initial]; !ok {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"reason": "not a phase entry step",
			"step":   initial,
		})
	}
	return &RegistrationProgress{step: initial}, nil
}

func (sm *registrationStateMachine) Advance(p *RegistrationProgress, target RegistrationStep) error {
	if p == nil {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"reason": "progress is nil",
			"target": target,
		})
	}

	if target == "" {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"reason": "target step is empty",
		})
	}

	from := p.step
	if from == target {
		return nil
	}

	if from == StepDone || from == StepRejected {
		return ErrTerminalStep.WithMetadata(map[string]any{
			"from": from,
			"to":   target,
		})
	}

	if !sm.canTransition(from, target) {
		sm.logger.Debug("rejected registration transition", "from", from, "to", target)
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": from,
			"to":   target,
		})
	}

	p.step = target
	return nil
}

func (sm *registrationStateMachine) canTransition(from, to RegistrationStep) bool {
	if allowed, ok := sm.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}
