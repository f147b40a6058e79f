package signup

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-featuregate/gate/guard"
)

func normalizeFeatureGateError(err error) error {
	if err == nil {
		return nil
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return err
	}

	return errors.Wrap(err, errors.CategoryAuthz, "Feature gate check failed").
		WithCode(errors.CodeForbidden)
}

func requireSignupGate(ctx context.Context, featureGate gate.FeatureGate) error {
	if featureGate == nil {
		return nil
	}
	return guard.Require(ctx, featureGate, gate.FeatureUsersSignup,
		guard.WithDisabledError(ErrSignupDisabled),
		guard.WithErrorMapper(normalizeFeatureGateError),
	)
}
