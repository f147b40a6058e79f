package signup

import (
	"context"
)

// StoreAvailabilityChecker answers availability straight from the accounts
// store. No caching: each call reflects current store state.
type StoreAvailabilityChecker struct {
	repo RepositoryManager
}

var _ AvailabilityChecker = (*StoreAvailabilityChecker)(nil)

// NewAvailabilityChecker creates a checker backed by the accounts repository.
func NewAvailabilityChecker(repo RepositoryManager) *StoreAvailabilityChecker {
	return &StoreAvailabilityChecker{repo: repo}
}

func (c *StoreAvailabilityChecker) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	return c.repo.Accounts().ExistsByEmail(ctx, email)
}

func (c *StoreAvailabilityChecker) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	return c.repo.Accounts().ExistsByUsername(ctx, username)
}
