package signup

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// StoreProfileLinker resolves and provisions profile identities against the
// profiles store.
type StoreProfileLinker struct {
	repo RepositoryManager
}

var _ ProfileLinker = (*StoreProfileLinker)(nil)

// NewProfileLinker creates a linker backed by the profiles repository.
func NewProfileLinker(repo RepositoryManager) *StoreProfileLinker {
	return &StoreProfileLinker{repo: repo}
}

func (l *StoreProfileLinker) FindProfileUUIDByEmail(ctx context.Context, email string) (string, bool, error) {
	id, found, err := l.repo.Profiles().FindUUIDByEmail(ctx, email)
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	return id.String(), true, nil
}

func (l *StoreProfileLinker) CreateNewProfile(ctx context.Context, email string) (string, error) {
	profile, err := l.repo.Profiles().GetOrCreateByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if profile == nil {
		return "", goerrors.New("profile store returned no record", goerrors.CategoryInternal)
	}

	return profile.ID.String(), nil
}
