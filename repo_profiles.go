package signup

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Profiles interface {
	repository.Repository[*Profile]

	FindUUIDByEmail(ctx context.Context, email string) (uuid.UUID, bool, error)
	FindUUIDByEmailTx(ctx context.Context, tx bun.IDB, email string) (uuid.UUID, bool, error)

	GetOrCreateByEmail(ctx context.Context, email string) (*Profile, error)
	GetOrCreateByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Profile, error)
}

type profiles struct {
	repository.Repository[*Profile]
	db *bun.DB
}

var (
	_ Profiles                        = (*profiles)(nil)
	_ repository.Repository[*Profile] = (*profiles)(nil)
)

func NewProfilesRepository(db *bun.DB) Profiles {
	repo := repository.NewRepository[*Profile](db, repository.ModelHandlers[*Profile]{
		NewRecord: func() *Profile { return &Profile{} },
		GetID: func(p *Profile) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Profile, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &profiles{
		Repository: repo,
		db:         db,
	}
}

func (p *profiles) FindUUIDByEmail(ctx context.Context, email string) (uuid.UUID, bool, error) {
	return p.FindUUIDByEmailTx(ctx, p.db, email)
}

func (p *profiles) FindUUIDByEmailTx(ctx context.Context, tx bun.IDB, email string) (uuid.UUID, bool, error) {
	record := &Profile{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, goerrors.Wrap(err, goerrors.CategoryInternal, "profile lookup by email failed")
	}

	return record.ID, true, nil
}

func (p *profiles) GetOrCreateByEmail(ctx context.Context, email string) (*Profile, error) {
	return p.GetOrCreateByEmailTx(ctx, p.db, email)
}

// GetOrCreateByEmailTx provisions a profile for an email that has never been
// seen. The ID is derived deterministically from the email, so concurrent
// duplicate calls converge on the same identity; the unique email constraint
// catches whatever the derivation does not.
func (p *profiles) GetOrCreateByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Profile, error) {
	if id, found, err := p.FindUUIDByEmailTx(ctx, tx, email); err != nil {
		return nil, err
	} else if found {
		return &Profile{ID: id, Email: email}, nil
	}

	record := &Profile{
		ID:    ProfileUUIDForEmail(email),
		Email: email,
	}

	created, err := p.Repository.CreateTx(ctx, tx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrProfileConflict.WithMetadata(map[string]any{
				"email": email,
			})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create profile")
	}

	return created, nil
}
