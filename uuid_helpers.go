package signup

import (
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// ProfileUUIDForEmail derives a stable UUID for an email address. The same
// email always yields the same identity, so duplicate provisioning converges
// instead of racing.
func ProfileUUIDForEmail(email string) uuid.UUID {
	if id, err := hashid.NewUUID(email); err == nil {
		return id
	}
	return uuid.New()
}
