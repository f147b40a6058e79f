package signup

import (
	"testing"
)

func TestAccountEnsureStatusDefaultsToPending(t *testing.T) {
	a := &Account{}

	a.EnsureStatus()

	if a.Status != AccountStatusPending {
		t.Fatalf("expected default status %q, got %q", AccountStatusPending, a.Status)
	}
}

func TestAccountEnsureStatusKeepsExisting(t *testing.T) {
	a := &Account{Status: AccountStatusActive}

	a.EnsureStatus()

	if a.Status != AccountStatusActive {
		t.Fatalf("expected status %q to survive, got %q", AccountStatusActive, a.Status)
	}
}

func TestAccountStatusHelpers(t *testing.T) {
	cases := []struct {
		name         string
		status       AccountStatus
		check        func(*Account) bool
		expectResult bool
	}{
		{
			name:         "pending",
			status:       AccountStatusPending,
			check:        (*Account).IsPending,
			expectResult: true,
		},
		{
			name:         "active",
			status:       AccountStatusActive,
			check:        (*Account).IsActive,
			expectResult: true,
		},
		{
			name:         "disabled",
			status:       AccountStatusDisabled,
			check:        (*Account).IsDisabled,
			expectResult: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			account := &Account{Status: tc.status}
			if got := tc.check(account); got != tc.expectResult {
				t.Fatalf("helper returned %t for status %q, expected %t", got, tc.status, tc.expectResult)
			}
		})
	}
}
