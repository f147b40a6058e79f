package signup

import (
	"context"
	"fmt"
)

// DevMailer prints the claim token delivery to stdout. Useful during local
// development; never wire it into a deployment.
type DevMailer struct{}

var _ Mailer = (*DevMailer)(nil)

func (DevMailer) SendAccountClaimTokenEmail(_ context.Context, email, token string) error {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("to: %s\n", email)
	fmt.Printf("link: /register/finalize?claimToken=%s\n", token)
	return nil
}

type noopMailer struct{}

func (noopMailer) SendAccountClaimTokenEmail(context.Context, string, string) error {
	return nil
}

func normalizeMailer(m Mailer) Mailer {
	if m == nil {
		return noopMailer{}
	}
	return m
}
