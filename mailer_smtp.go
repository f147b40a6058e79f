package signup

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	goerrors "github.com/goliatone/go-errors"
)

// SMTPMailer delivers claim tokens over SMTP with implicit TLS (port 465).
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// LinkBase prefixes the finalize link embedded in the message body,
	// e.g. "https://example.com/register/finalize?claimToken=".
	LinkBase string
	Logger   Logger
}

var _ Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) SendAccountClaimTokenEmail(ctx context.Context, email, token string) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled before email dispatch")
	default:
	}

	from := m.From
	if from == "" {
		from = m.Username
	}

	body := fmt.Sprintf(
		"An account is being linked to an existing profile for this address.<br>"+
			"If that was you, finish registration here: <a href=%q>claim your account</a>",
		m.LinkBase+token,
	)

	msg := []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", email) +
			"Subject: Confirm your account claim\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	if err := m.send(email, from, msg); err != nil {
		if m.Logger != nil {
			m.Logger.Error("claim token email dispatch failed", "email", email, "error", err)
		}
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to deliver claim token email")
	}

	return nil
}

func (m *SMTPMailer) send(to, from string, msg []byte) error {
	serverAddr := m.Host + ":" + m.Port

	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: m.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}
