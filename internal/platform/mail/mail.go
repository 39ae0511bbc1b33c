// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers transactional email over SMTP.

Its single job today is sending one-time confirmation codes for the
passwordless auth flow. Delivery is strictly fire-and-forget: the caller
never waits on the SMTP round-trip, and a failed send is logged as a
recoverable condition rather than surfaced to the client.
*/
package mail

import (
	"fmt"
	"log/slog"

	gomail "github.com/go-mail/mail/v2"
)

// Sender is the outbound-mail contract consumed by the auth service.
type Sender interface {
	// SendConfirmationCode dispatches the one-time code to the recipient
	// asynchronously. It never returns an error; failures are logged.
	SendConfirmationCode(recipient, code string)
}

// SMTPSender implements [Sender] using a go-mail dialer.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

// NewSMTPSender constructs an [SMTPSender].
//
// # Parameters
//   - host, port, username, password: SMTP relay credentials.
//   - from: The From header for outbound messages.
//   - logger: Structured logger for delivery events.
func NewSMTPSender(host string, port int, username, password, from string, logger *slog.Logger) *SMTPSender {
	dialer := gomail.NewDialer(host, port, username, password)
	dialer.StartTLSPolicy = gomail.MandatoryStartTLS

	return &SMTPSender{
		dialer: dialer,
		from:   from,
		logger: logger,
	}
}

// SendConfirmationCode dispatches the confirmation code in a background
// goroutine. Code generation must never be rolled back on delivery failure,
// so errors are only logged.
func (sender *SMTPSender) SendConfirmationCode(recipient, code string) {
	message := gomail.NewMessage()
	message.SetHeader("From", sender.from)
	message.SetHeader("To", recipient)
	message.SetHeader("Subject", "Your Critiq confirmation code")
	message.SetBody("text/plain", fmt.Sprintf(
		"Your confirmation code is: %s\n\nExchange it for an access token via POST /api/v1/auth/token.", code))

	go func() {
		if err := sender.dialer.DialAndSend(message); err != nil {
			sender.logger.Warn("confirmation_email_delivery_failed",
				slog.String("recipient", recipient),
				slog.Any("error", err),
			)
			return
		}
		sender.logger.Info("confirmation_email_sent", slog.String("recipient", recipient))
	}()
}

// NopSender is a [Sender] that drops all mail. It is used in development
// environments without an SMTP relay and in tests.
type NopSender struct {
	logger *slog.Logger
}

// NewNopSender constructs a [NopSender].
func NewNopSender(logger *slog.Logger) *NopSender {
	return &NopSender{logger: logger}
}

// SendConfirmationCode logs the code instead of delivering it.
func (sender *NopSender) SendConfirmationCode(recipient, code string) {
	sender.logger.Info("confirmation_email_skipped",
		slog.String("recipient", recipient),
	)
}
