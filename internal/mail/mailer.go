// Copyright (c) 2026 Signet. All rights reserved.
// Author: dev@signet.id

/*
Package mail implements outbound transactional email delivery.

It owns the SMTP transport and the message templates for lifecycle mail
(currently only the activation link). The identity core talks to this
package through a narrow interface and never sees SMTP details.
*/
package mail

import (
	"context"
	"fmt"
	"html"

	gomail "github.com/wneessen/go-mail"
)

// # Definitions & Constructors

// Mailer delivers transactional mail over an authenticated SMTP connection.
type Mailer struct {
	client *gomail.Client

	// fromAddress is the envelope and header sender for all outbound mail.
	fromAddress string

	// publicURL names the service in mail subjects so recipients can tell
	// which deployment is asking for activation.
	publicURL string
}

// Config carries the SMTP settings the mailer needs.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	PublicURL string
}

// NewMailer constructs a [Mailer] with a lazily connecting SMTP client.
//
// The client uses STARTTLS with plain authentication, the common posture
// for port 587 relays. Connection failures surface on the first send, not
// at startup, so a flaky relay cannot block boot.
func NewMailer(configuration Config) (*Mailer, error) {
	client, err := gomail.NewClient(configuration.Host,
		gomail.WithPort(configuration.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithUsername(configuration.Username),
		gomail.WithPassword(configuration.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("mail_client_setup_failed: %w", err)
	}

	return &Mailer{
		client:      client,
		fromAddress: configuration.From,
		publicURL:   configuration.PublicURL,
	}, nil
}

/*
SendActivationMail delivers the account activation link.

Description: Builds a minimal HTML message whose body is the clickable
activation link. The link itself is the whole proof of mailbox control, so
the message carries nothing else of value.

Parameters:
  - context: context.Context (bounds the SMTP dial and delivery)
  - toAddress: string
  - activationLink: string

Returns:
  - error: Message construction or SMTP delivery failures
*/
func (mailer *Mailer) SendActivationMail(context context.Context, toAddress, activationLink string) error {
	message := gomail.NewMsg()

	if err := message.From(mailer.fromAddress); err != nil {
		return fmt.Errorf("mail_invalid_sender: %w", err)
	}
	if err := message.To(toAddress); err != nil {
		return fmt.Errorf("mail_invalid_recipient: %w", err)
	}

	message.Subject("Activate your account on " + mailer.publicURL)

	safeLink := html.EscapeString(activationLink)
	message.SetBodyString(gomail.TypeTextHTML, fmt.Sprintf(
		"<div><h1>Activate your account</h1><a href=%q>%s</a></div>",
		activationLink, safeLink,
	))

	if err := mailer.client.DialAndSendWithContext(context, message); err != nil {
		return fmt.Errorf("mail_delivery_failed: %w", err)
	}

	return nil
}
