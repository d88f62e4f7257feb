// Package mail abstracts email delivery behind a provider-agnostic interface.
package mail

import (
	"context"
	"io"
)

// Message represents an email payload.
type Message struct {
	// From is an optional explicit sender; implementations fall back to
	// their configured default when empty.
	From string
	// To lists the recipients.
	To []string
	// Subject is the subject line.
	Subject string
	// TextBody is the plain-text body; used when HTMLBody is empty.
	TextBody string
	// HTMLBody is the optional HTML body.
	HTMLBody string
}

// Mail delivers messages through an email provider.
type Mail interface {
	io.Closer
	// Send dispatches the message. It makes a single attempt; retry policy
	// belongs to the caller.
	Send(ctx context.Context, msg Message) error
}
