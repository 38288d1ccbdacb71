package mail

import (
	"context"
	"io"
)

// Message represents a single email.
type Message struct {
	// From overrides the configured default sender when set.
	From string
	// To lists the recipients.
	To []string
	// Subject is the email subject line.
	Subject string
	// TextBody is the plain-text body.
	TextBody string
	// HTMLBody is the optional HTML alternative.
	HTMLBody string
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	// Send dispatches msg. Implementations must give up once ctx is done.
	Send(ctx context.Context, msg Message) error
}
