package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrSubjectRequired is returned when Publish is called without a subject.
var ErrSubjectRequired = errors.New("messaging: subject is required")

// Publisher sends messages to a subject.
type Publisher interface {
	io.Closer
	// Publish sends msg to subject and returns once the broker has it.
	Publish(ctx context.Context, subject string, msg OutgoingMessage) (PublishResult, error)
}

// OutgoingMessage is a message to be published.
type OutgoingMessage struct {
	Body    []byte
	Headers []Header
}

// Header is a key/value pair attached to a message.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult describes an accepted publish.
type PublishResult struct {
	Subject   string
	Timestamp time.Time
}

// Noop discards every message. It is wired when messaging is disabled.
type Noop struct{}

// Publish validates the subject and drops the message.
func (Noop) Publish(ctx context.Context, subject string, _ OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if subject == "" {
		return PublishResult{}, ErrSubjectRequired
	}
	return PublishResult{Subject: subject, Timestamp: time.Now()}, nil
}

// Close implements io.Closer.
func (Noop) Close() error { return nil }
