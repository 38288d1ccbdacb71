package mail

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrSMTPHostPortRequired is returned when Host/Port are missing.
	ErrSMTPHostPortRequired = errors.New("mail: smtp host and port are required")
	// ErrSMTPNoRecipients is returned when To is empty.
	ErrSMTPNoRecipients = errors.New("mail: no recipients provided")
	// ErrSMTPNoSender is returned when neither Message.From nor the default sender is set.
	ErrSMTPNoSender = errors.New("mail: no sender provided")
	// ErrHeaderInjection is returned when an address or subject contains a line break.
	ErrHeaderInjection = errors.New("mail: header value contains line break")
)

const defaultDialTimeout = 10 * time.Second

// SMTPConfig configures the SMTP implementation.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the default sender when Message.From is empty.
	From string
	// DialTimeout bounds connection setup when ctx carries no deadline.
	DialTimeout time.Duration
}

// SMTP is a Mail implementation speaking SMTP directly so every network step
// is bounded by the caller's context.
type SMTP struct {
	addr        string
	host        string
	defaultFrom string
	username    string
	password    string
	dialTimeout time.Duration
}

// NewSMTP constructs an SMTP mail sender.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	return &SMTP{
		addr:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		host:        cfg.Host,
		defaultFrom: cfg.From,
		username:    cfg.Username,
		password:    cfg.Password,
		dialTimeout: dialTimeout,
	}, nil
}

// Send delivers msg. A cancelled or expired ctx aborts the SMTP session.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	from := msg.From
	if from == "" {
		from = s.defaultFrom
	}
	raw, err := compose(from, msg)
	if err != nil {
		return err
	}

	dialer := net.Dialer{Timeout: s.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", s.addr, err)
	}
	defer conn.Close() //nolint:errcheck // connection is done either way

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}

	// Unblock in-flight reads/writes if ctx is cancelled mid-session.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if err := s.deliver(conn, from, msg.To, raw); err != nil {
		if ctxErr := contextError(ctx); ctxErr != nil {
			return fmt.Errorf("mail: %w: %w", ctxErr, err)
		}
		return err
	}
	return nil
}

// contextError reports ctx as done once its deadline has passed, even if the
// conn deadline fired before ctx's own timer.
func contextError(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return context.DeadlineExceeded
	}
	return nil
}

func (s *SMTP) deliver(conn net.Conn, from string, to []string, raw []byte) error {
	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("mail: greeting: %w", err)
	}
	defer c.Close() //nolint:errcheck // Quit below reports the meaningful error

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("mail: starttls: %w", err)
		}
	}

	if s.username != "" && s.password != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
				return fmt.Errorf("mail: auth: %w", err)
			}
		}
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("mail: MAIL FROM: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mail: RCPT TO %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mail: DATA: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("mail: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: end data: %w", err)
	}

	return c.Quit()
}

// Close implements io.Closer. Connections are per message, so there is
// nothing to release.
func (s *SMTP) Close() error {
	return nil
}

func compose(from string, msg Message) ([]byte, error) {
	if len(msg.To) == 0 {
		return nil, ErrSMTPNoRecipients
	}
	if from == "" {
		return nil, ErrSMTPNoSender
	}
	for _, v := range append([]string{from, msg.Subject}, msg.To...) {
		if strings.ContainsAny(v, "\r\n") {
			return nil, ErrHeaderInjection
		}
	}

	body, contentType := buildBody(msg)

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&sb, "Subject: %s\r\n", msg.Subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&sb, "Content-Type: %s\r\n", contentType)
	sb.WriteString("\r\n")
	sb.WriteString(body)

	return []byte(sb.String()), nil
}

func buildBody(msg Message) (body string, contentType string) {
	if msg.HTMLBody == "" {
		return normalizeNewlines(msg.TextBody), "text/plain; charset=UTF-8"
	}
	if msg.TextBody == "" {
		return normalizeNewlines(msg.HTMLBody), "text/html; charset=UTF-8"
	}

	boundary := multipartBoundary()
	var sb strings.Builder
	for _, part := range []struct{ ct, content string }{
		{"text/plain", msg.TextBody},
		{"text/html", msg.HTMLBody},
	} {
		fmt.Fprintf(&sb, "--%s\r\n", boundary)
		fmt.Fprintf(&sb, "Content-Type: %s; charset=UTF-8\r\n\r\n", part.ct)
		sb.WriteString(normalizeNewlines(part.content))
		sb.WriteString("\r\n")
	}
	fmt.Fprintf(&sb, "--%s--\r\n", boundary)

	return sb.String(), "multipart/alternative; boundary=" + boundary
}

// normalizeNewlines converts bare LF to CRLF as SMTP requires.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}

func multipartBoundary() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "vendorauth-boundary"
	}
	return "vendorauth-" + hex.EncodeToString(b[:])
}
