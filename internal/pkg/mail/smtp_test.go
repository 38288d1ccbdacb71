package mail

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"
)

// fakeSMTP accepts one session and records the DATA payload.
func fakeSMTP(t *testing.T, greet bool) (host string, port int, data <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	out := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		if !greet {
			time.Sleep(2 * time.Second)
			return
		}

		r := bufio.NewReader(conn)
		write := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }
		write("220 localhost ESMTP")

		var body strings.Builder
		inData := false
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			if inData {
				if line == ".\r\n" {
					inData = false
					out <- body.String()
					write("250 OK queued")
					continue
				}
				body.WriteString(line)
				continue
			}

			switch cmd := strings.ToUpper(strings.TrimSpace(line)); {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				write("250 localhost")
			case strings.HasPrefix(cmd, "MAIL"), strings.HasPrefix(cmd, "RCPT"):
				write("250 OK")
			case cmd == "DATA":
				inData = true
				write("354 go ahead")
			case cmd == "QUIT":
				write("221 bye")
				return
			default:
				write("502 unknown")
			}
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port, out
}

func TestSMTP_Send(t *testing.T) {
	// Arrange
	host, port, data := fakeSMTP(t, true)
	s, err := NewSMTP(SMTPConfig{Host: host, Port: port, From: "no-reply@vendorauth.local"})
	if err != nil {
		t.Fatalf("NewSMTP() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Act
	err = s.Send(ctx, Message{
		To:       []string{"vendor@acme.com"},
		Subject:  "Vendor Login OTP",
		TextBody: "Your code is 042137\nBye",
	})

	// Assert
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	got := <-data
	for _, want := range []string{
		"From: no-reply@vendorauth.local\r\n",
		"To: vendor@acme.com\r\n",
		"Subject: Vendor Login OTP\r\n",
		"Content-Type: text/plain; charset=UTF-8\r\n",
		"Your code is 042137\r\nBye",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("payload missing %q:\n%s", want, got)
		}
	}
}

func TestSMTP_SendHonoursContext(t *testing.T) {
	// Arrange
	host, port, _ := fakeSMTP(t, false)
	s, _ := NewSMTP(SMTPConfig{Host: host, Port: port, From: "no-reply@vendorauth.local"})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// Act
	start := time.Now()
	err := s.Send(ctx, Message{To: []string{"vendor@acme.com"}, Subject: "x", TextBody: "y"})

	// Assert
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("send did not stop at the deadline")
	}
}

func TestCompose_Rejects(t *testing.T) {
	tests := []struct {
		name string
		from string
		msg  Message
		want error
	}{
		{name: "NoRecipient", from: "a@b.c", msg: Message{Subject: "x"}, want: ErrSMTPNoRecipients},
		{name: "NoSender", msg: Message{To: []string{"v@acme.com"}}, want: ErrSMTPNoSender},
		{name: "SubjectInjection", from: "a@b.c", msg: Message{To: []string{"v@acme.com"}, Subject: "hi\r\nBcc: x@y.z"}, want: ErrHeaderInjection},
		{name: "RecipientInjection", from: "a@b.c", msg: Message{To: []string{"v@acme.com\nBcc: x@y.z"}}, want: ErrHeaderInjection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := compose(tt.from, tt.msg); !errors.Is(err, tt.want) {
				t.Fatalf("compose() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildBody_Multipart(t *testing.T) {
	// Act
	body, ct := buildBody(Message{TextBody: "plain", HTMLBody: "<p>html</p>"})

	// Assert
	boundary, ok := strings.CutPrefix(ct, "multipart/alternative; boundary=")
	if !ok {
		t.Fatalf("content type = %q", ct)
	}
	if strings.Count(body, "--"+boundary+"\r\n") != 2 || !strings.HasSuffix(body, "--"+boundary+"--\r\n") {
		t.Fatalf("unexpected multipart body:\n%s", body)
	}
}

func TestNewSMTP_RequiresHostPort(t *testing.T) {
	if _, err := NewSMTP(SMTPConfig{Host: "smtp.local"}); !errors.Is(err, ErrSMTPHostPortRequired) {
		t.Fatalf("expected ErrSMTPHostPortRequired, got %v", err)
	}
}
