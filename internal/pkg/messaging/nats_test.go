package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestNoop_Publish(t *testing.T) {
	ctx := context.Background()

	if _, err := (Noop{}).Publish(ctx, "", OutgoingMessage{}); !errors.Is(err, ErrSubjectRequired) {
		t.Fatalf("expected ErrSubjectRequired, got %v", err)
	}
	res, err := (Noop{}).Publish(ctx, "identity.vendor.provisioned", OutgoingMessage{Body: []byte(`{}`)})
	if err != nil || res.Subject != "identity.vendor.provisioned" {
		t.Fatalf("Publish() = %+v, %v", res, err)
	}
}

func TestNewNATS_RequiresURL(t *testing.T) {
	if _, err := NewNATS(NATSConfig{}); !errors.Is(err, ErrNATSURLRequired) {
		t.Fatalf("expected ErrNATSURLRequired, got %v", err)
	}
}

func TestNATS_PublishIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	// Arrange
	ctx := context.Background()
	container, err := testcontainers.Run(ctx, "nats:2.10-alpine",
		testcontainers.WithExposedPorts("4222/tcp"),
		testcontainers.WithWaitStrategy(wait.ForLog("Server is ready")),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("start nats: %v", err)
	}
	url, err := container.PortEndpoint(ctx, "4222/tcp", "nats")
	if err != nil {
		t.Fatalf("nats endpoint: %v", err)
	}

	sub, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("subscriber connect: %v", err)
	}
	defer sub.Close()
	inbox, err := sub.SubscribeSync("identity.vendor.>")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := sub.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	pub, err := NewNATS(NATSConfig{URL: url, Name: "vendorauth-test"})
	if err != nil {
		t.Fatalf("NewNATS() error = %v", err)
	}
	defer pub.Close()

	// Act
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err = pub.Publish(pubCtx, "identity.vendor.authenticated", OutgoingMessage{
		Body:    []byte(`{"email":"vendor@acme.com"}`),
		Headers: []Header{{Key: "cID", Value: []byte("cid-1")}},
	})

	// Assert
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	msg, err := inbox.NextMsg(5 * time.Second)
	if err != nil {
		t.Fatalf("NextMsg() error = %v", err)
	}
	if string(msg.Data) != `{"email":"vendor@acme.com"}` || msg.Header.Get("cID") != "cid-1" {
		t.Fatalf("unexpected message: %s %v", msg.Data, msg.Header)
	}
}
