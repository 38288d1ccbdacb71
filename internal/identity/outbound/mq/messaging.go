package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shandysiswandi/vendorauth/internal/identity/usecase"
	"github.com/shandysiswandi/vendorauth/internal/pkg/instrument"
	"github.com/shandysiswandi/vendorauth/internal/pkg/messaging"
	"go.opentelemetry.io/otel/codes"
)

const (
	keyOfCorrelationID string = "cID"

	VendorProvisionedSubject   = "identity.vendor.provisioned"
	VendorAuthenticatedSubject = "identity.vendor.authenticated"
)

type VendorProvisionedMessage struct {
	VendorID    int64  `json:"vendor_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type VendorAuthenticatedMessage struct {
	VendorID  int64     `json:"vendor_id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishVendorProvisioned(ctx context.Context, msg usecase.VendorProvisionedEvent) error {
	return m.publish(ctx, "PublishVendorProvisioned", VendorProvisionedSubject, VendorProvisionedMessage{
		VendorID:    msg.VendorID,
		Email:       msg.Email,
		DisplayName: msg.DisplayName,
	})
}

func (m *Messaging) PublishVendorAuthenticated(ctx context.Context, msg usecase.VendorAuthenticatedEvent) error {
	return m.publish(ctx, "PublishVendorAuthenticated", VendorAuthenticatedSubject, VendorAuthenticatedMessage{
		VendorID:  msg.VendorID,
		Email:     msg.Email,
		TokenID:   msg.TokenID,
		ExpiresAt: msg.ExpiresAt,
	})
}

func (m *Messaging) publish(ctx context.Context, name, subject string, payload any) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, name)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, subject, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
