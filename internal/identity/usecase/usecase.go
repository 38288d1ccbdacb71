package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/vendorauth/internal/identity/entity"
	"github.com/shandysiswandi/vendorauth/internal/pkg/clock"
	"github.com/shandysiswandi/vendorauth/internal/pkg/config"
	"github.com/shandysiswandi/vendorauth/internal/pkg/hash"
	"github.com/shandysiswandi/vendorauth/internal/pkg/instrument"
	"github.com/shandysiswandi/vendorauth/internal/pkg/jwt"
	"github.com/shandysiswandi/vendorauth/internal/pkg/otp"
	"github.com/shandysiswandi/vendorauth/internal/pkg/uid"
	"github.com/shandysiswandi/vendorauth/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultOTPTTL          = 10 * time.Minute
	defaultOTPMaxRetry     = int32(5)
	defaultDeliveryTimeout = 10 * time.Second
	defaultCompany         = "Unknown Company"
)

type VendorProvisionedEvent struct {
	VendorID    int64
	Email       string
	DisplayName string
}

type VendorAuthenticatedEvent struct {
	VendorID  int64
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// OTPDelivery is what the mail collaborator needs to send one code.
type OTPDelivery struct {
	Email        string
	Code         string
	ContextLabel string
	TTL          time.Duration
}

type repoMessaging interface {
	PublishVendorProvisioned(ctx context.Context, msg VendorProvisionedEvent) error
	PublishVendorAuthenticated(ctx context.Context, msg VendorAuthenticatedEvent) error
}

type repoMail interface {
	SendOTP(ctx context.Context, in OTPDelivery) error
}

type repoDB interface {
	GetVendorByEmail(ctx context.Context, email string) (*entity.Vendor, error)
	CreateVendor(ctx context.Context, in entity.Vendor) error

	IssueChallenge(ctx context.Context, in entity.Challenge) error
	GetUnusedChallenge(ctx context.Context, email, codeHash string) (*entity.Challenge, error)
	IncrementLatestChallengeRetry(ctx context.Context, email string, maxRetry int32) (*entity.Challenge, error)
	ConsumeChallenge(ctx context.Context, id int64, email string) error
	DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	repoMail      repoMail
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	otp           otp.Generator
	uid           uid.NumberID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation

	otpIssued   metric.Int64Counter
	otpVerified metric.Int64Counter
	otpSwept    metric.Int64Counter
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	RepoMail      repoMail
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	OTP           otp.Generator
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	s := &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		repoMail:      dep.RepoMail,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		otp:           dep.OTP,
		uid:           dep.UID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
	}

	meter := dep.Instrument.Meter("identity.usecase")
	var err error
	if s.otpIssued, err = meter.Int64Counter("identity.otp.issued",
		metric.WithDescription("OTP challenges issued")); err != nil {
		slog.Error("failed to create otp issued counter", "error", err)
	}
	if s.otpVerified, err = meter.Int64Counter("identity.otp.verified",
		metric.WithDescription("OTP verification attempts by outcome")); err != nil {
		slog.Error("failed to create otp verified counter", "error", err)
	}
	if s.otpSwept, err = meter.Int64Counter("identity.otp.swept",
		metric.WithDescription("Expired OTP challenges deleted")); err != nil {
		slog.Error("failed to create otp swept counter", "error", err)
	}

	return s
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) otpTTL() time.Duration {
	if v := s.cfg.GetMinute("modules.identity.otp_ttl_minutes"); v > 0 {
		return v
	}
	return defaultOTPTTL
}

func (s *Usecase) otpMaxRetry() int32 {
	if v := s.cfg.GetInt32("modules.identity.otp_max_retry"); v > 0 {
		return v
	}
	return defaultOTPMaxRetry
}

func (s *Usecase) deliveryTimeout() time.Duration {
	if v := s.cfg.GetSecond("modules.identity.delivery_timeout_seconds"); v > 0 {
		return v
	}
	return defaultDeliveryTimeout
}

func (s *Usecase) defaultCompany() string {
	if v := s.cfg.GetString("modules.identity.default_company"); v != "" {
		return v
	}
	return defaultCompany
}

func count(ctx context.Context, c metric.Int64Counter, n int64, opts ...metric.AddOption) {
	if c != nil {
		c.Add(ctx, n, opts...)
	}
}
