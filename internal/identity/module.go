package identity

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/vendorauth/internal/identity/inbound"
	"github.com/shandysiswandi/vendorauth/internal/identity/outbound/db"
	"github.com/shandysiswandi/vendorauth/internal/identity/outbound/email"
	"github.com/shandysiswandi/vendorauth/internal/identity/outbound/mq"
	"github.com/shandysiswandi/vendorauth/internal/identity/usecase"
	"github.com/shandysiswandi/vendorauth/internal/pkg/clock"
	"github.com/shandysiswandi/vendorauth/internal/pkg/config"
	"github.com/shandysiswandi/vendorauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/vendorauth/internal/pkg/hash"
	"github.com/shandysiswandi/vendorauth/internal/pkg/instrument"
	"github.com/shandysiswandi/vendorauth/internal/pkg/jwt"
	"github.com/shandysiswandi/vendorauth/internal/pkg/lock"
	"github.com/shandysiswandi/vendorauth/internal/pkg/mail"
	"github.com/shandysiswandi/vendorauth/internal/pkg/messaging"
	"github.com/shandysiswandi/vendorauth/internal/pkg/otp"
	"github.com/shandysiswandi/vendorauth/internal/pkg/router"
	"github.com/shandysiswandi/vendorauth/internal/pkg/uid"
	"github.com/shandysiswandi/vendorauth/internal/pkg/validator"
)

type Dependency struct {
	// Ctx bounds the sweep job; nil skips starting it.
	Ctx        context.Context
	DBConn     *pgxpool.Pool              `validate:"required"`
	Locker     lock.Locker                `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	OTP        otp.Generator              `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoMail, err := email.New(dep.Mail, dep.Instrument)
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:        db.NewDB(dep.DBConn, dep.Instrument),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		RepoMail:      repoMail,
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		OTP:           dep.OTP,
		UID:           dep.UID,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	if dep.Ctx != nil {
		inbound.RegisterSweepJob(dep.Ctx, dep.Goroutine, inbound.NewSweepJob(dep.Config, dep.Locker, uc))
	}

	return nil
}
