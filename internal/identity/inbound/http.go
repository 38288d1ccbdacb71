package inbound

import (
	"context"

	"github.com/shandysiswandi/vendorauth/internal/identity/usecase"
	"github.com/shandysiswandi/vendorauth/internal/pkg/router"
)

type uc interface {
	RequestChallenge(ctx context.Context, in usecase.RequestChallengeInput) (*usecase.RequestChallengeOutput, error)
	VerifyChallenge(ctx context.Context, in usecase.VerifyChallengeInput) (*usecase.VerifyChallengeOutput, error)
	Profile(ctx context.Context) (*usecase.ProfileOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// OTP login
	r.POST("/api/v1/identity/otp/send", end.SendOTP)
	r.POST("/api/v1/identity/otp/verify", end.VerifyOTP)

	// need authenticated
	r.GET("/api/v1/identity/profile", end.Profile)
}
