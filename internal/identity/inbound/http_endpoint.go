package inbound

import (
	"strconv"

	"github.com/shandysiswandi/vendorauth/internal/identity/usecase"
	"github.com/shandysiswandi/vendorauth/internal/pkg/router"
)

// HTTPEndpoint exposes the OTP login handlers.
type HTTPEndpoint struct {
	uc uc
}

// SendOTP emails a one-time code, registering the vendor on first contact.
// @Summary Request login OTP
// @Description Sends a six digit code to the email address. Unknown addresses are registered as active vendors.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "OTP request payload"
// @Success 200 {object} router.successResponse{data=SendOTPResponse} "OTP sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Failure 503 {object} router.errorResponse "Failed to send OTP"
// @Router /api/v1/identity/otp/send [post]
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestChallenge(r.Context(), usecase.RequestChallengeInput{
		Email:   req.Email,
		Company: req.Company,
	})
	if err != nil {
		return nil, err
	}

	return SendOTPResponse{Email: resp.Email}, nil
}

// VerifyOTP exchanges a valid code for a bearer token.
// @Summary Verify login OTP
// @Description Consumes the emailed code and returns a bearer token bound to the vendor email.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "OTP verification payload"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse} "OTP verified successfully"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired OTP"
// @Failure 403 {object} router.errorResponse "Vendor account is not active"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/otp/verify [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyChallenge(r.Context(), usecase.VerifyChallengeInput{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{
		Token:     resp.Token,
		TokenType: resp.TokenType,
		Email:     resp.Email,
		ExpiresAt: resp.ExpiresAt,
		Detail:    authenticatedMessage,
	}, nil
}

// Profile returns the authenticated vendor.
// @Summary Current vendor
// @Tags Identity
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Vendor profile"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 403 {object} router.errorResponse "Vendor account is not active"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		ID:          strconv.FormatInt(resp.ID, 10),
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		IsActive:    resp.IsActive,
		CreatedAt:   resp.CreatedAt,
	}, nil
}
