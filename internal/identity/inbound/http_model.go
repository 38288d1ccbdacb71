package inbound

import "time"

type SendOTPRequest struct {
	Email   string `json:"email"`
	Company string `json:"company"`
}

type SendOTPResponse struct {
	Email string `json:"email"`
}

func (SendOTPResponse) Message() string {
	return "OTP has been sent to your email address. Please check your inbox."
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

const authenticatedMessage = "Authentication successful"

type VerifyOTPResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	// Detail is the auth payload message, distinct from the envelope message.
	Detail string `json:"message" example:"Authentication successful"`
}

func (VerifyOTPResponse) Message() string {
	return "OTP verified successfully"
}

type ProfileResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
