package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/vendorauth/internal/identity/usecase"
	"github.com/shandysiswandi/vendorauth/internal/pkg/clock"
	"github.com/shandysiswandi/vendorauth/internal/pkg/goerror"
	"github.com/shandysiswandi/vendorauth/internal/pkg/jwt"
	"github.com/shandysiswandi/vendorauth/internal/pkg/router"
	"github.com/shandysiswandi/vendorauth/internal/pkg/uid"
)

type stubUsecase struct {
	requestIn  usecase.RequestChallengeInput
	requestErr error
	verifyOut  *usecase.VerifyChallengeOutput
	verifyErr  error
	profileErr error
	profileFor string
}

func (s *stubUsecase) RequestChallenge(_ context.Context, in usecase.RequestChallengeInput) (*usecase.RequestChallengeOutput, error) {
	s.requestIn = in
	if s.requestErr != nil {
		return nil, s.requestErr
	}
	return &usecase.RequestChallengeOutput{Email: in.Email}, nil
}

func (s *stubUsecase) VerifyChallenge(_ context.Context, _ usecase.VerifyChallengeInput) (*usecase.VerifyChallengeOutput, error) {
	return s.verifyOut, s.verifyErr
}

func (s *stubUsecase) Profile(ctx context.Context) (*usecase.ProfileOutput, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	s.profileFor = jwt.GetAuth(ctx).Email()
	return &usecase.ProfileOutput{ID: 42, Email: s.profileFor, DisplayName: "Acme", IsActive: true}, nil
}

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func newTestHandler(t *testing.T, uc uc) (http.Handler, jwt.JWT) {
	t.Helper()

	tokens, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("k", 64)),
		Issuer:    "vendorauth",
		Audiences: []string{"vendor-portal"},
		TTL:       time.Hour,
		Clock:     clock.New(),
		UUID:      uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}

	r := router.NewRouter(router.Config{UUID: uid.NewUUID(), JWT: tokens})
	RegisterHTTPEndpoint(r, uc)
	return r, tokens
}

func do(t *testing.T, h http.Handler, req *http.Request) (int, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestHTTPEndpoint_SendOTP(t *testing.T) {
	// Arrange
	uc := &stubUsecase{}
	h, _ := newTestHandler(t, uc)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/identity/otp/send",
		strings.NewReader(`{"email":"vendor@acme.com","company":"Acme"}`))

	// Act
	code, env := do(t, h, req)

	// Assert
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if env.Message != "OTP has been sent to your email address. Please check your inbox." {
		t.Fatalf("unexpected message %q", env.Message)
	}
	if uc.requestIn.Company != "Acme" {
		t.Fatalf("company not passed through: %+v", uc.requestIn)
	}
}

func TestHTTPEndpoint_SendOTP_MalformedBody(t *testing.T) {
	// Arrange
	h, _ := newTestHandler(t, &stubUsecase{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/identity/otp/send", strings.NewReader(`{"email":`))

	// Act
	code, _ := do(t, h, req)

	// Assert
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestHTTPEndpoint_SendOTP_DeliveryFailure(t *testing.T) {
	// Arrange
	uc := &stubUsecase{requestErr: goerror.NewBusiness("Failed to send OTP, please request a new one", goerror.CodeUnavailable)}
	h, _ := newTestHandler(t, uc)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/identity/otp/send", strings.NewReader(`{"email":"vendor@acme.com"}`))

	// Act
	code, env := do(t, h, req)

	// Assert
	if code != http.StatusServiceUnavailable || env.Message != "Failed to send OTP, please request a new one" {
		t.Fatalf("unexpected response %d %q", code, env.Message)
	}
}

func TestHTTPEndpoint_VerifyOTP(t *testing.T) {
	tests := []struct {
		name    string
		uc      *stubUsecase
		code    int
		message string
	}{
		{
			name: "Success",
			uc: &stubUsecase{verifyOut: &usecase.VerifyChallengeOutput{
				Token: "tkn", TokenType: "Bearer", Email: "vendor@acme.com", ExpiresAt: time.Unix(1700000000, 0).UTC(),
			}},
			code:    http.StatusOK,
			message: "OTP verified successfully",
		},
		{
			name:    "InvalidCode",
			uc:      &stubUsecase{verifyErr: goerror.NewBusiness("Invalid or expired OTP", goerror.CodeUnauthorized)},
			code:    http.StatusUnauthorized,
			message: "Invalid or expired OTP",
		},
		{
			name:    "Inactive",
			uc:      &stubUsecase{verifyErr: goerror.NewBusiness("Vendor account is not active", goerror.CodeForbidden)},
			code:    http.StatusForbidden,
			message: "Vendor account is not active",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			h, _ := newTestHandler(t, tt.uc)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/identity/otp/verify",
				strings.NewReader(`{"email":"vendor@acme.com","code":"123456"}`))

			// Act
			code, env := do(t, h, req)

			// Assert
			if code != tt.code || env.Message != tt.message {
				t.Fatalf("got %d %q, want %d %q", code, env.Message, tt.code, tt.message)
			}
			if tt.code == http.StatusOK {
				var data VerifyOTPResponse
				if err := json.Unmarshal(env.Data, &data); err != nil {
					t.Fatalf("decode data: %v", err)
				}
				if data.Token != "tkn" || data.TokenType != "Bearer" || data.Email != "vendor@acme.com" || data.Detail != "Authentication successful" {
					t.Fatalf("unexpected data %+v", data)
				}
			}
		})
	}
}

func TestHTTPEndpoint_Profile(t *testing.T) {
	// Arrange
	uc := &stubUsecase{}
	h, tokens := newTestHandler(t, uc)
	token, _, err := tokens.Generate("vendor@acme.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/identity/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// Act
	code, env := do(t, h, req)

	// Assert
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", code, env.Message)
	}
	var data ProfileResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.ID != "42" || data.Email != "vendor@acme.com" {
		t.Fatalf("unexpected profile %+v", data)
	}
}

func TestHTTPEndpoint_Profile_RequiresToken(t *testing.T) {
	// Arrange
	h, _ := newTestHandler(t, &stubUsecase{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/identity/profile", nil)

	// Act
	code, env := do(t, h, req)

	// Assert
	if code != http.StatusUnauthorized || env.Message != "Authentication required" {
		t.Fatalf("unexpected response %d %q", code, env.Message)
	}
}
