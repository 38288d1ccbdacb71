package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return out
}

func TestHandler_MasksSensitiveKeys(t *testing.T) {
	// Arrange
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "vendorauth", nil, []string{"code", "Token"}))

	// Act
	logger.Info("verify",
		"email", "vendor@acme.com",
		"code", "123456",
		"body", `{"email":"vendor@acme.com","code":"654321"}`,
		"resp", map[string]any{"data": map[string]any{"token": "eyJ"}},
	)

	// Assert
	line := decodeLine(t, buf)
	if line["code"] != "***" {
		t.Fatalf("expected code masked, got %v", line["code"])
	}
	if line["email"] != "vendor@acme.com" {
		t.Fatalf("expected email untouched, got %v", line["email"])
	}
	if line["body"] != `{"code":"***","email":"vendor@acme.com"}` {
		t.Fatalf("expected json string masked, got %v", line["body"])
	}
	resp, _ := line["resp"].(map[string]any)
	data, _ := resp["data"].(map[string]any)
	if data["token"] != "***" {
		t.Fatalf("expected nested token masked, got %v", line["resp"])
	}
}

func TestHandler_MasksWithAttrs(t *testing.T) {
	// Arrange
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "vendorauth", nil, []string{"code"})).With("code", "111111")

	// Act
	logger.Info("sent")

	// Assert
	if line := decodeLine(t, buf); line["code"] != "***" {
		t.Fatalf("expected code masked, got %v", line["code"])
	}
}

func TestHandler_AddsCorrelationAndService(t *testing.T) {
	// Arrange
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "vendorauth", nil, nil))
	ctx := SetCorrelationID(context.Background(), "cid-1")

	// Act
	logger.InfoContext(ctx, "hello")

	// Assert
	line := decodeLine(t, buf)
	if line["_cID"] != "cid-1" || line["service"] != "vendorauth" {
		t.Fatalf("unexpected attrs: %v", line)
	}
	if _, ok := line["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", line)
	}
	if line["severity"] != "INFO" {
		t.Fatalf("expected severity key, got %v", line)
	}
}

func TestGetCorrelationID_Empty(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Fatalf("expected empty correlation id, got %q", got)
	}
}
