package strcase

import "testing"

func TestToLowerSnake(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"Email":        "email",
		"Code":         "code",
		"EmailAddress": "email_address",
		"VendorID":     "vendor_id",
		"HTTPServer":   "http_server",
		"retry5Count":  "retry5_count",
	}

	for in, want := range tests {
		if got := ToLowerSnake(in); got != want {
			t.Fatalf("ToLowerSnake(%q) = %q, want %q", in, got, want)
		}
	}
}
