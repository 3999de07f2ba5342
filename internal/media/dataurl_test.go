package media

import (
	"bytes"
	"testing"
)

func TestEncodeParseRoundTrip(t *testing.T) {
	payload := []byte("hello png")
	url := EncodeDataURL("image/png", payload)

	mime, raw, err := ParseDataURL(url, "image/jpeg")
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("mime = %q, want image/png", mime)
	}
	if !bytes.Equal(raw, payload) {
		t.Errorf("payload = %q, want %q", raw, payload)
	}
}

func TestParseDataURLBareBase64(t *testing.T) {
	mime, raw, err := ParseDataURL("aGVsbG8=", "image/jpeg")
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("mime = %q, want fallback image/jpeg", mime)
	}
	if string(raw) != "hello" {
		t.Errorf("payload = %q, want hello", raw)
	}
}

func TestParseDataURLErrors(t *testing.T) {
	if _, _, err := ParseDataURL("", "image/png"); err == nil {
		t.Error("expected error for empty input")
	}
	if _, _, err := ParseDataURL("data:image/png;base64,!!!", "image/png"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestStripDataURLPrefix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"data:image/png;base64,QUJD", "QUJD"},
		{"QUJD", "QUJD"},
		{"not,a data url", "not,a data url"},
	}
	for _, tt := range tests {
		if got := StripDataURLPrefix(tt.in); got != tt.want {
			t.Errorf("StripDataURLPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
