package logx

import (
	"strings"
	"testing"
)

func TestSanitizeURI_RedactsToken(t *testing.T) {
	t.Parallel()

	got := sanitizeURI("/ws/events?token=eyJhbGciOiJIUzI1NiJ9.payload.sig")
	if strings.Contains(got, "eyJhbGciOiJIUzI1NiJ9") {
		t.Fatalf("token leaked into logged URI: %q", got)
	}
	if !strings.Contains(got, "token=REDACTED") {
		t.Fatalf("expected redaction marker, got %q", got)
	}
}

func TestSanitizeURI_KeepsOtherParams(t *testing.T) {
	t.Parallel()

	got := sanitizeURI("/api/owner/students?page=2&token=secret")
	if !strings.Contains(got, "page=2") {
		t.Fatalf("unrelated query parameter lost: %q", got)
	}
	if strings.Contains(got, "secret") {
		t.Fatalf("token leaked into logged URI: %q", got)
	}
}

func TestSanitizeURI_NoQuery(t *testing.T) {
	t.Parallel()

	if got := sanitizeURI("/api/student/profile"); got != "/api/student/profile" {
		t.Fatalf("plain URI altered: %q", got)
	}
}

func TestAnonymizeIP(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"203.0.113.77:5123": "203.0.113.0",
		"127.0.0.1:8080":    "127.0.0.1",
		"[2001:db8::1]:443": "2001:db8::",
		"not-an-address":    "unknown_ip",
	}

	for in, want := range cases {
		if got := anonymizeIP(in); got != want {
			t.Fatalf("anonymizeIP(%q) = %q, want %q", in, got, want)
		}
	}
}
