package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("secret", time.Hour)
	token, expiresAt, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if until := time.Until(expiresAt); until <= 59*time.Minute || until > time.Hour {
		t.Fatalf("unexpected expiry %s", expiresAt)
	}

	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("expected user-123, got %q", userID)
	}
}

func TestVerifyRejectsForeignAndExpiredTokens(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("secret", time.Hour)
	token, _, err := NewIssuer("other-secret", time.Hour).Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}

	expired := NewIssuer("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := issuer.Verify(old); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	if _, err := issuer.Verify("not-a-token"); err == nil {
		t.Fatal("expected garbage to be rejected")
	}
}

func TestDisabledIssuer(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("  ", time.Hour)
	if issuer.Enabled() {
		t.Fatal("expected issuer without secret to be disabled")
	}
	if _, _, err := issuer.Issue("user-123"); err != ErrDisabled {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if _, err := issuer.Verify("anything"); err != ErrDisabled {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}

	var nilIssuer *Issuer
	if nilIssuer.Enabled() {
		t.Fatal("expected nil issuer to be disabled")
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc.def", want: "abc.def", ok: true},
		{header: "bearer   xyz ", want: "xyz", ok: true},
		{header: "Basic abc", ok: false},
		{header: "Bearer ", ok: false},
		{header: "", ok: false},
	}

	for _, tc := range tests {
		got, ok := BearerToken(tc.header)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("BearerToken(%q) = %q, %v; want %q, %v", tc.header, got, ok, tc.want, tc.ok)
		}
	}
}
