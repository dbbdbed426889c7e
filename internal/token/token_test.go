package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-token-tests-only"

// newTestManager creates a manager with a frozen clock so expiry boundaries
// can be tested exactly.
func newTestManager(t *testing.T, ttl time.Duration, at time.Time) *Manager {
	t.Helper()
	m, err := NewManager(testSecret, ttl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.now = func() time.Time { return at }
	return m
}

func TestNewManager_RejectsEmptySecret(t *testing.T) {
	if _, err := NewManager("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestNewManager_RejectsNonPositiveTTL(t *testing.T) {
	if _, err := NewManager(testSecret, 0); err == nil {
		t.Fatal("expected error for zero TTL")
	}
	if _, err := NewManager(testSecret, -time.Hour); err == nil {
		t.Fatal("expected error for negative TTL")
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, 24*time.Hour, issued)

	tok, err := m.Issue("user-123", "dean")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID() != "user-123" {
		t.Errorf("expected subject user-123, got %s", claims.UserID())
	}
	if claims.Role != "dean" {
		t.Errorf("expected role dean, got %s", claims.Role)
	}
	if got := claims.IssuedAt.Time.Unix(); got != issued.Unix() {
		t.Errorf("expected iat %d, got %d", issued.Unix(), got)
	}
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour
	m := newTestManager(t, ttl, issued)

	tok, err := m.Issue("user-123", "student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One second before expiry: still valid.
	m.now = func() time.Time { return issued.Add(ttl - time.Second) }
	if _, err := m.Verify(tok); err != nil {
		t.Errorf("expected token valid just before expiry, got %v", err)
	}

	// Past expiry: rejected as expired, not malformed.
	m.now = func() time.Time { return issued.Add(ttl + time.Second) }
	if _, err := m.Verify(tok); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired past expiry, got %v", err)
	}
}

func TestVerify_GarbageToken(t *testing.T) {
	m := newTestManager(t, time.Hour, time.Now())

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(tok); !errors.Is(err, ErrMalformed) {
			t.Errorf("Verify(%q): expected ErrMalformed, got %v", tok, err)
		}
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	at := time.Now()
	m := newTestManager(t, time.Hour, at)
	tok, err := m.Issue("user-123", "student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other, err := NewManager("a-completely-different-signing-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := other.Verify(tok); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for wrong secret, got %v", err)
	}
}

func TestVerify_RejectsUnsignedAlgorithm(t *testing.T) {
	m := newTestManager(t, time.Hour, time.Now())

	// A token signed with "none" must never verify even though its claims
	// are well-formed.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role: "dean",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := m.Verify(tok); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for alg=none token, got %v", err)
	}
}

func TestStaleFor(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, 24*time.Hour, issued)

	tok, err := m.Issue("user-123", "student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Never changed: never stale.
	if claims.StaleFor(nil) {
		t.Error("expected token fresh when password never changed")
	}

	// Changed before issuance: still fresh.
	before := issued.Add(-time.Hour)
	if claims.StaleFor(&before) {
		t.Error("expected token fresh when password changed before issuance")
	}

	// Changed at the same second as issuance: not stale (iat is not
	// strictly before the change).
	same := issued
	if claims.StaleFor(&same) {
		t.Error("expected token fresh when change time equals issue time")
	}

	// Changed after issuance: stale.
	after := issued.Add(time.Minute)
	if !claims.StaleFor(&after) {
		t.Error("expected token stale when password changed after issuance")
	}

	// Sub-second change just after the issue second truncates to the same
	// second and stays fresh.
	fraction := issued.Add(500 * time.Millisecond)
	if claims.StaleFor(&fraction) {
		t.Error("expected sub-second change in the issue second to stay fresh")
	}
}
