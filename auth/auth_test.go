package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret-key-for-jwt-signing-at-least-32-bytes-long"

func TestRequire_NoUserIsUnauthorized(t *testing.T) {
	if _, err := Require(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := Require(WithUser(context.Background(), "")); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty user, got %v", err)
	}
}

func TestRequire_ReturnsAttachedUser(t *testing.T) {
	userID, err := Require(WithUser(context.Background(), "user-42"))
	if err != nil || userID != "user-42" {
		t.Fatalf("expected user-42, got %q (err=%v)", userID, err)
	}
}

func TestBearerToken(t *testing.T) {
	if _, err := BearerToken(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := BearerToken("Basic abc"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for basic scheme, got %v", err)
	}
	token, err := BearerToken("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("unexpected token %q (err=%v)", token, err)
	}
}

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier(testSecret, "conversions", time.Second)

	token, err := v.Issue("user-1", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	subject, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if subject != "user-1" {
		t.Fatalf("expected subject user-1, got %q", subject)
	}
}

func TestVerifier_RejectsExpiredToken(t *testing.T) {
	v := NewVerifier(testSecret, "", time.Second)
	v.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := v.Issue("user-1", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	v.now = time.Now
	if _, err := v.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifier_RejectsForeignSignature(t *testing.T) {
	other := NewVerifier("another-secret-key-that-is-also-32-bytes-long!!", "", 0)
	token, err := other.Issue("user-1", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	v := NewVerifier(testSecret, "", 0)
	if _, err := v.Verify(token); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifier_RejectsWrongIssuer(t *testing.T) {
	token, err := NewVerifier(testSecret, "someone-else", 0).Issue("user-1", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := NewVerifier(testSecret, "conversions", 0).Verify(token); !errors.Is(err, ErrInvalidIssuer) {
		t.Fatalf("expected ErrInvalidIssuer, got %v", err)
	}
}

func TestVerifier_RejectsMissingSubject(t *testing.T) {
	v := NewVerifier(testSecret, "", 0)
	token, err := v.Issue("", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := v.Verify(token); !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("expected ErrMissingSubject, got %v", err)
	}
}

func TestVerifier_RejectsGarbage(t *testing.T) {
	if _, err := NewVerifier(testSecret, "", 0).Verify("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := NewVerifier("", "", 0).Verify("whatever"); err == nil {
		t.Fatal("expected error without a configured secret")
	}
}
