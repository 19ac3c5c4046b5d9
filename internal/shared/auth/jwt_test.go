package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSignAndVerifyRoundTripKeepsRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := SignJWT(Claims{Sub: "member-1", Email: "cfo@example.org", Role: "CFO", OrganizationID: "org-1"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Role != "CFO" || claims.OrganizationID != "org-1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Exp-claims.Iat != int64(TokenTTL/time.Second) {
		t.Fatalf("unexpected ttl: %d", claims.Exp-claims.Iat)
	}
}

func TestVerifyRejectsTamperedAndExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := SignJWT(Claims{Sub: "member-1"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := VerifyJWT(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}

	expired, err := SignJWT(Claims{Sub: "member-1", Iat: 1, Exp: 2})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	if _, err := VerifyJWT(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestSignRequiresSecretInProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENV", "production")
	if _, err := SignJWT(Claims{Sub: "member-1"}); !errors.Is(err, errMissingSecret) {
		t.Fatalf("expected missing secret error, got %v", err)
	}
	t.Setenv("ENV", "dev")
	if _, err := SignJWT(Claims{}); !errors.Is(err, ErrMissingSub) {
		t.Fatalf("expected ErrMissingSub, got %v", err)
	}
}
