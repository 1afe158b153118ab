package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTManager_GenerateAndParse(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	token, err := manager.GenerateToken("operator-1", "admin@example.com", "operator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "operator-1" || claims.Email != "admin@example.com" || claims.Role != "operator" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != issuer {
		t.Fatalf("expected issuer %s, got %s", issuer, claims.Issuer)
	}

	if _, err := manager.ParseToken(token + "tampered"); err == nil {
		t.Fatalf("expected parse error for tampered token")
	}
	if _, err := NewJWTManager("other", time.Hour).ParseToken(token); err == nil {
		t.Fatalf("expected parse error for foreign secret")
	}
}

func TestJWTManager_ParseBearer(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	token, err := manager.GenerateToken("operator-1", "admin@example.com", "operator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, value := range []string{token, BearerValue(token), "bearer " + token} {
		if _, err := manager.ParseBearer(value); err != nil {
			t.Fatalf("ParseBearer(%q): %v", value, err)
		}
	}
	for _, value := range []string{"", "  ", "Bearer ", "Bearer", "bearer", " BEARER  "} {
		if _, err := manager.ParseBearer(value); !errors.Is(err, ErrMissingToken) {
			t.Fatalf("ParseBearer(%q): expected ErrMissingToken, got %v", value, err)
		}
	}
}

func TestJWTManager_Expired(t *testing.T) {
	manager := NewJWTManager("secret", time.Millisecond)
	token, err := manager.GenerateToken("operator-1", "admin@example.com", "operator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)
	if _, err := manager.ParseToken(token); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestJWTManager_EmptySecret(t *testing.T) {
	manager := NewJWTManager("", time.Hour)
	if _, err := manager.GenerateToken("user", "user@example.com", "operator"); err == nil {
		t.Fatalf("expected error when secret is empty")
	}
	if NewJWTManager("s", 0).TTL() != time.Hour {
		t.Fatalf("expected default ttl of one hour")
	}
}
