package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/config"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	gate, err := NewGate(config.AuthConfig{
		Username:     "admin",
		PasswordHash: hash,
		TokenKey:     key.Encode(),
		TokenTTL:     time.Hour,
	})
	if err != nil {
		t.Fatalf("Failed to create gate: %v", err)
	}
	return gate
}

func TestGate_Login(t *testing.T) {
	gate := newTestGate(t)

	t.Run("issues a verifiable token for valid credentials", func(t *testing.T) {
		resp, err := gate.Login("admin", "s3cret")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if resp.TokenType != "Bearer" {
			t.Errorf("Expected Bearer, got %s", resp.TokenType)
		}
		if resp.ExpiresIn != 3600 {
			t.Errorf("Expected 3600 seconds, got %d", resp.ExpiresIn)
		}

		subject, err := gate.Verify(resp.AccessToken)
		if err != nil {
			t.Fatalf("Expected token to verify, got %v", err)
		}
		if subject != "admin" {
			t.Errorf("Expected subject admin, got %s", subject)
		}
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		_, err := gate.Login("admin", "wrong")
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects unknown user", func(t *testing.T) {
		_, err := gate.Login("root", "s3cret")
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestGate_Verify(t *testing.T) {
	gate := newTestGate(t)

	t.Run("rejects garbage", func(t *testing.T) {
		if _, err := gate.Verify("not-a-token"); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("Expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		gate.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		defer func() { gate.now = time.Now }()

		token, err := gate.Issue("admin")
		if err != nil {
			t.Fatalf("Failed to issue token: %v", err)
		}
		gate.now = time.Now

		if _, err := gate.Verify(token); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("Expected ErrUnauthorized for expired token, got %v", err)
		}
	})

	t.Run("rejects token signed with another key", func(t *testing.T) {
		other := newTestGate(t)
		token, err := other.Issue("admin")
		if err != nil {
			t.Fatalf("Failed to issue token: %v", err)
		}
		if _, err := gate.Verify(token); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("Expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects token for another subject", func(t *testing.T) {
		token, err := gate.Issue("someone-else")
		if err != nil {
			t.Fatalf("Failed to issue token: %v", err)
		}
		if _, err := gate.Verify(token); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("Expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestGate_NotConfigured(t *testing.T) {
	gate, err := NewGate(config.AuthConfig{TokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gate.Configured() {
		t.Fatal("Expected gate without identity to be unconfigured")
	}
	if _, err := gate.Login("admin", "x"); !errors.Is(err, apperrors.ErrAuthNotConfigured) {
		t.Errorf("Expected ErrAuthNotConfigured from Login, got %v", err)
	}
	if _, err := gate.Verify("x"); !errors.Is(err, apperrors.ErrAuthNotConfigured) {
		t.Errorf("Expected ErrAuthNotConfigured from Verify, got %v", err)
	}
}

func TestNewGate_InvalidKey(t *testing.T) {
	if _, err := NewGate(config.AuthConfig{TokenKey: "short"}); err == nil {
		t.Error("Expected error for malformed key")
	}
}
