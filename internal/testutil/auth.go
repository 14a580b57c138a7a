package testutil

import (
	"testing"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/config"
)

// Credentials of the gate returned by NewTestGate.
const (
	TestAdminUsername = "admin"
	TestAdminPassword = "s3cret"
)

// NewTestGate creates a configured gate with a fresh token key and a one hour TTL.
//
// Example usage:
//
//	gate := testutil.NewTestGate(t)
//	token := testutil.IssueToken(t, gate)
//	req.Header.Set("Authorization", "Bearer "+token)
func NewTestGate(t *testing.T) *auth.Gate {
	t.Helper()

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate token key: %v", err)
	}
	hash, err := auth.HashPassword(TestAdminPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	gate, err := auth.NewGate(config.AuthConfig{
		Username:     TestAdminUsername,
		PasswordHash: hash,
		TokenKey:     key.Encode(),
		TokenTTL:     time.Hour,
	})
	if err != nil {
		t.Fatalf("Failed to create gate: %v", err)
	}
	return gate
}

// IssueToken returns a valid bearer token for the admin of gate.
func IssueToken(t *testing.T, gate *auth.Gate) string {
	t.Helper()

	token, err := gate.Issue(TestAdminUsername)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}
