// Package auth implements the single-admin access gate: a bcrypt password check that
// issues Fernet bearer tokens, and verification of those tokens.
package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/config"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
)

// TokenType is the scheme expected in the Authorization header.
const TokenType = "Bearer"

// Gate validates credentials and bearer tokens for the configured admin.
// A Gate built from an incomplete configuration rejects everything with
// apperrors.ErrAuthNotConfigured.
type Gate struct {
	username     string
	passwordHash []byte
	key          *fernet.Key
	ttl          time.Duration
	now          func() time.Time
}

// NewGate builds a Gate from cfg. A malformed token key is an error; missing
// settings produce an unconfigured Gate.
func NewGate(cfg config.AuthConfig) (*Gate, error) {
	g := &Gate{
		username:     cfg.Username,
		passwordHash: []byte(cfg.PasswordHash),
		ttl:          cfg.TokenTTL,
		now:          time.Now,
	}
	if cfg.TokenKey != "" {
		key, err := fernet.DecodeKey(cfg.TokenKey)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTH_TOKEN_KEY: %w", err)
		}
		g.key = key
	}
	return g, nil
}

// Configured reports whether the gate has an identity and a token key.
func (g *Gate) Configured() bool {
	return g != nil && g.username != "" && len(g.passwordHash) > 0 && g.key != nil && g.ttl > 0
}

// Login checks the credentials and issues a token for the admin.
func (g *Gate) Login(username, password string) (model.TokenResponse, error) {
	if !g.Configured() {
		return model.TokenResponse{}, apperrors.ErrAuthNotConfigured
	}

	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password))
	if !userMatch || passErr != nil {
		return model.TokenResponse{}, apperrors.ErrInvalidCredentials
	}

	token, err := g.Issue(g.username)
	if err != nil {
		return model.TokenResponse{}, err
	}
	return model.TokenResponse{
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresIn:   int(g.ttl.Seconds()),
	}, nil
}

// Issue signs a token carrying subject, stamped with the gate's clock.
func (g *Gate) Issue(subject string) (string, error) {
	if !g.Configured() {
		return "", apperrors.ErrAuthNotConfigured
	}
	tok, err := fernet.EncryptAndSignAtTime([]byte(subject), g.key, g.now())
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(tok), nil
}

// Verify returns the subject of a valid, unexpired token issued for the admin.
// Anything else fails with apperrors.ErrUnauthorized.
func (g *Gate) Verify(token string) (string, error) {
	if !g.Configured() {
		return "", apperrors.ErrAuthNotConfigured
	}

	msg := fernet.VerifyAndDecrypt([]byte(strings.TrimSpace(token)), g.ttl, []*fernet.Key{g.key})
	if msg == nil {
		return "", apperrors.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare(msg, []byte(g.username)) != 1 {
		return "", apperrors.ErrUnauthorized
	}
	return string(msg), nil
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
