package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/config"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/testutil"
)

func TestAuthHandler_Login(t *testing.T) {
	gate := testutil.NewTestGate(t)
	handler := NewAuthHandler(gate)

	t.Run("issues a token that the gate accepts", func(t *testing.T) {
		req := testutil.NewJSONRequest(http.MethodPost, "/api/auth/login", map[string]string{
			"username": testutil.TestAdminUsername,
			"password": testutil.TestAdminPassword,
		})
		w := httptest.NewRecorder()

		handler.Login(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.TokenResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.TokenType != auth.TokenType {
			t.Errorf("Expected token type Bearer, got %s", response.TokenType)
		}
		if _, err := gate.Verify(response.AccessToken); err != nil {
			t.Errorf("Expected issued token to verify, got %v", err)
		}
	})

	t.Run("returns 401 for a wrong password", func(t *testing.T) {
		req := testutil.NewJSONRequest(http.MethodPost, "/api/auth/login", map[string]string{
			"username": testutil.TestAdminUsername,
			"password": "guess",
		})
		w := httptest.NewRecorder()

		handler.Login(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for a missing password", func(t *testing.T) {
		req := testutil.NewJSONRequest(http.MethodPost, "/api/auth/login", map[string]string{
			"username": testutil.TestAdminUsername,
		})
		w := httptest.NewRecorder()

		handler.Login(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 500 when authentication is not configured", func(t *testing.T) {
		unconfigured, err := auth.NewGate(config.AuthConfig{})
		if err != nil {
			t.Fatalf("NewGate() returned unexpected error: %v", err)
		}
		req := testutil.NewJSONRequest(http.MethodPost, "/api/auth/login", map[string]string{
			"username": "admin",
			"password": "x",
		})
		w := httptest.NewRecorder()

		NewAuthHandler(unconfigured).Login(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}
