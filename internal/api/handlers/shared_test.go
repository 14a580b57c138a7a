package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/validation"
)

// TestRespondJSON tests the respondJSON helper function.
// This is an internal test (package handlers, not handlers_test) because
// respondJSON is unexported.
func TestRespondJSON(t *testing.T) {
	t.Run("sets content-type and status code correctly", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{"message": "success"}

		respondJSON(w, 200, data)

		if w.Code != 200 {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		if w.Header().Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type 'application/json', got '%s'", w.Header().Get("Content-Type"))
		}
	})

	t.Run("handles nil data without error", func(t *testing.T) {
		w := httptest.NewRecorder()

		respondJSON(w, 204, nil)

		if w.Code != 204 {
			t.Errorf("Expected status 204, got %d", w.Code)
		}
	})

	t.Run("handles un-encodable data gracefully", func(t *testing.T) {
		w := httptest.NewRecorder()

		// Channels cannot be JSON encoded
		data := map[string]any{
			"channel": make(chan int),
		}

		// Should not panic, just log the error
		respondJSON(w, 200, data)

		// Status should still be set even if encoding fails
		if w.Code != 200 {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		// Content-Type should still be set
		if w.Header().Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type to be set")
		}
	})

	t.Run("encodes valid data successfully", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{
			"name":  "test",
			"value": "data",
		}

		respondJSON(w, 200, data)

		if w.Body.Len() == 0 {
			t.Error("Expected response body to contain JSON data")
		}

		body := w.Body.String()
		if body == "" {
			t.Error("Expected non-empty response body")
		}
	})
}

func TestParseJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes a valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"AAPL"}`))

		got, err := parseJSON[payload](req)
		if err != nil {
			t.Fatalf("parseJSON() returned unexpected error: %v", err)
		}
		if got.Name != "AAPL" {
			t.Errorf("Expected name AAPL, got %s", got.Name)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"AAPL","extra":1}`))

		if _, err := parseJSON[payload](req); err == nil {
			t.Error("Expected error for unknown field")
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

		if _, err := parseJSON[payload](req); err == nil {
			t.Error("Expected error for malformed body")
		}
	})
}

// TestRespondServiceError tests the mapping from service errors to status codes.
//
// WHY: Every handler relies on this mapping. Wrapped sentinels must still resolve to their
// status so that services can add context without changing the HTTP contract.
func TestRespondServiceError(t *testing.T) {
	fallback := errors.New("operation failed")
	verr := &validation.Error{}
	verr.Add("ticker", "invalid ticker")

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation error", verr, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("failed to update trade: %w", apperrors.ErrMyTradeNotFound), http.StatusNotFound},
		{"ticker not found", apperrors.ErrTickerNotFound, http.StatusNotFound},
		{"missing related insider trade", apperrors.ErrRelatedInsiderTradeNotFound, http.StatusNotFound},
		{"bad upload headers", fmt.Errorf("%w: missing Ticker", apperrors.ErrInvalidCSVHeaders), http.StatusBadRequest},
		{"invalid date", fmt.Errorf("%w: 2024-13-01", validation.ErrInvalidDate), http.StatusBadRequest},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"upstream down", fmt.Errorf("%w: timeout", apperrors.ErrUpstreamUnavailable), http.StatusBadGateway},
		{"storage", fmt.Errorf("%w: disk I/O error", apperrors.ErrStorage), http.StatusInternalServerError},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			respondServiceError(w, req, fallback, tt.err)

			if w.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, w.Code)
			}
		})
	}

	t.Run("validation details hold the field map", func(t *testing.T) {
		w := httptest.NewRecorder()
		respondServiceError(w, httptest.NewRequest(http.MethodGet, "/", nil), fallback, verr)

		var response struct {
			Details map[string]string `json:"details"`
		}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Details["ticker"] != "invalid ticker" {
			t.Errorf("Expected ticker detail, got %v", response.Details)
		}
	})
}
