package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/config"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/testutil"
)

// newTestServer wires the full router against an in-memory database.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	client := testutil.NewMockYahooClient()

	cfg := &config.Config{
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Updater: config.UpdaterConfig{Policy: "incomplete"},
	}

	return api.NewRouter(api.Services{
		System:      testutil.NewTestSystemService(t, db),
		Insider:     testutil.NewTestInsiderService(t, db),
		MyTrade:     testutil.NewTestMyTradeService(t, db),
		Performance: testutil.NewTestPerformanceService(t, db),
		Updater:     testutil.NewTestPerformanceUpdater(t, db, client, 2, 5*time.Second),
		Portfolio:   testutil.NewTestPortfolioService(t, db, client),
		Gate:        testutil.NewTestGate(t),
	}, cfg, logging.Discard())
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// TestRouter_GatedEndpoints tests that import and bulk update require a token from
// /api/auth/login while reads stay open.
//
// WHY: the gate is applied per route, so a missing With(requireBearer) would
// silently open a write endpoint.
func TestRouter_GatedEndpoints(t *testing.T) {
	h := newTestServer(t)
	csv := "Trade Date,Ticker,Insider Name,Trade Type\n2024-01-15,AAPL,Jane Doe,P - Purchase\n"

	t.Run("rejects import without a token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/insider/import", strings.NewReader(csv))
		w := serve(h, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("rejects bulk update without a token", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodPost, "/api/performance/update", nil))

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	loginReq := testutil.NewJSONRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"username": testutil.TestAdminUsername,
		"password": testutil.TestAdminPassword,
	})
	w := serve(h, loginReq)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected login 200, got %d: %s", w.Code, w.Body.String())
	}
	var token model.TokenResponse
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&token)

	t.Run("accepts import with the issued token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/insider/import", strings.NewReader(csv))
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		w := serve(h, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = serve(h, httptest.NewRequest(http.MethodGet, "/api/insider/count", nil))
		if !strings.Contains(w.Body.String(), `"count":1`) {
			t.Errorf("Expected count 1 after import, got %s", w.Body.String())
		}
	})

	t.Run("accepts bulk update with the issued token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/performance/update?policy=all", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		w := serve(h, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestRouter_Routes(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"health", http.MethodGet, "/api/system/health", http.StatusOK},
		{"version", http.MethodGet, "/api/system/version", http.StatusOK},
		{"insider list", http.MethodGet, "/api/insider", http.StatusOK},
		{"insider tickers", http.MethodGet, "/api/insider/tickers", http.StatusOK},
		{"insider non-numeric id", http.MethodGet, "/api/insider/abc", http.StatusBadRequest},
		{"insider unknown id", http.MethodGet, "/api/insider/5", http.StatusNotFound},
		{"unknown ticker summary", http.MethodGet, "/api/insider/ticker/ZZZ/summary", http.StatusNotFound},
		{"my trades list", http.MethodGet, "/api/my-trades", http.StatusOK},
		{"my trade zero id", http.MethodGet, "/api/my-trades/0", http.StatusBadRequest},
		{"performance list", http.MethodGet, "/api/performance", http.StatusOK},
		{"dashboard", http.MethodGet, "/api/performance/dashboard", http.StatusOK},
		{"performance unknown id", http.MethodGet, "/api/performance/3", http.StatusNotFound},
		{"portfolio", http.MethodGet, "/api/portfolio", http.StatusOK},
		{"put not allowed", http.MethodPut, "/api/my-trades/1", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}
