package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/testutil"
)

func setupPerformanceHandler(t *testing.T, client *testutil.MockYahooClient) (*PerformanceHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	updater := testutil.NewTestPerformanceUpdater(t, db, client, 2, 5*time.Second)
	return NewPerformanceHandler(testutil.NewTestPerformanceService(t, db), updater, model.UpdatePolicyIncomplete), db
}

// TestPerformanceHandler_UpdatePerformance tests PATCH /api/performance/{myTradeId}.
//
// WHY: manual snapshots are the fallback when the price source is down, so the
// returns they produce must match the automated path.
func TestPerformanceHandler_UpdatePerformance(t *testing.T) {
	handler, db := setupPerformanceHandler(t, testutil.NewMockYahooClient())
	testutil.NewMyTrade().WithPrice(100).Build(t, db)

	t.Run("stores the snapshot and its return", func(t *testing.T) {
		req := testutil.NewJSONRequest(http.MethodPatch, "/api/performance/1", map[string]any{"price1m": 112.5})
		req = testutil.WithURLParams(req, map[string]string{"myTradeId": "1"})
		w := httptest.NewRecorder()

		handler.UpdatePerformance(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var record model.PerformanceRecord
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&record)

		if record.Return1M == nil || *record.Return1M != 12.5 {
			t.Errorf("Expected 1m return 12.5, got %v", record.Return1M)
		}
	})

	t.Run("returns 400 for an empty body", func(t *testing.T) {
		req := testutil.NewJSONRequest(http.MethodPatch, "/api/performance/1", map[string]any{})
		req = testutil.WithURLParams(req, map[string]string{"myTradeId": "1"})
		w := httptest.NewRecorder()

		handler.UpdatePerformance(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 404 for unknown trade", func(t *testing.T) {
		req := testutil.NewJSONRequest(http.MethodPatch, "/api/performance/9", map[string]any{"price1w": 1})
		req = testutil.WithURLParams(req, map[string]string{"myTradeId": "9"})
		w := httptest.NewRecorder()

		handler.UpdatePerformance(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestPerformanceHandler_GetPerformance(t *testing.T) {
	handler, db := setupPerformanceHandler(t, testutil.NewMockYahooClient())
	testutil.NewMyTrade().WithSnapshot(model.Horizon1W, 105, 5).Build(t, db)

	req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/performance/1", map[string]string{"myTradeId": "1"})
	w := httptest.NewRecorder()

	handler.GetPerformance(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var record model.PerformanceRecord
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&record)

	if record.Return1W == nil || *record.Return1W != 5 {
		t.Errorf("Expected 1w return 5, got %v", record.Return1W)
	}
}

func TestPerformanceHandler_Dashboard(t *testing.T) {
	handler, db := setupPerformanceHandler(t, testutil.NewMockYahooClient())
	testutil.NewInsiderTrade().Build(t, db)
	testutil.NewMyTrade().WithTicker("AAPL").WithSnapshot(model.Horizon1M, 110, 10).Build(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/performance/dashboard", nil)
	w := httptest.NewRecorder()

	handler.Dashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var dashboard model.Dashboard
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&dashboard)

	if dashboard.TotalInsiderTrades != 1 || dashboard.TotalMyTrades != 1 {
		t.Errorf("Expected 1 insider and 1 own trade, got %+v", dashboard)
	}
	if dashboard.BestPerformer == nil || *dashboard.BestPerformer != "AAPL (+10.00% 1m)" {
		t.Errorf("Expected best performer AAPL (+10.00%% 1m), got %v", dashboard.BestPerformer)
	}
}

// TestPerformanceHandler_RunUpdate tests POST /api/performance/update.
//
// WHY: an unreachable price source must surface as per-trade failures in the
// summary, never as a failed request.
func TestPerformanceHandler_RunUpdate(t *testing.T) {
	t.Run("reports upstream failures per trade", func(t *testing.T) {
		client := testutil.NewMockYahooClient().WithError(errors.New("connection refused"))
		handler, db := setupPerformanceHandler(t, client)
		testutil.NewMyTrade().WithTicker("AAPL").Build(t, db)
		testutil.NewMyTrade().WithTicker("MSFT").WithTradeDate(testutil.DaysAgo(0)).Build(t, db)

		req := httptest.NewRequest(http.MethodPost, "/api/performance/update", nil)
		w := httptest.NewRecorder()

		handler.RunUpdate(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var summary model.PerformanceUpdateSummary
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&summary)

		if summary.Policy != model.UpdatePolicyIncomplete {
			t.Errorf("Expected default policy incomplete, got %s", summary.Policy)
		}
		if summary.Failed != 1 || summary.Skipped != 1 {
			t.Errorf("Expected 1 failed and 1 skipped, got %d and %d", summary.Failed, summary.Skipped)
		}
		if summary.Reasons[model.ReasonUpstreamUnavailable] != 1 {
			t.Errorf("Expected one upstream_unavailable reason, got %v", summary.Reasons)
		}
		if summary.Reasons[model.ReasonNotDue] != 1 {
			t.Errorf("Expected one not_due reason, got %v", summary.Reasons)
		}
	})

	t.Run("returns 400 for unknown policy", func(t *testing.T) {
		handler, _ := setupPerformanceHandler(t, testutil.NewMockYahooClient())

		req := testutil.NewRequestWithQueryParams(http.MethodPost, "/api/performance/update", map[string]string{"policy": "some"})
		w := httptest.NewRecorder()

		handler.RunUpdate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
