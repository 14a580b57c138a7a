package handlers

import (
	"net/http"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/service"
)

// PerformanceHandler handles HTTP requests for performance records, the dashboard and the
// bulk update.
type PerformanceHandler struct {
	performanceService *service.PerformanceService
	updater            *service.PerformanceUpdater
	defaultPolicy      model.UpdatePolicy
}

// NewPerformanceHandler creates a new PerformanceHandler. defaultPolicy applies to bulk
// updates that do not name one.
func NewPerformanceHandler(
	performanceService *service.PerformanceService,
	updater *service.PerformanceUpdater,
	defaultPolicy model.UpdatePolicy,
) *PerformanceHandler {
	return &PerformanceHandler{
		performanceService: performanceService,
		updater:            updater,
		defaultPolicy:      defaultPolicy,
	}
}

// ListPerformance handles GET requests for a page of performance records.
//
// Endpoint: GET /api/performance
// Query: ticker, limit, offset
// Response: 200 OK with array of PerformanceRecord
func (h *PerformanceHandler) ListPerformance(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParsePerformanceFilters(r.URL.Query())
	if err != nil {
		respondValidation(w, err)
		return
	}

	records, err := h.performanceService.ListPerformance(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToRetrievePerformance, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, records)
}

// Dashboard handles GET requests for the landing page totals.
//
// Endpoint: GET /api/performance/dashboard
// Response: 200 OK with Dashboard
func (h *PerformanceHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.performanceService.GetDashboard(r.Context())
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToGetDashboard, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, dashboard)
}

// GetPerformance handles GET requests for the performance record of a personal trade.
//
// Endpoint: GET /api/performance/{myTradeId}
// Response: 200 OK with PerformanceRecord
// Error: 404 Not Found if no record exists
func (h *PerformanceHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "myTradeId")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid ID", err.Error())
		return
	}

	record, err := h.performanceService.GetPerformance(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToRetrievePerformance, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, record)
}

// UpdatePerformance handles PATCH requests writing snapshot prices by hand.
// Every return is recomputed from the stored entry price.
//
// Endpoint: PATCH /api/performance/{myTradeId}
// Request Body: UpdatePerformanceRequest (price1w ... price1y, at least one)
// Response: 200 OK with the updated PerformanceRecord
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if no record exists
func (h *PerformanceHandler) UpdatePerformance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "myTradeId")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid ID", err.Error())
		return
	}

	req, err := parseJSON[request.UpdatePerformanceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(w, err)
		return
	}

	record, err := h.performanceService.UpdateSnapshots(r.Context(), id, req.Snapshots())
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToUpdatePerformance, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, record)
}

// RunUpdate handles POST requests triggering the bulk performance update.
// The run completes before the response is sent; per-trade failures are reported in the
// summary, not as an error status.
//
// Endpoint: POST /api/performance/update?policy=incomplete|all
// Response: 200 OK with PerformanceUpdateSummary
// Error: 400 Bad Request if the policy is unknown
// Error: 500 Internal Server Error if the trade list cannot be loaded
func (h *PerformanceHandler) RunUpdate(w http.ResponseWriter, r *http.Request) {
	policy, err := request.ParseUpdatePolicy(r.URL.Query(), h.defaultPolicy)
	if err != nil {
		respondValidation(w, err)
		return
	}

	summary, err := h.updater.Run(r.Context(), policy)
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToRunPerformanceUpdate, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
