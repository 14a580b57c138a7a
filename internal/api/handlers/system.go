package handlers

import (
	"net/http"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/service"
)

// SystemHandler serves liveness and version information.
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health reports whether the database answers a ping.
//
// Endpoint: GET /api/system/health
// Response: 200 OK when healthy, 503 Service Unavailable otherwise
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		logging.FromContext(r.Context()).WithError(err).Warn("health check failed")
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Database: "connected"})
}

// Version handles GET requests for the application and schema versions.
// migration_needed is true when the binary ships migrations the database has not applied.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with model.VersionInfo
// Error: 500 Internal Server Error if the schema version cannot be read
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	info, err := h.systemService.CheckVersion()
	if err != nil {
		logging.FromContext(r.Context()).WithError(err).Error("version check failed")
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetVersionInfo.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, info)
}
