package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/logging"
)

// AuthHandler exchanges the admin credentials for a bearer token.
type AuthHandler struct {
	gate *auth.Gate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(gate *auth.Gate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

// Login handles POST requests with a username and password.
//
// Endpoint: POST /api/auth/login
// Request Body: LoginRequest (username, password)
// Response: 200 OK with TokenResponse
// Error: 400 Bad Request if the body is invalid
// Error: 401 Unauthorized if the credentials do not match
// Error: 500 Internal Server Error if authentication is not configured
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(w, err)
		return
	}

	token, err := h.gate.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, apperrors.ErrAuthNotConfigured):
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrAuthNotConfigured.Error(), "Authentication not loaded")
		return
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		logging.FromContext(r.Context()).Warn("failed login attempt")
		response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthorized.Error(), err.Error())
		return
	case err != nil:
		respondServiceError(w, r, apperrors.ErrUnauthorized, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, token)
}
