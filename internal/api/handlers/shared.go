package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/validation"
)

const maxJSONBody = 1 << 20

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data any) {
	response.RespondJSON(w, status, data)
}

// parseJSON decodes the request body into T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	if r.Body == nil {
		return v, errors.New("request body is empty")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("invalid JSON: %w", err)
	}
	return v, nil
}

// pathID returns the integer URL parameter key.
func pathID(r *http.Request, key string) (int64, error) {
	return validation.ParseID(chi.URLParam(r, key))
}

// respondValidation writes 400 with the offending fields as details.
func respondValidation(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}
	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
}

// respondServiceError maps a service error to its status code. fallback is the
// message used for unexpected failures.
func respondServiceError(w http.ResponseWriter, r *http.Request, fallback error, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, apperrors.ErrInsiderTradeNotFound),
		errors.Is(err, apperrors.ErrTickerNotFound),
		errors.Is(err, apperrors.ErrMyTradeNotFound),
		errors.Is(err, apperrors.ErrPerformanceNotFound),
		errors.Is(err, apperrors.ErrRelatedInsiderTradeNotFound):
		response.RespondError(w, http.StatusNotFound, notFoundMessage(err), err.Error())
	case errors.Is(err, apperrors.ErrInvalidCSVHeaders),
		errors.Is(err, validation.ErrInvalidDate),
		errors.Is(err, validation.ErrInvalidTicker):
		response.RespondError(w, http.StatusBadRequest, fallback.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrUnauthorized):
		response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthorized.Error(), err.Error())
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		response.RespondError(w, http.StatusBadGateway, fallback.Error(), err.Error())
	default:
		logging.FromContext(r.Context()).WithError(err).Error(fallback.Error())
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}

func notFoundMessage(err error) string {
	for _, target := range []error{
		apperrors.ErrRelatedInsiderTradeNotFound,
		apperrors.ErrInsiderTradeNotFound,
		apperrors.ErrTickerNotFound,
		apperrors.ErrMyTradeNotFound,
		apperrors.ErrPerformanceNotFound,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "not found"
}
