// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/validation"
)

// ValidateIDMiddleware returns a middleware that checks the URL parameter param holds a
// positive integer ID. Returns 400 Bad Request if it is missing or malformed.
//
// Example usage in router:
//
//	r.Route("/{id}", func(r chi.Router) {
//	    r.Use(middleware.ValidateIDMiddleware("id"))
//	    r.Get("/", handler.GetMyTrade)
//	    r.Patch("/", handler.UpdateMyTrade)
//	})
func ValidateIDMiddleware(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, param)

			if id == "" {
				response.RespondError(w, http.StatusBadRequest, "valid ID is required", "")
				return
			}

			if _, err := validation.ParseID(id); err != nil {
				response.RespondError(w, http.StatusBadRequest, "invalid ID format", err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
