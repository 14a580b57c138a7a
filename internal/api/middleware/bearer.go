package middleware

import (
	"net/http"
	"strings"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/logging"
)

// RequireBearer returns a middleware that only lets requests through with a valid
// "Authorization: Bearer <token>" header issued by gate.
//
// Responses:
//   - 401 with "Missing bearer token" when the header is absent or not a bearer token
//   - 401 with "Token is invalid or expired" when verification fails
//   - 500 with "Authentication not loaded" when the gate has no identity or key
func RequireBearer(gate *auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil || !gate.Configured() {
				response.RespondError(w, http.StatusInternalServerError, "authentication error", "Authentication not loaded")
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
				return
			}

			subject, err := gate.Verify(token)
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Token is invalid or expired")
				return
			}

			entry := logging.FromContext(r.Context()).WithField("user", subject)
			next.ServeHTTP(w, r.WithContext(logging.WithLogger(r.Context(), entry)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, auth.TokenType) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
