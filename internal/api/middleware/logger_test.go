package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/logging"
)

func TestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()

	var fromHandler *logrus.Entry
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromHandler = logging.FromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})

	h := chimiddleware.RequestID(middleware.Logger(logger)(next))
	req := httptest.NewRequest(http.MethodGet, "/api/insider/7%0D%0Aforged", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if fromHandler == nil || fromHandler.Data["request_id"] == "" {
		t.Fatal("Expected request-scoped entry with request_id in handler context")
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("Expected a log entry")
	}
	if entry.Level != logrus.WarnLevel {
		t.Errorf("Expected warn level for 404, got %s", entry.Level)
	}
	if entry.Data["status"] != http.StatusNotFound {
		t.Errorf("Expected status 404, got %v", entry.Data["status"])
	}
	if entry.Data["path"] != "/api/insider/7forged" {
		t.Errorf("Expected CR/LF stripped path, got %q", entry.Data["path"])
	}
}
