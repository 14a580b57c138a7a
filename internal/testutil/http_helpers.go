package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
)

// NewRequestWithURLParams creates an HTTP request with chi URL parameters.
// This helper simplifies testing chi handlers that use chi.URLParam() to extract path parameters.
//
// Example:
//
//	req := testutil.NewRequestWithURLParams(
//	    http.MethodGet,
//	    "/api/my-trades/12",
//	    map[string]string{"id": "12"},
//	)
func NewRequestWithURLParams(method, path string, params map[string]string) *http.Request {
	return WithURLParams(httptest.NewRequest(method, path, nil), params)
}

// NewJSONRequest creates a request whose body is the JSON encoding of body.
//
// Example:
//
//	req := testutil.NewJSONRequest(http.MethodPatch, "/api/performance/3", map[string]any{"price1w": 110})
func NewJSONRequest(method, path string, body any) *http.Request {
	payload, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithURLParams attaches chi URL parameters to req.
func WithURLParams(req *http.Request, params map[string]string) *http.Request {
	if len(params) == 0 {
		return req
	}

	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// NewRequestWithQueryParams creates an HTTP request with query parameters.
// This helper simplifies testing handlers that use r.URL.Query() to extract query string parameters.
//
// Example:
//
//	req := testutil.NewRequestWithQueryParams(
//	    http.MethodGet,
//	    "/api/insider",
//	    map[string]string{
//	        "date_from": "2024-01-01",
//	        "date_to": "2024-12-31",
//	    },
//	)
func NewRequestWithQueryParams(method, path string, queryParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)

	if len(queryParams) > 0 {
		q := req.URL.Query()
		for key, value := range queryParams {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req
}
