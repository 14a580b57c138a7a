package handlers

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/importer"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/service"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/validation"
)

const maxImportSize = 32 << 20

// InsiderHandler handles HTTP requests for the insider filing endpoints.
type InsiderHandler struct {
	insiderService *service.InsiderService
}

// NewInsiderHandler creates a new InsiderHandler with the provided service dependency.
func NewInsiderHandler(insiderService *service.InsiderService) *InsiderHandler {
	return &InsiderHandler{
		insiderService: insiderService,
	}
}

// ListInsiderTrades handles GET requests for a filtered page of insider trades.
//
// Endpoint: GET /api/insider
// Query: ticker, insider_name, transaction_type, date_from, date_to, min_value, max_value, limit, offset
// Response: 200 OK with array of InsiderTrade, newest trade date first
// Error: 400 Bad Request if a parameter is malformed
// Error: 500 Internal Server Error if retrieval fails
func (h *InsiderHandler) ListInsiderTrades(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseInsiderTradeFilters(r.URL.Query())
	if err != nil {
		respondValidation(w, err)
		return
	}

	trades, err := h.insiderService.ListInsiderTrades(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToRetrieveInsiderTrades, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, trades)
}

// CountInsiderTrades handles GET requests for the number of trades matching the list filters.
//
// Endpoint: GET /api/insider/count
// Response: 200 OK with {"count": n}
func (h *InsiderHandler) CountInsiderTrades(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseInsiderTradeFilters(r.URL.Query())
	if err != nil {
		respondValidation(w, err)
		return
	}

	count, err := h.insiderService.CountInsiderTrades(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToRetrieveInsiderTrades, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, count)
}

// Tickers handles GET requests for every ticker with insider activity.
//
// Endpoint: GET /api/insider/tickers
// Response: 200 OK with a sorted array of tickers
func (h *InsiderHandler) Tickers(w http.ResponseWriter, r *http.Request) {
	tickers, err := h.insiderService.GetTickers(r.Context())
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToRetrieveTickers, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, tickers)
}

// TickerSummary handles GET requests for the insider aggregate of a single ticker.
// The list filters apply, except ticker and pagination.
//
// Endpoint: GET /api/insider/ticker/{ticker}/summary
// Response: 200 OK with TickerSummary
// Error: 400 Bad Request if the ticker or a filter is malformed
// Error: 404 Not Found if the ticker has no insider trades
// Error: 500 Internal Server Error if aggregation fails
func (h *InsiderHandler) TickerSummary(w http.ResponseWriter, r *http.Request) {
	ticker, err := validation.NormalizeTicker(chi.URLParam(r, "ticker"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid ticker", err.Error())
		return
	}

	filter, err := request.ParseInsiderTradeFilters(r.URL.Query())
	if err != nil {
		respondValidation(w, err)
		return
	}

	summary, err := h.insiderService.GetTickerSummary(r.Context(), ticker, filter)
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToGetTickerSummary, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// GetInsiderTrade handles GET requests to retrieve a single insider trade.
//
// Endpoint: GET /api/insider/{id}
// Response: 200 OK with InsiderTrade
// Error: 400 Bad Request if the ID is invalid
// Error: 404 Not Found if the trade does not exist
func (h *InsiderHandler) GetInsiderTrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid ID", err.Error())
		return
	}

	trade, err := h.insiderService.GetInsiderTrade(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToRetrieveInsiderTrade, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, trade)
}

// ImportInsiderTrades handles a bulk load of insider filings.
//
// The file is sent either as the "file" field of a multipart form, or as the raw request
// body. XLSX is detected from the file name or content type; anything else is read as CSV.
//
// Endpoint: POST /api/insider/import
// Response: 200 OK with ImportResult
// Error: 400 Bad Request if the file is missing or has no usable header
// Error: 500 Internal Server Error if storing fails
func (h *InsiderHandler) ImportInsiderTrades(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	body, name, err := importSource(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid upload", err.Error())
		return
	}
	defer body.Close()

	result, err := h.insiderService.ImportInsiderTrades(r.Context(), body, importer.FormatFromName(name))
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToImportInsiderTrades, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// importSource returns the uploaded file and a name (file name or content type) for
// format detection.
func importSource(r *http.Request) (io.ReadCloser, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", err
		}
		return file, header.Filename, nil
	}

	name := mediaType
	if v := r.URL.Query().Get("filename"); v != "" {
		name = v
	}
	return r.Body, name, nil
}
