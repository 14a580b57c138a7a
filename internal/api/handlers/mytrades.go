package handlers

import (
	"net/http"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/service"
)

// MyTradeHandler handles HTTP requests for the personal trade log.
type MyTradeHandler struct {
	myTradeService *service.MyTradeService
}

// NewMyTradeHandler creates a new MyTradeHandler with the provided service dependency.
func NewMyTradeHandler(myTradeService *service.MyTradeService) *MyTradeHandler {
	return &MyTradeHandler{
		myTradeService: myTradeService,
	}
}

// ListMyTrades handles GET requests for a filtered page of personal trades.
//
// Endpoint: GET /api/my-trades
// Query: ticker, trade_type, date_from, date_to, limit, offset
// Response: 200 OK with array of MyTrade
func (h *MyTradeHandler) ListMyTrades(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseMyTradeFilters(r.URL.Query())
	if err != nil {
		respondValidation(w, err)
		return
	}

	trades, err := h.myTradeService.ListMyTrades(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToRetrieveMyTrades, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, trades)
}

// GetMyTrade handles GET requests for a single personal trade with its performance record.
//
// Endpoint: GET /api/my-trades/{id}
// Response: 200 OK with MyTradeWithPerformance
// Error: 404 Not Found if the trade does not exist
func (h *MyTradeHandler) GetMyTrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid ID", err.Error())
		return
	}

	trade, err := h.myTradeService.GetMyTrade(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToRetrieveMyTrade, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, trade)
}

// CreateMyTrade handles POST requests to log a personal trade.
// The trade and its performance record are created together.
//
// Endpoint: POST /api/my-trades
// Request Body: CreateMyTradeRequest
// Response: 201 Created with MyTrade
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if relatedInsiderTradeId does not exist
func (h *MyTradeHandler) CreateMyTrade(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateMyTradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(w, err)
		return
	}

	trade, err := h.myTradeService.CreateMyTrade(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToCreateMyTrade, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, trade)
}

// UpdateMyTrade handles PATCH requests editing notes, price, shares or trade date.
//
// Endpoint: PATCH /api/my-trades/{id}
// Request Body: UpdateMyTradeRequest (all fields optional)
// Response: 200 OK with the updated MyTrade
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the trade does not exist
func (h *MyTradeHandler) UpdateMyTrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid ID", err.Error())
		return
	}

	req, err := parseJSON[request.UpdateMyTradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(w, err)
		return
	}

	trade, err := h.myTradeService.UpdateMyTrade(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToUpdateMyTrade, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, trade)
}

// DeleteMyTrade handles DELETE requests. The performance record is removed with the trade.
//
// Endpoint: DELETE /api/my-trades/{id}
// Response: 204 No Content
// Error: 404 Not Found if the trade does not exist
func (h *MyTradeHandler) DeleteMyTrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid ID", err.Error())
		return
	}

	if err := h.myTradeService.DeleteMyTrade(r.Context(), id); err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToDeleteMyTrade, err)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
