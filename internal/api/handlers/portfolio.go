package handlers

import (
	"net/http"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/service"
)

// PortfolioHandler serves the positions derived from the personal trade log.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Portfolio handles GET requests for every position and their totals.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with Portfolio
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.portfolioService.GetPortfolio(r.Context())
	if err != nil {
		respondServiceError(w, r, apperrors.ErrFailedToGetPortfolio, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}
