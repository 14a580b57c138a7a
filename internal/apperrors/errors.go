package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
var (
	// ErrInsiderTradeNotFound indicates that an insider trade with the given ID does not exist.
	ErrInsiderTradeNotFound = errors.New("insider trade not found")

	// ErrTickerNotFound indicates that no insider trades exist for the requested ticker.
	ErrTickerNotFound = errors.New("no insider trades found for ticker")

	// ErrMyTradeNotFound indicates that a personal trade with the given ID does not exist.
	ErrMyTradeNotFound = errors.New("trade not found")

	// ErrPerformanceNotFound indicates that no performance record exists for the given trade.
	ErrPerformanceNotFound = errors.New("performance record not found")

	// ErrRelatedInsiderTradeNotFound indicates a personal trade references a missing insider trade.
	ErrRelatedInsiderTradeNotFound = errors.New("related insider trade not found")
)

// Access errors.
var (
	// ErrUnauthorized indicates missing, invalid or expired credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrAuthNotConfigured indicates the server has no admin identity or token key.
	ErrAuthNotConfigured = errors.New("authentication not loaded")
)

// Collaborator and storage failures.
var (
	// ErrUpstreamUnavailable indicates the price source could not be reached or returned an error.
	ErrUpstreamUnavailable = errors.New("price source unavailable")

	// ErrNoPriceData indicates the price source returned nothing usable.
	ErrNoPriceData = errors.New("no price data")

	// ErrStorage wraps a failure in the persistence layer.
	ErrStorage = errors.New("storage error")

	// ErrInvalidCSVHeaders indicates a bulk load file is missing required columns.
	ErrInvalidCSVHeaders = errors.New("invalid CSV headers")
)

// Operation failure errors used as user-facing messages.
var (
	ErrFailedToRetrieveInsiderTrades = errors.New("failed to retrieve insider trades")
	ErrFailedToRetrieveInsiderTrade  = errors.New("failed to retrieve insider trade")
	ErrFailedToRetrieveTickers       = errors.New("failed to retrieve tickers")
	ErrFailedToGetTickerSummary      = errors.New("failed to get ticker summary")
	ErrFailedToImportInsiderTrades   = errors.New("failed to import insider trades")

	ErrFailedToRetrieveMyTrades = errors.New("failed to retrieve trades")
	ErrFailedToRetrieveMyTrade  = errors.New("failed to retrieve trade")
	ErrFailedToCreateMyTrade    = errors.New("failed to create trade")
	ErrFailedToUpdateMyTrade    = errors.New("failed to update trade")
	ErrFailedToDeleteMyTrade    = errors.New("failed to delete trade")

	ErrFailedToRetrievePerformance  = errors.New("failed to retrieve performance")
	ErrFailedToGetDashboard         = errors.New("failed to get dashboard")
	ErrFailedToUpdatePerformance    = errors.New("failed to update performance")
	ErrFailedToRunPerformanceUpdate = errors.New("failed to run performance update")

	ErrFailedToGetPortfolio = errors.New("failed to get portfolio")

	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)
