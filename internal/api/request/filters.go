package request

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/validation"
)

// Pagination bounds per listing.
const (
	DefaultLimit            = 50
	MaxInsiderTradeLimit    = 500
	MaxMyTradeLimit         = 200
	MaxPerformanceLimit     = 200
	maxInsiderNameFilterLen = 100
)

// ParseInsiderTradeFilters extracts and validates insider trade filters from query parameters.
//
// Accepted parameters (all optional):
//   - ticker: exact match, case-insensitive
//   - insider_name: case-insensitive substring
//   - transaction_type: a full label ("S - Sale+OE") matches as stored; a code or alias
//     ("S", "Sale") matches every label with that code
//   - date_from, date_to: YYYY-MM-DD, inclusive bounds on trade date
//   - min_value, max_value: inclusive bounds on total value
//   - limit: non-negative, defaults to 50, values above 500 are capped
//   - offset: non-negative, defaults to 0
//
// Inverted ranges are not an error; they simply match nothing.
// Returns a *validation.Error naming every malformed parameter.
func ParseInsiderTradeFilters(q url.Values) (model.InsiderTradeFilter, error) {
	var verr validation.Error
	filter := model.InsiderTradeFilter{}

	if v := strings.TrimSpace(q.Get("ticker")); v != "" {
		ticker, err := validation.NormalizeTicker(v)
		if err != nil {
			verr.Add("ticker", err.Error())
		} else {
			filter.Ticker = &ticker
		}
	}

	if v := strings.TrimSpace(q.Get("insider_name")); v != "" {
		if len(v) > maxInsiderNameFilterLen {
			verr.Add("insider_name", "must be at most 100 characters")
		} else {
			filter.InsiderName = &v
		}
	}

	if v := strings.TrimSpace(q.Get("transaction_type")); v != "" {
		code := model.TransactionTypeCode(v)
		switch {
		case code == "":
			verr.Add("transaction_type", "unknown transaction type: "+v)
		case strings.Contains(v, " - "):
			filter.TransactionType = &v
		default:
			filter.TransactionCode = &code
		}
	}

	filter.DateFrom = parseDateParam(q, "date_from", &verr)
	filter.DateTo = parseDateParam(q, "date_to", &verr)
	filter.MinValue = parseFloatParam(q, "min_value", &verr)
	filter.MaxValue = parseFloatParam(q, "max_value", &verr)
	filter.Limit, filter.Offset = parsePagination(q, MaxInsiderTradeLimit, &verr)

	if err := verr.OrNil(); err != nil {
		return model.InsiderTradeFilter{}, err
	}
	return filter, nil
}

// ParseMyTradeFilters extracts and validates personal trade filters from query parameters.
// Accepts ticker, trade_type (buy or sell), date_from, date_to, limit (capped at 200) and offset.
func ParseMyTradeFilters(q url.Values) (model.MyTradeFilter, error) {
	var verr validation.Error
	filter := model.MyTradeFilter{}

	if v := strings.TrimSpace(q.Get("ticker")); v != "" {
		ticker, err := validation.NormalizeTicker(v)
		if err != nil {
			verr.Add("ticker", err.Error())
		} else {
			filter.Ticker = &ticker
		}
	}

	if v := strings.ToLower(strings.TrimSpace(q.Get("trade_type"))); v != "" {
		if !ValidMyTradeType[v] {
			verr.Add("trade_type", "must be 'buy' or 'sell'")
		} else {
			filter.TradeType = &v
		}
	}

	filter.DateFrom = parseDateParam(q, "date_from", &verr)
	filter.DateTo = parseDateParam(q, "date_to", &verr)
	filter.Limit, filter.Offset = parsePagination(q, MaxMyTradeLimit, &verr)

	if err := verr.OrNil(); err != nil {
		return model.MyTradeFilter{}, err
	}
	return filter, nil
}

// ParsePerformanceFilters extracts and validates performance listing filters.
func ParsePerformanceFilters(q url.Values) (model.PerformanceFilter, error) {
	var verr validation.Error
	filter := model.PerformanceFilter{}

	if v := strings.TrimSpace(q.Get("ticker")); v != "" {
		ticker, err := validation.NormalizeTicker(v)
		if err != nil {
			verr.Add("ticker", err.Error())
		} else {
			filter.Ticker = &ticker
		}
	}
	filter.Limit, filter.Offset = parsePagination(q, MaxPerformanceLimit, &verr)

	if err := verr.OrNil(); err != nil {
		return model.PerformanceFilter{}, err
	}
	return filter, nil
}

// ParseUpdatePolicy reads the optional policy parameter of a bulk update.
func ParseUpdatePolicy(q url.Values, fallback model.UpdatePolicy) (model.UpdatePolicy, error) {
	v := strings.ToLower(strings.TrimSpace(q.Get("policy")))
	if v == "" {
		return fallback, nil
	}
	policy := model.UpdatePolicy(v)
	if !model.ValidUpdatePolicies[policy] {
		return "", &validation.Error{Fields: map[string]string{"policy": "must be 'incomplete' or 'all'"}}
	}
	return policy, nil
}

func parseDateParam(q url.Values, key string, verr *validation.Error) *time.Time {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	t, err := validation.ParseDate(v)
	if err != nil {
		verr.Add(key, err.Error())
		return nil
	}
	return &t
}

func parseFloatParam(q url.Values, key string, verr *validation.Error) *float64 {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		verr.Add(key, "must be a number")
		return nil
	}
	return &f
}

func parsePagination(q url.Values, maxLimit int, verr *validation.Error) (limit, offset int) {
	limit = DefaultLimit
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil:
			verr.Add("limit", "must be an integer")
		case n < 0:
			verr.Add("limit", "must be non-negative")
		default:
			limit = min(n, maxLimit)
		}
	}

	if v := strings.TrimSpace(q.Get("offset")); v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil:
			verr.Add("offset", "must be an integer")
		case n < 0:
			verr.Add("offset", "must be non-negative")
		default:
			offset = n
		}
	}

	return limit, offset
}
