package request

import (
	"errors"
	"net/url"
	"testing"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/validation"
)

//nolint:gocyclo // Test functions naturally have high complexity due to many test cases
func TestParseInsiderTradeFilters(t *testing.T) {
	t.Run("default values when no parameters provided", func(t *testing.T) {
		filter, err := ParseInsiderTradeFilters(url.Values{})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if filter.Limit != 50 {
			t.Errorf("Expected default Limit 50, got %d", filter.Limit)
		}
		if filter.Offset != 0 {
			t.Errorf("Expected default Offset 0, got %d", filter.Offset)
		}
		if filter.Ticker != nil || filter.InsiderName != nil || filter.TransactionType != nil {
			t.Error("Expected no string filters")
		}
		if filter.DateFrom != nil || filter.DateTo != nil || filter.MinValue != nil || filter.MaxValue != nil {
			t.Error("Expected no range filters")
		}
	})

	t.Run("parses every parameter", func(t *testing.T) {
		filter, err := ParseInsiderTradeFilters(url.Values{
			"ticker":           {"aapl"},
			"insider_name":     {" cook "},
			"transaction_type": {"Purchase"},
			"date_from":        {"2024-01-01"},
			"date_to":          {"2024-06-30"},
			"min_value":        {"1000"},
			"max_value":        {"250000.5"},
			"limit":            {"10"},
			"offset":           {"20"},
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if *filter.Ticker != "AAPL" {
			t.Errorf("Expected ticker AAPL, got %s", *filter.Ticker)
		}
		if *filter.InsiderName != "cook" {
			t.Errorf("Expected insider name 'cook', got '%s'", *filter.InsiderName)
		}
		if filter.TransactionCode == nil || *filter.TransactionCode != "P" {
			t.Errorf("Expected transaction code P, got %v", filter.TransactionCode)
		}
		if filter.TransactionType != nil {
			t.Errorf("Expected no label match for an alias, got '%s'", *filter.TransactionType)
		}
		if filter.DateFrom.Format("2006-01-02") != "2024-01-01" {
			t.Errorf("Expected date_from 2024-01-01, got %v", filter.DateFrom)
		}
		if filter.DateTo.Format("2006-01-02") != "2024-06-30" {
			t.Errorf("Expected date_to 2024-06-30, got %v", filter.DateTo)
		}
		if *filter.MinValue != 1000 || *filter.MaxValue != 250000.5 {
			t.Errorf("Expected value range 1000..250000.5, got %v..%v", *filter.MinValue, *filter.MaxValue)
		}
		if filter.Limit != 10 || filter.Offset != 20 {
			t.Errorf("Expected limit 10 offset 20, got %d %d", filter.Limit, filter.Offset)
		}
	})

	t.Run("caps limit at 500", func(t *testing.T) {
		filter, err := ParseInsiderTradeFilters(url.Values{"limit": {"10000"}})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if filter.Limit != 500 {
			t.Errorf("Expected capped limit 500, got %d", filter.Limit)
		}
	})

	t.Run("inverted ranges are accepted and match nothing", func(t *testing.T) {
		filter, err := ParseInsiderTradeFilters(url.Values{
			"date_from": {"2024-06-30"},
			"date_to":   {"2024-01-01"},
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !filter.Empty() {
			t.Error("Expected inverted date range to be empty")
		}

		filter, err = ParseInsiderTradeFilters(url.Values{
			"min_value": {"500"},
			"max_value": {"100"},
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !filter.Empty() {
			t.Error("Expected inverted value range to be empty")
		}
	})

	t.Run("reports every malformed field", func(t *testing.T) {
		_, err := ParseInsiderTradeFilters(url.Values{
			"ticker":           {"$$$"},
			"transaction_type": {"Z - Unknown"},
			"date_from":        {"01/02/2024"},
			"min_value":        {"lots"},
			"limit":            {"-1"},
			"offset":           {"x"},
		})
		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Fatalf("Expected validation error, got %v", err)
		}

		for _, field := range []string{"ticker", "transaction_type", "date_from", "min_value", "limit", "offset"} {
			if _, ok := verr.Fields[field]; !ok {
				t.Errorf("Expected error for field %s, got %v", field, verr.Fields)
			}
		}
	})

	t.Run("negative offset is rejected", func(t *testing.T) {
		_, err := ParseInsiderTradeFilters(url.Values{"offset": {"-5"}})
		var verr *validation.Error
		if !errors.As(err, &verr) || verr.Fields["offset"] == "" {
			t.Errorf("Expected offset validation error, got %v", err)
		}
	})

	t.Run("matches bare codes by code", func(t *testing.T) {
		for in, want := range map[string]string{
			"S":    "S",
			"s":    "S",
			"Sale": "S",
			"M":    "M",
		} {
			filter, err := ParseInsiderTradeFilters(url.Values{"transaction_type": {in}})
			if err != nil {
				t.Errorf("%q: expected no error, got %v", in, err)
				continue
			}
			if filter.TransactionType != nil {
				t.Errorf("%q: expected no label match, got %q", in, *filter.TransactionType)
			}
			if filter.TransactionCode == nil || *filter.TransactionCode != want {
				t.Errorf("%q: expected code %q, got %v", in, want, filter.TransactionCode)
			}
		}
	})

	t.Run("keeps full labels verbatim", func(t *testing.T) {
		for _, in := range []string{"S - Sale", "S - Sale+OE", "M - OptEx", "g - gift"} {
			filter, err := ParseInsiderTradeFilters(url.Values{"transaction_type": {in}})
			if err != nil {
				t.Errorf("%q: expected no error, got %v", in, err)
				continue
			}
			if filter.TransactionCode != nil {
				t.Errorf("%q: expected no code match, got %q", in, *filter.TransactionCode)
			}
			if filter.TransactionType == nil || *filter.TransactionType != in {
				t.Errorf("%q: expected label kept as given, got %v", in, filter.TransactionType)
			}
		}
	})

	t.Run("rejects unknown transaction types", func(t *testing.T) {
		for _, in := range []string{"Q", "Q - Quux", "swap"} {
			_, err := ParseInsiderTradeFilters(url.Values{"transaction_type": {in}})
			var verr *validation.Error
			if !errors.As(err, &verr) || verr.Fields["transaction_type"] == "" {
				t.Errorf("%q: expected transaction_type validation error, got %v", in, err)
			}
		}
	})
}

func TestParseMyTradeFilters(t *testing.T) {
	t.Run("caps limit at 200", func(t *testing.T) {
		filter, err := ParseMyTradeFilters(url.Values{"limit": {"1000"}, "trade_type": {"BUY"}})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if filter.Limit != 200 {
			t.Errorf("Expected limit 200, got %d", filter.Limit)
		}
		if *filter.TradeType != "buy" {
			t.Errorf("Expected trade type buy, got %s", *filter.TradeType)
		}
	})

	t.Run("rejects unknown trade type", func(t *testing.T) {
		_, err := ParseMyTradeFilters(url.Values{"trade_type": {"short"}})
		var verr *validation.Error
		if !errors.As(err, &verr) || verr.Fields["trade_type"] == "" {
			t.Errorf("Expected trade_type validation error, got %v", err)
		}
	})
}

func TestParsePerformanceFilters(t *testing.T) {
	filter, err := ParsePerformanceFilters(url.Values{"ticker": {"msft"}, "offset": {"3"}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if *filter.Ticker != "MSFT" || filter.Offset != 3 || filter.Limit != 50 {
		t.Errorf("Unexpected filter: %+v", filter)
	}
}

func TestParseUpdatePolicy(t *testing.T) {
	policy, err := ParseUpdatePolicy(url.Values{}, model.UpdatePolicyIncomplete)
	if err != nil || policy != model.UpdatePolicyIncomplete {
		t.Errorf("Expected fallback policy, got %s (%v)", policy, err)
	}

	policy, err = ParseUpdatePolicy(url.Values{"policy": {"ALL"}}, model.UpdatePolicyIncomplete)
	if err != nil || policy != model.UpdatePolicyAll {
		t.Errorf("Expected policy all, got %s (%v)", policy, err)
	}

	if _, err := ParseUpdatePolicy(url.Values{"policy": {"never"}}, model.UpdatePolicyIncomplete); err == nil {
		t.Error("Expected error for unknown policy")
	}
}
