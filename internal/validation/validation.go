package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common validation errors
var (
	ErrInvalidID     = fmt.Errorf("invalid ID")
	ErrInvalidDate   = fmt.Errorf("invalid date, expected YYYY-MM-DD")
	ErrInvalidTicker = fmt.Errorf("invalid ticker")
)

const DateLayout = "2006-01-02"

var tickerPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,9}$`)

// ParseID parses a positive integer row identifier.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidID, s)
	}
	return id, nil
}

// ParseDate parses a calendar date in YYYY-MM-DD form as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, s)
	}
	return t.UTC(), nil
}

// NormalizeTicker trims and upper-cases a ticker, then checks its shape.
func NormalizeTicker(s string) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(s))
	if !tickerPattern.MatchString(ticker) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, s)
	}
	return ticker, nil
}
