// Package importer turns insider filing exports (CSV or XLSX) into InsiderTrade rows.
//
// Column headers follow the openinsider.com screener export. Alternative spellings
// ("FilingDate", "Company Name", "DeltaOwn", ...) are accepted and matching is
// case-insensitive. Ticker, Trade Date, Insider Name and Trade Type are required.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/validation"
)

// Format is the encoding of an import file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromName picks the format from a file name or content type, defaulting to CSV.
func FormatFromName(name string) Format {
	name = strings.ToLower(name)
	if strings.HasSuffix(name, ".xlsx") || strings.Contains(name, "spreadsheetml") {
		return FormatXLSX
	}
	return FormatCSV
}

type column int

const (
	colFilingDate column = iota
	colTradeDate
	colTicker
	colCompanyName
	colInsiderName
	colInsiderTitle
	colTradeType
	colPrice
	colQty
	colOwned
	colDeltaOwn
	colValue
)

var headerAliases = map[string]column{
	"filing date":      colFilingDate,
	"filingdate":       colFilingDate,
	"filing_date":      colFilingDate,
	"trade date":       colTradeDate,
	"tradedate":        colTradeDate,
	"trade_date":       colTradeDate,
	"ticker":           colTicker,
	"issuer":           colCompanyName,
	"company name":     colCompanyName,
	"company_name":     colCompanyName,
	"insider name":     colInsiderName,
	"insidername":      colInsiderName,
	"insider_name":     colInsiderName,
	"title":            colInsiderTitle,
	"insider_title":    colInsiderTitle,
	"trade type":       colTradeType,
	"tradetype":        colTradeType,
	"transaction_type": colTradeType,
	"price":            colPrice,
	"qty":              colQty,
	"owned":            colOwned,
	"δown":             colDeltaOwn,
	"deltaown":         colDeltaOwn,
	"delta_own":        colDeltaOwn,
	"value":            colValue,
}

var requiredColumns = map[column]string{
	colTicker:      "Ticker",
	colTradeDate:   "Trade Date",
	colInsiderName: "Insider Name",
	colTradeType:   "Trade Type",
}

var dateLayouts = []string{"2006-01-02", "01/02/2006", "01/02/06", "1/2/2006", "1/2/06"}

// Result is the parsed content of an import file.
type Result struct {
	Trades   []model.InsiderTrade
	Read     int // data rows seen
	Rejected int // rows dropped for a missing or malformed required field
}

// Parse reads every data row of r. scrapedAt is stamped on each trade.
//
// A header without one of the required columns fails with apperrors.ErrInvalidCSVHeaders.
// Rows without a usable trade date, ticker, insider name or trade type are counted as rejected.
func Parse(r io.Reader, format Format, scrapedAt time.Time) (Result, error) {
	rows, err := readRows(r, format)
	if err != nil {
		return Result{}, err
	}
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("%w: file is empty", apperrors.ErrInvalidCSVHeaders)
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return Result{}, err
	}

	result := Result{Trades: []model.InsiderTrade{}}
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		result.Read++

		trade, ok := toTrade(row, cols)
		if !ok {
			result.Rejected++
			continue
		}
		trade.ScrapedAt = scrapedAt.UTC()
		result.Trades = append(result.Trades, trade)
	}

	return result, nil
}

func readRows(r io.Reader, format Format) ([][]string, error) {
	switch format {
	case FormatXLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
		}
		return rows, nil
	default:
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		reader.LazyQuotes = true

		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		return rows, nil
	}
}

func mapHeader(header []string) (map[column]int, error) {
	cols := make(map[column]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		// openinsider pads some headers with non-breaking spaces
		h = strings.ReplaceAll(h, "\u00a0", " ")
		h = strings.ToLower(strings.TrimSpace(h))
		if c, ok := headerAliases[h]; ok {
			if _, seen := cols[c]; !seen {
				cols[c] = i
			}
		}
	}

	var missing []string
	for _, c := range []column{colTicker, colTradeDate, colInsiderName, colTradeType} {
		if _, ok := cols[c]; !ok {
			missing = append(missing, requiredColumns[c])
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", apperrors.ErrInvalidCSVHeaders, strings.Join(missing, ", "))
	}
	return cols, nil
}

func toTrade(row []string, cols map[column]int) (model.InsiderTrade, bool) {
	get := func(c column) string {
		i, ok := cols[c]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	tradeDate, ok := parseDate(get(colTradeDate))
	if !ok {
		return model.InsiderTrade{}, false
	}
	ticker, err := validation.NormalizeTicker(get(colTicker))
	if err != nil {
		return model.InsiderTrade{}, false
	}
	insider := get(colInsiderName)
	tradeType := get(colTradeType)
	if insider == "" || tradeType == "" {
		return model.InsiderTrade{}, false
	}
	if !strings.Contains(tradeType, " - ") {
		if label, ok := model.CanonicalTransactionType(tradeType); ok {
			tradeType = label
		}
	}

	trade := model.InsiderTrade{
		TradeDate:       tradeDate,
		Ticker:          ticker,
		CompanyName:     get(colCompanyName),
		InsiderName:     insider,
		InsiderTitle:    get(colInsiderTitle),
		TransactionType: tradeType,
		Price:           cleanNumber(get(colPrice), "$", ","),
		Qty:             toInt(cleanNumber(get(colQty), "+", ",")),
		Owned:           toInt(cleanNumber(get(colOwned), "+", ",")),
		DeltaOwn:        get(colDeltaOwn),
		Value:           cleanNumber(get(colValue), "+", "-", "$", ","),
	}
	if d, ok := parseDate(get(colFilingDate)); ok {
		trade.FilingDate = &d
	}
	return trade, true
}

// parseDate accepts the date layouts seen in screener exports. Filing dates carry a
// time of day ("2024-01-17 16:05:12"), which is dropped.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.UTC(), true
		}
	}
	return time.Time{}, false
}

// cleanNumber strips the given characters and parses the rest. Empty or unparsable input yields nil.
func cleanNumber(s string, strip ...string) *float64 {
	for _, c := range strip {
		s = strings.ReplaceAll(s, c, "")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func toInt(f *float64) *int64 {
	if f == nil {
		return nil
	}
	i := int64(math.Round(*f))
	return &i
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
