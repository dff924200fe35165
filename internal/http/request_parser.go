// This file holds the parsing of query strings and request bodies. Malformed
// or out-of-range values are errors wrapping core.ErrInvalidInput; they are
// never replaced with defaults.

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"riepilogo/internal/core"
	"riepilogo/internal/services"
	"riepilogo/internal/summary"
)

const maxBodyBytes = 1 << 20

// parseIntParam reads an optional integer parameter. ok is false when the
// parameter is absent or blank.
func parseIntParam(values url.Values, key string) (n int, ok bool, err error) {
	v := strings.TrimSpace(values.Get(key))
	if v == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s must be a whole number (got %q)", core.ErrInvalidInput, key, v)
	}
	return n, true, nil
}

func validateYear(key string, year int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: %s must be between 1 and 9999 (got %d)", core.ErrInvalidInput, key, year)
	}
	return nil
}

// ParseFilter reads the q, category, month and year list filters.
func ParseFilter(query url.Values) (core.Filter, error) {
	f := core.Filter{
		Query:    sanitizeInput(query.Get("q")),
		Category: sanitizeInput(query.Get("category")),
	}
	month, hasMonth, err := parseIntParam(query, "month")
	if err != nil {
		return core.Filter{}, err
	}
	year, hasYear, err := parseIntParam(query, "year")
	if err != nil {
		return core.Filter{}, err
	}
	if hasMonth {
		if err := core.ValidateMonth(month); err != nil {
			return core.Filter{}, err
		}
		f.Month = month
	}
	if hasYear {
		if err := validateYear("year", year); err != nil {
			return core.Filter{}, err
		}
		f.Year = year
	}
	return f, nil
}

// ParseSummaryRequest reads month, year, compare_month and compare_year.
// The primary month defaults to today's; unless both compare parameters are
// given, the compare month is the one before the primary month.
func ParseSummaryRequest(query url.Values, today core.Date) (services.SummaryRequest, error) {
	req := services.SummaryRequest{Year: today.Year(), Month: today.Month()}

	for _, p := range []struct {
		key string
		dst *int
	}{
		{key: "month", dst: &req.Month},
		{key: "year", dst: &req.Year},
	} {
		n, ok, err := parseIntParam(query, p.key)
		if err != nil {
			return services.SummaryRequest{}, err
		}
		if ok {
			*p.dst = n
		}
	}
	if err := validateYear("year", req.Year); err != nil {
		return services.SummaryRequest{}, err
	}
	if err := core.ValidateMonth(req.Month); err != nil {
		return services.SummaryRequest{}, err
	}

	cm, hasCM, err := parseIntParam(query, "compare_month")
	if err != nil {
		return services.SummaryRequest{}, err
	}
	cy, hasCY, err := parseIntParam(query, "compare_year")
	if err != nil {
		return services.SummaryRequest{}, err
	}
	if hasCM && hasCY {
		if err := validateYear("compare_year", cy); err != nil {
			return services.SummaryRequest{}, err
		}
		// Zero would mean "no compare"; through HTTP it is just out of range.
		if err := core.ValidateMonth(cm); err != nil {
			return services.SummaryRequest{}, fmt.Errorf("compare month: %w", err)
		}
		req.CompareYear, req.CompareMonth = cy, cm
	} else {
		req.CompareYear, req.CompareMonth = summary.PreviousMonth(req.Year, req.Month)
	}
	return req, req.Validate()
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON objects and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once, up to 1 MiB.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if strings.Contains(p.contentType, "application/json") || p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = fmt.Errorf("%w: malformed JSON body: %v", core.ErrInvalidInput, err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	if p.err != nil {
		p.err = fmt.Errorf("%w: malformed form body: %v", core.ErrInvalidInput, p.err)
	}
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Has reports whether key was sent at all.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	return p.formData != nil && p.formData.Has(key)
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseExpense builds an expense from a create or update body. A missing
// date falls back to defaultDate.
func ParseExpense(p *RequestBodyParser, defaultDate core.Date) (core.Expense, error) {
	if err := p.Parse(); err != nil {
		return core.Expense{}, err
	}

	cents, err := core.ParseDecimalToCents(p.Get("amount"))
	if err != nil {
		return core.Expense{}, err
	}

	date := defaultDate
	if v := p.Get("date"); v != "" {
		if date, err = core.ParseDate(v); err != nil {
			return core.Expense{}, err
		}
	}

	e := core.Expense{
		Title:    p.Get("title"),
		Category: p.Get("category"),
		Amount:   core.Money{Cents: cents},
		Date:     date,
	}
	return e, e.Validate()
}
