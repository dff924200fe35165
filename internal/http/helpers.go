package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"riepilogo/internal/core"
	"riepilogo/internal/log"
)

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// errorStatus maps service errors to a status code. invalidStatus is used
// for input errors so create and update can answer 422 while query errors
// answer 400.
func errorStatus(err error, invalidStatus int) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidInput):
		return invalidStatus
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the mapped status. Internal errors are logged and
// their message is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error, invalidStatus int, operation string) {
	status := errorStatus(err, invalidStatus)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).LogError(r.Context(), "Request failed", err, operation)
		msg = "internal error"
	}
	ErrorResponse(status, msg).Write(w)
}

// writeHTMLError is writeError for browser pages.
func writeHTMLError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	status := errorStatus(err, http.StatusBadRequest)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).LogError(r.Context(), "Page failed", err, operation)
		msg = "Something went wrong while building the page"
	}
	HTMLErrorResponse(status, msg).Write(w)
}

func parseID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: expense id must be a positive integer (got %q)", core.ErrInvalidInput, raw)
	}
	return id, nil
}

// expenseJSON is the wire form of an expense.
type expenseJSON struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:          e.ID,
		Title:       e.Title,
		Category:    e.Category,
		AmountCents: e.Amount.Cents,
		Amount:      e.Amount.String(),
		Date:        e.Date.String(),
	}
}

type expenseListJSON struct {
	Items      []expenseJSON `json:"items"`
	Count      int           `json:"count"`
	TotalCents int64         `json:"total_cents"`
	Total      string        `json:"total"`
}
