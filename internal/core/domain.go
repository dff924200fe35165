package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID       int64 // Storage ID, zero until persisted
		Title    string
		Category string
		Amount   Money
		Date     Date
	}

	// Filter narrows an expense listing. Zero values disable each criterion;
	// the month criterion only applies when both Month and Year are set.
	Filter struct {
		Query    string // case-insensitive title substring
		Category string // exact match, "all" or "" for any
		Month    int
		Year     int
	}
)

// ErrInvalidInput is the root of every validation failure. The more specific
// sentinels below wrap it so callers can match either.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrInvalidMonth   = fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	ErrInvalidDate    = fmt.Errorf("%w: invalid date", ErrInvalidInput)
	ErrInvalidAmount  = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrNegativeAmount = fmt.Errorf("%w: amount cannot be negative", ErrInvalidInput)
	ErrEmptyTitle     = fmt.Errorf("%w: empty title", ErrInvalidInput)
	ErrEmptyCategory  = fmt.Errorf("%w: empty category", ErrInvalidInput)

	ErrNotFound = errors.New("expense not found")
)

// ValidateMonth reports ErrInvalidMonth for anything outside 1-12.
func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w (got %d)", ErrInvalidMonth, month)
	}
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// In reports whether the date falls in the given year and month.
func (d Date) In(year, month int) bool {
	return d.Year() == year && d.Month() == month
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// Today returns the current UTC calendar date.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 120 {
		return fmt.Errorf("%w: title too long (max 120 characters)", ErrInvalidInput)
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Category) > 50 {
		return fmt.Errorf("%w: category too long (max 50 characters)", ErrInvalidInput)
	}
	return e.Amount.Validate()
}

// Matches reports whether the expense satisfies every criterion of f.
func (f Filter) Matches(e Expense) bool {
	if q := strings.TrimSpace(f.Query); q != "" {
		if !strings.Contains(strings.ToLower(e.Title), strings.ToLower(q)) {
			return false
		}
	}
	if c := strings.TrimSpace(f.Category); c != "" && !strings.EqualFold(c, "all") {
		if e.Category != c {
			return false
		}
	}
	if f.Month != 0 && f.Year != 0 && !e.Date.In(f.Year, f.Month) {
		return false
	}
	return true
}
