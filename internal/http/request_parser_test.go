package http

import (
	"errors"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"riepilogo/internal/core"
)

func TestParseSummaryRequest(t *testing.T) {
	today := core.NewDate(2025, 1, 20)

	tests := []struct {
		name                    string
		query                   url.Values
		wantYear, wantMonth     int
		wantCmpYear, wantCmpMon int
	}{
		{
			name:        "defaults to today against the previous month",
			query:       url.Values{},
			wantYear:    2025,
			wantMonth:   1,
			wantCmpYear: 2024,
			wantCmpMon:  12,
		},
		{
			name:        "explicit month",
			query:       url.Values{"month": {"6"}, "year": {"2024"}},
			wantYear:    2024,
			wantMonth:   6,
			wantCmpYear: 2024,
			wantCmpMon:  5,
		},
		{
			name:        "month only keeps the current year",
			query:       url.Values{"month": {"3"}},
			wantYear:    2025,
			wantMonth:   3,
			wantCmpYear: 2025,
			wantCmpMon:  2,
		},
		{
			name:        "explicit compare month",
			query:       url.Values{"month": {"3"}, "year": {"2025"}, "compare_month": {"3"}, "compare_year": {"2024"}},
			wantYear:    2025,
			wantMonth:   3,
			wantCmpYear: 2024,
			wantCmpMon:  3,
		},
		{
			name:        "half a compare month is ignored",
			query:       url.Values{"month": {"3"}, "compare_month": {"7"}},
			wantYear:    2025,
			wantMonth:   3,
			wantCmpYear: 2025,
			wantCmpMon:  2,
		},
		{
			name:        "blank values count as absent",
			query:       url.Values{"month": {" "}, "year": {""}},
			wantYear:    2025,
			wantMonth:   1,
			wantCmpYear: 2024,
			wantCmpMon:  12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseSummaryRequest(tt.query, today)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Year != tt.wantYear || req.Month != tt.wantMonth {
				t.Errorf("primary = %d-%02d, want %d-%02d", req.Year, req.Month, tt.wantYear, tt.wantMonth)
			}
			if req.CompareYear != tt.wantCmpYear || req.CompareMonth != tt.wantCmpMon {
				t.Errorf("compare = %d-%02d, want %d-%02d", req.CompareYear, req.CompareMonth, tt.wantCmpYear, tt.wantCmpMon)
			}
		})
	}
}

func TestParseSummaryRequest_Invalid(t *testing.T) {
	today := core.NewDate(2025, 1, 20)

	for _, q := range []url.Values{
		{"month": {"13"}},
		{"month": {"0"}},
		{"month": {"-1"}},
		{"month": {"abc"}},
		{"year": {"0"}},
		{"year": {"10000"}},
		{"compare_month": {"13"}, "compare_year": {"2024"}},
		{"compare_month": {"0"}, "compare_year": {"2024"}},
		{"compare_month": {"2"}, "compare_year": {"x"}},
	} {
		_, err := ParseSummaryRequest(q, today)
		if err == nil {
			t.Errorf("%v: expected error", q)
			continue
		}
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("%v: error %v does not wrap ErrInvalidInput", q, err)
		}
	}

	_, err := ParseSummaryRequest(url.Values{"month": {"13"}}, today)
	if !errors.Is(err, core.ErrInvalidMonth) {
		t.Errorf("month 13: got %v, want ErrInvalidMonth", err)
	}
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(url.Values{"q": {"  lunch\x00 "}, "category": {"Food"}, "month": {"2"}, "year": {"2025"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := core.Filter{Query: "lunch", Category: "Food", Month: 2, Year: 2025}
	if f != want {
		t.Errorf("filter = %+v, want %+v", f, want)
	}

	f, err = ParseFilter(url.Values{})
	if err != nil || f != (core.Filter{}) {
		t.Errorf("empty query: filter=%+v err=%v", f, err)
	}

	for _, q := range []url.Values{{"month": {"13"}}, {"month": {"1.5"}}, {"year": {"-3"}}} {
		if _, err := ParseFilter(q); !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("%v: got %v, want ErrInvalidInput", q, err)
		}
	}
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantJSON    bool
	}{
		{"form", "application/x-www-form-urlencoded", "title=Rent&amount=700", false},
		{"json", "application/json", `{"title":"Rent","amount":700}`, true},
		{"json without content type", "", `{"title":"Rent","amount":"700"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/expenses", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			p := NewRequestBodyParser(r)
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if p.IsJSON() != tt.wantJSON {
				t.Errorf("IsJSON = %v, want %v", p.IsJSON(), tt.wantJSON)
			}
			if got := p.Get("title"); got != "Rent" {
				t.Errorf("title = %q", got)
			}
			if got := p.Get("amount"); got != "700" {
				t.Errorf("amount = %q", got)
			}
			if !p.Has("title") || p.Has("date") {
				t.Error("Has reports wrong keys")
			}
		})
	}
}

func TestParseExpense(t *testing.T) {
	fallback := core.NewDate(2025, 1, 20)

	r := httptest.NewRequest("POST", "/expenses", strings.NewReader("title=Taxi&category=Travel&amount=12,345"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	e, err := ParseExpense(NewRequestBodyParser(r), fallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Amount.Cents != 1235 || e.Date != fallback || e.Title != "Taxi" || e.Category != "Travel" {
		t.Errorf("unexpected expense: %+v", e)
	}

	r = httptest.NewRequest("POST", "/expenses", strings.NewReader(`{"title":"Taxi","category":"Travel","amount":"5","date":"2024-02-30"}`))
	if _, err := ParseExpense(NewRequestBodyParser(r), fallback); !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("impossible date: got %v, want ErrInvalidDate", err)
	}
}
