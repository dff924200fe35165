package http

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"riepilogo/internal/chart"
	"riepilogo/internal/log"
	"riepilogo/internal/services"
)

type summaryRow struct {
	Category string
	Primary  string
	Compare  string
	Diff     string
	Change   string
}

type summaryPage struct {
	Title        string
	PrimaryLabel string
	CompareLabel string
	Month        int
	Year         int
	CompareMonth int
	CompareYear  int
	Rows         []summaryRow
	Total        summaryRow
	Chart        template.HTML
	DownloadURL  string
}

// handleSummary renders the comparison page with the chart inline.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		HTMLErrorResponse(http.StatusInternalServerError, "templates not loaded").Write(w)
		return
	}

	req, err := ParseSummaryRequest(r.URL.Query(), s.today())
	if err != nil {
		writeHTMLError(w, r, err, log.OpParse)
		return
	}
	sum, err := s.summaries.Build(r.Context(), req)
	if err != nil {
		writeHTMLError(w, r, err, log.OpRender)
		return
	}

	currency := s.summaries.Style().Currency
	page := summaryPage{
		Title:        "Summary " + chart.MonthLabel(req.Year, req.Month),
		PrimaryLabel: chart.MonthLabel(req.Year, req.Month),
		CompareLabel: chart.MonthLabel(req.CompareYear, req.CompareMonth),
		Month:        req.Month,
		Year:         req.Year,
		CompareMonth: req.CompareMonth,
		CompareYear:  req.CompareYear,
		// Rendered by our own builder, which escapes every text node.
		Chart:       template.HTML(sum.SVG),
		DownloadURL: "/summary.svg?" + summaryQuery(req).Encode(),
		Total: summaryRow{
			Category: "Total",
			Primary:  sum.Totals.Primary.Format(currency),
			Compare:  sum.Totals.Compare.Format(currency),
			Diff:     sum.Totals.Diff.Format(currency),
			Change:   sum.Totals.Change.String(),
		},
	}
	for _, row := range sum.Rows {
		page.Rows = append(page.Rows, summaryRow{
			Category: row.Category,
			Primary:  row.Primary.Format(currency),
			Compare:  row.Compare.Format(currency),
			Diff:     row.Diff.Format(currency),
			Change:   row.Change.String(),
		})
	}

	// Render to a buffer so a template failure can still answer 500.
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "summary.html", page); err != nil {
		log.FromContext(r.Context()).LogError(r.Context(), "Summary template execution failed", err, log.OpRender,
			"template", "summary.html")
		HTMLErrorResponse(http.StatusInternalServerError, "Error rendering summary").Write(w)
		return
	}
	NewResponse().BodyHTML(buf.String()).Write(w)
}

// handleSummarySVG serves the standalone document as a download.
func (s *Server) handleSummarySVG(w http.ResponseWriter, r *http.Request) {
	req, err := ParseSummaryRequest(r.URL.Query(), s.today())
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.OpParse)
		return
	}
	sum, err := s.summaries.Build(r.Context(), req)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.OpExport)
		return
	}
	NewResponse().
		Header("Cache-Control", "no-store").
		Attachment(sum.Filename(), chart.ContentType, []byte(sum.Document())).
		Write(w)
}

func summaryQuery(req services.SummaryRequest) url.Values {
	q := url.Values{}
	q.Set("month", strconv.Itoa(req.Month))
	q.Set("year", strconv.Itoa(req.Year))
	q.Set("compare_month", strconv.Itoa(req.CompareMonth))
	q.Set("compare_year", strconv.Itoa(req.CompareYear))
	return q
}
