package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"riepilogo/internal/cache"
	"riepilogo/internal/chart"
	"riepilogo/internal/core"
	"riepilogo/internal/log"
	"riepilogo/internal/ports"
	"riepilogo/internal/summary"
)

// SummaryRequest names the primary month and, optionally, a month to compare
// it with. A zero CompareMonth means no comparison.
type SummaryRequest struct {
	Year, Month               int
	CompareYear, CompareMonth int
}

// NewSummaryRequest compares (year, month) with the month before it.
func NewSummaryRequest(year, month int) SummaryRequest {
	cy, cm := summary.PreviousMonth(year, month)
	return SummaryRequest{Year: year, Month: month, CompareYear: cy, CompareMonth: cm}
}

func (r SummaryRequest) HasCompare() bool { return r.CompareMonth != 0 }

// Validate rejects months outside 1-12. Invalid months are reported, never
// corrected.
func (r SummaryRequest) Validate() error {
	if err := core.ValidateMonth(r.Month); err != nil {
		return fmt.Errorf("primary month: %w", err)
	}
	if r.HasCompare() {
		if err := core.ValidateMonth(r.CompareMonth); err != nil {
			return fmt.Errorf("compare month: %w", err)
		}
	}
	return nil
}

func (r SummaryRequest) cacheKey(version int64) string {
	return fmt.Sprintf("%04d-%02d:%04d-%02d@%d", r.Year, r.Month, r.CompareYear, r.CompareMonth, version)
}

// Summary is everything a presentation layer needs for one comparison. Treat
// it as read-only: cached summaries are shared between requests.
type Summary struct {
	Request SummaryRequest
	Primary summary.CategoryTotals
	// Compare is nil without a compare month.
	Compare *summary.CategoryTotals
	// Rows and Totals are only set with a compare month.
	Rows   []summary.ComparisonRow
	Totals summary.ComparisonRow

	Bars       chart.BarLayout
	PrimaryPie chart.PieLayout
	ComparePie chart.PieLayout

	// SVG is the inline chart markup, without an XML prolog.
	SVG string
}

// Document returns the downloadable SVG file contents.
func (s *Summary) Document() string { return chart.Standalone(s.SVG) }

// Filename returns the download name for the document.
func (s *Summary) Filename() string {
	return chart.SummaryFilename(s.Request.Year, s.Request.Month)
}

// Compose runs the pure pipeline: aggregate each month, lay out the bars and
// pies, and render the SVG. The records may include other months; only those
// dated in the requested months are counted.
func Compose(req SummaryRequest, primaryRecords, compareRecords []core.Expense, style chart.Style) (*Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	style = style.Normalize()

	primary, err := summary.Aggregate(primaryRecords, req.Month, req.Year)
	if err != nil {
		return nil, fmt.Errorf("aggregate primary month: %w", err)
	}
	out := &Summary{Request: req, Primary: primary}
	axis := []summary.CategoryTotals{primary}
	if req.HasCompare() {
		compare, err := summary.Aggregate(compareRecords, req.CompareMonth, req.CompareYear)
		if err != nil {
			return nil, fmt.Errorf("aggregate compare month: %w", err)
		}
		out.Compare = &compare
		out.Rows = summary.Compare(primary, compare)
		out.Totals = summary.CompareTotals(primary, compare)
		axis = append(axis, compare)
	}

	palette := chart.NewPalette(style.Palette, summary.UnionCategories(axis...))
	if out.Bars, err = chart.BuildBarLayout(primary, out.Compare, style); err != nil {
		return nil, err
	}
	if out.PrimaryPie, err = chart.BuildPieLayout(primary, palette); err != nil {
		return nil, err
	}
	if out.Compare != nil {
		if out.ComparePie, err = chart.BuildPieLayout(*out.Compare, palette); err != nil {
			return nil, err
		}
	}
	out.SVG = chart.RenderSummarySVG(out.Bars, out.PrimaryPie, out.ComparePie, style)
	return out, nil
}

// SummaryService fetches the months from storage and composes the summary.
type SummaryService struct {
	lister    ports.ExpenseLister
	versioner ports.DatasetVersioner
	style     chart.Style
	cache     *cache.LRUCache[*Summary]
	logger    *log.Logger
}

// SummaryOption configures a SummaryService.
type SummaryOption func(*SummaryService)

// WithCache reuses summaries built from the same dataset version. Without a
// versioner the option is ignored since staleness could not be detected.
func WithCache(size int, ttl time.Duration, versioner ports.DatasetVersioner) SummaryOption {
	return func(s *SummaryService) {
		if size <= 0 || versioner == nil {
			return
		}
		s.versioner = versioner
		s.cache = cache.NewLRUCache[*Summary](size, ttl)
	}
}

func WithStyle(style chart.Style) SummaryOption {
	return func(s *SummaryService) { s.style = style.Normalize() }
}

func WithLogger(logger *log.Logger) SummaryOption {
	return func(s *SummaryService) { s.logger = logger.WithComponent(log.ComponentSummary) }
}

func NewSummaryService(lister ports.ExpenseLister, opts ...SummaryOption) *SummaryService {
	s := &SummaryService{
		lister: lister,
		style:  chart.DefaultStyle(),
		logger: log.New(log.DefaultConfig()).WithComponent(log.ComponentSummary),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the summary cache, nil when disabled.
func (s *SummaryService) Cache() *cache.LRUCache[*Summary] { return s.cache }

// Style returns the chart style in use.
func (s *SummaryService) Style() chart.Style { return s.style }

// Build fetches both months concurrently and composes the summary.
func (s *SummaryService) Build(ctx context.Context, req SummaryRequest) (*Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var key string
	if s.cache != nil {
		// The version is read before the fetch, so a concurrent write can
		// only make the cached entry newer than its key, never older.
		v, err := s.versioner.DatasetVersion(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "Dataset version unavailable, bypassing cache", log.FieldError, err)
		} else {
			key = req.cacheKey(v)
			if sum, ok := s.cache.Get(key); ok {
				s.logger.DebugContext(ctx, "Summary served from cache", log.FieldCacheHit, true)
				return sum, nil
			}
		}
	}

	var primaryRecords, compareRecords []core.Expense
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := s.lister.ListExpenses(gctx, req.Year, req.Month)
		if err != nil {
			return fmt.Errorf("list %04d-%02d: %w", req.Year, req.Month, err)
		}
		primaryRecords = recs
		return nil
	})
	if req.HasCompare() {
		g.Go(func() error {
			recs, err := s.lister.ListExpenses(gctx, req.CompareYear, req.CompareMonth)
			if err != nil {
				return fmt.Errorf("list %04d-%02d: %w", req.CompareYear, req.CompareMonth, err)
			}
			compareRecords = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum, err := Compose(req, primaryRecords, compareRecords, s.style)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Summary built",
		log.NewFields().WithMonths(req.Year, req.Month, req.CompareYear, req.CompareMonth).WithOperation(log.OpRender).ToSlice()...)

	if key != "" {
		s.cache.Set(key, sum)
	}
	return sum, nil
}
