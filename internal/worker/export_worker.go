package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"riepilogo/internal/amqp"
	"riepilogo/internal/core"
	"riepilogo/internal/log"
	"riepilogo/internal/services"
)

// SummaryBuilder builds the summary of a month against its compare month.
// *services.SummaryService implements it.
type SummaryBuilder interface {
	Build(ctx context.Context, req services.SummaryRequest) (*services.Summary, error)
}

// EventConsumer delivers expense events to a handler until ctx is done.
// *amqp.Client implements it.
type EventConsumer interface {
	ConsumeExpenseEvents(ctx context.Context, handler amqp.EventHandler) error
}

// ExportWorker keeps EXPORT_DIR/summary-YYYY-MM.svg up to date for every
// month an expense event touches.
type ExportWorker struct {
	summaries SummaryBuilder
	dir       string
	logger    *log.Logger
	now       func() time.Time
}

func NewExportWorker(summaries SummaryBuilder, dir string, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExportWorker{
		summaries: summaries,
		dir:       dir,
		logger:    logger.WithComponent(log.ComponentWorker),
		now:       time.Now,
	}
}

// HandleExpenseEvent rewrites the export of the event's month. Returning an
// error makes the consumer requeue the event.
func (w *ExportWorker) HandleExpenseEvent(ctx context.Context, ev amqp.ExpenseEvent) error {
	w.logger.InfoContext(ctx, "Processing expense event",
		log.FieldEventType, ev.Type,
		log.FieldExpenseID, ev.ID,
		log.FieldYear, ev.Year,
		log.FieldMonth, ev.Month)

	if _, err := w.ExportMonth(ctx, ev.Year, ev.Month); err != nil {
		return fmt.Errorf("export after %s: %w", ev.Type, err)
	}
	return nil
}

// ExportMonth writes the summary of (year, month) against the previous month
// and returns the file path.
func (w *ExportWorker) ExportMonth(ctx context.Context, year, month int) (string, error) {
	if err := core.ValidateMonth(month); err != nil {
		return "", err
	}
	sum, err := w.summaries.Build(ctx, services.NewSummaryRequest(year, month))
	if err != nil {
		return "", fmt.Errorf("build summary: %w", err)
	}

	path := filepath.Join(w.dir, sum.Filename())
	if err := writeFileAtomic(path, []byte(sum.Document())); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	w.logger.InfoContext(ctx, "Summary exported",
		log.FieldFile, path,
		log.FieldOperation, log.OpExport,
		"total_cents", sum.Primary.GrandTotal().Cents)
	return path, nil
}

// StartupExport refreshes the current month so the export directory is never
// behind after downtime.
func (w *ExportWorker) StartupExport(ctx context.Context) error {
	today := w.now()
	_, err := w.ExportMonth(ctx, today.Year(), int(today.Month()))
	return err
}

// Run performs the startup export, then consumes events and periodically
// refreshes the current month until ctx is cancelled or consumption fails.
// A zero interval disables the periodic refresh.
func (w *ExportWorker) Run(ctx context.Context, consumer EventConsumer, interval time.Duration) error {
	if err := w.StartupExport(ctx); err != nil {
		// Not fatal: the next event or tick retries.
		w.logger.LogError(ctx, "Startup export failed", err, log.OpStartup)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := consumer.ConsumeExpenseEvents(gctx, w.HandleExpenseEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if interval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if err := w.StartupExport(gctx); err != nil && gctx.Err() == nil {
						w.logger.LogError(gctx, "Periodic export failed", err, log.OpExport)
					}
				}
			}
		})
	}
	return g.Wait()
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers never see a partial document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	tmpName = ""
	return nil
}
