// Package appendjob moves the most recently uploaded CSV object into the
// spreadsheet. Re-running re-appends the same latest object's rows: there is
// no idempotency guard, so at-least-once triggering can duplicate rows.
package appendjob

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AobaIwaki123/url-to-csv/internal/csvio"
	"github.com/AobaIwaki123/url-to-csv/internal/objstore"
	"github.com/AobaIwaki123/url-to-csv/internal/sheets"
)

// Runner reads the latest uploaded object and appends its rows.
type Runner struct {
	store    objstore.Store
	appender sheets.Appender
}

// NewRunner wires the object store and spreadsheet appender.
func NewRunner(store objstore.Store, appender sheets.Appender) *Runner {
	return &Runner{store: store, appender: appender}
}

// Run selects the newest object under the upload prefix, parses it leniently,
// and appends the rows in one batch. An empty prefix is not an error.
func (r *Runner) Run(ctx context.Context) error {
	latest, err := r.store.Latest(ctx, objstore.UploadPrefix)
	if errors.Is(err, objstore.ErrNotFound) {
		slog.Info("no uploaded objects to process")
		return nil
	}
	if err != nil {
		return fmt.Errorf("select latest upload: %w", err)
	}

	slog.Info("processing upload", "key", latest.Key, "size", latest.Size, "created_at", latest.CreatedAt)

	data, err := r.store.Get(ctx, latest.Key)
	if err != nil {
		return fmt.Errorf("read %s: %w", latest.Key, err)
	}

	records, err := csvio.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", latest.Key, err)
	}
	if len(records) == 0 {
		slog.Info("upload contained no rows", "key", latest.Key)
		return nil
	}

	if err := r.appender.Append(ctx, records); err != nil {
		return fmt.Errorf("append %d rows from %s: %w", len(records), latest.Key, err)
	}

	slog.Info("append complete", "key", latest.Key, "rows", len(records))
	return nil
}
