// Package agent owns the capture panel's state and operations: one capture
// session per process lifetime, CSV export, and the authenticated upload
// path. The HTTP layer in internal/api stays thin on top of this.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/AobaIwaki123/url-to-csv/internal/capture"
	"github.com/AobaIwaki123/url-to-csv/internal/cdp"
	"github.com/AobaIwaki123/url-to-csv/internal/csvio"
	"github.com/AobaIwaki123/url-to-csv/internal/feed"
	"github.com/AobaIwaki123/url-to-csv/internal/uploader"
)

// Status reports the panel state.
type Status struct {
	Collecting    bool `json:"collecting"`
	Rows          int  `json:"rows"`
	Authenticated bool `json:"authenticated"`
	FeedClients   int  `json:"feed_clients"`
}

// ExportResult describes a written CSV file.
type ExportResult struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Rows     int    `json:"rows"`
}

// Service implements the panel operations.
type Service struct {
	session *capture.Session
	uploads *uploader.Client
	broker  *feed.Broker

	backendURL string
	webhookURL string
	exportDir  string
	filePrefix string

	now func() time.Time
}

// NewService wires the panel state. backendURL and webhookURL may be empty;
// the corresponding operations then fail with configuration errors.
func NewService(session *capture.Session, uploads *uploader.Client, broker *feed.Broker, backendURL, webhookURL, exportDir, filePrefix string) *Service {
	return &Service{
		session:    session,
		uploads:    uploads,
		broker:     broker,
		backendURL: backendURL,
		webhookURL: webhookURL,
		exportDir:  exportDir,
		filePrefix: filePrefix,
		now:        time.Now,
	}
}

// HandleRequest is the finished-request consumer: filter, ingest, publish.
// Rejected requests leave no trace.
func (s *Service) HandleRequest(ev cdp.RequestEvent) {
	row, ok := capture.Decide(ev.URL)
	if !ok {
		return
	}
	if !s.session.Ingest(row) {
		return
	}

	slog.Debug("row captured", "name", row.Name, "url", truncateForLog(row.URL))
	if payload, err := json.Marshal(row); err == nil {
		s.broker.Publish(feed.Event{Kind: "row", Payload: string(payload)})
	}
}

// StartCapture enables collection.
func (s *Service) StartCapture(ctx context.Context) Status {
	_ = ctx
	s.session.Start()
	slog.Info("capture started", "rows", s.session.Len())
	return s.status()
}

// StopCapture disables collection, keeping accumulated rows.
func (s *Service) StopCapture(ctx context.Context) Status {
	_ = ctx
	s.session.Stop()
	slog.Info("capture stopped", "rows", s.session.Len())
	return s.status()
}

// ResetCapture discards all rows.
func (s *Service) ResetCapture(ctx context.Context) Status {
	_ = ctx
	s.session.Reset()
	slog.Info("capture reset")
	return s.status()
}

// Status reports the current panel state.
func (s *Service) Status(ctx context.Context) Status {
	_ = ctx
	return s.status()
}

func (s *Service) status() Status {
	return Status{
		Collecting:    s.session.Collecting(),
		Rows:          s.session.Len(),
		Authenticated: s.uploads.Authenticated(),
		FeedClients:   s.broker.ClientCount(),
	}
}

// Rows returns the captured rows in order.
func (s *Service) Rows(ctx context.Context) []capture.Row {
	_ = ctx
	return s.session.Snapshot()
}

// PreviewCSV renders the current rows with default headers. Empty sessions
// yield an empty string, matching the panel preview.
func (s *Service) PreviewCSV(ctx context.Context) (string, int) {
	_ = ctx
	rows := s.session.Snapshot()
	if len(rows) == 0 {
		return "", 0
	}
	return csvio.Serialize(rows, csvio.DefaultOptions()), len(rows)
}

// ExportCSV writes the current rows to a timestamped file in the export
// directory.
func (s *Service) ExportCSV(ctx context.Context) (ExportResult, error) {
	_ = ctx
	rows := s.session.Snapshot()
	if len(rows) == 0 {
		return ExportResult{}, newError(CodeNoRows, "no captured rows to export", nil)
	}

	csvText := csvio.Serialize(rows, csvio.DefaultOptions())
	filename := csvio.Filename(s.filePrefix, s.now())

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return ExportResult{}, newError(CodeExportFailure, fmt.Sprintf("create export dir %s", s.exportDir), err)
	}
	path := filepath.Join(s.exportDir, filename)
	if err := os.WriteFile(path, []byte(csvText), 0o644); err != nil {
		return ExportResult{}, newError(CodeExportFailure, fmt.Sprintf("write %s", path), err)
	}

	slog.Info("csv exported", "file", path, "rows", len(rows))
	return ExportResult{Filename: filename, Path: path, Rows: len(rows)}, nil
}

// Login exchanges credentials for a session token via the backend.
func (s *Service) Login(ctx context.Context, username, password string) uploader.Result {
	return s.uploads.Login(ctx, s.backendURL, username, password)
}

// Logout clears the session token.
func (s *Service) Logout(ctx context.Context) {
	_ = ctx
	s.uploads.Logout()
	slog.Info("logged out")
}

// Upload serializes the current rows and sends them to the backend.
func (s *Service) Upload(ctx context.Context) (uploader.Result, error) {
	rows := s.session.Snapshot()
	if len(rows) == 0 {
		return uploader.Result{}, newError(CodeNoRows, "no captured rows to upload", nil)
	}

	csvText := csvio.Serialize(rows, csvio.DefaultOptions())
	return s.uploads.Upload(ctx, s.backendURL, csvText), nil
}

// SendWebhook posts the current rows to the legacy spreadsheet webhook.
func (s *Service) SendWebhook(ctx context.Context) (uploader.Result, error) {
	rows := s.session.Snapshot()
	if len(rows) == 0 {
		return uploader.Result{}, newError(CodeNoRows, "no captured rows to send", nil)
	}
	return s.uploads.SendWebhook(ctx, s.webhookURL, rows), nil
}

func truncateForLog(url string) string {
	if len(url) > 120 {
		return url[:120] + "..."
	}
	return url
}
