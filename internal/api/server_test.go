package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AobaIwaki123/url-to-csv/internal/agent"
	"github.com/AobaIwaki123/url-to-csv/internal/capture"
	"github.com/AobaIwaki123/url-to-csv/internal/feed"
	"github.com/AobaIwaki123/url-to-csv/internal/uploader"
)

type stubService struct {
	status    agent.Status
	rows      []capture.Row
	exportErr error
}

func (s *stubService) StartCapture(ctx context.Context) agent.Status { return s.status }
func (s *stubService) StopCapture(ctx context.Context) agent.Status  { return s.status }
func (s *stubService) ResetCapture(ctx context.Context) agent.Status { return s.status }
func (s *stubService) Status(ctx context.Context) agent.Status       { return s.status }
func (s *stubService) Rows(ctx context.Context) []capture.Row        { return s.rows }
func (s *stubService) PreviewCSV(ctx context.Context) (string, int)  { return "", 0 }
func (s *stubService) ExportCSV(ctx context.Context) (agent.ExportResult, error) {
	if s.exportErr != nil {
		return agent.ExportResult{}, s.exportErr
	}
	return agent.ExportResult{Filename: "x.csv", Rows: len(s.rows)}, nil
}
func (s *stubService) Login(ctx context.Context, username, password string) uploader.Result {
	return uploader.Result{OK: true, Status: http.StatusOK}
}
func (s *stubService) Logout(ctx context.Context) {}
func (s *stubService) Upload(ctx context.Context) (uploader.Result, error) {
	return uploader.Result{OK: true, Status: http.StatusOK}, nil
}
func (s *stubService) SendWebhook(ctx context.Context) (uploader.Result, error) {
	return uploader.Result{OK: true, Status: http.StatusOK}, nil
}

func TestDocsDarkMode(t *testing.T) {
	h := NewServer(&stubService{}, feed.NewBroker())
	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `data-theme="dark"`) {
		t.Fatal("docs missing dark theme marker")
	}
}

func TestStatusEndpoint(t *testing.T) {
	svc := &stubService{status: agent.Status{Collecting: true, Rows: 3}}
	h := NewServer(svc, feed.NewBroker())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got agent.Status
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !got.Collecting || got.Rows != 3 {
		t.Fatalf("body = %+v", got)
	}
}

func TestExportMapsNoRowsTo400(t *testing.T) {
	svc := &stubService{exportErr: &agent.CodedError{Code: agent.CodeNoRows, Message: "no captured rows to export"}}
	h := NewServer(svc, feed.NewBroker())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/csv/export", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", w.Code, w.Body.String())
	}
}

func TestExportMapsExportFailureTo500(t *testing.T) {
	svc := &stubService{exportErr: &agent.CodedError{Code: agent.CodeExportFailure, Message: "disk full"}}
	h := NewServer(svc, feed.NewBroker())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/csv/export", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500; body = %s", w.Code, w.Body.String())
	}
}

func TestRowsEndpoint(t *testing.T) {
	svc := &stubService{rows: []capture.Row{{Name: "x.png", URL: "https://example.com/x.png"}}}
	h := NewServer(svc, feed.NewBroker())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rows", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got []capture.Row
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 1 || got[0].Name != "x.png" {
		t.Fatalf("body = %v", got)
	}
}
