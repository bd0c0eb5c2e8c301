// Package api exposes the capture panel operations over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AobaIwaki123/url-to-csv/internal/agent"
	"github.com/AobaIwaki123/url-to-csv/internal/capture"
	"github.com/AobaIwaki123/url-to-csv/internal/feed"
	"github.com/AobaIwaki123/url-to-csv/internal/uploader"
)

// Service is the panel operation surface the handlers call into.
type Service interface {
	StartCapture(ctx context.Context) agent.Status
	StopCapture(ctx context.Context) agent.Status
	ResetCapture(ctx context.Context) agent.Status
	Status(ctx context.Context) agent.Status
	Rows(ctx context.Context) []capture.Row
	PreviewCSV(ctx context.Context) (string, int)
	ExportCSV(ctx context.Context) (agent.ExportResult, error)
	Login(ctx context.Context, username, password string) uploader.Result
	Logout(ctx context.Context)
	Upload(ctx context.Context) (uploader.Result, error)
	SendWebhook(ctx context.Context) (uploader.Result, error)
}

// NewServer assembles the panel API plus the live feed endpoints.
func NewServer(svc Service, broker *feed.Broker) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("URL-to-CSV Capture Agent API", "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(docsHTML)); err != nil {
			slog.Debug("docs response write failed", "error", err)
		}
	})

	registerCaptureHandlers(api, svc)
	registerAuthHandlers(api, svc)
	registerUploadHandlers(api, svc)

	router.Get("/api/v1/feed/sse", feed.SSEHandler(broker))
	router.Get("/api/v1/feed/ws", feed.WSHandler(broker))

	return router
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *agent.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case agent.CodeNoRows, agent.CodeValidation:
			return huma.Error400BadRequest(coded.Message)
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
