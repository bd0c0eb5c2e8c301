package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/AobaIwaki123/url-to-csv/internal/appendjob"
	"github.com/AobaIwaki123/url-to-csv/internal/authn"
	"github.com/AobaIwaki123/url-to-csv/internal/config"
	"github.com/AobaIwaki123/url-to-csv/internal/ingest"
	"github.com/AobaIwaki123/url-to-csv/internal/jobtrigger"
	"github.com/AobaIwaki123/url-to-csv/internal/objstore"
	"github.com/AobaIwaki123/url-to-csv/internal/sheets"
)

func main() {
	cfg, err := config.LoadService()
	if err != nil {
		slog.Error("failed to load service config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		if _, writeErr := io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n"); writeErr != nil {
			slog.Debug("logger setup stderr write failed", "error", writeErr)
		}
		os.Exit(1)
	}

	slog.Info("service config loaded",
		"bind_address", cfg.BindAddress,
		"bind_port", cfg.BindPort,
		"bucket_dir", cfg.BucketDir,
		"trigger_mode", cfg.TriggerMode,
		"token_ttl", cfg.TokenTTL,
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	issuer, err := authn.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		slog.Error("failed to build token issuer", "error", err)
		os.Exit(1)
	}

	store, err := objstore.NewFSStore(cfg.BucketDir)
	if err != nil {
		slog.Error("failed to open bucket dir", "dir", cfg.BucketDir, "error", err)
		os.Exit(1)
	}

	trigger, cleanup, err := buildTrigger(cfg, store)
	if err != nil {
		slog.Error("failed to build append job trigger", "mode", cfg.TriggerMode, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	checker := &authn.StaticChecker{Username: cfg.Username, Password: cfg.Password}
	server := ingest.NewServer(issuer, checker, cfg.ExpiresIn(), store, trigger)

	addr := fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.BindPort)
	srv := &http.Server{Addr: addr, Handler: server.Router(cfg.AllowedOrigins)}

	go func() {
		slog.Info("service listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("service server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("service shutdown failed", "error", err)
	}
}

func buildTrigger(cfg *config.Service, store objstore.Store) (jobtrigger.Trigger, func(), error) {
	if cfg.TriggerMode == "nats" {
		nt, err := jobtrigger.ConnectNATS(cfg.NATSURL, cfg.NATSToken, cfg.NATSSubject)
		if err != nil {
			return nil, nil, err
		}
		return nt, nt.Close, nil
	}

	if cfg.SheetWebhookURL == "" {
		slog.Warn("SERVICE_SHEET_WEBHOOK_URL is not set; local append job runs will fail")
	}
	appender := sheets.NewWebhookAppender(&http.Client{Timeout: 30 * time.Second}, cfg.SheetWebhookURL, cfg.SheetRange)
	runner := appendjob.NewRunner(store, appender)
	return jobtrigger.NewLocalTrigger(runner), func() {}, nil
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
