package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/AobaIwaki123/url-to-csv/internal/appendjob"
	"github.com/AobaIwaki123/url-to-csv/internal/config"
	"github.com/AobaIwaki123/url-to-csv/internal/jobtrigger"
	"github.com/AobaIwaki123/url-to-csv/internal/objstore"
	"github.com/AobaIwaki123/url-to-csv/internal/sheets"
)

func main() {
	cfg, err := config.LoadJob()
	if err != nil {
		slog.Error("failed to load job config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		if _, writeErr := io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n"); writeErr != nil {
			slog.Debug("logger setup stderr write failed", "error", writeErr)
		}
		os.Exit(1)
	}

	slog.Info("appendjob config loaded",
		"bucket_dir", cfg.BucketDir,
		"sheet_range", cfg.SheetRange,
		"mode", cfg.Mode,
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	store, err := objstore.NewFSStore(cfg.BucketDir)
	if err != nil {
		slog.Error("failed to open bucket dir", "dir", cfg.BucketDir, "error", err)
		os.Exit(1)
	}

	appender := sheets.NewWebhookAppender(&http.Client{Timeout: 30 * time.Second}, cfg.SheetWebhookURL, cfg.SheetRange)
	runner := appendjob.NewRunner(store, appender)

	if cfg.Mode == "once" {
		if err := runner.Run(context.Background()); err != nil {
			slog.Error("append job failed", "error", err)
			os.Exit(1)
		}
		return
	}

	trigger, err := jobtrigger.ConnectNATS(cfg.NATSURL, cfg.NATSToken, cfg.NATSSubject)
	if err != nil {
		slog.Error("failed to connect NATS", "url", cfg.NATSURL, "error", err)
		os.Exit(1)
	}
	defer trigger.Close()

	if err := trigger.Subscribe(runner); err != nil {
		slog.Error("failed to subscribe", "subject", cfg.NATSSubject, "error", err)
		os.Exit(1)
	}
	slog.Info("appendjob worker listening", "subject", cfg.NATSSubject)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
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
