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

	"github.com/AobaIwaki123/url-to-csv/internal/agent"
	"github.com/AobaIwaki123/url-to-csv/internal/api"
	"github.com/AobaIwaki123/url-to-csv/internal/capture"
	"github.com/AobaIwaki123/url-to-csv/internal/cdp"
	"github.com/AobaIwaki123/url-to-csv/internal/config"
	"github.com/AobaIwaki123/url-to-csv/internal/feed"
	"github.com/AobaIwaki123/url-to-csv/internal/netutil"
	"github.com/AobaIwaki123/url-to-csv/internal/session"
	"github.com/AobaIwaki123/url-to-csv/internal/uploader"
)

func main() {
	cfg, err := config.LoadAgent()
	if err != nil {
		slog.Error("failed to load agent config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		if _, writeErr := io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n"); writeErr != nil {
			slog.Debug("logger setup stderr write failed", "error", writeErr)
		}
		os.Exit(1)
	}

	slog.Info("agent config loaded",
		"cdp_url", cfg.GetCDPURL(),
		"tab_url_filter", cfg.TabURLFilter,
		"reload_on_attach", cfg.ReloadOnAttach,
		"bind_address", cfg.BindAddress,
		"bind_port", cfg.BindPort,
		"backend_url", cfg.BackendURL,
		"export_dir", cfg.ExportDir,
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	bindAddr, err := netutil.SelectBindAddr(cfg.BindAddress, cfg.BindPort, 5, true)
	if err != nil {
		slog.Error("failed to select bind address", "host", cfg.BindAddress, "port", cfg.BindPort, "error", err)
		os.Exit(1)
	}

	captureSession := capture.NewSession()
	broker := feed.NewBroker()
	uploads := uploader.NewClient(&http.Client{Timeout: 30 * time.Second}, session.NewTokenStore())
	svc := agent.NewService(captureSession, uploads, broker, cfg.BackendURL, cfg.WebhookURL, cfg.ExportDir, cfg.FilePrefix)

	cdpClient := cdp.NewClient(cfg.GetCDPURL(), cfg.TabURLFilter, cfg.ReloadOnAttach)
	cdpClient.OnRequestFinished(svc.HandleRequest)
	if err := cdpClient.Connect(context.Background()); err != nil {
		slog.Error("failed to connect CDP", "cdp_url", cfg.GetCDPURL(), "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := cdpClient.Close(); err != nil {
			slog.Debug("CDP client close failed", "error", err)
		}
	}()

	h := api.NewServer(svc, broker)
	srv := &http.Server{Addr: bindAddr, Handler: h}

	go func() {
		slog.Info("agent listening", "addr", bindAddr, "docs", "http://"+bindAddr+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("agent server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("agent shutdown failed", "error", err)
	}
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
