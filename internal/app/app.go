// Package app boots the relay server: config, logging, crash reporting,
// the default level document, and the HTTP surface.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"

	"ittybitycity/game/geom"
	"ittybitycity/game/internal/proto"
	"ittybitycity/game/internal/relay"
)

// NewLogger builds the process logger.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     false,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	return log
}

// Run serves until ctx cancels.
func Run(ctx context.Context, cfg Config, log *logrus.Logger) error {
	if log == nil {
		log = NewLogger()
	}
	cfg = cfg.Normalized()

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Warnf("sentry init failed: %v", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		viewer.SetConfiguration(viewer.WithAddr("localhost:18089"))
		mgr := statsview.New()
		go mgr.Start()
	}

	level := ensureLevel(cfg, log)

	hub := relay.NewHub(log)
	go hub.Run(ctx)

	handler := relay.NewHandler(hub, relay.HandlerConfig{
		StaticDir: cfg.StaticDir,
		Level:     level,
		StartedAt: time.Now(),
		Logger:    log,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("shutdown: %v", err)
		}
	}()

	log.Infof("relay listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("relay server failed: %w", err)
	}
	return nil
}

// ensureLevel loads the default level document, generating and writing it
// when absent so clients can fetch the same geometry the diagnostics report.
func ensureLevel(cfg Config, log *logrus.Logger) proto.LevelInfo {
	path := filepath.Join(cfg.StaticDir, "levels", cfg.LevelName+".json")

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) && cfg.WriteDefaultLevel {
		raw, err = writeGeneratedLevel(path, cfg.LevelSeed)
		if err != nil {
			log.Warnf("failed to write generated level: %v", err)
			return proto.LevelInfo{}
		}
		log.Infof("generated level document at %s", path)
	} else if err != nil {
		log.Warnf("level document unavailable at %s: %v", path, err)
		return proto.LevelInfo{}
	}

	level, err := geom.DecodeLevel(raw)
	if err != nil {
		log.Warnf("level document at %s is invalid: %v", path, err)
		return proto.LevelInfo{}
	}
	return proto.LevelInfo{
		Name:     level.Name,
		Checksum: proto.FormatChecksum(level.Checksum),
	}
}

func writeGeneratedLevel(path, seed string) ([]byte, error) {
	level := geom.GenerateTown(seed)
	raw, err := json.Marshal(level)
	if err != nil {
		return nil, fmt.Errorf("marshal level: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create levels directory: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return nil, fmt.Errorf("write level: %w", err)
	}
	return raw, nil
}
