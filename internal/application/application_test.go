package application

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/executor-runtime/internal/config"
	"github.com/eugenenazirov/executor-runtime/internal/configuration"
)

func baseTestConfig(t *testing.T, port string, entries map[string]string) config.Config {
	t.Helper()

	return config.Config{
		Raw:                  configuration.FromMap(entries),
		ExternalAddress:      "executor-1",
		ResourceID:           "executor-1-abcdef",
		WorkingDirectory:     filepath.Join(t.TempDir(), "executor_executor-1-abcdef"),
		LogLevel:             "info",
		Port:                 port,
		ShutdownGracePeriod:  time.Second,
		ReadHeaderTimeout:    2 * time.Second,
		WriteTimeout:         3 * time.Second,
		IdleTimeout:          4 * time.Second,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
	}
}

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(t, ":8085", map[string]string{configuration.Slots.Key: "-1"})
	logger := zaptest.NewLogger(t)

	app, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if app.server == nil || app.router == nil || app.handler == nil {
		t.Fatalf("expected server, router, and handler to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
	if app.Logger() != logger {
		t.Fatalf("expected bootstrap logger without a log path")
	}
	if got := app.RuntimeConfig().SlotCount(); got != 1 {
		t.Fatalf("expected 1 slot, got %d", got)
	}
	if info, err := os.Stat(cfg.WorkingDirectory); err != nil || !info.IsDir() {
		t.Fatalf("expected working directory %s to be created: %v", cfg.WorkingDirectory, err)
	}
}

func TestNewServesRuntime(t *testing.T) {
	cfg := baseTestConfig(t, ":0", nil)

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/runtime", nil)
	rec := httptest.NewRecorder()
	app.Server().Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestNewWritesToDerivedLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "executor.log")
	cfg := baseTestConfig(t, ":0", map[string]string{configuration.LogPath.Key: logPath})

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	app.Logger().Info("probe")
	_ = app.Logger().Sync()

	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file at %s: %v", logPath, err)
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig(t, "9090", nil)
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestNewReturnsErrorForInvalidSlots(t *testing.T) {
	cfg := baseTestConfig(t, ":0", map[string]string{configuration.Slots.Key: "0"})

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for zero slots")
	}
}

func TestResolvePropagatesTimeoutErrors(t *testing.T) {
	cfg := baseTestConfig(t, ":0", map[string]string{configuration.RPCTimeout.Key: "soon"})

	if _, err := Resolve(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for malformed rpc timeout")
	}
}
