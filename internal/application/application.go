package application

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/executor-runtime/internal/api"
	"github.com/eugenenazirov/executor-runtime/internal/config"
	"github.com/eugenenazirov/executor-runtime/internal/executor"
	"github.com/eugenenazirov/executor-runtime/internal/logging"
	"github.com/eugenenazirov/executor-runtime/internal/resources"
)

const dirPerm = 0o755

// App encapsulates the resolved runtime configuration and the HTTP server exposing it.
type App struct {
	runtime *executor.RuntimeConfig
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// Resolve derives the runtime configuration of the executor described by cfg.
func Resolve(cfg config.Config, logger *zap.Logger) (*executor.RuntimeConfig, error) {
	spec, err := resources.SpecFromConfiguration(cfg.Raw)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource spec: %w", err)
	}

	runtime, err := executor.NewResolver(logger).Resolve(cfg.Raw, spec, cfg.ExternalAddress, cfg.WorkingDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve runtime configuration: %w", err)
	}
	return runtime, nil
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	runtime, err := Resolve(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(runtime.WorkingDirectory(), dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}

	logger, err = fileLogger(cfg, runtime, logger)
	if err != nil {
		return nil, err
	}

	handler := api.NewHandler(runtime, cfg.ResourceID)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		runtime: runtime,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, apiRouter),
	}, nil
}

// fileLogger returns a logger that also writes to the derived log file. Without a
// configured log path the bootstrap logger is kept.
func fileLogger(cfg config.Config, runtime *executor.RuntimeConfig, bootstrap *zap.Logger) (*zap.Logger, error) {
	path, ok := runtime.LogFilePath()
	if !ok {
		return bootstrap, nil
	}
	if dir, ok := runtime.LogDirectory(); ok {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	logger, err := logging.New(logging.WithLevel(cfg.LogLevel), logging.WithFile(path))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file logger: %w", err)
	}
	return logger.With(zap.String("resource_id", cfg.ResourceID)), nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.String("external_address", a.runtime.ExternalAddress()),
			zap.Int("slots", a.runtime.SlotCount()),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Logger returns the logger the application writes to.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// RuntimeConfig returns the resolved runtime configuration.
func (a *App) RuntimeConfig() *executor.RuntimeConfig {
	return a.runtime
}
