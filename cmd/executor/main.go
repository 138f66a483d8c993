package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/executor-runtime/internal/application"
	"github.com/eugenenazirov/executor-runtime/internal/config"
	"github.com/eugenenazirov/executor-runtime/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("executor", "Executor runtime - resolves the runtime configuration of a task executor and serves it over HTTP")
	configFile := kingpinApp.Flag("config", "Path to YAML or TOML configuration file").String()
	properties := kingpinApp.Flag("property", "Configuration entry as key=value (repeatable)").Short('D').StringMap()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	externalAddress := kingpinApp.Flag("external-address", "Address other components reach this executor at").String()
	workingDir := kingpinApp.Flag("working-dir", "Working directory of the executor").String()
	logLevel := kingpinApp.Flag("log-level", "Minimum log level (debug, info, warn, error)").String()
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	runCmd := kingpinApp.Command("run", "Resolve the runtime configuration and serve it over HTTP").Default()
	describeCmd := kingpinApp.Command("describe", "Print the resolved runtime configuration and exit")

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
		Properties: *properties,
	}

	if *port != "" {
		overrides.Port = port
	}

	if *externalAddress != "" {
		overrides.ExternalAddress = externalAddress
	}

	if *workingDir != "" {
		overrides.WorkingDir = workingDir
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(logging.WithLevel(cfg.LogLevel))
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	switch command {
	case describeCmd.FullCommand():
		if err := describe(os.Stdout, cfg, logger); err != nil {
			logger.Fatal("failed to resolve runtime configuration", zap.Error(err))
		}
	case runCmd.FullCommand():
		app, err := application.New(cfg, logger)
		if err != nil {
			logger.Fatal("failed to initialize application", zap.Error(err))
		}
		logger = app.Logger()

		if err := app.Start(); err != nil {
			logger.Fatal("failed to start server", zap.Error(err))
		}

		shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
	}
}

func describe(w io.Writer, cfg config.Config, logger *zap.Logger) error {
	runtime, err := application.Resolve(cfg, logger)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, runtime.String())
	return err
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
