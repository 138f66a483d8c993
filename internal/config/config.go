package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/executor-runtime/internal/configuration"
)

const (
	propertiesEnv          = "EXECUTOR_PROPERTIES"
	resourceIDLength       = 6
	workingDirPrefix       = "executor_"
	defaultExternalAddress = "localhost"
)

// Overridable for tests.
var (
	osHostname = os.Hostname
	newUUID    = uuid.NewV4
)

// Config aggregates the raw executor configuration and the process settings derived
// from it. Precedence: CLI flags > Environment variables > Config file > Defaults
type Config struct {
	Raw *configuration.Configuration

	ExternalAddress  string
	ResourceID       string
	WorkingDirectory string
	LogLevel         string

	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile      string
	Properties      map[string]string
	Port            *string
	RateLimitRPS    *float64
	RateLimitBurst  *int
	ExternalAddress *string
	WorkingDir      *string
	LogLevel        *string
}

// Load builds the raw configuration from multiple sources with precedence:
// CLI flags > Environment variables > Config file > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	raw := configuration.New()

	if overrides != nil && overrides.ConfigFile != "" {
		entries, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
		raw.SetAll(entries)
	}

	if err := applyEnvConfig(raw); err != nil {
		return Config{}, err
	}

	if overrides != nil {
		applyCLIOverrides(raw, overrides)
	}

	cfg, err := fromRaw(raw)
	if err != nil {
		return Config{}, err
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(raw *configuration.Configuration) error {
	if props := os.Getenv(propertiesEnv); strings.TrimSpace(props) != "" {
		entries, err := parseYAML([]byte(props))
		if err != nil {
			return fmt.Errorf("parse %s: %w", propertiesEnv, err)
		}
		raw.SetAll(entries)
	}

	conventional := map[string]configuration.Option{
		"PORT":             configuration.RestPort,
		"RATE_LIMIT_RPS":   configuration.RestRateLimitRPS,
		"RATE_LIMIT_BURST": configuration.RestRateLimitBurst,
	}
	for env, opt := range conventional {
		if value := strings.TrimSpace(os.Getenv(env)); value != "" {
			raw.Set(opt.Key, value)
		}
	}
	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(raw *configuration.Configuration, overrides *CLIOverrides) {
	raw.SetAll(overrides.Properties)

	if overrides.Port != nil && *overrides.Port != "" {
		raw.Set(configuration.RestPort.Key, *overrides.Port)
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		raw.Set(configuration.RestRateLimitRPS.Key, fmt.Sprint(*overrides.RateLimitRPS))
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		raw.Set(configuration.RestRateLimitBurst.Key, fmt.Sprint(*overrides.RateLimitBurst))
	}

	if overrides.ExternalAddress != nil && *overrides.ExternalAddress != "" {
		raw.Set(configuration.Host.Key, *overrides.ExternalAddress)
	}

	if overrides.WorkingDir != nil && *overrides.WorkingDir != "" {
		raw.Set(configuration.WorkingDir.Key, *overrides.WorkingDir)
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		raw.Set(configuration.LogLevel.Key, *overrides.LogLevel)
	}
}

// fromRaw types the process settings out of the raw configuration.
func fromRaw(raw *configuration.Configuration) (Config, error) {
	cfg := Config{Raw: raw}
	var errs error

	durations := []struct {
		opt    configuration.Option
		target *time.Duration
	}{
		{opt: configuration.RestShutdownGracePeriod, target: &cfg.ShutdownGracePeriod},
		{opt: configuration.RestReadHeaderTimeout, target: &cfg.ReadHeaderTimeout},
		{opt: configuration.RestWriteTimeout, target: &cfg.WriteTimeout},
		{opt: configuration.RestIdleTimeout, target: &cfg.IdleTimeout},
	}
	for _, d := range durations {
		value, err := raw.GetDuration(d.opt)
		errs = multierr.Append(errs, err)
		*d.target = value
	}

	var err error
	cfg.Port, _ = raw.GetString(configuration.RestPort)
	cfg.LogLevel, _ = raw.GetString(configuration.LogLevel)

	cfg.EnableRequestLogging, err = raw.GetBool(configuration.RestRequestLogging)
	errs = multierr.Append(errs, err)

	cfg.RateLimitRPS, err = raw.GetFloat(configuration.RestRateLimitRPS)
	errs = multierr.Append(errs, err)

	cfg.RateLimitBurst, err = raw.GetInt(configuration.RestRateLimitBurst)
	errs = multierr.Append(errs, err)

	cfg.ExternalAddress, err = externalAddress(raw)
	errs = multierr.Append(errs, err)

	cfg.ResourceID, err = resourceID(raw, cfg.ExternalAddress)
	errs = multierr.Append(errs, err)

	cfg.WorkingDirectory = workingDirectory(raw, cfg.ResourceID)

	if errs != nil {
		return Config{}, fmt.Errorf("read configuration: %w", errs)
	}
	return cfg, nil
}

func externalAddress(raw configuration.View) (string, error) {
	if host, ok := raw.GetString(configuration.Host); ok {
		return host, nil
	}
	host, err := osHostname()
	if err != nil {
		return "", fmt.Errorf("determine external address: %w", err)
	}
	if host == "" {
		return defaultExternalAddress, nil
	}
	return host, nil
}

// resourceID returns the configured identifier or one generated from the address.
func resourceID(raw configuration.View, address string) (string, error) {
	if id, ok := raw.GetString(configuration.ResourceID); ok {
		return id, nil
	}
	id, err := newUUID()
	if err != nil {
		return "", fmt.Errorf("generate resource id: %w", err)
	}
	suffix := strings.ReplaceAll(id.String(), "-", "")[:resourceIDLength]
	return address + "-" + suffix, nil
}

func workingDirectory(raw configuration.View, resourceID string) string {
	if dir, ok := raw.GetString(configuration.WorkingDir); ok {
		return dir
	}
	base := os.TempDir()
	if dirs := configuration.ParseTempDirectories(raw); len(dirs) > 0 {
		base = dirs[0]
	}
	return filepath.Join(base, workingDirPrefix+sanitizePathElement(resourceID))
}

func sanitizePathElement(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' || r == filepath.Separator {
			return '_'
		}
		return r
	}, s)
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	var errs error
	if strings.TrimSpace(cfg.Port) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s must not be empty", configuration.RestPort.Key))
	}
	if cfg.RateLimitRPS < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be >= 0", configuration.RestRateLimitRPS.Key))
	}
	if cfg.RateLimitBurst < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be >= 0", configuration.RestRateLimitBurst.Key))
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", configuration.LogLevel.Key, err))
	}
	return errs
}
