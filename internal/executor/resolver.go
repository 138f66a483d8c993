package executor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/executor-runtime/internal/configuration"
	"github.com/eugenenazirov/executor-runtime/internal/registration"
	"github.com/eugenenazirov/executor-runtime/internal/resources"
)

// unsetSlots is the slot count that asks for the default of a single slot.
const unsetSlots = -1

// Resolver turns raw configuration into a RuntimeConfig.
type Resolver struct {
	logger             *zap.Logger
	defaultSlotProfile func(resources.Spec, int) (resources.Profile, error)
	totalProfile       func(resources.Spec) resources.Profile
	registration       func(configuration.View) (registration.Config, error)
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithDefaultSlotProfile replaces the function computing the per-slot profile.
func WithDefaultSlotProfile(fn func(resources.Spec, int) (resources.Profile, error)) ResolverOption {
	return func(r *Resolver) {
		r.defaultSlotProfile = fn
	}
}

// WithTotalProfile replaces the function computing the total profile.
func WithTotalProfile(fn func(resources.Spec) resources.Profile) ResolverOption {
	return func(r *Resolver) {
		r.totalProfile = fn
	}
}

// WithRegistrationFactory replaces the factory of the retrying-registration policy.
func WithRegistrationFactory(fn func(configuration.View) (registration.Config, error)) ResolverOption {
	return func(r *Resolver) {
		r.registration = fn
	}
}

// NewResolver creates a Resolver backed by the resources and registration packages.
func NewResolver(logger *zap.Logger, opts ...ResolverOption) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{
		logger:             logger,
		defaultSlotProfile: resources.GenerateDefaultSlotProfile,
		totalProfile:       resources.GenerateTotalProfile,
		registration:       registration.FromConfiguration,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromConfiguration resolves a RuntimeConfig with the default collaborators.
func FromConfiguration(
	raw configuration.View,
	spec resources.Spec,
	externalAddress string,
	workingDirectory string,
	logger *zap.Logger,
) (*RuntimeConfig, error) {
	return NewResolver(logger).Resolve(raw, spec, externalAddress, workingDirectory)
}

// Resolve derives the runtime configuration. It either returns a complete RuntimeConfig
// or an error; a malformed registration timeout is the only invalid entry it tolerates,
// falling back to an unbounded registration.
func (r *Resolver) Resolve(
	raw configuration.View,
	spec resources.Spec,
	externalAddress string,
	workingDirectory string,
) (*RuntimeConfig, error) {
	conf := configuration.Snapshot(raw)

	slots, err := conf.GetIntOrDefault(configuration.Slots, 1)
	if err != nil {
		return nil, fmt.Errorf("read number of slots: %w", err)
	}
	if slots == unsetSlots {
		slots = 1
	}

	tmpDirs := configuration.ParseTempDirectories(conf)

	rpcTimeout, err := positiveDuration(conf, configuration.RPCTimeout)
	if err != nil {
		return nil, fmt.Errorf("read rpc timeout: %w", err)
	}
	r.logger.Debug("messages have a max timeout", zap.Duration("rpc_timeout", rpcTimeout))

	slotTimeout := rpcTimeout
	if conf.Contains(configuration.SlotTimeout) {
		slotTimeout, err = positiveDuration(conf, configuration.SlotTimeout)
		if err != nil {
			return nil, fmt.Errorf("read slot timeout: %w", err)
		}
	}

	maxRegistration := r.maxRegistrationDuration(conf)

	exitOnOOM, err := conf.GetBool(configuration.ExitOnOutOfMemory)
	if err != nil {
		return nil, fmt.Errorf("read exit-on-oom flag: %w", err)
	}

	var logPath, stdoutPath, logDir string
	if path, ok := conf.GetString(configuration.LogPath); ok {
		logPath = path
		logDir = parentDirectory(path)
		stdoutPath = stdoutFilePath(path)
	}

	retrying, err := r.registration(conf)
	if err != nil {
		return nil, err
	}

	defaultSlot, err := r.defaultSlotProfile(spec, slots)
	if err != nil {
		return nil, fmt.Errorf("generate default slot profile: %w", err)
	}

	return &RuntimeConfig{
		slotCount:                  slots,
		defaultSlotResourceProfile: defaultSlot,
		totalResourceProfile:       r.totalProfile(spec),
		tmpDirectories:             tmpDirs,
		rpcTimeout:                 rpcTimeout,
		slotTimeout:                slotTimeout,
		maxRegistrationDuration:    maxRegistration,
		exitOnOutOfMemory:          exitOnOOM,
		logFilePath:                logPath,
		stdoutFilePath:             stdoutPath,
		logDirectory:               logDir,
		externalAddress:            externalAddress,
		workingDirectory:           workingDirectory,
		retryingRegistration:       retrying,
		configuration:              conf,
	}, nil
}

// positiveDuration reads opt and rejects zero or negative values.
func positiveDuration(conf configuration.View, opt configuration.Option) (time.Duration, error) {
	d, err := conf.GetDuration(opt)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: %w: must be positive, got %s", opt.Key, configuration.ErrInvalidDuration, d)
	}
	return d, nil
}

// maxRegistrationDuration returns zero for an unbounded registration. Invalid values are
// logged and treated as unbounded.
func (r *Resolver) maxRegistrationDuration(conf configuration.View) time.Duration {
	opt := configuration.RegistrationTimeout
	if value, ok := conf.GetString(opt); ok && configuration.IsInfinite(value) {
		return 0
	}

	d, err := conf.GetDuration(opt)
	if err == nil && d <= 0 {
		err = fmt.Errorf("%w: must be positive, got %s", configuration.ErrInvalidDuration, d)
	}
	if err != nil {
		r.logger.Warn("invalid format for parameter, set the timeout to be infinite",
			zap.String("key", opt.Key),
			zap.Error(err),
		)
		return 0
	}
	return d
}

// parentDirectory returns the directory part of path, or "" when path names a bare file.
func parentDirectory(path string) string {
	if !strings.ContainsRune(path, filepath.Separator) && !strings.ContainsRune(path, '/') {
		return ""
	}
	return filepath.Dir(path)
}

// stdoutFilePath replaces everything after the last '.' of the path with ".out". A path
// without a dot, or whose last dot starts a hidden file name, has no stdout file.
func stdoutFilePath(logPath string) string {
	nameStart := strings.LastIndexAny(logPath, "/"+string(filepath.Separator)) + 1
	ext := strings.LastIndexByte(logPath, '.')
	if ext <= 0 || ext == nameStart {
		return ""
	}
	return logPath[:ext] + ".out"
}
