package executor

import (
	"slices"
	"time"

	"github.com/eugenenazirov/executor-runtime/internal/configuration"
	"github.com/eugenenazirov/executor-runtime/internal/registration"
	"github.com/eugenenazirov/executor-runtime/internal/resources"
)

// RuntimeInfo is the part of the runtime configuration other subsystems depend on.
type RuntimeInfo interface {
	Configuration() configuration.View
	TmpDirectories() []string
	ExitOnOutOfMemory() bool
	ExternalAddress() string
	WorkingDirectory() string
}

var _ RuntimeInfo = (*RuntimeConfig)(nil)

// RuntimeConfig is the resolved configuration of an executor process. It is built once
// by a Resolver and never changes afterwards, so it may be read from any goroutine.
type RuntimeConfig struct {
	slotCount                  int
	defaultSlotResourceProfile resources.Profile
	totalResourceProfile       resources.Profile
	tmpDirectories             []string
	rpcTimeout                 time.Duration
	slotTimeout                time.Duration
	// zero means unbounded
	maxRegistrationDuration time.Duration
	exitOnOutOfMemory       bool
	logFilePath             string
	stdoutFilePath          string
	logDirectory            string
	externalAddress         string
	workingDirectory        string
	retryingRegistration    registration.Config
	configuration           configuration.View
}

// SlotCount returns the number of task slots, never the -1 sentinel.
func (c *RuntimeConfig) SlotCount() int {
	return c.slotCount
}

// DefaultSlotResourceProfile returns the resources of a single slot.
func (c *RuntimeConfig) DefaultSlotResourceProfile() resources.Profile {
	return c.defaultSlotResourceProfile
}

// TotalResourceProfile returns the resources of the whole executor.
func (c *RuntimeConfig) TotalResourceProfile() resources.Profile {
	return c.totalResourceProfile
}

// TmpDirectories returns a copy of the temporary directories, in configured order.
func (c *RuntimeConfig) TmpDirectories() []string {
	return slices.Clone(c.tmpDirectories)
}

// RPCTimeout returns the timeout for outgoing requests. It is always positive.
func (c *RuntimeConfig) RPCTimeout() time.Duration {
	return c.rpcTimeout
}

// SlotTimeout returns how long an unused slot is kept. It is always positive.
func (c *RuntimeConfig) SlotTimeout() time.Duration {
	return c.slotTimeout
}

// MaxRegistrationDuration returns the registration deadline. ok is false when
// registration is unbounded.
func (c *RuntimeConfig) MaxRegistrationDuration() (d time.Duration, ok bool) {
	return c.maxRegistrationDuration, c.maxRegistrationDuration > 0
}

// ExitOnOutOfMemory reports whether the process exits on an out-of-memory error.
func (c *RuntimeConfig) ExitOnOutOfMemory() bool {
	return c.exitOnOutOfMemory
}

// LogFilePath returns the configured log file. ok is false when no log path is set.
func (c *RuntimeConfig) LogFilePath() (string, bool) {
	return c.logFilePath, c.logFilePath != ""
}

// StdoutFilePath returns the file stdout is expected to be redirected to. ok is false
// when no log path is set or the log path has no usable extension.
func (c *RuntimeConfig) StdoutFilePath() (string, bool) {
	return c.stdoutFilePath, c.stdoutFilePath != ""
}

// LogDirectory returns the directory of the log file. ok is false when no log path is
// set or the log path is a bare file name.
func (c *RuntimeConfig) LogDirectory() (string, bool) {
	return c.logDirectory, c.logDirectory != ""
}

// ExternalAddress returns the address other components reach this executor at.
func (c *RuntimeConfig) ExternalAddress() string {
	return c.externalAddress
}

// WorkingDirectory returns the directory for the executor's local files.
func (c *RuntimeConfig) WorkingDirectory() string {
	return c.workingDirectory
}

// RetryingRegistration returns the retry policy for registering with the coordinator.
func (c *RuntimeConfig) RetryingRegistration() registration.Config {
	return c.retryingRegistration
}

// Configuration returns a read-only view of the full raw configuration.
func (c *RuntimeConfig) Configuration() configuration.View {
	return c.configuration
}
