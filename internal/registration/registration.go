// Package registration holds the retry policy the executor follows while it registers
// with the cluster.
package registration

import (
	"fmt"
	"time"

	"github.com/eugenenazirov/executor-runtime/internal/configuration"
)

// Config is the retrying-registration policy.
type Config struct {
	InitialTimeout time.Duration `json:"initialTimeout"`
	MaxTimeout     time.Duration `json:"maxTimeout"`
	ErrorDelay     time.Duration `json:"errorDelay"`
	RefusedDelay   time.Duration `json:"refusedDelay"`
}

// FromConfiguration reads the policy from the cluster.registration.* options.
func FromConfiguration(v configuration.View) (Config, error) {
	var cfg Config
	targets := []struct {
		opt    configuration.Option
		target *time.Duration
	}{
		{opt: configuration.RegistrationInitialTimeout, target: &cfg.InitialTimeout},
		{opt: configuration.RegistrationMaxTimeout, target: &cfg.MaxTimeout},
		{opt: configuration.RegistrationErrorDelay, target: &cfg.ErrorDelay},
		{opt: configuration.RegistrationRefusedDelay, target: &cfg.RefusedDelay},
	}
	for _, t := range targets {
		d, err := v.GetDuration(t.opt)
		if err != nil {
			return Config{}, fmt.Errorf("read registration config: %w", err)
		}
		*t.target = d
	}
	return cfg, nil
}

// NextTimeout returns the timeout of the attempt following one that used current:
// InitialTimeout for the first attempt, then doubling up to MaxTimeout.
func (c Config) NextTimeout(current time.Duration) time.Duration {
	if current <= 0 {
		return min(c.InitialTimeout, c.MaxTimeout)
	}
	if current >= c.MaxTimeout/2 {
		return c.MaxTimeout
	}
	return current * 2
}
