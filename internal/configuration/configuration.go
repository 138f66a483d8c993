package configuration

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// View is a read-only accessor over configuration entries.
type View interface {
	// Get returns the raw value stored under key, ignoring fallbacks and defaults.
	Get(key string) (string, bool)
	// Contains reports whether the option key or one of its fallback keys is set.
	Contains(opt Option) bool
	// GetString returns the value of opt, or its default. Empty values count as unset.
	GetString(opt Option) (string, bool)
	GetInt(opt Option) (int, error)
	// GetIntOrDefault returns the value of opt, or def when unset. The option's own
	// default is ignored.
	GetIntOrDefault(opt Option, def int) (int, error)
	GetFloat(opt Option) (float64, error)
	GetBool(opt Option) (bool, error)
	GetDuration(opt Option) (time.Duration, error)
	// GetMemorySize returns the value of opt in bytes.
	GetMemorySize(opt Option) (int64, error)
	// Keys returns all keys in lexical order.
	Keys() []string
	// ToMap returns a copy of all entries.
	ToMap() map[string]string
}

// Configuration is a mutable, concurrency-safe key/value store.
type Configuration struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ View = (*Configuration)(nil)

// New creates an empty Configuration.
func New() *Configuration {
	return &Configuration{entries: make(map[string]string)}
}

// FromMap creates a Configuration holding a copy of entries.
func FromMap(entries map[string]string) *Configuration {
	c := New()
	c.SetAll(entries)
	return c
}

// Set stores value under key. Keys and values are trimmed.
func (c *Configuration) Set(key, value string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	c.mu.Lock()
	c.entries[key] = strings.TrimSpace(value)
	c.mu.Unlock()
}

// SetAll stores every entry of values, overriding existing keys.
func (c *Configuration) SetAll(values map[string]string) {
	for k, v := range values {
		c.Set(k, v)
	}
}

// Remove deletes key and reports whether it was present.
func (c *Configuration) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Clone returns an independent copy.
func (c *Configuration) Clone() *Configuration {
	return FromMap(c.ToMap())
}

func (c *Configuration) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]
	return v, ok
}

func (c *Configuration) Contains(opt Option) bool {
	_, _, ok := c.lookup(opt)
	return ok
}

func (c *Configuration) GetString(opt Option) (string, bool) {
	raw, _, err := c.valueOf(opt)
	if err != nil || raw == "" {
		return "", false
	}
	return raw, true
}

func (c *Configuration) GetInt(opt Option) (int, error) {
	raw, key, err := c.valueOf(opt)
	if err != nil {
		return 0, err
	}
	return parseInt(key, raw)
}

func (c *Configuration) GetIntOrDefault(opt Option, def int) (int, error) {
	raw, key, ok := c.lookup(opt)
	if !ok {
		return def, nil
	}
	return parseInt(key, raw)
}

func (c *Configuration) GetFloat(opt Option) (float64, error) {
	raw, key, err := c.valueOf(opt)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %q", ErrInvalidFloat, key, raw)
	}
	return value, nil
}

func (c *Configuration) GetBool(opt Option) (bool, error) {
	raw, key, err := c.valueOf(opt)
	if err != nil {
		return false, err
	}
	switch {
	case strings.EqualFold(raw, "true"):
		return true, nil
	case strings.EqualFold(raw, "false"):
		return false, nil
	default:
		return false, fmt.Errorf("%w for %s: %q", ErrInvalidBoolean, key, raw)
	}
}

func (c *Configuration) GetDuration(opt Option) (time.Duration, error) {
	raw, key, err := c.valueOf(opt)
	if err != nil {
		return 0, err
	}
	d, err := ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func (c *Configuration) GetMemorySize(opt Option) (int64, error) {
	raw, key, err := c.valueOf(opt)
	if err != nil {
		return 0, err
	}
	size, err := ParseMemorySize(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return size, nil
}

func (c *Configuration) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Sorted(maps.Keys(c.entries))
}

func (c *Configuration) ToMap() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return maps.Clone(c.entries)
}

// lookup returns the stored value of opt and the key it was found under.
func (c *Configuration) lookup(opt Option) (string, string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if v, ok := c.entries[opt.Key]; ok {
		return v, opt.Key, true
	}
	for _, key := range opt.FallbackKeys {
		if v, ok := c.entries[key]; ok {
			return v, key, true
		}
	}
	return "", opt.Key, false
}

// valueOf is lookup with the documented default applied.
func (c *Configuration) valueOf(opt Option) (string, string, error) {
	raw, key, ok := c.lookup(opt)
	if ok {
		return raw, key, nil
	}
	if opt.HasDefault {
		return opt.Default, opt.Key, nil
	}
	return "", opt.Key, fmt.Errorf("%w: %s", ErrMissingValue, opt.Key)
}

func parseInt(key, raw string) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %q", ErrInvalidInteger, key, raw)
	}
	return value, nil
}

// readOnly exposes a private clone through View only, so holders cannot mutate it.
type readOnly struct {
	conf *Configuration
}

// ReadOnly returns a View over a snapshot of c. Later writes to c are not visible.
func ReadOnly(c *Configuration) View {
	return Snapshot(c)
}

// Snapshot copies the entries of v into a new read-only View.
func Snapshot(v View) View {
	return &readOnly{conf: FromMap(v.ToMap())}
}

func (r *readOnly) Get(key string) (string, bool)        { return r.conf.Get(key) }
func (r *readOnly) Contains(opt Option) bool             { return r.conf.Contains(opt) }
func (r *readOnly) GetString(opt Option) (string, bool)  { return r.conf.GetString(opt) }
func (r *readOnly) GetInt(opt Option) (int, error)       { return r.conf.GetInt(opt) }
func (r *readOnly) GetFloat(opt Option) (float64, error) { return r.conf.GetFloat(opt) }
func (r *readOnly) GetBool(opt Option) (bool, error)     { return r.conf.GetBool(opt) }
func (r *readOnly) Keys() []string                       { return r.conf.Keys() }
func (r *readOnly) ToMap() map[string]string             { return r.conf.ToMap() }

func (r *readOnly) GetIntOrDefault(opt Option, def int) (int, error) {
	return r.conf.GetIntOrDefault(opt, def)
}

func (r *readOnly) GetDuration(opt Option) (time.Duration, error) {
	return r.conf.GetDuration(opt)
}

func (r *readOnly) GetMemorySize(opt Option) (int64, error) {
	return r.conf.GetMemorySize(opt)
}
