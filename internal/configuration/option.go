package configuration

// Option describes a configuration entry: its key, the documented default in string
// form, and the older keys that are consulted when the key itself is unset.
type Option struct {
	Key          string
	Default      string
	HasDefault   bool
	FallbackKeys []string
	Description  string
}

// NewOption creates an option with a documented default.
func NewOption(key, defaultValue, description string) Option {
	return Option{
		Key:         key,
		Default:     defaultValue,
		HasDefault:  true,
		Description: description,
	}
}

// NewOptionWithoutDefault creates an option that resolves to nothing when unset.
func NewOptionWithoutDefault(key, description string) Option {
	return Option{
		Key:         key,
		Description: description,
	}
}

// WithFallbackKeys returns a copy of the option that also looks up the given keys, in order.
func (o Option) WithFallbackKeys(keys ...string) Option {
	fallbacks := make([]string, 0, len(o.FallbackKeys)+len(keys))
	fallbacks = append(fallbacks, o.FallbackKeys...)
	fallbacks = append(fallbacks, keys...)
	o.FallbackKeys = fallbacks
	return o
}

// String returns the option key.
func (o Option) String() string {
	return o.Key
}
