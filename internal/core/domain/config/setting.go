package configdomain

import (
	"fmt"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
)

// DefaultFunc computes the default of a setting from the values resolved so
// far. Returning nil leaves the setting unset.
type DefaultFunc func(resolved *Resolved) (any, error)

// Static returns a DefaultFunc that always yields v.
func Static(v any) DefaultFunc {
	return func(*Resolved) (any, error) { return v, nil }
}

// Setting describes one configuration value.
type Setting struct {
	// Key is the config file key and the long CLI flag name.
	Key string
	// EnvKey is the environment variable overriding the setting.
	EnvKey string
	Kind   Kind
	// Default is evaluated only if no source provided a value.
	Default DefaultFunc
	// Requires lists keys Default reads. They must be registered earlier.
	Requires []string
	// Help is shown by the CLI.
	Help string
}

// Adjuster runs between the base and the dependent settings and may replace
// already resolved values.
type Adjuster func(resolved *Resolved) error

// Registry is an ordered table of settings. Base settings are resolved
// first, then adjusters run, then dependent settings are resolved.
type Registry struct {
	base      []Setting
	dependent []Setting
	index     map[string]int
}

// NewRegistry validates and creates a Registry. Keys must be unique and every
// requirement has to be registered before the setting reading it.
func NewRegistry(base, dependent []Setting) (*Registry, error) {
	r := &Registry{
		base:      append([]Setting(nil), base...),
		dependent: append([]Setting(nil), dependent...),
		index:     make(map[string]int),
	}

	for i, s := range r.Settings() {
		if s.Key == "" {
			return nil, fmt.Errorf("setting at position %d has no key", i)
		}
		if _, dup := r.index[s.Key]; dup {
			return nil, fmt.Errorf("duplicate setting key %q", s.Key)
		}
		for _, req := range s.Requires {
			if _, ok := r.index[req]; !ok {
				return nil, fmt.Errorf("setting %q requires %q which is not registered before it", s.Key, req)
			}
		}
		r.index[s.Key] = i
	}

	return r, nil
}

// MustRegistry is like NewRegistry but panics on an invalid table.
func MustRegistry(base, dependent []Setting) *Registry {
	r, err := NewRegistry(base, dependent)
	if err != nil {
		panic(err)
	}
	return r
}

// Settings returns all settings in resolution order.
func (r *Registry) Settings() []Setting {
	all := make([]Setting, 0, len(r.base)+len(r.dependent))
	all = append(all, r.base...)
	return append(all, r.dependent...)
}

// Lookup returns the setting registered for key.
func (r *Registry) Lookup(key string) (Setting, bool) {
	i, ok := r.index[key]
	if !ok {
		return Setting{}, false
	}
	return r.Settings()[i], true
}

// Resolve evaluates every setting. A value from layers wins over the
// setting's default; the highest priority entry of layers is used as is.
func (r *Registry) Resolve(layers Snapshot, adjusters ...Adjuster) (*Resolved, error) {
	resolved := NewResolved()

	for _, s := range r.base {
		if err := resolveSetting(s, layers, resolved); err != nil {
			return nil, err
		}
	}

	for _, adjust := range adjusters {
		if err := adjust(resolved); err != nil {
			return nil, err
		}
	}

	for _, s := range r.dependent {
		if err := resolveSetting(s, layers, resolved); err != nil {
			return nil, err
		}
	}

	return resolved, nil
}

func resolveSetting(s Setting, layers Snapshot, resolved *Resolved) error {
	entry, ok := layers[s.Key]
	if !ok {
		entry = Entry{Key: s.Key, Source: SourceDefault}
		if s.Default != nil {
			v, err := s.Default(resolved)
			if err != nil {
				return &domain.ConfigError{Key: s.Key, Err: err}
			}
			entry.Value = v
		}
	}

	if entry.Value != nil {
		v, err := Coerce(s.Kind, entry.Value)
		if err != nil {
			return &domain.ConfigError{Key: s.Key, Value: fmt.Sprint(entry.Value), Err: err}
		}
		entry.Value = v
	}

	resolved.Set(entry)
	return nil
}
