package configdomain

// Source names where a configuration value came from.
const (
	SourceCLI        = "cli"
	SourceEnv        = "env"
	SourceFile       = "file"
	SourceDefault    = "default"
	SourceEnterprise = "enterprise-key"
)

// Loading precedence of the raw sources (lower number wins).
const (
	PriorityCLI  = 1
	PriorityEnv  = 2
	PriorityFile = 3
)

// Entry represents a single configuration value with provenance and priority.
type Entry struct {
	Key        string
	Value      any
	Source     string
	SourcePath string
	Priority   int
}

// Snapshot is a collection of config entries keyed by setting key.
type Snapshot map[string]Entry

// Merge merges another snapshot into this one respecting priority
// (lower number indicates higher priority).
func (s Snapshot) Merge(other Snapshot) {
	for k, e := range other {
		if existing, ok := s[k]; !ok || e.Priority <= existing.Priority {
			s[k] = e
		}
	}
}

// Resolved is the insertion ordered result of resolving a registry.
type Resolved struct {
	keys    []string
	entries map[string]Entry
}

// NewResolved creates an empty Resolved.
func NewResolved() *Resolved {
	return &Resolved{entries: make(map[string]Entry)}
}

// Set stores e under e.Key. Existing keys keep their position.
func (r *Resolved) Set(e Entry) {
	if _, ok := r.entries[e.Key]; !ok {
		r.keys = append(r.keys, e.Key)
	}
	r.entries[e.Key] = e
}

// Entry returns the entry for key.
func (r *Resolved) Entry(key string) (Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}

// Get returns the value for key. Unset optional settings return nil.
func (r *Resolved) Get(key string) any {
	return r.entries[key].Value
}

// String returns the value for key as a string. Missing keys and values of
// another type return "".
func (r *Resolved) String(key string) string {
	s, _ := r.entries[key].Value.(string)
	return s
}

// Int returns the value for key as an int.
func (r *Resolved) Int(key string) int {
	i, _ := r.entries[key].Value.(int)
	return i
}

// Bool returns the value for key as a bool.
func (r *Resolved) Bool(key string) bool {
	b, _ := r.entries[key].Value.(bool)
	return b
}

// Release returns the value for key as a Release.
func (r *Resolved) Release(key string) Release {
	rel, _ := r.entries[key].Value.(Release)
	return rel
}

// Keys returns the keys in resolution order.
func (r *Resolved) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Map returns a copy of all values keyed by setting key.
func (r *Resolved) Map() map[string]any {
	m := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		m[k] = r.entries[k].Value
	}
	return m
}
