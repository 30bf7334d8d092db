package configdomain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	r, err := NewRegistry(
		[]Setting{
			{Key: "prefix", EnvKey: "TEST_PREFIX", Kind: KindPath, Default: Static("/var/lib/")},
			{Key: "interval", EnvKey: "TEST_INTERVAL", Kind: KindInt, Default: Static(5)},
			{Key: "optional", EnvKey: "TEST_OPTIONAL", Kind: KindInt},
		},
		[]Setting{
			{
				Key:      "data",
				EnvKey:   "TEST_DATA",
				Kind:     KindPath,
				Requires: []string{"prefix"},
				Default: func(r *Resolved) (any, error) {
					return JoinPath(r.String("prefix"), "data"), nil
				},
			},
		},
	)
	require.NoError(t, err)
	return r
}

func TestNewRegistry_Validation(t *testing.T) {
	tests := []struct {
		name      string
		base      []Setting
		dependent []Setting
		errMsg    string
	}{
		{
			name: "duplicate_key",
			base: []Setting{
				{Key: "a", Kind: KindString},
				{Key: "a", Kind: KindString},
			},
			errMsg: `duplicate setting key "a"`,
		},
		{
			name: "requirement_registered_later",
			base: []Setting{
				{Key: "a", Kind: KindString, Requires: []string{"b"}},
				{Key: "b", Kind: KindString},
			},
			errMsg: `setting "a" requires "b"`,
		},
		{
			name:      "unknown_requirement",
			dependent: []Setting{{Key: "a", Kind: KindString, Requires: []string{"missing"}}},
			errMsg:    `requires "missing"`,
		},
		{
			name:   "empty_key",
			base:   []Setting{{Kind: KindString}},
			errMsg: "has no key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.base, tt.dependent)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRegistry_ResolveDefaults(t *testing.T) {
	resolved, err := testRegistry(t).Resolve(Snapshot{})
	require.NoError(t, err)

	assert.Equal(t, []string{"prefix", "interval", "optional", "data"}, resolved.Keys())
	assert.Equal(t, "/var/lib", resolved.String("prefix"))
	assert.Equal(t, 5, resolved.Int("interval"))
	assert.Nil(t, resolved.Get("optional"))
	assert.Equal(t, "/var/lib/data", resolved.String("data"))

	entry, ok := resolved.Entry("data")
	require.True(t, ok)
	assert.Equal(t, SourceDefault, entry.Source)
}

func TestRegistry_ResolveLayers(t *testing.T) {
	layers := Snapshot{}
	layers.Merge(Snapshot{"interval": {Key: "interval", Value: int64(99), Source: SourceFile, Priority: PriorityFile}})
	layers.Merge(Snapshot{"interval": {Key: "interval", Value: "100", Source: SourceEnv, Priority: PriorityEnv}})
	layers.Merge(Snapshot{"prefix": {Key: "prefix", Value: "/opt/lib/", Source: SourceFile, Priority: PriorityFile}})

	resolved, err := testRegistry(t).Resolve(layers)
	require.NoError(t, err)

	assert.Equal(t, 100, resolved.Int("interval"))
	assert.Equal(t, "/opt/lib/data", resolved.String("data"))

	entry, _ := resolved.Entry("interval")
	assert.Equal(t, SourceEnv, entry.Source)
}

func TestRegistry_ResolveAdjusterRunsBeforeDependents(t *testing.T) {
	adjust := func(r *Resolved) error {
		r.Set(Entry{Key: "prefix", Value: "/adjusted", Source: SourceEnterprise})
		return nil
	}

	resolved, err := testRegistry(t).Resolve(Snapshot{}, adjust)
	require.NoError(t, err)

	assert.Equal(t, "/adjusted/data", resolved.String("data"))
	assert.Equal(t, []string{"prefix", "interval", "optional", "data"}, resolved.Keys())
}

func TestRegistry_ResolveCoercionError(t *testing.T) {
	layers := Snapshot{"interval": {Key: "interval", Value: "soon", Source: SourceEnv, Priority: PriorityEnv}}

	_, err := testRegistry(t).Resolve(layers)
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "interval", cfgErr.Key)
	assert.Equal(t, "soon", cfgErr.Value)
	assert.ErrorIs(t, err, domain.ErrFeedSync)
}

func TestRegistry_Lookup(t *testing.T) {
	r := testRegistry(t)

	s, ok := r.Lookup("data")
	require.True(t, ok)
	assert.Equal(t, "TEST_DATA", s.EnvKey)

	_, ok = r.Lookup("nope")
	assert.False(t, ok)
}

// The highest priority source always wins, whatever order the layers are
// merged in.
func TestRegistry_PrecedenceProperty(t *testing.T) {
	r := testRegistry(t)

	rapid.Check(t, func(t *rapid.T) {
		type layer struct {
			source   string
			priority int
		}
		all := []layer{
			{SourceCLI, PriorityCLI},
			{SourceEnv, PriorityEnv},
			{SourceFile, PriorityFile},
		}

		present := rapid.SliceOfDistinct(rapid.SampledFrom(all), func(l layer) string { return l.source }).Draw(t, "layers")
		values := make(map[string]int)
		layers := Snapshot{}
		best := layer{priority: 99}
		for _, l := range present {
			v := rapid.IntRange(0, 1000).Draw(t, "value_"+l.source)
			values[l.source] = v
			layers.Merge(Snapshot{"interval": {Key: "interval", Value: v, Source: l.source, Priority: l.priority}})
			if l.priority < best.priority {
				best = l
			}
		}

		resolved, err := r.Resolve(layers)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}

		want := 5
		if len(present) > 0 {
			want = values[best.source]
		}
		if got := resolved.Int("interval"); got != want {
			t.Fatalf("interval = %d, want %d", got, want)
		}
	})
}
