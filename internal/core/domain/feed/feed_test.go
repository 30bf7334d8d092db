package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		input string
		want  Type
	}{
		{"NVTs", TypeNVT},
		{"nvt", TypeNVT},
		{"NVT", TypeNVT},
		{"nvts", TypeNVT},
		{"REPORT_FORMATS", TypeReportFormat},
		{"report-format", TypeReportFormat},
		{"Scan_Configs", TypeScanConfig},
		{"port-lists", TypePortList},
		{"GVMD_DATA", TypeGvmdData},
		{"all", TypeAll},
		{"SCAP", TypeSCAP},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseType_Invalid(t *testing.T) {
	for _, input := range []string{"", "foo", "scaps", "certs", "report"} {
		_, err := ParseType(input)
		assert.Error(t, err, input)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.SampledFrom(Types).Draw(t, "type")
		variant := string(base)
		if rapid.Bool().Draw(t, "upper") {
			variant = strings.ToUpper(variant)
		}
		if rapid.Bool().Draw(t, "underscore") {
			variant = strings.ReplaceAll(variant, "-", "_")
		}

		got := Normalize(variant)
		if got != string(base) {
			t.Fatalf("Normalize(%q) = %q, want %q", variant, got, base)
		}
		if Normalize(got) != got {
			t.Fatalf("Normalize not idempotent for %q", got)
		}
	})
}

func TestGroup_Filter(t *testing.T) {
	a := NewTarget("a", "a", "a", "foo", "bar")
	b := NewTarget("b", "b", "b", "foo", "baz")
	c := NewTarget("c", "c", "c", "bar", "baz")

	g := Group{Name: "test", LockFile: "file.lock", Targets: []Target{a, b, c}}

	filtered := g.Filter("foo")
	assert.Equal(t, "file.lock", filtered.LockFile)
	assert.Equal(t, []Target{a, b}, filtered.Targets)

	assert.True(t, g.Filter("nothing").Empty())
}

func TestTarget_MatchesSingletonTag(t *testing.T) {
	target := NewTarget("report formats", "u", "d", TypeReportFormat)

	assert.True(t, target.Matches(TypeReportFormat))
	assert.False(t, target.Matches("r"))
	assert.False(t, target.Matches("report"))
	assert.False(t, target.Matches(TypeAll))
}

func TestSelect(t *testing.T) {
	opts := configdomain.Options{OpenvasLockFile: "/o.lock", GvmdLockFile: "/g.lock"}
	groups := Groups(opts)

	tests := []struct {
		selector Type
		want     map[string][]string
	}{
		{
			selector: TypeAll,
			want: map[string][]string{
				GroupOpenvas: {"Notus files", "NASL files"},
				GroupGvmd:    {"gvmd data", "SCAP data", "CERT-Bund data"},
			},
		},
		{
			selector: TypeNVT,
			want:     map[string][]string{GroupOpenvas: {"Notus files", "NASL files"}},
		},
		{
			selector: TypeNotus,
			want:     map[string][]string{GroupOpenvas: {"Notus files"}},
		},
		{
			selector: TypePortList,
			want:     map[string][]string{GroupGvmd: {"port lists"}},
		},
		{
			selector: TypeCERT,
			want:     map[string][]string{GroupGvmd: {"CERT-Bund data"}},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.selector), func(t *testing.T) {
			selected := Select(groups, tt.selector)
			got := make(map[string][]string)
			for _, g := range selected {
				for _, target := range g.Targets {
					got[g.Name] = append(got[g.Name], target.Name)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}

	selected := Select(groups, TypeAll)
	require.Len(t, selected, 2)
	assert.Equal(t, GroupOpenvas, selected[0].Name)
	assert.Equal(t, "/o.lock", selected[0].LockFile)
	assert.Equal(t, GroupGvmd, selected[1].Name)
}
