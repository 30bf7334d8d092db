package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"
	"github.com/greenbone/greenbone-feed-sync/internal/core/domain/feed"
	configinfra "github.com/greenbone/greenbone-feed-sync/internal/infrastructure/config"
)

// Flags without a setting of the same name.
const (
	flagConfig   = "config"
	flagType     = "type"
	flagSelfTest = "selftest"
	flagQuiet    = "quiet"
)

// flagAliases maps alternative spellings to the registered flag name.
var flagAliases = map[string]string{
	"failfast": configinfra.KeyFailFast,
}

// typeValue is the pflag.Value of --type.
type typeValue struct {
	value feed.Type
}

func (v *typeValue) String() string { return string(v.value) }

func (v *typeValue) Set(s string) error {
	t, err := feed.ParseType(s)
	if err != nil {
		return err
	}
	v.value = t
	return nil
}

func (v *typeValue) Type() string { return "type" }

// flagSet mirrors the settings registry on the command line.
type flagSet struct {
	registry *configdomain.Registry
	feedType typeValue
}

func newFlagSet(registry *configdomain.Registry) *flagSet {
	return &flagSet{registry: registry, feedType: typeValue{value: feed.TypeAll}}
}

func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if alias, ok := flagAliases[name]; ok {
		name = alias
	}
	return pflag.NormalizedName(name)
}

func (f *flagSet) register(flags *pflag.FlagSet) {
	flags.SortFlags = false
	flags.SetNormalizeFunc(normalizeFlagName)

	flags.StringP(flagConfig, "c", "", fmt.Sprintf("Configuration file path. If not set %s tries to load %s or %s.",
		commandName, configinfra.DefaultUserConfigFile, configinfra.DefaultGlobalConfigFile))

	for _, s := range f.registry.Settings() {
		switch {
		case s.Key == configinfra.KeyVerbose:
			flags.CountP(s.Key, "v", s.Help)
		case s.Kind == configdomain.KindBool:
			flags.Bool(s.Key, false, s.Help)
		case s.Kind == configdomain.KindInt:
			flags.Int(s.Key, 0, s.Help)
		default:
			flags.String(s.Key, "", s.Help)
		}
	}

	flags.Bool(flagQuiet, false, "Disable all log output.")
	flags.Var(&f.feedType, flagType, fmt.Sprintf("Select which feed should be synced (one of %s).", joinTypes()))
	flags.Bool(flagSelfTest, false, "Perform self-test and set exit code.")
}

// invocation validates the parsed flags and collects every explicitly
// given setting as override.
func (f *flagSet) invocation(flags *pflag.FlagSet) (Invocation, error) {
	if err := exclusive(flags, configinfra.KeyNoWait, configinfra.KeyWaitInterval); err != nil {
		return Invocation{}, err
	}
	if err := exclusive(flags, flagQuiet, configinfra.KeyVerbose); err != nil {
		return Invocation{}, err
	}

	configFile, _ := flags.GetString(flagConfig)
	quiet, _ := flags.GetBool(flagQuiet)
	selfTest, _ := flags.GetBool(flagSelfTest)

	return Invocation{
		Load: configinfra.LoadOptions{
			ConfigFile: configFile,
			Overrides:  f.overrides(flags),
		},
		Type:     f.feedType.value,
		SelfTest: selfTest,
		Quiet:    quiet,
	}, nil
}

// overrides returns the raw values of the changed setting flags. They are
// coerced like environment values during resolution.
func (f *flagSet) overrides(flags *pflag.FlagSet) map[string]any {
	values := make(map[string]any)
	for _, s := range f.registry.Settings() {
		flag := flags.Lookup(s.Key)
		if flag == nil || !flag.Changed {
			continue
		}
		values[s.Key] = flag.Value.String()
	}
	return values
}

func exclusive(flags *pflag.FlagSet, a, b string) error {
	if flags.Changed(a) && flags.Changed(b) {
		return domain.NewUsageError("argument --%s: not allowed with argument --%s", a, b)
	}
	return nil
}

// showResolvedDefaults replaces the flag defaults shown in the help text
// with the values resolved from the environment and the config file.
// Resolution errors leave the defaults empty.
func (f *flagSet) showResolvedDefaults(ctx context.Context, flags *pflag.FlagSet, app App) {
	if ctx == nil {
		ctx = context.Background()
	}

	configFile, _ := flags.GetString(flagConfig)
	cfg, err := app.LoadConfig(ctx, configinfra.LoadOptions{ConfigFile: configFile})
	if err != nil {
		return
	}

	for _, key := range cfg.Resolved.Keys() {
		flag := flags.Lookup(key)
		if flag == nil || flag.Changed {
			continue
		}
		if v := cfg.Resolved.Get(key); v != nil {
			flag.DefValue = fmt.Sprint(v)
		}
	}
}

func joinTypes() string {
	names := make([]string, len(feed.Types))
	for i, t := range feed.Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
