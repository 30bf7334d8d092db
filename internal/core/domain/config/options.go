package configdomain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DefaultVerbosity is used when neither --verbose nor --quiet is given.
const DefaultVerbosity = 2

// Options are the typed, fully resolved settings of one invocation.
type Options struct {
	DestinationPrefix string      `mapstructure:"destination-prefix"`
	FeedURL           string      `mapstructure:"feed-url"`
	FeedRelease       Release     `mapstructure:"feed-release"`
	WaitInterval      int         `mapstructure:"wait-interval"`
	NoWait            bool        `mapstructure:"no-wait"`
	CompressionLevel  int         `mapstructure:"compression-level"`
	PrivateDirectory  string      `mapstructure:"private-directory"`
	Verbose           *int        `mapstructure:"verbose"`
	FailFast          bool        `mapstructure:"fail-fast"`
	RsyncTimeout      *int        `mapstructure:"rsync-timeout"`
	Group             IntOrString `mapstructure:"group"`
	User              IntOrString `mapstructure:"user"`
	EnterpriseFeedKey string      `mapstructure:"greenbone-enterprise-feed-key"`

	GvmdDataDestination      string `mapstructure:"gvmd-data-destination"`
	GvmdDataURL              string `mapstructure:"gvmd-data-url"`
	NotusDestination         string `mapstructure:"notus-destination"`
	NotusURL                 string `mapstructure:"notus-url"`
	NaslDestination          string `mapstructure:"nasl-destination"`
	NaslURL                  string `mapstructure:"nasl-url"`
	ScapDataDestination      string `mapstructure:"scap-data-destination"`
	ScapDataURL              string `mapstructure:"scap-data-url"`
	CertDataDestination      string `mapstructure:"cert-data-destination"`
	CertDataURL              string `mapstructure:"cert-data-url"`
	ReportFormatsDestination string `mapstructure:"report-formats-destination"`
	ReportFormatsURL         string `mapstructure:"report-formats-url"`
	ScanConfigsDestination   string `mapstructure:"scan-configs-destination"`
	ScanConfigsURL           string `mapstructure:"scan-configs-url"`
	PortListsDestination     string `mapstructure:"port-lists-destination"`
	PortListsURL             string `mapstructure:"port-lists-url"`
	GvmdLockFile             string `mapstructure:"gvmd-lock-file"`
	OpenvasLockFile          string `mapstructure:"openvas-lock-file"`
}

// DecodeOptions converts resolved settings into Options.
func DecodeOptions(resolved *Resolved) (Options, error) {
	var opts Options

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &opts,
		TagName: "mapstructure",
	})
	if err != nil {
		return Options{}, fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(resolved.Map()); err != nil {
		return Options{}, fmt.Errorf("failed to decode resolved settings: %w", err)
	}

	return opts, nil
}

// Verbosity returns the effective output tier. quiet forces 0.
func (o Options) Verbosity(quiet bool) int {
	if quiet {
		return 0
	}
	if o.Verbose != nil {
		return *o.Verbose
	}
	return DefaultVerbosity
}
