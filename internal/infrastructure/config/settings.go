package configinfra

import (
	"fmt"
	"strings"

	configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"
)

// Setting keys.
const (
	KeyDestinationPrefix = "destination-prefix"
	KeyFeedURL           = "feed-url"
	KeyFeedRelease       = "feed-release"
	KeyWaitInterval      = "wait-interval"
	KeyNoWait            = "no-wait"
	KeyCompressionLevel  = "compression-level"
	KeyPrivateDirectory  = "private-directory"
	KeyVerbose           = "verbose"
	KeyFailFast          = "fail-fast"
	KeyRsyncTimeout      = "rsync-timeout"
	KeyGroup             = "group"
	KeyUser              = "user"
	KeyEnterpriseFeedKey = "greenbone-enterprise-feed-key"

	KeyGvmdDataDestination      = "gvmd-data-destination"
	KeyGvmdDataURL              = "gvmd-data-url"
	KeyNotusDestination         = "notus-destination"
	KeyNotusURL                 = "notus-url"
	KeyNaslDestination          = "nasl-destination"
	KeyNaslURL                  = "nasl-url"
	KeyScapDataDestination      = "scap-data-destination"
	KeyScapDataURL              = "scap-data-url"
	KeyCertDataDestination      = "cert-data-destination"
	KeyCertDataURL              = "cert-data-url"
	KeyReportFormatsDestination = "report-formats-destination"
	KeyReportFormatsURL         = "report-formats-url"
	KeyScanConfigsDestination   = "scan-configs-destination"
	KeyScanConfigsURL           = "scan-configs-url"
	KeyPortListsDestination     = "port-lists-destination"
	KeyPortListsURL             = "port-lists-url"
	KeyGvmdLockFile             = "gvmd-lock-file"
	KeyOpenvasLockFile          = "openvas-lock-file"
)

// Static defaults.
const (
	DefaultDestinationPrefix = "/var/lib/"
	DefaultFeedURL           = "rsync://feed.community.greenbone.net/community"
	DefaultFeedRelease       = "24.10"
	DefaultWaitInterval      = 5
	DefaultCompressionLevel  = 9
	DefaultGroup             = "gvm"
	DefaultUser              = "gvm"
	DefaultEnterpriseFeedKey = "/etc/gvm/greenbone-enterprise-feed-key"
)

const envPrefix = "GREENBONE_FEED_SYNC_"

// NewRegistry returns the settings of greenbone-feed-sync in resolution
// order.
func NewRegistry() *configdomain.Registry {
	return configdomain.MustRegistry(baseSettings(), dependentSettings())
}

func baseSettings() []configdomain.Setting {
	return []configdomain.Setting{
		{
			Key:     KeyDestinationPrefix,
			EnvKey:  envPrefix + "DESTINATION_PREFIX",
			Kind:    configdomain.KindPath,
			Default: configdomain.Static(DefaultDestinationPrefix),
			Help:    "Directory prefix of all default destinations.",
		},
		{
			Key:     KeyFeedURL,
			EnvKey:  envPrefix + "URL",
			Kind:    configdomain.KindString,
			Default: configdomain.Static(DefaultFeedURL),
			Help:    "Base URL of the feed. All default download URLs are derived from it.",
		},
		{
			Key:     KeyFeedRelease,
			EnvKey:  envPrefix + "FEED_RELEASE",
			Kind:    configdomain.KindRelease,
			Default: configdomain.Static(DefaultFeedRelease),
			Help:    "Feed release (major.minor) to download.",
		},
		{
			Key:     KeyWaitInterval,
			EnvKey:  envPrefix + "LOCK_WAIT_INTERVAL",
			Kind:    configdomain.KindInt,
			Default: configdomain.Static(DefaultWaitInterval),
			Help:    "Time to wait in seconds after failed lock attempt before re-trying to lock the file.",
		},
		{
			Key:     KeyNoWait,
			EnvKey:  envPrefix + "NO_WAIT",
			Kind:    configdomain.KindBool,
			Default: configdomain.Static(false),
			Help:    "Fail directly if the lock file can't be acquired.",
		},
		{
			Key:     KeyCompressionLevel,
			EnvKey:  envPrefix + "COMPRESSION_LEVEL",
			Kind:    configdomain.KindInt,
			Default: configdomain.Static(DefaultCompressionLevel),
			Help:    "Rsync compression level (0-9).",
		},
		{
			Key:    KeyPrivateDirectory,
			EnvKey: envPrefix + "PRIVATE_DIRECTORY",
			Kind:   configdomain.KindPath,
			Help:   "(Sub-)Directory to exclude from the sync which will never get deleted automatically.",
		},
		{
			Key:    KeyVerbose,
			EnvKey: envPrefix + "VERBOSE",
			Kind:   configdomain.KindInt,
			Help:   "Set log verbosity. -vvv for maximum verbosity.",
		},
		{
			Key:     KeyFailFast,
			EnvKey:  envPrefix + "FAIL_FAST",
			Kind:    configdomain.KindBool,
			Default: configdomain.Static(false),
			Help:    "Stop after a first error has occurred. Otherwise the script tries to download additional data if specified.",
		},
		{
			Key:    KeyRsyncTimeout,
			EnvKey: envPrefix + "RSYNC_TIMEOUT",
			Kind:   configdomain.KindInt,
			Help:   "Maximum I/O timeout in seconds used for rsync. By default no timeout is set and the rsync default will be used.",
		},
		{
			Key:     KeyGroup,
			EnvKey:  envPrefix + "GROUP",
			Kind:    configdomain.KindIntOrString,
			Default: configdomain.Static(DefaultGroup),
			Help:    "If started as root, use this group name or ID to run the script.",
		},
		{
			Key:     KeyUser,
			EnvKey:  envPrefix + "USER",
			Kind:    configdomain.KindIntOrString,
			Default: configdomain.Static(DefaultUser),
			Help:    "If started as root, use this user name or ID to run the script.",
		},
		{
			Key:     KeyEnterpriseFeedKey,
			EnvKey:  envPrefix + "ENTERPRISE_FEED_KEY",
			Kind:    configdomain.KindPath,
			Default: configdomain.Static(DefaultEnterpriseFeedKey),
			Help:    "Path to the Greenbone Enterprise Feed key file.",
		},
	}
}

func dependentSettings() []configdomain.Setting {
	return []configdomain.Setting{
		{
			Key:      KeyGvmdDataDestination,
			EnvKey:   envPrefix + "GVMD_DATA_DESTINATION",
			Kind:     configdomain.KindPath,
			Default:  gvmdDataDestination,
			Requires: []string{KeyDestinationPrefix, KeyFeedRelease},
			Help:     "Destination of the downloaded gvmd data.",
		},
		feedURL(KeyGvmdDataURL, "GVMD_DATA_URL", "data-feed", "", "gvmd data"),
		destination(KeyNotusDestination, "NOTUS_DESTINATION", "notus", "notus data"),
		feedURL(KeyNotusURL, "NOTUS_URL", "vulnerability-feed", "vt-data/notus/", "notus data"),
		destination(KeyNaslDestination, "NASL_DESTINATION", "openvas/plugins", "nasl data"),
		feedURL(KeyNaslURL, "NASL_URL", "vulnerability-feed", "vt-data/nasl/", "nasl data"),
		destination(KeyScapDataDestination, "SCAP_DATA_DESTINATION", "gvm/scap-data", "SCAP data"),
		feedURL(KeyScapDataURL, "SCAP_DATA_URL", "vulnerability-feed", "scap-data/", "SCAP data"),
		destination(KeyCertDataDestination, "CERT_DATA_DESTINATION", "gvm/cert-data", "CERT data"),
		feedURL(KeyCertDataURL, "CERT_DATA_URL", "vulnerability-feed", "cert-data/", "CERT data"),
		gvmdObjects(KeyReportFormatsDestination, "REPORT_FORMATS_DESTINATION", "report-formats", "report format data"),
		feedURL(KeyReportFormatsURL, "REPORT_FORMATS_URL", "data-feed", "report-formats/", "report format data"),
		gvmdObjects(KeyScanConfigsDestination, "SCAN_CONFIGS_DESTINATION", "scan-configs", "scan config data"),
		feedURL(KeyScanConfigsURL, "SCAN_CONFIGS_URL", "data-feed", "scan-configs/", "scan config data"),
		gvmdObjects(KeyPortListsDestination, "PORT_LISTS_DESTINATION", "port-lists", "port list data"),
		feedURL(KeyPortListsURL, "PORT_LISTS_URL", "data-feed", "port-lists/", "port list data"),
		lockFile(KeyGvmdLockFile, "GVMD_LOCK_FILE", "gvm/feed-update.lock", "gvmd daemon"),
		lockFile(KeyOpenvasLockFile, "OPENVAS_LOCK_FILE", "openvas/feed-update.lock", "openvas scanner"),
	}
}

// gvmdDataDestination drops the release segment from 24.10 on.
func gvmdDataDestination(r *configdomain.Resolved) (any, error) {
	dest := configdomain.JoinPath(r.String(KeyDestinationPrefix), "gvm/data-objects/gvmd")
	release := r.Release(KeyFeedRelease)
	if release.OmitsVersionSegment() {
		return dest, nil
	}
	return configdomain.JoinPath(dest, release.String()), nil
}

func destination(key, env, subPath, what string) configdomain.Setting {
	return configdomain.Setting{
		Key:    key,
		EnvKey: envPrefix + env,
		Kind:   configdomain.KindPath,
		Default: func(r *configdomain.Resolved) (any, error) {
			return configdomain.JoinPath(r.String(KeyDestinationPrefix), subPath), nil
		},
		Requires: []string{KeyDestinationPrefix},
		Help:     fmt.Sprintf("Destination of the downloaded %s.", what),
	}
}

func gvmdObjects(key, env, subPath, what string) configdomain.Setting {
	return configdomain.Setting{
		Key:    key,
		EnvKey: envPrefix + env,
		Kind:   configdomain.KindPath,
		Default: func(r *configdomain.Resolved) (any, error) {
			return configdomain.JoinPath(r.String(KeyGvmdDataDestination), subPath), nil
		},
		Requires: []string{KeyGvmdDataDestination},
		Help:     fmt.Sprintf("Destination of the downloaded %s.", what),
	}
}

// feedURL builds U/<feed>/<release>/<subPath>. The trailing slash makes
// rsync copy the directory contents.
func feedURL(key, env, feed, subPath, what string) configdomain.Setting {
	return configdomain.Setting{
		Key:    key,
		EnvKey: envPrefix + env,
		Kind:   configdomain.KindString,
		Default: func(r *configdomain.Resolved) (any, error) {
			parts := []string{strings.TrimRight(r.String(KeyFeedURL), "/"), feed, r.Release(KeyFeedRelease).String()}
			if subPath != "" {
				parts = append(parts, strings.Trim(subPath, "/"))
			}
			return strings.Join(parts, "/") + "/", nil
		},
		Requires: []string{KeyFeedURL, KeyFeedRelease},
		Help:     fmt.Sprintf("URL to download the %s from.", what),
	}
}

func lockFile(key, env, subPath, consumer string) configdomain.Setting {
	return configdomain.Setting{
		Key:    key,
		EnvKey: envPrefix + env,
		Kind:   configdomain.KindPath,
		Default: func(r *configdomain.Resolved) (any, error) {
			return configdomain.JoinPath(r.String(KeyDestinationPrefix), subPath), nil
		},
		Requires: []string{KeyDestinationPrefix},
		Help: fmt.Sprintf("File to use for locking the feed synchronization for data loaded by the %s. "+
			"Used to avoid that more than one process accesses the feed data at the same time.", consumer),
	}
}
