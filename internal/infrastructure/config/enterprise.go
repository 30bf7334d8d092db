package configinfra

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"
)

// EnterpriseCredential is the account read from a Greenbone Enterprise Feed
// key file.
type EnterpriseCredential struct {
	User    string
	Host    string
	KeyPath string
}

// FeedURL returns the base URL of the enterprise feed.
func (c *EnterpriseCredential) FeedURL() string {
	if c.User == "" {
		return fmt.Sprintf("ssh://%s/enterprise", c.Host)
	}
	return fmt.Sprintf("ssh://%s@%s/enterprise", c.User, c.Host)
}

// LoadEnterpriseKey parses the first line of the key file at path, shaped
// as user@host:path with or without a URL scheme. It returns nil without an
// error if the file does not exist.
func LoadEnterpriseKey(path string) (*EnterpriseCredential, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &domain.ConfigError{Key: KeyEnterpriseFeedKey, Value: path, Err: err}
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return nil, &domain.ConfigError{Key: KeyEnterpriseFeedKey, Value: path, Err: fmt.Errorf("key file is empty")}
	}
	line = strings.TrimSpace(line)

	u, err := parseKeyLine(line)
	if err != nil {
		return nil, &domain.ConfigError{Key: KeyEnterpriseFeedKey, Value: path, Err: err}
	}
	if u.Hostname() == "" {
		return nil, &domain.ConfigError{Key: KeyEnterpriseFeedKey, Value: path, Err: fmt.Errorf("no feed host found in key file")}
	}

	return &EnterpriseCredential{
		User:    u.User.Username(),
		Host:    strings.ToLower(u.Hostname()),
		KeyPath: path,
	}, nil
}

func parseKeyLine(line string) (*url.URL, error) {
	if !strings.Contains(line, "://") {
		line = "//" + line
	}
	return url.Parse(line)
}

// EnterpriseAdjuster replaces the feed-url with the URL of the enterprise
// key, if the configured key file exists. Only a --feed-url flag is kept.
func EnterpriseAdjuster(logger hclog.Logger) configdomain.Adjuster {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return func(resolved *configdomain.Resolved) error {
		cred, err := LoadEnterpriseKey(resolved.String(KeyEnterpriseFeedKey))
		if err != nil {
			return err
		}
		if cred == nil {
			return nil
		}

		current, _ := resolved.Entry(KeyFeedURL)
		if current.Source == configdomain.SourceCLI {
			logger.Debug("enterprise key found, keeping explicit feed url",
				"key", cred.KeyPath, "source", current.Source)
			return nil
		}

		logger.Debug("using enterprise feed", "key", cred.KeyPath, "url", cred.FeedURL())
		resolved.Set(configdomain.Entry{
			Key:        KeyFeedURL,
			Value:      cred.FeedURL(),
			Source:     configdomain.SourceEnterprise,
			SourcePath: cred.KeyPath,
		})
		return nil
	}
}
