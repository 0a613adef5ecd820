package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/thrasher-corp/bfxprivate/exchanges/account"
	"github.com/thrasher-corp/bfxprivate/exchanges/bitfinex"
	"github.com/thrasher-corp/bfxprivate/exchanges/request"
	"github.com/thrasher-corp/bfxprivate/log"
)

var (
	errInvalidAPIURL      = errors.New("invalid API URL")
	errInvalidHTTPTimeout = errors.New("HTTP timeout must be positive")
	errInvalidRateLimit   = errors.New("rate limit interval and requests must both be set")
	errUnsupportedFormat  = errors.New("unsupported config file format")
)

// envKeys are the settings BFX_<KEY> environment variables override
var envKeys = []string{"api_key", "api_secret", "api_url", "verbose", "http_debugging", "http_timeout", "config_key"}

// Load reads the config file at path, applies environment overrides and
// validates the result. An empty path loads defaults and the environment
// only. Encrypted files are decrypted with the BFX_CONFIG_KEY value.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("log_dir", DefaultLogDir)

	if path != "" {
		if err := readFile(v, path); err != nil {
			return nil, err
		}
		log.Debugf(log.ConfigMgr, "Loaded config file %s", path)
	}

	c := &Config{Logging: log.GenDefaultSettings()}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func readFile(v *viper.Viper, path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch format {
	case "json", "yaml", "yml":
	default:
		return fmt.Errorf("%w: %q", errUnsupportedFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if IsEncrypted(data) {
		if data, err = DecryptConfigFile(data, []byte(v.GetString("config_key"))); err != nil {
			return fmt.Errorf("unable to decrypt config file %s: %w", path, err)
		}
		log.Debugf(log.ConfigMgr, "Decrypted config file %s", path)
	}
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("unable to read config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings can build a working client. Missing
// credentials are allowed; signed calls then fail on their own.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidAPIURL, c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: %s", errInvalidHTTPTimeout, c.HTTPTimeout)
	}
	if (c.RateLimit.Interval > 0) != (c.RateLimit.Requests > 0) {
		return errInvalidRateLimit
	}
	if c.Credentials().IsEmpty() {
		log.Warnf(log.ConfigMgr, "No API credentials configured, authenticated requests will fail")
	}
	return nil
}

// Credentials returns the configured API key pair
func (c *Config) Credentials() *account.Credentials {
	return &account.Credentials{Key: c.APIKey, Secret: c.APISecret}
}

// ExchangeOptions returns the options building a bitfinex.Exchange from the
// config
func (c *Config) ExchangeOptions() []bitfinex.Option {
	opts := []bitfinex.Option{
		bitfinex.WithCredentials(c.APIKey, c.APISecret),
		bitfinex.WithAPIURL(c.APIURL),
		bitfinex.WithHTTPClient(&http.Client{Timeout: c.HTTPTimeout}),
		bitfinex.WithVerbose(c.Verbose),
		bitfinex.WithHTTPDebugging(c.HTTPDebugging),
	}
	if c.RateLimit.Requests > 0 {
		opts = append(opts, bitfinex.WithRateLimiter(request.NewRateLimit(c.RateLimit.Interval, c.RateLimit.Requests)))
	}
	return opts
}
