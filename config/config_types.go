package config

import (
	"time"

	"github.com/thrasher-corp/bfxprivate/log"
)

// Constants declared here are filename strings and default values
const (
	DefaultAPIURL      = "https://api.bitfinex.com"
	DefaultHTTPTimeout = 15 * time.Second
	DefaultLogDir      = "logs"

	envPrefix = "BFX"
)

// Config is the client configuration read from a JSON or YAML file and
// overridden by BFX_ prefixed environment variables
type Config struct {
	APIKey        string        `json:"api_key" mapstructure:"api_key"`
	APISecret     string        `json:"api_secret" mapstructure:"api_secret"`
	APIURL        string        `json:"api_url" mapstructure:"api_url"`
	Verbose       bool          `json:"verbose" mapstructure:"verbose"`
	HTTPDebugging bool          `json:"http_debugging" mapstructure:"http_debugging"`
	HTTPTimeout   time.Duration `json:"http_timeout" mapstructure:"http_timeout"`
	RateLimit     RateLimit     `json:"rate_limit" mapstructure:"rate_limit"`
	LogDir        string        `json:"log_dir" mapstructure:"log_dir"`
	Logging       log.Config    `json:"logging" mapstructure:"logging"`
}

// RateLimit throttles outbound requests to Requests per Interval. A zero
// value leaves requests unlimited.
type RateLimit struct {
	Interval time.Duration `json:"interval" mapstructure:"interval"`
	Requests int           `json:"requests" mapstructure:"requests"`
}
