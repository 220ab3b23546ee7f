package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeout         = 60 * time.Second
	DefaultRetryCount      = 1
	DefaultRetryDelay      = 3 * time.Second
	DefaultBatchSize       = 1500
	DefaultPageSize        = 500
	DefaultStreamThreshold = 20000
	DefaultMaxConnections  = 10
)

// PRTGConfig represents the configuration required to create a session.
type PRTGConfig struct {
	Server     string         `yaml:"server"`      // Host, host:port or base URL of the server. Defaults to https.
	Username   string         `yaml:"username"`    // The user requests are made as.
	Password   string         `yaml:"password"`    // Used to obtain a pass-hash when PassHash is empty.
	PassHash   string         `yaml:"passhash"`    // Sent with every request when set.
	SslVerify  bool           `yaml:"ssl_verify"`  // Whether to verify SSL certificates.
	Timeout    *time.Duration `yaml:"timeout"`     // HTTP client timeout. If nil, a default is applied by validators.
	RetryCount *int           `yaml:"retry_count"` // Retries after a transient network failure.
	RetryDelay *time.Duration `yaml:"retry_delay"` // Pause between retries.
	BatchSize  int            `yaml:"batch_size"`  // Object IDs per request when fetching by ID.
	PageSize   int            `yaml:"page_size"`   // Items per page when streaming.
	// StreamThreshold is the item count above which streams switch from one
	// request to pages.
	StreamThreshold int    `yaml:"stream_threshold"`
	MaxConnections  int    `yaml:"max_connections"` // Concurrent page requests and connections per host.
	UserAgent       string `yaml:"user_agent"`
	// Strategy selects the deserializer: "interpreted" or "compiled".
	Strategy string `yaml:"strategy"`
	LogLevel string `yaml:"log_level"` // debug, info, warn or error. Falls back to PRTG_LOG.
	LogFile  string `yaml:"log_file"`  // Rotated log file. Logs go to stderr when empty.

	// Context is an optional parent context for every request made by the client.
	Context context.Context `yaml:"-"`

	// BeforeRequestFn is an optional hook executed before a request is sent.
	// Returning an error aborts the request without retrying.
	BeforeRequestFn func(ctx context.Context, r *http.Request) error `yaml:"-"`

	// AfterRequestFn is an optional hook executed once response headers are
	// received and before the body is read.
	AfterRequestFn func(ctx context.Context, r *http.Response) error `yaml:"-"`
}

// ConfigFunc defines a function that can modify or validate a PRTGConfig.
type ConfigFunc func(*PRTGConfig) error

// Validate applies the given validators in order and stops at the first error.
func (config *PRTGConfig) Validate(validators ...ConfigFunc) error {
	for _, fn := range validators {
		if err := fn(config); err != nil {
			return err
		}
	}
	return nil
}

// DefaultValidators fills every unset field with its default and checks the
// server and credentials.
func DefaultValidators() []ConfigFunc {
	return []ConfigFunc{
		WithServer,
		WithAuth,
		WithTimeout(DefaultTimeout),
		WithRetryCount(DefaultRetryCount),
		WithRetryDelay(DefaultRetryDelay),
		WithBatchSize(DefaultBatchSize),
		WithPageSize(DefaultPageSize),
		WithStreamThreshold(DefaultStreamThreshold),
		WithMaxConnections(DefaultMaxConnections),
		WithUserAgent,
		WithStrategy,
	}
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config field %s: %s", e.Field, e.Reason)
}

// WithServer validates that Server is set and parses as a base URL.
func WithServer(config *PRTGConfig) error {
	if config.Server == "" {
		return &ConfigError{Field: "Server", Reason: "cannot be empty"}
	}
	if _, err := config.BaseURL(); err != nil {
		return &ConfigError{Field: "Server", Reason: err.Error()}
	}
	return nil
}

// WithAuth validates that a username and either a password or a pass-hash are set.
func WithAuth(config *PRTGConfig) error {
	if config.Username == "" {
		return &ConfigError{Field: "Username", Reason: "cannot be empty"}
	}
	if config.Password == "" && config.PassHash == "" {
		return &ConfigError{Field: "Password", Reason: "either password or passhash must be provided"}
	}
	return nil
}

// WithTimeout returns a ConfigFunc that sets a default timeout if none is provided.
func WithTimeout(timeout time.Duration) ConfigFunc {
	return func(config *PRTGConfig) error {
		if config.Timeout == nil {
			config.Timeout = &timeout
		}
		return nil
	}
}

// WithRetryCount sets the default retry budget. An explicit zero disables retries.
func WithRetryCount(retries int) ConfigFunc {
	return func(config *PRTGConfig) error {
		if config.RetryCount == nil {
			config.RetryCount = &retries
		}
		if *config.RetryCount < 0 {
			return &ConfigError{Field: "RetryCount", Reason: "cannot be negative"}
		}
		return nil
	}
}

func WithRetryDelay(delay time.Duration) ConfigFunc {
	return func(config *PRTGConfig) error {
		if config.RetryDelay == nil {
			config.RetryDelay = &delay
		}
		return nil
	}
}

func WithBatchSize(size int) ConfigFunc {
	return positive("BatchSize", size, func(c *PRTGConfig) *int { return &c.BatchSize })
}

func WithPageSize(size int) ConfigFunc {
	return positive("PageSize", size, func(c *PRTGConfig) *int { return &c.PageSize })
}

func WithStreamThreshold(threshold int) ConfigFunc {
	return positive("StreamThreshold", threshold, func(c *PRTGConfig) *int { return &c.StreamThreshold })
}

// WithMaxConnections returns a ConfigFunc that sets the maximum number of connections
// if not explicitly provided.
func WithMaxConnections(maxConnections int) ConfigFunc {
	return positive("MaxConnections", maxConnections, func(c *PRTGConfig) *int { return &c.MaxConnections })
}

func positive(field string, def int, ref func(*PRTGConfig) *int) ConfigFunc {
	return func(config *PRTGConfig) error {
		v := ref(config)
		if *v == 0 {
			*v = def
		}
		if *v < 0 {
			return &ConfigError{Field: field, Reason: "cannot be negative"}
		}
		return nil
	}
}

// WithUserAgent sets a default User-Agent header if none is provided in the config.
func WithUserAgent(config *PRTGConfig) error {
	if config.UserAgent == "" {
		config.UserAgent = fmt.Sprintf(
			"%s,os:%s,arch:%s",
			fmt.Sprintf("prtgapi-go-%s", ClientVersion()),
			runtime.GOOS,
			runtime.GOARCH,
		)
	}
	return nil
}

// WithStrategy defaults Strategy to interpreted and rejects unknown names.
func WithStrategy(config *PRTGConfig) error {
	switch strings.ToLower(config.Strategy) {
	case "":
		config.Strategy = StrategyInterpreted
	case StrategyInterpreted, StrategyCompiled:
		config.Strategy = strings.ToLower(config.Strategy)
	default:
		return &ConfigError{Field: "Strategy", Reason: fmt.Sprintf("unknown strategy %q", config.Strategy)}
	}
	return nil
}

// BaseURL resolves Server to the root URL of the web interface.
func (config *PRTGConfig) BaseURL() (*url.URL, error) {
	server := config.Server
	if !strings.Contains(server, "://") {
		server = "https://" + server
	}
	u, err := url.Parse(server)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	return u, nil
}

// LoadConfigYAML parses a YAML document into a config. Validators are not applied.
func LoadConfigYAML(data []byte) (*PRTGConfig, error) {
	config := &PRTGConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}
