// Package config holds the settings of the photoloader command.
package config

import (
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"

	"github.com/karupanerura/async-image/unsplash"
)

// AccessKeyEnv is the environment variable consulted when no access key is given.
const AccessKeyEnv = "UNSPLASH_ACCESS_KEY"

type Config struct {
	//===============
	//  Search
	//===============
	// Unsplash access key sent as "Client-ID <key>"
	accessKey string
	// Base URL of the Unsplash API
	apiURL string
	// Number of photos requested per search
	perPage int
	// Rendition loaded for each search hit
	variant unsplash.Variant

	//===============
	// Fetch
	//===============
	// Maximum time of a single request
	timeout time.Duration
	// User agent sent with image requests
	userAgent string
	// Number of images loaded at once by the grid command
	concurrency int

	//===============
	// Cache
	//===============
	// memcached servers; empty keeps responses in process memory
	memcachedServers []string
	// Lifetime of a cached response
	cacheTTL time.Duration

	//===============
	// Observability
	//===============
	// Listen address of the Prometheus endpoint; empty disables it
	metricsAddr string
	// Minimum log level: debug, info, warn or error
	logLevel string
}

// WithDefault creates a new Config with default values for all fields.
func WithDefault() *Config {
	defaultConfig := Config{
		apiURL:      unsplash.DefaultBaseURL,
		perPage:     unsplash.DefaultPerPage,
		variant:     unsplash.VariantSmall,
		timeout:     30 * time.Second,
		userAgent:   "photoloader/1.0",
		concurrency: 8,
		cacheTTL:    time.Hour,
		logLevel:    "info",
	}
	return &defaultConfig
}

func (c *Config) WithAccessKey(key string) *Config {
	c.accessKey = key
	return c
}

// WithAccessKeyFromEnv sets the access key from AccessKeyEnv unless one is already set.
func (c *Config) WithAccessKeyFromEnv() *Config {
	if c.accessKey == "" {
		c.accessKey = os.Getenv(AccessKeyEnv)
	}
	return c
}

func (c *Config) WithAPIURL(apiURL string) *Config {
	c.apiURL = apiURL
	return c
}

func (c *Config) WithPerPage(n int) *Config {
	c.perPage = n
	return c
}

func (c *Config) WithVariant(v unsplash.Variant) *Config {
	c.variant = v
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithConcurrency(n int) *Config {
	c.concurrency = n
	return c
}

func (c *Config) WithMemcachedServers(servers []string) *Config {
	c.memcachedServers = servers
	return c
}

func (c *Config) WithCacheTTL(ttl time.Duration) *Config {
	c.cacheTTL = ttl
	return c
}

func (c *Config) WithMetricsAddr(addr string) *Config {
	c.metricsAddr = addr
	return c
}

func (c *Config) WithLogLevel(lvl string) *Config {
	c.logLevel = lvl
	return c
}

// Build validates the settings and returns the resulting Config.
func (c *Config) Build() (Config, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "api url %q is not an absolute URL", c.apiURL)
	}
	if c.perPage < 1 || c.perPage > unsplash.MaxPerPage {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "per page must be between 1 and %d, got %d", unsplash.MaxPerPage, c.perPage)
	}
	if _, err := unsplash.ParseVariant(string(c.variant)); err != nil {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "%v", err)
	}
	if c.timeout <= 0 {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "timeout must be positive, got %v", c.timeout)
	}
	if c.concurrency < 1 {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "concurrency must be positive, got %d", c.concurrency)
	}
	if c.cacheTTL <= 0 {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "cache ttl must be positive, got %v", c.cacheTTL)
	}
	if _, err := parseLevel(c.logLevel); err != nil {
		return Config{}, err
	}
	return *c, nil
}

func parseLevel(lvl string) (level.Option, error) {
	switch lvl {
	case "debug":
		return level.AllowDebug(), nil
	case "info":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, errors.Wrapf(ErrInvalidConfig, "unknown log level %q", lvl)
	}
}

func (c Config) AccessKey() string {
	return c.accessKey
}

func (c Config) APIURL() string {
	return c.apiURL
}

func (c Config) PerPage() int {
	return c.perPage
}

func (c Config) Variant() unsplash.Variant {
	return c.variant
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) Concurrency() int {
	return c.concurrency
}

func (c Config) MemcachedServers() []string {
	return slices.Clone(c.memcachedServers)
}

func (c Config) CacheTTL() time.Duration {
	return c.cacheTTL
}

func (c Config) MetricsAddr() string {
	return c.metricsAddr
}

func (c Config) LogLevel() string {
	return c.logLevel
}

// LevelFilter returns the go-kit level filter matching LogLevel.
func (c Config) LevelFilter() level.Option {
	opt, err := parseLevel(c.logLevel)
	if err != nil {
		return level.AllowInfo()
	}
	return opt
}
