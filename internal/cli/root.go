// Package cli implements the photoloader command.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"

	asyncimage "github.com/karupanerura/async-image"
	"github.com/karupanerura/async-image/internal/config"
	"github.com/karupanerura/async-image/unsplash"
)

type rootOpts struct {
	accessKey        string
	apiURL           string
	perPage          int
	variant          string
	userAgent        string
	concurrency      int
	memcachedServers []string
	cacheTTL         time.Duration
	timeout          time.Duration
	metricsAddr      string
	logLevel         string

	out    io.Writer
	errOut io.Writer

	config   config.Config
	logger   log.Logger
	registry *asyncimage.Registry
	shutdown []func()
}

func newRoot(out, errOut io.Writer) *rootOpts {
	return &rootOpts{out: out, errOut: errOut}
}

var rootLongHelp = strings.TrimSpace(`
photoloader searches Unsplash and loads the resulting images through a shared,
single-flight image loader backed by a response cache.

Workflow:
  photoloader search beach                       # Which photos match?
  photoloader load <url>...                      # Load one or more images.
  photoloader grid beach --variant thumb         # Search, then load every hit.
`)

func (opts *rootOpts) Command() *cobra.Command {
	defaults, _ := config.WithDefault().Build()

	cmd := &cobra.Command{
		Use:                "photoloader",
		Long:               rootLongHelp,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  opts.PersistentPreRunE,
		PersistentPostRunE: opts.PersistentPostRunE,
	}
	cmd.SetOut(opts.out)
	cmd.SetErr(opts.errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.accessKey, "api-key", "",
		fmt.Sprintf("Unsplash access key; you can also set the environment variable %s", config.AccessKeyEnv))
	flags.StringVar(&opts.apiURL, "api-url", defaults.APIURL(), "base URL of the Unsplash API")
	flags.IntVar(&opts.perPage, "per-page", defaults.PerPage(), fmt.Sprintf("number of photos per search (1-%d)", unsplash.MaxPerPage))
	flags.StringVar(&opts.variant, "variant", string(defaults.Variant()), "photo rendition to load: raw, full, regular, small or thumb")
	flags.StringVar(&opts.userAgent, "user-agent", defaults.UserAgent(), "user agent for image requests")
	flags.IntVar(&opts.concurrency, "concurrency", defaults.Concurrency(), "number of images loaded at once")
	flags.StringSliceVar(&opts.memcachedServers, "memcached", nil, "memcached servers (host:port) for the response cache; in-memory if empty")
	flags.DurationVar(&opts.cacheTTL, "cache-ttl", defaults.CacheTTL(), "lifetime of cached responses")
	flags.DurationVar(&opts.timeout, "timeout", defaults.Timeout(), "timeout of a single request")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	flags.StringVar(&opts.logLevel, "log-level", defaults.LogLevel(), "minimum log level: debug, info, warn or error")

	return cmd
}

// InitConfig builds the config from the flag values.
func (opts *rootOpts) InitConfig() (config.Config, error) {
	variant, err := unsplash.ParseVariant(opts.variant)
	if err != nil {
		return config.Config{}, newUsageError(err.Error())
	}
	return config.WithDefault().
		WithAccessKey(opts.accessKey).
		WithAccessKeyFromEnv().
		WithAPIURL(opts.apiURL).
		WithPerPage(opts.perPage).
		WithVariant(variant).
		WithUserAgent(opts.userAgent).
		WithConcurrency(opts.concurrency).
		WithMemcachedServers(opts.memcachedServers).
		WithCacheTTL(opts.cacheTTL).
		WithTimeout(opts.timeout).
		WithMetricsAddr(opts.metricsAddr).
		WithLogLevel(opts.logLevel).
		Build()
}

func (opts *rootOpts) PersistentPreRunE(cmd *cobra.Command, _ []string) error {
	cfg, err := opts.InitConfig()
	if err != nil {
		return err
	}
	opts.config = cfg

	// Logger domain.
	{
		logger := log.NewLogfmtLogger(log.NewSyncWriter(opts.errOut))
		logger = level.NewFilter(logger, cfg.LevelFilter())
		logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
		opts.logger = logger
	}

	// Metrics component.
	if cfg.MetricsAddr() != "" {
		stop, err := serveMetrics(cfg.MetricsAddr(), log.With(opts.logger, "component", "metrics"))
		if err != nil {
			return err
		}
		opts.shutdown = append(opts.shutdown, stop)
	}

	// Loader component.
	registry, err := newRegistry(cfg, opts.logger)
	if err != nil {
		return err
	}
	opts.registry = registry
	return nil
}

func (opts *rootOpts) PersistentPostRunE(*cobra.Command, []string) error {
	for i := len(opts.shutdown) - 1; i >= 0; i-- {
		opts.shutdown[i]()
	}
	opts.shutdown = nil
	return nil
}

func (opts *rootOpts) searchClient() (*unsplash.Client, error) {
	return unsplash.NewClient(opts.config.AccessKey(),
		unsplash.WithBaseURL(opts.config.APIURL()),
		unsplash.WithPerPage(opts.config.PerPage()),
		unsplash.WithHTTPClient(newHTTPClient(opts.config)),
		unsplash.WithLogger(log.With(opts.logger, "component", "unsplash")),
	)
}

// New returns the photoloader command writing results to out and logs to errOut.
func New(out, errOut io.Writer) *cobra.Command {
	root := newRoot(out, errOut)
	cmd := root.Command()
	cmd.AddCommand(
		newSearch(root).Command(),
		newLoad(root).Command(),
		newGrid(root).Command(),
	)
	return cmd
}
