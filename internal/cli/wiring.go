package cli

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	asyncimage "github.com/karupanerura/async-image"
	"github.com/karupanerura/async-image/expiration"
	"github.com/karupanerura/async-image/fetcher"
	"github.com/karupanerura/async-image/internal/config"
	"github.com/karupanerura/async-image/responsecache"
	"github.com/karupanerura/async-image/responsecache/inmemory"
	"github.com/karupanerura/async-image/responsecache/memcached"
)

func newHTTPClient(cfg config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Timeout()}
}

// newResponseCache returns the memcached cache when servers are configured, else an in-memory one.
func newResponseCache(cfg config.Config, logger log.Logger) (asyncimage.ResponseCache, error) {
	servers := cfg.MemcachedServers()
	if len(servers) == 0 {
		return responsecache.Instrument(inmemory.New(
			inmemory.WithExpirationPolicy(&expiration.Early{
				Duration:   cfg.CacheTTL() / 10,
				Percentage: 0.1,
			}),
		)), nil
	}

	logger = log.With(logger, "component", "memcached")
	mc, err := memcached.New(memcached.Config{
		Timeout:      cfg.Timeout(),
		MaxIdleConns: cfg.Concurrency(),
		Logger:       logger,
	}, servers...)
	if err != nil {
		return nil, err
	}
	return responsecache.Instrument(&responsecache.SilentErrorCache{
		Cache: mc,
		OnError: func(err error) {
			level.Warn(logger).Log("err", err)
		},
	}), nil
}

func newRegistry(cfg config.Config, logger log.Logger) (*asyncimage.Registry, error) {
	cache, err := newResponseCache(cfg, logger)
	if err != nil {
		return nil, err
	}

	source := fetcher.Instrument(fetcher.NewHTTPFetcher(
		fetcher.WithHTTPClient(newHTTPClient(cfg)),
		fetcher.WithUserAgent(cfg.UserAgent()),
	))
	f := fetcher.NewSingleFlightFetcher(cache, source,
		fetcher.WithTTL(cfg.CacheTTL()),
		fetcher.WithLogger(log.With(logger, "component", "fetcher")),
	)
	return asyncimage.NewRegistry(f,
		asyncimage.WithResponseCache(cache),
		asyncimage.WithLogger(log.With(logger, "component", "loader")),
	), nil
}

func newMetricsHandler() http.Handler {
	router := mux.NewRouter()
	router.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.Handler())
	router.Methods(http.MethodGet).Path("/healthz").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return router
}

// serveMetrics starts the Prometheus endpoint on addr and returns a function stopping it.
func serveMetrics(addr string, logger log.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listening on %s", addr)
	}
	server := &http.Server{
		Handler:           newMetricsHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		level.Info(logger).Log("stage", "httpserver", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("stage", "httpserver", "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			level.Warn(logger).Log("stage", "shutdown", "err", err)
		}
		<-done
	}, nil
}
