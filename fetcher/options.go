package fetcher

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"

	asyncimage "github.com/karupanerura/async-image"
)

// Option is the interface for the options of the SingleFlightFetcher.
type Option interface {
	apply(*SingleFlightFetcher)
}

type optionFunc func(*SingleFlightFetcher)

func (f optionFunc) apply(s *SingleFlightFetcher) {
	f(s)
}

// WithTTL sets how long stored responses stay fresh.
// The default TTL is DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return optionFunc(func(s *SingleFlightFetcher) {
		s.ttl = ttl
	})
}

// WithClock sets the clock used to compute expiration times.
func WithClock(clock asyncimage.Clock) Option {
	return optionFunc(func(s *SingleFlightFetcher) {
		s.clock = clock
	})
}

// WithBackgroundContextProvider sets the context provider for upstream requests.
// The provider must return a new context for each call.
// The default context provider is context.Background.
func WithBackgroundContextProvider(provider func() context.Context) Option {
	return optionFunc(func(s *SingleFlightFetcher) {
		s.context = provider
	})
}

// WithLogger sets the logger for upstream failures.
func WithLogger(logger log.Logger) Option {
	return optionFunc(func(s *SingleFlightFetcher) {
		s.logger = logger
	})
}
