package fetcher

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	asyncimage "github.com/karupanerura/async-image"
	"github.com/karupanerura/async-image/internal/metrics"
	"github.com/karupanerura/async-image/internal/panicutil"
)

// DefaultTTL is the default lifetime of a response stored by SingleFlightFetcher.
const DefaultTTL = time.Hour

// SingleFlightFetcher is a Fetcher that collapses concurrent fetches of the same URL into one
// upstream request and stores each fetched body in a response cache.
//
// The upstream request runs on a background context, so a caller giving up (its context is done)
// never cancels a fetch other callers may be waiting on; the fetch always runs to completion.
type SingleFlightFetcher struct {
	cache   asyncimage.ResponseCache
	source  asyncimage.Fetcher
	clock   asyncimage.Clock
	ttl     time.Duration
	context func() context.Context
	logger  log.Logger

	mu        sync.Mutex
	waitlists map[string][]chan fetchResult
}

var _ asyncimage.Fetcher = (*SingleFlightFetcher)(nil)

type fetchResult struct {
	body []byte
	err  error
}

// NewSingleFlightFetcher creates a new SingleFlightFetcher on top of source.
// If cache is nil, fetched bodies are not stored anywhere.
func NewSingleFlightFetcher(cache asyncimage.ResponseCache, source asyncimage.Fetcher, opts ...Option) *SingleFlightFetcher {
	f := &SingleFlightFetcher{
		cache:     cache,
		source:    source,
		clock:     asyncimage.SystemClock,
		ttl:       DefaultTTL,
		context:   context.Background,
		logger:    log.NewNopLogger(),
		waitlists: map[string][]chan fetchResult{},
	}
	for _, o := range opts {
		o.apply(f)
	}
	return f
}

// Fetch returns the body of url, joining an upstream request already in flight for the same URL if any.
// Every caller receives its own copy of the body.
func (f *SingleFlightFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ch := f.register(url)
	select {
	case r := <-ch:
		if r.err == errGoexit {
			runtime.Goexit()
		}
		return r.body, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// InFlight returns the number of URLs with an upstream request in progress.
func (f *SingleFlightFetcher) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, wl := range f.waitlists {
		if len(wl) != 0 {
			n++
		}
	}
	return n
}

// register adds a waiter for url and starts the upstream request if it is the first one.
func (f *SingleFlightFetcher) register(url string) chan fetchResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan fetchResult, 1)
	f.waitlists[url] = append(f.waitlists[url], ch)
	shared := len(f.waitlists[url]) != 1
	singleFlightRequests.With(metrics.LabelShared, strconv.FormatBool(shared)).Add(1)
	if !shared {
		go f.fetchAndStore(f.context(), url)
	}
	return ch
}

// fetchAndStore fetches url from the source and stores the body in the cache.
func (f *SingleFlightFetcher) fetchAndStore(ctx context.Context, url string) {
	body, err := panicutil.Call(func() ([]byte, error) {
		return f.source.Fetch(ctx, url)
	}, func() {
		f.settle(url, fetchResult{err: errGoexit})
	})
	if err != nil {
		level.Debug(f.logger).Log("op", "Fetch", "url", url, "err", err)
		f.settle(url, fetchResult{err: err})
		return
	}

	if f.cache != nil {
		resp := &asyncimage.Response{
			URL:       url,
			Body:      body,
			ExpiresAt: f.clock.Now().Add(f.ttl),
		}
		if err := f.cache.Set(ctx, resp); err != nil {
			f.settle(url, fetchResult{err: err})
			return
		}
	}
	f.settle(url, fetchResult{body: body})
}

// settle sends the result to every waiter of url and clears the waitlist.
func (f *SingleFlightFetcher) settle(url string, r fetchResult) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, wl := range f.waitlists[url] {
		res := r
		if i != 0 && r.body != nil {
			// note: the first receiver takes the original to avoid unnecessary copies
			res.body = bytes.Clone(r.body)
		}
		wl <- res
		close(wl)
	}
	delete(f.waitlists, url)
}
