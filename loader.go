package asyncimage

import (
	"context"
	"slices"
	"sync"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/karupanerura/async-image/decode"
	"github.com/karupanerura/async-image/internal/ctxsync"
)

// Loader manages the load lifecycle of a single resource URL and exposes its
// current image to any number of observers.
//
// Every state change happens under one mutex, and observers are notified after
// the mutex is released. A completion is accepted only if neither SetURL nor a
// newer Load happened since the Load that started it; otherwise it is discarded.
// In-flight fetches are never cancelled.
type Loader struct {
	fetcher  Fetcher
	cache    ResponseCache
	decoder  Decoder
	logger   log.Logger
	dispatch func(func())

	mu         sync.Mutex
	settled    ctxsync.Cond
	url        string
	state      State
	image      *Image
	err        error
	generation uint64
	observers  []*observer
}

type observer struct {
	f func(Snapshot)
}

// NewLoader creates a new idle Loader for url.
func NewLoader(url string, fetcher Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:  fetcher,
		decoder:  DecoderFunc(decode.Image),
		logger:   log.NewNopLogger(),
		dispatch: func(f func()) { f() },
		url:      url,
	}
	for _, o := range opts {
		o.apply(l)
	}
	l.settled = ctxsync.NewCond(&l.mu)
	return l
}

// URL returns the resource the loader currently points at.
func (l *Loader) URL() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.url
}

// State returns the current load state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// IsLoading reports whether a load is outstanding.
func (l *Loader) IsLoading() bool {
	return l.State() == StateLoading
}

// Image returns the held image, or nil. It never touches the cache or the network;
// call CheckCache first to pick up a cached response.
func (l *Loader) Image() *Image {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.image
}

// Err returns the failure of the last accepted load, or nil.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Snapshot returns the current URL, state, image and error at once.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// SetURL repoints the loader at url. It does not start a load and does not cancel
// a fetch in flight for the previous URL; that fetch's result is discarded when it completes.
// Changing the URL drops the held image and returns the loader to StateIdle.
func (l *Loader) SetURL(url string) {
	l.mu.Lock()
	if l.url == url {
		l.mu.Unlock()
		return
	}
	l.url = url
	l.generation++
	l.state = StateIdle
	l.image = nil
	l.err = nil
	l.settled.Broadcast()
	snapshot, observers := l.snapshotLocked(), slices.Clone(l.observers)
	l.mu.Unlock()

	l.notify(snapshot, observers)
}

// CheckCache makes the held image available from the response cache if possible.
// It returns true if an image is held after the call.
// It never fetches. While a load is outstanding it does not probe the cache,
// so a refreshing loader never shows an old image.
// Cache errors and undecodable cached bodies are logged and treated as misses.
func (l *Loader) CheckCache(ctx context.Context) bool {
	l.mu.Lock()
	if l.image != nil {
		l.mu.Unlock()
		return true
	}
	if l.cache == nil || l.state == StateLoading {
		l.mu.Unlock()
		return false
	}
	generation, url := l.generation, l.url
	l.mu.Unlock()

	resp, err := l.cache.Get(ctx, url)
	if err != nil {
		level.Warn(l.logger).Log("op", "CheckCache", "url", url, "err", err)
		return false
	}
	if resp == nil {
		return false
	}

	img, err := l.decode(url, resp.Body)
	if err != nil {
		level.Warn(l.logger).Log("op", "CheckCache", "url", url, "err", err)
		return false
	}

	l.mu.Lock()
	if l.image != nil {
		l.mu.Unlock()
		return true
	}
	if l.generation != generation || l.url != url || l.state == StateLoading {
		l.mu.Unlock()
		return false
	}
	l.image = img
	l.state = StateCacheHit
	l.err = nil
	snapshot, observers := l.snapshotLocked(), slices.Clone(l.observers)
	l.mu.Unlock()

	l.notify(snapshot, observers)
	return true
}

// Load fetches and decodes the current URL.
//
// The held image is cleared as soon as the load starts. On success the image is
// stored and returned. On failure the error is logged, stored, and returned as a
// *LoadError matching ErrNetwork or ErrDecode; the image stays absent.
// If the loader was repointed or reloaded before the fetch completed, nothing is
// mutated and ErrStaleResult is returned.
func (l *Loader) Load(ctx context.Context) (*Image, error) {
	l.mu.Lock()
	l.generation++
	generation, url := l.generation, l.url
	l.state = StateLoading
	l.image = nil
	l.err = nil
	snapshot, observers := l.snapshotLocked(), slices.Clone(l.observers)
	l.mu.Unlock()

	l.notify(snapshot, observers)

	img, loadErr := l.fetchAndDecode(ctx, url)

	l.mu.Lock()
	if l.generation != generation || l.url != url {
		l.mu.Unlock()
		level.Debug(l.logger).Log("op", "Load", "url", url, "msg", "discarding stale result")
		return nil, ErrStaleResult
	}
	if loadErr != nil {
		l.state = StateFailed
		l.err = loadErr
	} else {
		l.state = StateLoaded
		l.image = img
	}
	l.settled.Broadcast()
	snapshot, observers = l.snapshotLocked(), slices.Clone(l.observers)
	l.mu.Unlock()

	l.notify(snapshot, observers)
	if loadErr != nil {
		level.Error(l.logger).Log("op", "Load", "url", url, "err", loadErr)
		return nil, loadErr
	}
	return img, nil
}

// Wait blocks until no load is outstanding and returns the settled snapshot.
// If ctx is done first, it returns the context error.
func (l *Loader) Wait(ctx context.Context) (Snapshot, error) {
	l.mu.Lock()
	for l.state == StateLoading {
		if err := l.settled.WaitCtx(ctx); err != nil {
			// note: WaitCtx releases the mutex asynchronously on cancellation
			return Snapshot{}, err
		}
	}
	snapshot := l.snapshotLocked()
	l.mu.Unlock()
	return snapshot, nil
}

// OnChange registers f to be called with a snapshot after every state change.
// Observers are called in registration order through the loader's dispatcher.
// The returned function unregisters f.
func (l *Loader) OnChange(f func(Snapshot)) (unsubscribe func()) {
	o := &observer{f: f}

	l.mu.Lock()
	l.observers = append(l.observers, o)
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.observers = slices.DeleteFunc(l.observers, func(other *observer) bool {
			return other == o
		})
	}
}

func (l *Loader) fetchAndDecode(ctx context.Context, url string) (*Image, error) {
	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, networkError(url, err)
	}
	return l.decode(url, data)
}

func (l *Loader) decode(url string, data []byte) (*Image, error) {
	decoded, format, err := l.decoder.Decode(data)
	if err != nil {
		return nil, decodeError(url, err)
	}
	if decoded == nil {
		return nil, decodeError(url, decode.ErrUnknownFormat)
	}
	return &Image{
		URL:     url,
		Data:    data,
		Format:  format,
		Decoded: decoded,
	}, nil
}

func (l *Loader) snapshotLocked() Snapshot {
	return Snapshot{
		URL:   l.url,
		State: l.state,
		Image: l.image,
		Err:   l.err,
	}
}

func (l *Loader) notify(snapshot Snapshot, observers []*observer) {
	if len(observers) == 0 {
		return
	}
	l.dispatch(func() {
		for _, o := range observers {
			o.f(snapshot)
		}
	})
}
