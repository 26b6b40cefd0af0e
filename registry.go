package asyncimage

import (
	"sync"
)

// Registry hands out the single shared Loader for each URL.
//
// Loaders are created lazily on first request and are never removed, so the
// registry grows with the number of distinct URLs it has seen. Give each
// application session (or test) its own Registry.
type Registry struct {
	fetcher Fetcher
	opts    []LoaderOption

	mu      sync.Mutex
	loaders map[string]*Loader
}

// NewRegistry creates an empty Registry. The options are applied to every Loader it creates.
func NewRegistry(fetcher Fetcher, opts ...LoaderOption) *Registry {
	return &Registry{
		fetcher: fetcher,
		opts:    opts,
		loaders: map[string]*Loader{},
	}
}

// Get returns the Loader for url, creating an idle one on first use.
// Calls with the same url always return the identical *Loader.
func (r *Registry) Get(url string) *Loader {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loaders[url]; ok {
		return l
	}
	l := NewLoader(url, r.fetcher, r.opts...)
	r.loaders[url] = l
	return l
}

// Len returns the number of loaders created so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.loaders)
}
