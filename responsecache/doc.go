// Package responsecache provides response cache adapters and utilities for async-image.
//
// This package contains adapters such as SilentErrorCache, which wraps any ResponseCache
// implementation to silently handle errors, FunctionsCache, which allows building custom
// caches from function callbacks, and Instrument, which records Prometheus metrics.
//
// Concrete caches live in the subpackages: inmemory keeps responses in process memory and
// memcached keeps them in a memcached cluster.
package responsecache
