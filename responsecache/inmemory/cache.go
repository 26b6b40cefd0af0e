package inmemory

import (
	"bytes"
	"context"
	"sync"

	asyncimage "github.com/karupanerura/async-image"
)

type bucket struct {
	m  map[string]*asyncimage.Response
	mu sync.RWMutex
}

// Cache is a bucketed in-memory response cache.
type Cache struct {
	buckets []*bucket
	options options
}

var _ asyncimage.ResponseCache = (*Cache)(nil)

// New creates a new in-memory response cache.
func New(opts ...Option) *Cache {
	options := defaultOptions()
	for _, opt := range opts {
		opt.apply(&options)
	}

	buckets := make([]*bucket, options.bucketsSize)
	for i := range buckets {
		buckets[i] = &bucket{m: map[string]*asyncimage.Response{}}
	}
	return &Cache{
		buckets: buckets,
		options: options,
	}
}

// resolveBucket returns the bucket that corresponds to the given URL.
func (c *Cache) resolveBucket(url string) *bucket {
	if len(c.buckets) == 1 {
		return c.buckets[0]
	}
	index := c.options.hashKey(url) % len(c.buckets)
	if index < 0 {
		index *= -1
	}
	return c.buckets[index]
}

// Get returns a copy of the response stored for url, or nil if it is missing or expired.
func (c *Cache) Get(_ context.Context, url string) (*asyncimage.Response, error) {
	bucket := c.resolveBucket(url)
	bucket.mu.RLock()
	defer bucket.mu.RUnlock()

	if v, ok := bucket.m[url]; ok && !c.options.policy.IsExpired(c.options.clock.Now(), v.ExpiresAt) {
		return cloneResponse(v), nil
	}
	return nil, nil
}

// Set stores a copy of resp, replacing any response stored for the same URL.
func (c *Cache) Set(_ context.Context, resp *asyncimage.Response) error {
	bucket := c.resolveBucket(resp.URL)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	bucket.m[resp.URL] = cloneResponse(resp)
	return nil
}

// Len returns the number of stored responses, expired ones included.
func (c *Cache) Len() int {
	n := 0
	for _, bucket := range c.buckets {
		bucket.mu.RLock()
		n += len(bucket.m)
		bucket.mu.RUnlock()
	}
	return n
}

func cloneResponse(v *asyncimage.Response) *asyncimage.Response {
	return &asyncimage.Response{
		URL:       v.URL,
		Body:      bytes.Clone(v.Body),
		ExpiresAt: v.ExpiresAt,
	}
}
