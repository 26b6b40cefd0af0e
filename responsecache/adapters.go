package responsecache

import (
	"context"

	asyncimage "github.com/karupanerura/async-image"
)

var _ asyncimage.ResponseCache = (*SilentErrorCache)(nil)

// SilentErrorCache is a decorator for an asyncimage.ResponseCache that silently handles
// errors during operations. Instead of propagating the error, it calls the provided OnError function.
type SilentErrorCache struct {
	// Cache is the underlying cache that this decorator wraps.
	Cache asyncimage.ResponseCache

	// OnError is a function that is called when an error occurs during an operation.
	// The error is passed to the function as an argument.
	OnError func(error)
}

// Get retrieves the response for url from the underlying cache.
// If an error occurs, it is passed to OnError and the method reports a cache miss.
func (c *SilentErrorCache) Get(ctx context.Context, url string) (*asyncimage.Response, error) {
	resp, err := c.Cache.Get(ctx, url)
	if err != nil {
		if c.OnError != nil {
			c.OnError(err)
		}
		return nil, nil
	}
	return resp, nil
}

// Set stores resp in the underlying cache.
// If an error occurs, it is passed to OnError. The method itself always returns nil.
func (c *SilentErrorCache) Set(ctx context.Context, resp *asyncimage.Response) error {
	if err := c.Cache.Set(ctx, resp); err != nil && c.OnError != nil {
		c.OnError(err)
	}
	return nil
}

var _ asyncimage.ResponseCache = (*FunctionsCache)(nil)

// FunctionsCache is an asyncimage.ResponseCache implementation that uses functions to perform the cache operations.
// A nil function behaves as an always-missing cache that discards writes.
type FunctionsCache struct {
	// GetFunc retrieves a response by its URL.
	// If the URL is not cached or expired, it should return nil as the Response.
	GetFunc func(context.Context, string) (*asyncimage.Response, error)

	// SetFunc stores a response. If the URL already exists, it should overwrite the existing response.
	SetFunc func(context.Context, *asyncimage.Response) error
}

// Get calls the GetFunc function to retrieve the response for url.
func (c *FunctionsCache) Get(ctx context.Context, url string) (*asyncimage.Response, error) {
	if c.GetFunc == nil {
		return nil, nil
	}
	return c.GetFunc(ctx, url)
}

// Set calls the SetFunc function to store resp.
func (c *FunctionsCache) Set(ctx context.Context, resp *asyncimage.Response) error {
	if c.SetFunc == nil {
		return nil
	}
	return c.SetFunc(ctx, resp)
}
