package inmemory_test

import (
	"time"

	"github.com/karupanerura/async-image/expiration"
	"github.com/karupanerura/async-image/responsecache/inmemory"
)

func ExampleNew() {
	// Create a simple in-memory response cache
	cache := inmemory.New()

	_ = cache
}

func ExampleNew_opts() {
	// Create a cache with custom options
	cache := inmemory.New(
		inmemory.WithBucketsSize(256),
		inmemory.WithExpirationPolicy(&expiration.Early{
			Duration:   5 * time.Minute,
			Percentage: 0.1,
		}),
	)

	_ = cache
}
