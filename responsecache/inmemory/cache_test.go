package inmemory_test

import (
	"strconv"
	"testing"
	"time"

	asyncimage "github.com/karupanerura/async-image"
	"github.com/karupanerura/async-image/expiration"
	"github.com/karupanerura/async-image/responsecache/cachetest"
	"github.com/karupanerura/async-image/responsecache/inmemory"
)

func BenchmarkSet(b *testing.B) {
	urls := make([]string, 1024)
	for i := range urls {
		urls[i] = "https://images.example.com/photo-" + strconv.Itoa(i)
	}
	b.Run("SingleBucket", func(b *testing.B) {
		cachetest.BenchmarkSet(b, inmemory.New(inmemory.WithBucketsSize(1)), urls)
	})
	b.Run("MultipleBucket", func(b *testing.B) {
		cachetest.BenchmarkSet(b, inmemory.New(), urls)
	})
}

func TestCache(t *testing.T) {
	t.Parallel()

	for _, bucketsSize := range []int{1, 7, inmemory.DefaultBucketsSize} {
		bucketsSize := bucketsSize
		t.Run(strconv.Itoa(bucketsSize), func(t *testing.T) {
			t.Parallel()

			provider := func() (asyncimage.ResponseCache, func()) {
				return inmemory.New(inmemory.WithBucketsSize(bucketsSize)), func() {}
			}
			cachetest.TestClone(t, provider)
			cachetest.TestConsistency(t, provider)
			cachetest.TestExpiration(t, func(clock asyncimage.Clock) (asyncimage.ResponseCache, func()) {
				return inmemory.New(inmemory.WithBucketsSize(bucketsSize), inmemory.WithClock(clock)), func() {}
			})
		})
	}
}

func TestCache_ExpirationPolicy(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	cache := inmemory.New(
		inmemory.WithClock(asyncimage.FixedClock(now)),
		inmemory.WithExpirationPolicy(expiration.Never{}),
	)
	if err := cache.Set(t.Context(), &asyncimage.Response{
		URL:       "https://example.com/old.png",
		Body:      []byte("png"),
		ExpiresAt: now.Add(-time.Hour),
	}); err != nil {
		t.Fatal(err)
	}

	resp, err := cache.Get(t.Context(), "https://example.com/old.png")
	if err != nil {
		t.Fatal(err)
	}
	if resp == nil {
		t.Fatal("expired response must be served with the Never policy")
	}
	if cache.Len() != 1 {
		t.Errorf("unexpected length: %d (expected: 1)", cache.Len())
	}
}

func TestWithBucketsSize(t *testing.T) {
	t.Parallel()

	for _, size := range []int{-1, 0} {
		size := size
		t.Run(strconv.Itoa(size), func(t *testing.T) {
			t.Parallel()

			defer func() {
				if r := recover(); r == nil {
					t.Errorf("expected panic for %d buckets, but did not panic", size)
				}
			}()
			inmemory.WithBucketsSize(size)
		})
	}
}

func TestWithKeyHash(t *testing.T) {
	t.Parallel()

	var hashed []string
	cache := inmemory.New(inmemory.WithBucketsSize(4), inmemory.WithKeyHash(func(url string) int {
		hashed = append(hashed, url)
		return -len(url)
	}))
	if err := cache.Set(t.Context(), &asyncimage.Response{URL: "abc", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if resp, _ := cache.Get(t.Context(), "abc"); resp == nil {
		t.Error("response must exist")
	}
	if len(hashed) != 2 {
		t.Errorf("unexpected hash calls: %v", hashed)
	}
}
