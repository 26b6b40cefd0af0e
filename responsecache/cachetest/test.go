// cachetest package provides generic test cases for response cache implementations.
package cachetest

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	asyncimage "github.com/karupanerura/async-image"
)

// BenchmarkSet benchmarks the Set method of the response cache.
func BenchmarkSet(b *testing.B, cache asyncimage.ResponseCache, urls []string) {
	body := bytes.Repeat([]byte{0xff}, 4096)
	expiresAt := time.Now().Add(time.Hour)
	ctx := b.Context()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cache.Set(ctx, &asyncimage.Response{
			URL:       urls[i%len(urls)],
			Body:      body,
			ExpiresAt: expiresAt,
		})
	}
}

// TestClone tests that the response cache never shares body slices with its callers.
func TestClone(t *testing.T, provider func() (asyncimage.ResponseCache, func())) {
	t.Run("Clone", func(t *testing.T) {
		t.Parallel()

		cache, release := provider()
		defer release()

		original := &asyncimage.Response{
			URL:       "https://example.com/clone.png",
			Body:      []byte("original body"),
			ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Second),
		}
		if err := cache.Set(t.Context(), original); err != nil {
			t.Fatal(err)
		}
		original.Body[0] = 'X'

		got, err := cache.Get(t.Context(), original.URL)
		if err != nil {
			t.Fatal(err)
		}
		if got == nil {
			t.Fatal("response must exist")
		}
		if string(got.Body) != "original body" {
			t.Errorf("body must be cloned on Set, but got %q", got.Body)
		}

		got.Body[0] = 'Y'
		again, err := cache.Get(t.Context(), original.URL)
		if err != nil {
			t.Fatal(err)
		}
		if string(again.Body) != "original body" {
			t.Errorf("body must be cloned on Get, but got %q", again.Body)
		}
	})
}

// TestConsistency tests concurrent reads and writes of distinct URLs.
func TestConsistency(t *testing.T, provider func() (asyncimage.ResponseCache, func())) {
	t.Run("Consistency", func(t *testing.T) {
		t.Parallel()

		cache, release := provider()
		defer release()

		expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)
		patterns := make([]*asyncimage.Response, 32)
		for i := range patterns {
			patterns[i] = &asyncimage.Response{
				URL:       fmt.Sprintf("https://example.com/photo-%d?w=%d", i, i*10),
				Body:      []byte(fmt.Sprintf("body-%d", i)),
				ExpiresAt: expiresAt,
			}
		}
		rand.Shuffle(len(patterns), func(i, j int) {
			patterns[i], patterns[j] = patterns[j], patterns[i]
		})

		var eg errgroup.Group
		for _, pattern := range patterns {
			pattern := pattern
			eg.Go(func() error {
				resp, err := cache.Get(t.Context(), pattern.URL)
				if err != nil {
					return err
				} else if resp != nil {
					return fmt.Errorf("unexpected exists response for %s", pattern.URL)
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			t.Fatal(err)
		}

		eg = errgroup.Group{}
		for _, pattern := range patterns {
			pattern := pattern
			eg.Go(func() error {
				return cache.Set(t.Context(), pattern)
			})
		}
		if err := eg.Wait(); err != nil {
			t.Fatal(err)
		}

		eg = errgroup.Group{}
		mu := sync.Mutex{}
		results := make([]*asyncimage.Response, len(patterns))
		for i, pattern := range patterns {
			i := i
			pattern := pattern
			eg.Go(func() error {
				resp, err := cache.Get(t.Context(), pattern.URL)
				if err != nil {
					return err
				}

				mu.Lock()
				defer mu.Unlock()
				results[i] = resp
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			t.Fatal(err)
		}

		for i, pattern := range patterns {
			if df := cmp.Diff(pattern, results[i]); df != "" {
				t.Errorf("pattern[%d] url=%s response diff=%s", i, pattern.URL, df)
			}
		}
	})
}

// FixedClock is a clock whose time is set by the test.
type FixedClock struct {
	mu   sync.Mutex
	time time.Time
}

// NewFixedClock returns a clock reporting t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{time: t}
}

// Now returns the current fixed time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.time
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.time = t
}

// TestExpiration tests that responses disappear at their expiration time.
func TestExpiration(t *testing.T, provider func(asyncimage.Clock) (asyncimage.ResponseCache, func())) {
	t.Run("Expiration", func(t *testing.T) {
		t.Parallel()

		base := time.Now().Truncate(time.Second)
		clock := NewFixedClock(base)
		cache, release := provider(clock)
		defer release()

		const url = "https://example.com/expiring.jpg"
		resp, err := cache.Get(t.Context(), url)
		if err != nil {
			t.Fatal(err)
		}
		if resp != nil {
			t.Error("should not exist")
		}

		want := &asyncimage.Response{
			URL:       url,
			Body:      []byte("jpeg"),
			ExpiresAt: base.Add(time.Hour),
		}
		if err := cache.Set(t.Context(), want); err != nil {
			t.Fatal(err)
		}

		resp, err = cache.Get(t.Context(), url)
		if err != nil {
			t.Fatal(err)
		}
		if df := cmp.Diff(want, resp); df != "" {
			t.Errorf("response diff=%s", df)
		}

		clock.Set(base.Add(time.Hour - time.Second))
		resp, err = cache.Get(t.Context(), url)
		if err != nil {
			t.Fatal(err)
		}
		if df := cmp.Diff(want, resp); df != "" {
			t.Errorf("response diff=%s", df)
		}

		clock.Set(base.Add(time.Hour))
		resp, err = cache.Get(t.Context(), url)
		if err != nil {
			t.Fatal(err)
		} else if resp != nil {
			t.Error("should not exist at expiration time")
		}

		clock.Set(base.Add(time.Hour + time.Second))
		resp, err = cache.Get(t.Context(), url)
		if err != nil {
			t.Fatal(err)
		} else if resp != nil {
			t.Error("should not exist after expiration time")
		}
	})
}
