package asyncimage_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"
)

func pngBytes(t testing.TB, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// gatedFetcher blocks every fetch until release is closed and reports each started fetch.
type gatedFetcher struct {
	started chan string
	release chan struct{}
	body    func(url string) ([]byte, error)
	calls   atomic.Int32
}

func newGatedFetcher(body func(url string) ([]byte, error)) *gatedFetcher {
	return &gatedFetcher{
		started: make(chan string, 16),
		release: make(chan struct{}),
		body:    body,
	}
}

func (f *gatedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	f.started <- url
	select {
	case <-f.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return f.body(url)
}
