package asyncimage_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	asyncimage "github.com/karupanerura/async-image"
	"github.com/karupanerura/async-image/fetcher"
	"github.com/karupanerura/async-image/responsecache/inmemory"
)

func ExampleRegistry() {
	// Serve a small PNG from an in-process source
	var buf bytes.Buffer
	_ = png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 3)))
	src := asyncimage.FetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		return buf.Bytes(), nil
	})

	// Share fetched bodies between loaders through an in-memory response cache
	cache := inmemory.New()
	registry := asyncimage.NewRegistry(
		fetcher.NewSingleFlightFetcher(cache, src),
		asyncimage.WithResponseCache(cache),
	)

	loader := registry.Get("https://images.example.com/thumb.png")
	loader.OnChange(func(s asyncimage.Snapshot) {
		fmt.Println("state:", s.State)
	})

	if !loader.CheckCache(context.Background()) {
		img, err := loader.Load(context.Background())
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		b := img.Decoded.Bounds()
		fmt.Printf("loaded %s %dx%d\n", img.Format, b.Dx(), b.Dy())
	}

	// Another view of the same URL shares the loader
	fmt.Println("shared:", registry.Get("https://images.example.com/thumb.png") == loader)

	// Output:
	// state: loading
	// state: loaded
	// loaded png 4x3
	// shared: true
}
