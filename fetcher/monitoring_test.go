package fetcher_test

import (
	"context"
	"errors"
	"testing"

	asyncimage "github.com/karupanerura/async-image"
	"github.com/karupanerura/async-image/fetcher"
)

func TestInstrument(t *testing.T) {
	t.Parallel()

	sourceErr := errors.New("source error")
	f := fetcher.Instrument(asyncimage.FetcherFunc(func(_ context.Context, url string) ([]byte, error) {
		if url == "https://example.com/broken" {
			return nil, sourceErr
		}
		return []byte(url), nil
	}))

	body, err := f.Fetch(t.Context(), "https://example.com/ok")
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "https://example.com/ok" {
		t.Errorf("unexpected body: %q", body)
	}

	if _, err := f.Fetch(t.Context(), "https://example.com/broken"); !errors.Is(err, sourceErr) {
		t.Errorf("unexpected error: %v (expected: %v)", err, sourceErr)
	}
}
