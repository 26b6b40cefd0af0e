package fetcher_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/karupanerura/async-image/fetcher"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/ok.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png bytes"))
	})
	mux.HandleFunc("/headers", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Header.Get("User-Agent") + "|" + r.Header.Get("Authorization")))
	})
	mux.HandleFunc("/large", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 17)))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		f := fetcher.NewHTTPFetcher(fetcher.WithHTTPClient(server.Client()))
		body, err := f.Fetch(t.Context(), server.URL+"/ok.png")
		if err != nil {
			t.Fatal(err)
		}
		if string(body) != "png bytes" {
			t.Errorf("unexpected body: %q", body)
		}
	})

	t.Run("Headers", func(t *testing.T) {
		t.Parallel()

		f := fetcher.NewHTTPFetcher(
			fetcher.WithHTTPClient(server.Client()),
			fetcher.WithUserAgent("photoloader/test"),
			fetcher.WithHeader("Authorization", "Client-ID abc"),
		)
		body, err := f.Fetch(t.Context(), server.URL+"/headers")
		if err != nil {
			t.Fatal(err)
		}
		if string(body) != "photoloader/test|Client-ID abc" {
			t.Errorf("unexpected body: %q", body)
		}
	})

	t.Run("StatusError", func(t *testing.T) {
		t.Parallel()

		f := fetcher.NewHTTPFetcher(fetcher.WithHTTPClient(server.Client()))
		_, err := f.Fetch(t.Context(), server.URL+"/missing")
		var statusErr *fetcher.StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected error to be of type *fetcher.StatusError, got: %T", err)
		}
		if statusErr.StatusCode != http.StatusNotFound {
			t.Errorf("unexpected status code: %d", statusErr.StatusCode)
		}
	})

	t.Run("BodyTooLarge", func(t *testing.T) {
		t.Parallel()

		f := fetcher.NewHTTPFetcher(fetcher.WithHTTPClient(server.Client()), fetcher.WithMaxBodySize(16))
		_, err := f.Fetch(t.Context(), server.URL+"/large")
		if !errors.Is(err, fetcher.ErrBodyTooLarge) {
			t.Errorf("unexpected error: %v (expected: %v)", err, fetcher.ErrBodyTooLarge)
		}
	})

	t.Run("BodyAtLimit", func(t *testing.T) {
		t.Parallel()

		f := fetcher.NewHTTPFetcher(fetcher.WithHTTPClient(server.Client()), fetcher.WithMaxBodySize(17))
		body, err := f.Fetch(t.Context(), server.URL+"/large")
		if err != nil {
			t.Fatal(err)
		}
		if len(body) != 17 {
			t.Errorf("unexpected body length: %d", len(body))
		}
	})

	t.Run("InvalidURL", func(t *testing.T) {
		t.Parallel()

		f := fetcher.NewHTTPFetcher()
		if _, err := f.Fetch(t.Context(), "://not a url"); err == nil {
			t.Error("expected error for an invalid URL")
		}
	})
}

func TestWithMaxBodySize(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for a zero body size, but did not panic")
		}
	}()
	fetcher.WithMaxBodySize(0)
}
