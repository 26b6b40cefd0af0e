package fetcher

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"

	asyncimage "github.com/karupanerura/async-image"
)

// DefaultMaxBodySize is the default limit of a response body, in bytes.
const DefaultMaxBodySize int64 = 32 << 20

// HTTPFetcher fetches resources with plain HTTP GET requests.
type HTTPFetcher struct {
	client      *http.Client
	header      http.Header
	maxBodySize int64
}

var _ asyncimage.Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates a new HTTPFetcher. It uses http.DefaultClient unless WithHTTPClient is given.
func NewHTTPFetcher(opts ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      http.DefaultClient,
		header:      http.Header{},
		maxBodySize: DefaultMaxBodySize,
	}
	for _, o := range opts {
		o.apply(f)
	}
	return f
}

// Fetch performs a GET request for url and returns the response body.
// Responses with a status code outside 2xx are returned as *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	for key, values := range f.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "reading body of %s", url)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, errors.Wrapf(ErrBodyTooLarge, "%s exceeds %d bytes", url, f.maxBodySize)
	}
	return body, nil
}

// HTTPOption is the interface for the options of the HTTPFetcher.
type HTTPOption interface {
	apply(*HTTPFetcher)
}

type httpOptionFunc func(*HTTPFetcher)

func (f httpOptionFunc) apply(h *HTTPFetcher) {
	f(h)
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return httpOptionFunc(func(h *HTTPFetcher) {
		h.client = client
	})
}

// WithHeader adds a static header to every request.
func WithHeader(key, value string) HTTPOption {
	return httpOptionFunc(func(h *HTTPFetcher) {
		h.header.Add(key, value)
	})
}

// WithUserAgent sets the User-Agent header of every request.
func WithUserAgent(userAgent string) HTTPOption {
	return httpOptionFunc(func(h *HTTPFetcher) {
		h.header.Set("User-Agent", userAgent)
	})
}

// WithMaxBodySize sets the largest accepted response body, in bytes.
// The size must be a natural number.
func WithMaxBodySize(size int64) HTTPOption {
	if size <= 0 {
		panic("max body size must be natural number")
	}
	return httpOptionFunc(func(h *HTTPFetcher) {
		h.maxBodySize = size
	})
}
