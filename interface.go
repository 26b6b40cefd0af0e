package asyncimage

import (
	"context"
	"image"
	"time"
)

// Image is a decoded image together with the bytes it was decoded from.
// It is immutable once a Loader has published it.
type Image struct {
	// URL is the resource the image was loaded from.
	URL string

	// Data is the raw response body exactly as the fetcher or the response cache returned it.
	Data []byte

	// Format is the format name reported by the decoder. (e.g. "jpeg", "png")
	Format string

	// Decoded is the decoded image.
	Decoded image.Image
}

// Response is a cached response body for a URL.
type Response struct {
	// URL is the key of the response.
	URL string

	// Body is the raw response body.
	Body []byte

	// ExpiresAt is the expiration time of the response.
	// This field is required for all responses.
	ExpiresAt time.Time
}

// Fetcher fetches the raw bytes of a remote resource.
// Implementations must be thread-safe.
type Fetcher interface {
	// Fetch retrieves the body of the resource at url.
	// Any transport-level or protocol-level failure is returned as an error.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc is a function type that implements the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls the function.
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// ResponseCache is a local cache of response bodies keyed by URL.
// Implementations must be thread-safe.
type ResponseCache interface {
	// Get retrieves a cached response by its URL.
	// If the URL is not cached or the response is expired, it returns nil as the Response.
	// It must clone the returned body before returning it.
	Get(ctx context.Context, url string) (*Response, error)

	// Set stores a response. If the URL already exists, it overwrites the existing response.
	// It must clone the body before storing it.
	Set(ctx context.Context, resp *Response) error
}

// Decoder decodes raw bytes into an image.
type Decoder interface {
	// Decode returns the decoded image and its format name.
	// It returns an error if data is not a valid image of any known format.
	Decode(data []byte) (image.Image, string, error)
}

// DecoderFunc is a function type that implements the Decoder interface.
type DecoderFunc func(data []byte) (image.Image, string, error)

// Decode calls the function.
func (f DecoderFunc) Decode(data []byte) (image.Image, string, error) {
	return f(data)
}
