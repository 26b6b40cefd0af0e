package asyncimage

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNetwork indicates that fetching the resource failed, whatever the cause.
	ErrNetwork = errors.New("fetch failed")

	// ErrDecode indicates that the fetched bytes are not a valid image.
	ErrDecode = errors.New("not a decodable image")

	// ErrStaleResult is returned by Loader.Load when the completion was discarded
	// because the loader was repointed or reloaded while the fetch was in flight.
	ErrStaleResult = errors.New("stale load result discarded")
)

// LoadError describes a failed load.
// It matches ErrNetwork or ErrDecode with errors.Is, depending on where the load failed.
type LoadError struct {
	URL  string
	Kind error
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v: %v", e.URL, e.Kind, e.Err)
}

// Unwrap returns both the kind and the underlying cause.
func (e *LoadError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func networkError(url string, err error) *LoadError {
	return &LoadError{URL: url, Kind: ErrNetwork, Err: err}
}

func decodeError(url string, err error) *LoadError {
	return &LoadError{URL: url, Kind: ErrDecode, Err: err}
}
