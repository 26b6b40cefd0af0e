package fetcher

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrBodyTooLarge is returned when a response body exceeds the configured limit.
var ErrBodyTooLarge = errors.New("response body too large")

var errGoexit = errors.New("runtime.Goexit is called")

// StatusError is returned for responses with a non-2xx status code.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}
