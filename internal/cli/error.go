package cli

import (
	"errors"
)

type usageError struct {
	error
}

func newUsageError(msg string) usageError {
	return usageError{error: errors.New(msg)}
}

// IsUsageError reports whether err was caused by invalid command line input.
func IsUsageError(err error) bool {
	var u usageError
	return errors.As(err, &u)
}

var errorWantedQuery = newUsageError("expected a search query, or --sample")
var errorWantedURLs = newUsageError("expected one or more image URLs")
