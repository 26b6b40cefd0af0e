// Package panicutil runs functions that must not take their goroutine down with them.
package panicutil

import (
	"github.com/sourcegraph/conc/panics"
)

// Call runs f and returns its results.
//
// A panic in f is recovered and returned as a *panics.ErrRecovered error.
// If f calls runtime.Goexit, onGoexit (if not nil) runs while the goroutine unwinds,
// and Call does not return.
func Call[T any](f func() (T, error), onGoexit func()) (result T, err error) {
	var (
		returned  bool
		recovered *panics.Recovered
	)
	defer func() {
		if returned || recovered != nil {
			return
		}
		// neither a return nor a panic: f called runtime.Goexit
		if onGoexit != nil {
			onGoexit()
		}
	}()
	func() {
		defer func() {
			if r := recover(); r != nil {
				rec := panics.NewRecovered(2, r)
				recovered = &rec
			}
		}()
		result, err = f()
		returned = true
	}()
	if recovered != nil {
		var zero T
		result, err = zero, recovered.AsError()
	}
	return
}
