package asyncimage

import (
	"github.com/go-kit/kit/log"
)

// LoaderOption is the interface for the options of the Loader.
type LoaderOption interface {
	apply(*Loader)
}

type loaderOptionFunc func(*Loader)

func (f loaderOptionFunc) apply(l *Loader) {
	f(l)
}

// WithResponseCache sets the response cache probed by Loader.CheckCache.
// Without it, CheckCache never finds anything.
func WithResponseCache(cache ResponseCache) LoaderOption {
	return loaderOptionFunc(func(l *Loader) {
		l.cache = cache
	})
}

// WithDecoder sets the image decoder.
// The default decoder is decode.Image, which understands JPEG, PNG, GIF, WebP, BMP and TIFF.
func WithDecoder(decoder Decoder) LoaderOption {
	return loaderOptionFunc(func(l *Loader) {
		l.decoder = decoder
	})
}

// WithLogger sets the logger that receives swallowed load failures.
// The default logger discards everything.
func WithLogger(logger log.Logger) LoaderOption {
	return loaderOptionFunc(func(l *Loader) {
		l.logger = logger
	})
}

// WithDispatcher sets how change notifications are delivered to observers.
// A UI toolkit would pass a function that runs the callback on its main thread.
// The default dispatcher runs the callback inline on the goroutine that changed the state.
func WithDispatcher(dispatch func(func())) LoaderOption {
	return loaderOptionFunc(func(l *Loader) {
		l.dispatch = dispatch
	})
}
