package inmemory

import (
	asyncimage "github.com/karupanerura/async-image"
	"github.com/karupanerura/async-image/expiration"
	"github.com/karupanerura/async-image/internal/keyhash"
)

// DefaultBucketsSize is the default number of buckets in the cache.
var DefaultBucketsSize = 64

// Option is the interface for the options of the in-memory cache.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) {
	f(o)
}

// WithKeyHash sets the hash function used to pick the bucket of a URL.
func WithKeyHash(f func(url string) int) Option {
	return optionFunc(func(o *options) {
		o.hashKey = f
	})
}

// WithBucketsSize sets the number of buckets in the cache.
// The number of buckets must be a natural number.
func WithBucketsSize(bucketsSize int) Option {
	if bucketsSize <= 0 {
		panic("bucketSize must be natural number")
	}
	return optionFunc(func(o *options) {
		o.bucketsSize = bucketsSize
	})
}

// WithClock sets the clock used to check expiration.
func WithClock(clock asyncimage.Clock) Option {
	return optionFunc(func(o *options) {
		o.clock = clock
	})
}

// WithExpirationPolicy sets the policy that decides whether a stored response is stale.
// The default policy is expiration.General.
func WithExpirationPolicy(policy expiration.Policy) Option {
	return optionFunc(func(o *options) {
		o.policy = policy
	})
}

type options struct {
	hashKey     func(string) int
	bucketsSize int
	clock       asyncimage.Clock
	policy      expiration.Policy
}

func defaultOptions() options {
	return options{
		hashKey:     keyhash.String,
		bucketsSize: DefaultBucketsSize,
		clock:       asyncimage.SystemClock,
		policy:      expiration.General{},
	}
}
