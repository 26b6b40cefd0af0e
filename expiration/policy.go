package expiration

import (
	"math/rand/v2"
	"time"
)

// Policy decides whether a response that expires at expiresAt is stale at now.
type Policy interface {
	IsExpired(now, expiresAt time.Time) bool
}

// PolicyFunc is a function type that implements the Policy interface.
type PolicyFunc func(now, expiresAt time.Time) bool

// IsExpired calls the function.
func (f PolicyFunc) IsExpired(now, expiresAt time.Time) bool {
	return f(now, expiresAt)
}

// General expires a response exactly at its expiration time.
type General struct{}

var _ Policy = General{}

// IsExpired reports whether now is at or after expiresAt.
func (General) IsExpired(now, expiresAt time.Time) bool {
	return !expiresAt.After(now)
}

// Never keeps every response fresh forever, ignoring expiration times.
// This mirrors an HTTP cache configured to always reuse what it has.
type Never struct{}

var _ Policy = Never{}

// IsExpired always returns false.
func (Never) IsExpired(now, expiresAt time.Time) bool {
	return false
}

// Early may expire a response up to Duration before its expiration time.
// Callers then refresh popular images at different times instead of all at once.
type Early struct {
	// Duration is how much earlier the response can expire.
	Duration time.Duration

	// Percentage is the chance, in [0, 1], that a lookup applies the early window.
	Percentage float64

	// Random decides whether the early window applies.
	// If nil, the default system random generator is used.
	Random *rand.Rand
}

var _ Policy = (*Early)(nil)

// IsExpired behaves like General, except that with probability Percentage it
// checks now+Duration instead of now.
func (p *Early) IsExpired(now, expiresAt time.Time) bool {
	if p.randFloat64() >= p.Percentage {
		return !expiresAt.After(now)
	}
	return !expiresAt.After(now.Add(p.Duration))
}

func (p *Early) randFloat64() float64 {
	if p.Random == nil {
		return rand.Float64()
	}
	return p.Random.Float64()
}
