// Package keyhash hashes cache keys for bucket selection.
package keyhash

import (
	"hash"
	"hash/fnv"
	"sync"
)

const (
	// intSize is the size of an int in bits.
	intSize = 32 << (^uint(0) >> 63)
)

// String returns the FNV-1a hash of s.
// It uses the 64-bit variant when int is 64 bits wide and the 32-bit variant otherwise.
// The result may be negative.
func String(s string) int {
	if intSize == 32 {
		h := hash32Pool.Get()
		defer hash32Pool.Put(h)
		_, _ = h.Write([]byte(s))
		return int(h.Sum32())
	}

	h := hash64Pool.Get()
	defer hash64Pool.Put(h)
	_, _ = h.Write([]byte(s))
	return int(h.Sum64())
}

// hash32Pool is a pool for 32-bit FNV-1a hash objects.
var hash32Pool = &resettablePool[hash.Hash32]{
	pool: sync.Pool{
		New: func() any {
			return fnv.New32a()
		},
	},
}

// hash64Pool is a pool for 64-bit FNV-1a hash objects.
var hash64Pool = &resettablePool[hash.Hash64]{
	pool: sync.Pool{
		New: func() any {
			return fnv.New64a()
		},
	},
}

// resetter is implemented by objects that can be returned to a resettablePool.
type resetter interface {
	Reset()
}

// resettablePool is a sync.Pool that resets objects before reuse.
type resettablePool[H resetter] struct {
	pool sync.Pool
}

// Put resets h and adds it to the pool.
func (p *resettablePool[H]) Put(h H) {
	h.Reset()
	p.pool.Put(h)
}

// Get retrieves an object from the pool.
func (p *resettablePool[H]) Get() H {
	return p.pool.Get().(H)
}
