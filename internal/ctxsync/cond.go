// Package ctxsync provides synchronization primitives that respect context cancellation.
package ctxsync

import (
	"context"
	"sync"
)

// Cond is a sync.Cond whose Wait can be abandoned through a context.
type Cond struct {
	*sync.Cond
}

// NewCond returns a Cond bound to l.
func NewCond(l sync.Locker) Cond {
	return Cond{Cond: sync.NewCond(l)}
}

// WaitCtx waits to be notified or canceled. The caller must hold c.L, as with Wait.
//
// If the context is done before the condition is notified, it returns the context error.
// In that case the caller no longer owns c.L: the lock is released in the background once
// the abandoned Wait wakes up, so the caller must not unlock it.
func (c Cond) WaitCtx(ctx context.Context) error {
	woken := make(chan struct{})
	go func() {
		defer close(woken)
		c.Cond.Wait()
	}()

	select {
	case <-woken:
		return nil
	case <-ctx.Done():
		go func() {
			defer c.Cond.L.Unlock()
			<-woken
		}()
		return ctx.Err()
	}
}
