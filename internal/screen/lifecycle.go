// Package screen gives controllers a mounted lifetime: requests issued while
// mounted are cancelled on Close, and results that arrive afterwards are dropped.
package screen

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when a result arrives after the screen was closed.
var ErrClosed = errors.New("screen closed")

// Lifecycle is embedded by controllers. The zero value is not usable; call Mount.
type Lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc

	// Mu guards the embedding controller's state.
	Mu     sync.Mutex
	closed bool
}

// Mount starts the lifetime.
func (l *Lifecycle) Mount() {
	l.ctx, l.cancel = context.WithCancel(context.Background())
}

// Context derives a request context that ends when either the caller's
// context or the screen ends.
func (l *Lifecycle) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Apply runs fn under the state lock unless the screen has been closed.
func (l *Lifecycle) Apply(fn func()) error {
	l.Mu.Lock()
	defer l.Mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	fn()
	return nil
}

// Closed reports whether Close has been called.
func (l *Lifecycle) Closed() bool {
	l.Mu.Lock()
	defer l.Mu.Unlock()
	return l.closed
}

// Close ends the lifetime, abandoning in-flight requests. Idempotent.
func (l *Lifecycle) Close() {
	l.Mu.Lock()
	l.closed = true
	l.Mu.Unlock()
	l.cancel()
}
