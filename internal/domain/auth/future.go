package auth

import (
	"context"
	"fmt"
	"sync"
)

// ErrAwaitCancelled is the result of a cancelled Future.
var ErrAwaitCancelled = fmt.Errorf("wait for authentication state cancelled")

// Future resolves once with the first state published by a Source.
type Future struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
	state    State
	err      error
	unsub    func()
}

// AwaitFirst subscribes to src and returns a Future that resolves with the
// first observed state, then unsubscribes itself.
func AwaitFirst(src Source) *Future {
	f := &Future{done: make(chan struct{})}
	unsubscribe := src.Subscribe(func(s State) {
		f.settle(s, nil)
	})
	f.attach(unsubscribe)
	return f
}

// Done is closed once the future is resolved or cancelled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future resolves or ctx ends. A ctx ending cancels the future.
func (f *Future) Wait(ctx context.Context) (State, error) {
	select {
	case <-f.done:
		return f.state, f.err
	case <-ctx.Done():
		f.Cancel()
		// Resolution may have won the race.
		<-f.done
		if f.err == nil {
			return f.state, nil
		}
		return State{}, ctx.Err()
	}
}

// Cancel resolves the future with ErrAwaitCancelled and drops the subscription.
// It has no effect on an already resolved future.
func (f *Future) Cancel() {
	f.settle(State{}, ErrAwaitCancelled)
}

func (f *Future) settle(s State, err error) {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return
	}
	f.resolved = true
	f.state = s
	f.err = err
	unsub := f.unsub
	f.unsub = nil
	close(f.done)
	f.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// attach stores the unsubscribe hook, or runs it right away when the
// subscription already delivered a state during Subscribe.
func (f *Future) attach(unsub func()) {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		unsub()
		return
	}
	f.unsub = unsub
	f.mu.Unlock()
}
