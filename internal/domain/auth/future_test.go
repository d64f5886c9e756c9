package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

func newFakeSource(s State) *fakeSource {
	return &fakeSource{state: s, subs: map[int]func(State){}}
}

func (f *fakeSource) Current() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeSource) Subscribe(fn func(State)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	current := f.state
	f.mu.Unlock()

	if current.Status != StatusUnknown {
		fn(current)
	}
	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

func (f *fakeSource) publish(s State) {
	f.mu.Lock()
	f.state = s
	fns := make([]func(State), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

func (f *fakeSource) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func TestAwaitFirst_AlreadyResolved(t *testing.T) {
	src := newFakeSource(Authenticated("42"))

	fut := AwaitFirst(src)
	state, err := fut.Wait(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Authenticated("42"), state)
	assert.Zero(t, src.subscribers(), "future must unsubscribe after resolving")
}

func TestAwaitFirst_ResolvesOnFirstPublish(t *testing.T) {
	src := newFakeSource(State{})
	fut := AwaitFirst(src)
	assert.Equal(t, 1, src.subscribers())

	go src.publish(Unauthenticated())

	state, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusUnauthenticated, state.Status)
	assert.Zero(t, src.subscribers())

	// Later states do not change the resolved value.
	src.publish(Authenticated("7"))
	state, err = fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusUnauthenticated, state.Status)
}

func TestFuture_Cancel(t *testing.T) {
	src := newFakeSource(State{})
	fut := AwaitFirst(src)

	fut.Cancel()
	<-fut.Done()

	_, err := fut.Wait(context.Background())
	assert.ErrorIs(t, err, ErrAwaitCancelled)
	assert.Zero(t, src.subscribers())
}

func TestFuture_WaitContextTimeout(t *testing.T) {
	src := newFakeSource(State{})
	fut := AwaitFirst(src)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fut.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, src.subscribers())
}

func TestState_Principal(t *testing.T) {
	id, ok := Authenticated("1").Principal()
	assert.True(t, ok)
	assert.Equal(t, "1", id)

	_, ok = State{}.Principal()
	assert.False(t, ok)
	_, ok = Unauthenticated().Principal()
	assert.False(t, ok)
	assert.Equal(t, "unknown", StatusUnknown.String())
}
