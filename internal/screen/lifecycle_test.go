package screen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_CloseCancelsRequests(t *testing.T) {
	var l Lifecycle
	l.Mount()

	ctx, done := l.Context(context.Background())
	defer done()

	l.Close()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("request context not cancelled on close")
	}
	assert.True(t, l.Closed())
}

func TestLifecycle_ApplyAfterCloseIsDropped(t *testing.T) {
	var l Lifecycle
	l.Mount()

	applied := 0
	require.NoError(t, l.Apply(func() { applied++ }))

	l.Close()
	l.Close()
	assert.ErrorIs(t, l.Apply(func() { applied++ }), ErrClosed)
	assert.Equal(t, 1, applied)
}

func TestLifecycle_ParentCancel(t *testing.T) {
	var l Lifecycle
	l.Mount()
	defer l.Close()

	parent, cancel := context.WithCancel(context.Background())
	ctx, done := l.Context(parent)
	defer done()

	cancel()
	<-ctx.Done()
	assert.False(t, l.Closed())
}
