package mainthread

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunsInPostOrder(t *testing.T) {
	loop := NewLoop()
	var got []int
	for i := 0; i < 2000; i++ {
		loop.Post(func() { got = append(got, i) })
	}
	loop.Close()

	done := make(chan struct{})
	go func() {
		loop.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for loop to drain")
	}
	require.Len(t, got, 2000)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoopDropsPostsAfterClose(t *testing.T) {
	loop := NewLoop()
	loop.Close()
	ran := false
	loop.Post(func() { ran = true })
	loop.Run(context.Background())
	assert.False(t, ran)
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	executed := make(chan struct{})
	loop.Post(func() { close(executed) })
	select {
	case <-executed:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for posted work")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for loop to stop")
	}
}

func TestInlineRunsImmediately(t *testing.T) {
	ran := false
	Inline{}.Post(func() { ran = true })
	assert.True(t, ran)
}
