package mainloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopRunsCallbacksOnOneGoroutine(t *testing.T) {
	loop := New(4)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	finished := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(finished)
	}()

	// no locking on `seen`, every write happens on the loop goroutine
	var seen []int
	wg := sync.WaitGroup{}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := loop.Post(ctx, func() {
				seen = append(seen, i)
			})
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	loop.Close()
	<-finished

	require.Len(t, seen, 20)
	require.ErrorIs(t, loop.Post(ctx, func() {}), ErrClosed)
}
