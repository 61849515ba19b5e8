package db

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestHandleConcurrentFirstUseConnectsOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	want := new(mongo.Client)

	h := NewHandle("mongodb://unused", "test", WithConnectFunc(func(ctx context.Context, uri string) (*mongo.Client, error) {
		calls.Add(1)
		<-release
		return want, nil
	}))

	const callers = 16
	var wg sync.WaitGroup
	got := make([]*mongo.Client, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = h.Client(context.Background())
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, want, got[i])
	}
}

func TestHandleRetriesAfterFailedConnect(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("no reachable servers")
	want := new(mongo.Client)

	h := NewHandle("mongodb://unused", "test", WithConnectFunc(func(ctx context.Context, uri string) (*mongo.Client, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return want, nil
	}))

	_, err := h.Client(context.Background())
	assert.ErrorIs(t, err, boom)

	c, err := h.Client(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, c)

	// cached from here on
	c, err = h.Client(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, c)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHandleConnectSurvivesCallerCancellation(t *testing.T) {
	want := new(mongo.Client)
	h := NewHandle("mongodb://unused", "test", WithConnectFunc(func(ctx context.Context, uri string) (*mongo.Client, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return want, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := h.Client(ctx)
	require.NoError(t, err)
	assert.Same(t, want, c)
}
