package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderMissThenHit(t *testing.T) {
	for _, coalesce := range []bool{false, true} {
		l := NewLoader(newTestCache(t, 10, 1000), coalesce)
		k := testKey(t, "A")

		var calls int32
		compute := func(context.Context) ([]byte, Kind, error) {
			atomic.AddInt32(&calls, 1)
			return []byte("<svg/>"), KindSVG, nil
		}

		e, status, err := l.Get(context.Background(), k, compute)
		require.NoError(t, err)
		assert.Equal(t, Miss, status)
		assert.Equal(t, []byte("<svg/>"), e.Payload)
		assert.Equal(t, KindSVG, e.Kind)

		e, status, err = l.Get(context.Background(), k, compute)
		require.NoError(t, err)
		assert.Equal(t, Hit, status)
		assert.Equal(t, []byte("<svg/>"), e.Payload)

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

		s := l.Cache().Stats()
		assert.Equal(t, int64(1), s.Misses, "coalesce=%t", coalesce)
		assert.Equal(t, int64(1), s.Hits, "coalesce=%t", coalesce)
	}
}

func TestLoaderDoesNotCacheFailures(t *testing.T) {
	l := NewLoader(newTestCache(t, 10, 1000), true)
	k := testKey(t, "A")
	boom := errors.New("renderer exploded")

	_, _, err := l.Get(context.Background(), k, func(context.Context) ([]byte, Kind, error) {
		return nil, 0, boom
	})
	assert.Same(t, boom, err)
	assert.Equal(t, int64(0), l.Cache().Stats().ItemCount)

	_, status, err := l.Get(context.Background(), k, func(context.Context) ([]byte, Kind, error) {
		return []byte("{}"), KindJSON, nil
	})
	require.NoError(t, err)
	assert.Equal(t, Miss, status)
}

func TestLoaderCoalescesConcurrentMisses(t *testing.T) {
	l := NewLoader(newTestCache(t, 10, 1000), true)
	k := testKey(t, "A")

	release := make(chan struct{})
	started := make(chan struct{})
	var calls int32
	compute := func(context.Context) ([]byte, Kind, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return []byte("{}"), KindJSON, nil
	}

	const waiters = 5
	statuses := make([]Status, waiters+1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, statuses[0], _ = l.Get(context.Background(), k, compute)
	}()
	<-started

	var queued sync.WaitGroup
	for ii := 1; ii <= waiters; ii++ {
		wg.Add(1)
		queued.Add(1)
		go func(ii int) {
			defer wg.Done()
			queued.Done()
			_, statuses[ii], _ = l.Get(context.Background(), k, compute)
		}(ii)
	}
	queued.Wait()
	// Give the waiters time to join the flight
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, Miss, statuses[0])
	for ii := 1; ii <= waiters; ii++ {
		assert.Contains(t, []Status{Shared, Hit}, statuses[ii])
	}
}

func TestLoaderComputeOutlivesCancelledCaller(t *testing.T) {
	l := NewLoader(newTestCache(t, 10, 1000), true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := l.Get(ctx, testKey(t, "A"), func(ctx context.Context) ([]byte, Kind, error) {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		return []byte("{}"), KindJSON, nil
	})
	require.NoError(t, err)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "HIT", Hit.String())
	assert.Equal(t, "MISS", Miss.String())
	assert.Equal(t, "SHARED", Shared.String())
}
