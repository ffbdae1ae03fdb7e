package workerpool

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitResolvesAllFutures(t *testing.T) {
	p := New(4)
	defer p.Close()

	futures := make([]*Future[int], 50)
	for i := range futures {
		i := i
		futures[i] = Submit(p, func() (int, error) { return i * i, nil })
	}

	for i, f := range futures {
		v, err := f.Get()
		require.NoError(t, err)
		assert.Equal(t, i*i, v)
	}
}

func TestSubmitPropagatesError(t *testing.T) {
	p := New(2)
	defer p.Close()

	boom := errors.New("boom")
	f := Submit(p, func() (int, error) { return 0, boom })

	_, err := f.Get()
	assert.ErrorIs(t, err, boom)
}

func TestSubmitNeverDropsWork(t *testing.T) {
	p := New(1)
	defer p.Close()

	var completed int64
	futures := make([]*Future[struct{}], 20)
	for i := range futures {
		futures[i] = Submit(p, func() (struct{}, error) {
			atomic.AddInt64(&completed, 1)
			return struct{}{}, nil
		})
	}

	for _, f := range futures {
		_, _ = f.Get()
	}

	assert.EqualValues(t, len(futures), atomic.LoadInt64(&completed))
}

func TestFutureReadyBeforeGet(t *testing.T) {
	p := New(1)
	defer p.Close()

	block := make(chan struct{})
	f := Submit(p, func() (int, error) {
		<-block
		return 7, nil
	})

	assert.False(t, f.Ready())
	close(block)

	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.True(t, f.Ready())

	// a second Get must not hang or re-run the function.
	var v2 int
	var err2 error
	got := make(chan struct{})
	go func() {
		v2, err2 = f.Get()
		close(got)
	}()
	select {
	case <-time.After(time.Second):
		t.Fatal("second Get blocked")
	case <-got:
	}
	require.NoError(t, err2)
	assert.Equal(t, 7, v2)
}
