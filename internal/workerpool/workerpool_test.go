package workerpool

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubmitReturnsResult(t *testing.T) {
	t.Parallel()

	p := New(2)
	f, err := Submit(p, func() (int, error) { return 42, nil })
	require.NoError(t, err)

	v, err := f.Wait()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestSubmitPropagatesError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	p := New(2)
	f, err := Submit(p, func() (int, error) { return 0, wantErr })
	require.NoError(t, err)

	_, err = f.Wait()
	require.ErrorIs(t, err, wantErr)
}

func TestSubmitAfterShutdown(t *testing.T) {
	t.Parallel()

	p := New(1)
	p.Shutdown()

	_, err := Submit(p, func() (int, error) { return 0, nil })
	require.ErrorIs(t, err, ErrShutDown)
}

func TestParallelForEachVisitsEveryItem(t *testing.T) {
	t.Parallel()

	p := New(4)
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	var visited atomic.Int64
	err := ParallelForEach(p, items, func(_ int, v int) error {
		visited.Add(int64(v))
		return nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 100*99/2, visited.Load())
}

func TestParallelForEachSurfacesFirstError(t *testing.T) {
	t.Parallel()

	p := New(4)
	items := []int{1, 2, 3, 4, 5}
	wantErr := errors.New("task failed")

	err := ParallelForEach(p, items, func(i int, v int) error {
		if v == 3 {
			return wantErr
		}
		return nil
	})
	require.ErrorIs(t, err, wantErr)
}

func TestGetReturnsSameSingleton(t *testing.T) {
	t.Parallel()

	require.Same(t, Get(), Get())
}
