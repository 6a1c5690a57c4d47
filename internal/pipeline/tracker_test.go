package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_SupersedesSameKey(t *testing.T) {
	tr := NewTracker()

	ctx1, first := tr.Begin(context.Background(), "session-a")
	ctx2, second := tr.Begin(context.Background(), "session-a")

	assert.Greater(t, second.ID, first.ID)
	assert.False(t, tr.IsCurrent(first))
	assert.True(t, tr.IsCurrent(second))

	require.Error(t, ctx1.Err(), "previous request is canceled")
	assert.ErrorIs(t, context.Cause(ctx1), ErrSuperseded)
	assert.NoError(t, ctx2.Err())

	tr.End(first)
	assert.True(t, tr.IsCurrent(second), "ending a stale ticket keeps the newer one")
	assert.Equal(t, second.ID, tr.Latest("session-a"))

	tr.End(second)
	assert.Equal(t, uint64(0), tr.Latest("session-a"))
	assert.Error(t, ctx2.Err(), "End releases the context")
}

func TestTracker_KeysAreIndependent(t *testing.T) {
	tr := NewTracker()

	ctxA, a := tr.Begin(context.Background(), "a")
	_, b := tr.Begin(context.Background(), "b")

	assert.True(t, tr.IsCurrent(a))
	assert.True(t, tr.IsCurrent(b))
	assert.NoError(t, ctxA.Err())
}

func TestTracker_EmptyKey(t *testing.T) {
	tr := NewTracker()

	ctx1, first := tr.Begin(context.Background(), "")
	_, second := tr.Begin(context.Background(), "")

	assert.True(t, tr.IsCurrent(first))
	assert.True(t, tr.IsCurrent(second))
	assert.NoError(t, ctx1.Err())

	tr.End(first)
	assert.Error(t, ctx1.Err())
}

func TestTracker_ConcurrentIDsAreUnique(t *testing.T) {
	tr := NewTracker()

	var (
		mu  sync.Mutex
		ids = map[uint64]bool{}
		wg  sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, tk := tr.Begin(context.Background(), "shared")
			mu.Lock()
			ids[tk.ID] = true
			mu.Unlock()
			tr.End(tk)
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 50)
	assert.Equal(t, uint64(0), tr.Latest("shared"))
}
