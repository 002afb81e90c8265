package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egdmrsy/TruBudget-SvKit/internal/cache"
	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
	"github.com/egdmrsy/TruBudget-SvKit/internal/ledger"
)

var ts = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// mockReader is a ledger.Reader with a func field and a call counter.
type mockReader struct {
	calls atomic.Int32
	readF func(ctx context.Context, streamKey, itemKey string, count int) ([]ledger.Item, error)
}

func (m *mockReader) ReadStreamItems(ctx context.Context, streamKey, itemKey string, count int) ([]ledger.Item, error) {
	m.calls.Add(1)
	return m.readF(ctx, streamKey, itemKey, count)
}

func seeded(t *testing.T) *ledger.Memory {
	t.Helper()

	mem := ledger.NewMemory()
	require.NoError(t, mem.Append("p1", ledger.ProjectItemKey, ledger.EventRecord{
		Intent: domain.IntentCreateProject, CreatedBy: "mstein", CreatedAt: ts,
		Snapshot: domain.Snapshot{DisplayName: "Schools"},
	}))
	require.NoError(t, mem.Append("p1", ledger.SubprojectItemKey("sp1"), ledger.EventRecord{
		Intent: domain.IntentProjectCreateSubproject, CreatedBy: "mstein", CreatedAt: ts,
		Snapshot: domain.Snapshot{DisplayName: "Roof"},
	}))
	require.NoError(t, mem.Append("p1", ledger.WorkflowitemItemKey("sp1", "wf1"), ledger.EventRecord{
		Intent: domain.IntentSubprojectCreateWorkflowitem, CreatedBy: "mstein", CreatedAt: ts,
		Snapshot: domain.Snapshot{DisplayName: "Invoice"},
	}))
	return mem
}

func counting(inner ledger.Reader) *mockReader {
	return &mockReader{readF: inner.ReadStreamItems}
}

func TestCache_DeduplicatesSequentialLookups(t *testing.T) {
	t.Parallel()

	reader := counting(seeded(t))
	c := cache.New(reader)
	ctx := context.Background()

	for range 3 {
		p, err := c.GetProject(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Schools", p.DisplayName)
	}
	s, err := c.GetSubproject(ctx, "p1", "sp1")
	require.NoError(t, err)
	assert.Equal(t, "Roof", s.DisplayName)

	w, err := c.GetWorkflowitem(ctx, domain.WorkflowitemPath{ProjectID: "p1", SubprojectID: "sp1", WorkflowitemID: "wf1"})
	require.NoError(t, err)
	assert.Equal(t, "Invoice", w.DisplayName)

	assert.Equal(t, int32(3), reader.calls.Load())
	assert.Equal(t, 3, c.Len())
}

func TestCache_ConcurrentLookupsShareOneRead(t *testing.T) {
	t.Parallel()

	mem := seeded(t)
	release := make(chan struct{})
	reader := &mockReader{readF: func(ctx context.Context, streamKey, itemKey string, count int) ([]ledger.Item, error) {
		<-release
		return mem.ReadStreamItems(ctx, streamKey, itemKey, count)
	}}
	c := cache.New(reader)

	const n = 8
	var wg sync.WaitGroup
	results := make([]*domain.Project, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = c.GetProject(context.Background(), "p1")
		}()
	}

	// Give the goroutines time to pile up behind the blocked read.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, int32(1), reader.calls.Load())
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	mem := seeded(t)
	fail := atomic.Bool{}
	fail.Store(true)
	boom := errors.New("connection reset")
	reader := &mockReader{readF: func(ctx context.Context, streamKey, itemKey string, count int) ([]ledger.Item, error) {
		if fail.Load() {
			return nil, boom
		}
		return mem.ReadStreamItems(ctx, streamKey, itemKey, count)
	}}
	c := cache.New(reader)

	_, err := c.GetProject(context.Background(), "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	fail.Store(false)
	p, err := c.GetProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, int32(2), reader.calls.Load())
}

func TestCache_NotFound(t *testing.T) {
	t.Parallel()

	c := cache.New(ledger.NewMemory())

	_, err := c.GetProject(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.GetWorkflowitem(context.Background(), domain.WorkflowitemPath{ProjectID: "p1", SubprojectID: "sp1", WorkflowitemID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, c.Len())
}

func TestCache_CancelledContextIsNotCached(t *testing.T) {
	t.Parallel()

	reader := counting(seeded(t))
	c := cache.New(reader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetProject(ctx, "p1")
	require.ErrorIs(t, err, context.Canceled)

	_, err = c.GetProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestWithCache(t *testing.T) {
	t.Parallel()

	reader := counting(seeded(t))

	t.Run("nested calls reuse the outer cache", func(t *testing.T) {
		t.Parallel()

		err := cache.WithCache(context.Background(), reader, func(ctx context.Context, outer *cache.Cache) error {
			got, ok := cache.FromContext(ctx)
			require.True(t, ok)
			assert.Same(t, outer, got)

			return cache.WithCache(ctx, reader, func(_ context.Context, inner *cache.Cache) error {
				assert.Same(t, outer, inner)
				assert.Equal(t, outer.ID(), inner.ID())
				return nil
			})
		})
		require.NoError(t, err)
	})

	t.Run("separate requests get separate caches", func(t *testing.T) {
		t.Parallel()

		var first, second *cache.Cache
		require.NoError(t, cache.WithCache(context.Background(), reader, func(_ context.Context, c *cache.Cache) error {
			first = c
			return nil
		}))
		require.NoError(t, cache.WithCache(context.Background(), reader, func(_ context.Context, c *cache.Cache) error {
			second = c
			return nil
		}))
		assert.NotSame(t, first, second)
		assert.NotEqual(t, first.ID(), second.ID())
	})

	t.Run("fn error is returned", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		err := cache.WithCache(context.Background(), reader, func(context.Context, *cache.Cache) error { return boom })
		assert.ErrorIs(t, err, boom)
	})
}
