package medrag

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingIngester struct {
	calls atomic.Int32
}

func (c *countingIngester) Ingest(ctx context.Context, root string) (IngestionReport, error) {
	c.calls.Add(1)
	return IngestionReport{}, nil
}

func Test_Watch(t *testing.T) {
	tmp := t.TempDir()
	ing := &countingIngester{}
	watcher := NewWatcher(discardLogger(), tmp, 50*time.Millisecond, ing)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- watcher.Watch(ctx) }()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(tmp, "f1.txt"), []byte("f1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "f2.txt"), []byte("f2"), 0o644))

	assert.Eventually(t, func() bool {
		return ing.calls.Load() >= 1
	}, 2*time.Second, 20*time.Millisecond)

	// The burst of writes collapses into a small number of re-syncs.
	assert.LessOrEqual(t, ing.calls.Load(), int32(2))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}

func Test_Watch_MissingRoot(t *testing.T) {
	watcher := NewWatcher(discardLogger(), "does/not/exist", time.Millisecond, &countingIngester{})
	assert.Error(t, watcher.Watch(context.Background()))
}
