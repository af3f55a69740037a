package ixgest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReingestsOnChange(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"RD1.htm": birthDoc})
	proc, store := newTestProcessor(t, Options{SkipUnchanged: true})

	w, err := NewWatcher(dir, proc, 100*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	results := make(chan *ProcessingResult, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(r *ProcessingResult, err error) {
			if err != nil {
				if ctx.Err() == nil {
					t.Errorf("run failed: %v", err)
				}
				return
			}
			results <- r
		})
	}()

	next := func() *ProcessingResult {
		select {
		case r := <-results:
			return r
		case <-time.After(5 * time.Second):
			t.Fatal("no ingest run")
			return nil
		}
	}

	first := next()
	assert.Equal(t, 1, first.Processed)

	// a file that is not a reference document changes nothing
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "RD2.htm"), []byte(birthDoc), 0o644))
	second := next()
	assert.Equal(t, 1, second.Processed)
	assert.Equal(t, 1, second.Unchanged)

	cancel()
	require.NoError(t, <-done)

	counts, err := store.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["reference"])
}
