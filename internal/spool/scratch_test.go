package spool

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScratchMaterializeAndRelease(t *testing.T) {
	dir := t.TempDir()
	s := NewScratchDir(dir)

	f, err := s.Materialize([]byte("page data"))
	require.NoError(t, err)
	require.NotEmpty(t, f.Path)

	data, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("page data"), data)

	require.NoError(t, s.Release(f))
	_, err = os.Stat(f.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestScratchReleaseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s := NewScratchDir(dir)

	f, err := s.Materialize([]byte("x"))
	require.NoError(t, err)

	require.NoError(t, s.Release(f))
	require.NoError(t, s.Release(f)) // already gone
	require.NoError(t, s.Release(ScratchFile{}))
}

func TestScratchCreatesMissingDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/scratch"
	s := NewScratchDir(dir)

	f, err := s.Materialize([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, s.Release(f))
}

func TestScratchConcurrentNamesAreDistinct(t *testing.T) {
	dir := t.TempDir()
	s := NewScratchDir(dir)

	const n = 32
	paths := make([]string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := s.Materialize([]byte{byte(i)})
			if err != nil {
				t.Errorf("Materialize failed: %v", err)
				return
			}
			paths[i] = f.Path
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, p := range paths {
		require.NotEmpty(t, p)
		assert.False(t, seen[p], "duplicate scratch path %s", p)
		seen[p] = true
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, n)
}
