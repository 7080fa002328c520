package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/docqms/internal/adapters/outbound/watch"
)

func TestIsArtifact(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"docs/adr/0001.md", true},
		{"README.MARKDOWN", true},
		{"docs/diagram.png", false},
		{"docs/.draft.md", false},
		{"main.go", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, watch.IsArtifact(tt.path))
		})
	}
}

func TestWatcher_DebouncesArtifactChanges(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "adr")
	require.NoError(t, os.MkdirAll(sub, 0755))

	w, err := watch.New(100*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(paths []string) { batches <- paths }) }()

	a := filepath.Join(dir, "a.md")
	b := filepath.Join(sub, "b.md")
	require.NoError(t, os.WriteFile(a, []byte("# a"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("# b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))

	seen := map[string]bool{}
	deadline := time.After(5 * time.Second)
	for !(seen[a] && seen[b]) {
		select {
		case paths := <-batches:
			assert.IsIncreasing(t, paths)
			for _, p := range paths {
				seen[p] = true
			}
		case <-deadline:
			t.Fatalf("changes not delivered, saw %v", seen)
		}
	}
	assert.Len(t, seen, 2, "non-artifact files are ignored")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
