package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForChange(t *testing.T, w *Watcher, name string) Change {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ch, ok := <-w.Events:
			require.True(t, ok, "watcher closed early")
			if ch.Name() == name {
				return ch
			}
		case err := <-w.Errors:
			t.Fatalf("watch error: %v", err)
		case <-timeout:
			t.Fatalf("no change for %s", name)
		}
	}
}

func TestWatcherReportsSpecsAndScripts(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rig.yaml"), []byte("name: a\n"), 0o644))
	spec := waitForChange(t, w, "rig.yaml")
	assert.Equal(t, ChangeSpec, spec.Kind)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "orbit.tengo"), []byte("x := 1\n"), 0o644))
	script := waitForChange(t, w, "orbit.tengo")
	assert.Equal(t, ChangeScript, script.Kind)
}

func TestWatcherCloseClosesEvents(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	select {
	case _, ok := <-w.Events:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("events not closed")
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{"rig.yaml", ChangeSpec, true},
		{"RIG.YML", ChangeSpec, true},
		{"scripts/orbit.tengo", ChangeScript, true},
		{"level.json", 0, false},
	}
	for _, c := range cases {
		kind, ok := Classify(c.path)
		assert.Equal(t, c.ok, ok, c.path)
		assert.Equal(t, c.kind, kind, c.path)
	}
}
