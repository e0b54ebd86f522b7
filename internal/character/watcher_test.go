package character

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTuningWatcherReloads(t *testing.T) {
	path := writeTuning(t, t.TempDir(), "walk_speed: 3\n")
	w, err := WatchTuning(path)
	require.NoError(t, err)
	defer w.Close()

	// An invalid edit is skipped, the valid one after it is delivered.
	require.NoError(t, os.WriteFile(path, []byte("walk_speed: -1\n"), 0o644))
	time.Sleep(3 * reloadDebounce)
	require.NoError(t, os.WriteFile(path, []byte("walk_speed: 5\nrun_speed: 10\n"), 0o644))

	select {
	case tuning := <-w.Updates():
		assert.Equal(t, float32(5), tuning.WalkSpeed)
		assert.Equal(t, float32(10), tuning.RunSpeed)
	case <-time.After(5 * time.Second):
		t.Fatal("no tuning delivered")
	}
}

func TestTuningWatcherClose(t *testing.T) {
	path := writeTuning(t, t.TempDir(), "")
	w, err := WatchTuning(path)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, open := <-w.Updates()
	assert.False(t, open)
}
