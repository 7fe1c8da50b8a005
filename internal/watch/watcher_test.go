package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startWatcher(t *testing.T, paths []string, calls *atomic.Int32) *Watcher {
	t.Helper()
	w, err := New(paths, 100*time.Millisecond, func() { calls.Add(1) }, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_BurstTriggersOneCallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	var calls atomic.Int32
	startWatcher(t, []string{path}, &calls)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("[ ]"), 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	var calls atomic.Int32
	startWatcher(t, []string{path}, &calls)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))
	time.Sleep(400 * time.Millisecond)
	require.Equal(t, int32(0), calls.Load())
}

func TestWatcher_SeesRenameOnSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "services.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services: []"), 0o644))

	var calls atomic.Int32
	startWatcher(t, []string{path}, &calls)

	tmp := filepath.Join(dir, ".services.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("services: []\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_StopDropsPendingCallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	var calls atomic.Int32
	w, err := New([]string{path}, 300*time.Millisecond, func() { calls.Add(1) }, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte("[ ]"), 0o644))
	time.Sleep(50 * time.Millisecond)
	w.Stop()
	w.Stop()

	time.Sleep(500 * time.Millisecond)
	require.Equal(t, int32(0), calls.Load())
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, 0, func() {}, nil)
	require.Error(t, err)

	_, err = New([]string{"x"}, 0, nil, nil)
	require.Error(t, err)
}
