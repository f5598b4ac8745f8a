package face

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatchDiscoversNewAnimation(t *testing.T) {
	testWith(t, func(t *testing.T, lib *Library) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = lib.Watch(ctx)
		}()

		// Give the watcher a moment to register the directories.
		time.Sleep(100 * time.Millisecond)

		writeFixtureSub(t, filepath.Join(lib.Root(), "surprised", "idle"), &fixtureSub{frames: []string{"1.png"}})

		eventually(t, 3*time.Second, 25*time.Millisecond, func() bool {
			return lib.Has("surprised")
		}, "new animation directory was not discovered")

		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("watcher did not stop on context cancellation")
		}
	})
}

func TestWatchEvictsChangedAnimation(t *testing.T) {
	testWith(t, func(t *testing.T, lib *Library) {
		require.NoError(t, lib.LoadAnimation("happy"))
		require.True(t, lib.IsLoaded("happy"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = lib.Watch(ctx) }()
		time.Sleep(100 * time.Millisecond)

		// Adding a frame changes the animation's shape; the stale decoded
		// frames must be evicted.
		writeTestImage(t, filepath.Join(lib.Root(), "happy", "idle", "4.png"), 4, 3)

		eventually(t, 3*time.Second, 25*time.Millisecond, func() bool {
			return !lib.IsLoaded("happy")
		}, "changed animation was not evicted from the frame cache")

		src, err := lib.Source("happy")
		require.NoError(t, err)
		require.Len(t, src.Idle.FramePaths, 4)
	})
}
