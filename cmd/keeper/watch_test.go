package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchJournal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(advertJournal), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- watchJournal(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Writes to a sibling file are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))

	// The watcher may not be registered yet, so keep writing until it notices.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

wait:
	for {
		select {
		case <-changed:
			break wait
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte(advertJournal), 0o600))
		case <-deadline:
			t.Fatal("no change reported for the journal")
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchJournal_MissingDirectory(t *testing.T) {
	err := watchJournal(context.Background(), filepath.Join(t.TempDir(), "absent", "journal.yaml"), func() {})
	require.Error(t, err)
}
