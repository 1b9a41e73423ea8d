package watch_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"subocr/internal/testsupport"
	"subocr/internal/watch"
)

func TestWatcherDispatchesSettledVideos(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 4)

	watcher, err := watch.New(dir, 50*time.Millisecond, func(_ context.Context, path string) error {
		handled <- path
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx)
	}()

	video := filepath.Join(dir, "movie.mkv")
	testsupport.WriteFile(t, video, 2048)
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), 64)

	select {
	case path := <-handled:
		if path != video {
			t.Fatalf("handled %s, want %s", path, video)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("video never dispatched")
	}

	select {
	case path := <-handled:
		t.Fatalf("unexpected extra dispatch %s", path)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not stop")
	}
}

func TestWatcherRequiresHandler(t *testing.T) {
	if _, err := watch.New(t.TempDir(), 0, nil, nil); err == nil {
		t.Fatalf("expected error for nil handler")
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	handler := func(context.Context, string) error { return nil }
	if _, err := watch.New(filepath.Join(t.TempDir(), "missing"), 0, handler, nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
