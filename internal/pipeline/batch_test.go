package pipeline_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"subocr/internal/pipeline"
	"subocr/internal/testsupport"
)

func TestBatchRunRecordsOutcomes(t *testing.T) {
	cfg := quickConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	good := filepath.Join(cfg.Paths.InputDir, "good.mkv")
	bad := filepath.Join(cfg.Paths.InputDir, "bad.mkv")
	testsupport.WriteFile(t, good, 1024)
	testsupport.WriteFile(t, bad, 1024)

	exec := &scriptedExecutor{script: func(call int, dir string) {
		if call == 1 {
			testsupport.WriteSRT(t, filepath.Join(dir, "good.en.srt"), 25)
		}
	}}
	processor := newProcessor(t, cfg, exec)

	batch, err := pipeline.NewBatch(cfg, processor, store, nil)
	if err != nil {
		t.Fatalf("new batch: %v", err)
	}

	summary, err := batch.Run(context.Background(), []string{good, bad})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Total != 2 || summary.Succeeded != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.RunID == "" {
		t.Fatalf("run id missing")
	}

	run, err := store.GetRun(context.Background(), summary.RunID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Total != 2 || run.Succeeded != 1 || run.Failed != 1 {
		t.Fatalf("unexpected persisted run %+v", run)
	}
	if run.FinishedAt.IsZero() {
		t.Fatalf("finished_at not recorded")
	}

	records, err := store.RecordsForRun(context.Background(), summary.RunID)
	if err != nil {
		t.Fatalf("records for run: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].Success || records[0].Video != good {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[1].Success || records[1].Message != "no detectable output" {
		t.Fatalf("unexpected second record %+v", records[1])
	}
}

func TestBatchRunLockContention(t *testing.T) {
	cfg := quickConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	processor := newProcessor(t, cfg, &scriptedExecutor{})

	batch, err := pipeline.NewBatch(cfg, processor, store, nil)
	if err != nil {
		t.Fatalf("new batch: %v", err)
	}

	holder := flock.New(filepath.Join(cfg.Paths.LogDir, "subocr.lock"))
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire holder lock: locked=%v err=%v", locked, err)
	}
	defer func() {
		_ = holder.Unlock()
	}()

	if _, err := batch.Run(context.Background(), nil); !errors.Is(err, pipeline.ErrBatchRunning) {
		t.Fatalf("expected ErrBatchRunning, got %v", err)
	}
}

func TestBatchRunStopsBetweenVideos(t *testing.T) {
	cfg := quickConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	exec := &cancelingExecutor{cancel: cancel}
	processor := newProcessor(t, cfg, exec)

	batch, err := pipeline.NewBatch(cfg, processor, store, nil)
	if err != nil {
		t.Fatalf("new batch: %v", err)
	}

	first := filepath.Join(cfg.Paths.InputDir, "first.mkv")
	second := filepath.Join(cfg.Paths.InputDir, "second.mkv")
	testsupport.WriteFile(t, first, 1024)
	testsupport.WriteFile(t, second, 1024)

	summary, err := batch.Run(ctx, []string{first, second})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(summary.Outcomes) != 1 {
		t.Fatalf("expected batch to stop after the first video, got %d outcomes", len(summary.Outcomes))
	}
	if exec.calls != 1 {
		t.Fatalf("second video should not have been processed")
	}
}

// cancelingExecutor cancels the run context as soon as the first rip
// starts, simulating an interrupt between videos.
type cancelingExecutor struct {
	calls  int
	cancel context.CancelFunc
}

func (c *cancelingExecutor) Run(_ context.Context, _ string, _ []string, _ string, _ []string, _ func(string)) error {
	c.calls++
	c.cancel()
	return nil
}
