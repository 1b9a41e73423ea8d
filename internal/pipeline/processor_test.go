package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subocr/internal/config"
	"subocr/internal/pipeline"
	"subocr/internal/services/pgsrip"
	"subocr/internal/testsupport"
)

// scriptedExecutor stands in for the real pgsrip process. Each call runs
// the configured script against the work directory, typically to drop an
// SRT file where the locator should find it.
type scriptedExecutor struct {
	calls  int
	err    error
	script func(call int, dir string)
}

func (s *scriptedExecutor) Run(_ context.Context, _ string, _ []string, dir string, _ []string, _ func(string)) error {
	s.calls++
	if s.script != nil {
		s.script(s.calls, dir)
	}
	return s.err
}

func newProcessor(t *testing.T, cfg *config.Config, exec pgsrip.Executor) *pipeline.Processor {
	t.Helper()
	client, err := pgsrip.New("pgsrip", 0, pgsrip.WithExecutor(exec))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	processor, err := pipeline.NewProcessor(cfg, nil, pipeline.WithClient(client))
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	return processor
}

func quickConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Rip.SettleMillis = 1
	return cfg
}

func TestProcessMovesAndGradesOutput(t *testing.T) {
	cfg := quickConfig(t)
	video := filepath.Join(cfg.Paths.InputDir, "movie.mkv")
	testsupport.WriteFile(t, video, 1024)

	exec := &scriptedExecutor{script: func(_ int, dir string) {
		testsupport.WriteSRT(t, filepath.Join(dir, "movie.en.srt"), 30)
	}}
	processor := newProcessor(t, cfg, exec)

	outcome := processor.Process(context.Background(), video)
	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	want := filepath.Join(cfg.Paths.OutputDir, "movie.en.srt")
	if outcome.OutputSRT != want {
		t.Fatalf("output at %s, want %s", outcome.OutputSRT, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("output not moved: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.InputDir, "movie.en.srt")); !os.IsNotExist(err) {
		t.Fatalf("source srt should have been moved away")
	}
	if outcome.Report.Status != "GOOD" {
		t.Fatalf("unexpected quality %q", outcome.Report.Status)
	}
	if outcome.Report.SubtitleCount != 30 {
		t.Fatalf("unexpected subtitle count %d", outcome.Report.SubtitleCount)
	}
}

func TestProcessOutputAlreadyAtTarget(t *testing.T) {
	cfg := quickConfig(t)
	video := filepath.Join(cfg.Paths.InputDir, "movie.mkv")
	testsupport.WriteFile(t, video, 1024)

	exec := &scriptedExecutor{script: func(_ int, _ string) {
		testsupport.WriteSRT(t, filepath.Join(cfg.Paths.OutputDir, "movie.en.srt"), 12)
	}}
	processor := newProcessor(t, cfg, exec)

	outcome := processor.Process(context.Background(), video)
	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.Report.SubtitleCount != 12 {
		t.Fatalf("unexpected subtitle count %d", outcome.Report.SubtitleCount)
	}
}

func TestProcessReportsToolFailure(t *testing.T) {
	cfg := quickConfig(t)
	video := filepath.Join(cfg.Paths.InputDir, "movie.mkv")
	testsupport.WriteFile(t, video, 1024)

	exec := &scriptedExecutor{err: &pgsrip.ExitError{Code: 2}}
	processor := newProcessor(t, cfg, exec)

	outcome := processor.Process(context.Background(), video)
	if outcome.Success {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(outcome.Message, "exit code 2") {
		t.Fatalf("unexpected message %q", outcome.Message)
	}
}

func TestProcessNoDetectableOutput(t *testing.T) {
	cfg := quickConfig(t)
	video := filepath.Join(cfg.Paths.InputDir, "movie.mkv")
	testsupport.WriteFile(t, video, 1024)

	processor := newProcessor(t, cfg, &scriptedExecutor{})

	outcome := processor.Process(context.Background(), video)
	if outcome.Success {
		t.Fatalf("expected failure")
	}
	if outcome.Message != "no detectable output" {
		t.Fatalf("unexpected message %q", outcome.Message)
	}
}

func TestProcessSkipsExistingTarget(t *testing.T) {
	cfg := quickConfig(t)
	video := filepath.Join(cfg.Paths.InputDir, "movie.mkv")
	testsupport.WriteFile(t, video, 1024)
	testsupport.WriteSRT(t, filepath.Join(cfg.Paths.OutputDir, "movie.en.srt"), 8)

	exec := &scriptedExecutor{}
	processor := newProcessor(t, cfg, exec)

	outcome := processor.Process(context.Background(), video)
	if !outcome.Success || outcome.Message != "output already exists" {
		t.Fatalf("expected skip, got %+v", outcome)
	}
	if exec.calls != 0 {
		t.Fatalf("pgsrip should not run when output exists")
	}

	cfg.Rip.Force = true
	exec.script = func(_ int, dir string) {
		testsupport.WriteSRT(t, filepath.Join(dir, "movie.en.srt"), 20)
	}
	outcome = processor.Process(context.Background(), video)
	if exec.calls != 1 {
		t.Fatalf("force should rerun pgsrip")
	}
	if !outcome.Success || outcome.Report.SubtitleCount != 20 {
		t.Fatalf("unexpected forced outcome %+v", outcome)
	}
}

func TestProcessPrefersStemMatch(t *testing.T) {
	cfg := quickConfig(t)
	video := filepath.Join(cfg.Paths.InputDir, "movie.mkv")
	testsupport.WriteFile(t, video, 1024)

	exec := &scriptedExecutor{script: func(_ int, dir string) {
		testsupport.WriteSRT(t, filepath.Join(dir, "other.en.srt"), 5)
		testsupport.WriteSRT(t, filepath.Join(dir, "movie.en.srt"), 15)
	}}
	processor := newProcessor(t, cfg, exec)

	outcome := processor.Process(context.Background(), video)
	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.Report.SubtitleCount != 15 {
		t.Fatalf("locator should prefer the stem match, got %+v", outcome.Report)
	}
}
