package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"subocr/internal/analysis"
	"subocr/internal/results"
	"subocr/internal/testsupport"
)

func seedRun(t *testing.T, env *cliTestEnv, runID string) {
	t.Helper()
	store := testsupport.MustOpenStore(t, env.cfg)
	ctx := context.Background()

	started := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	if err := store.CreateRun(ctx, runID, started); err != nil {
		t.Fatalf("create run: %v", err)
	}
	if err := store.AddRecord(ctx, results.Record{
		RunID:     runID,
		Video:     filepath.Join(env.cfg.Paths.InputDir, "movie.mkv"),
		Success:   true,
		OutputSRT: filepath.Join(env.cfg.Paths.OutputDir, "movie.en.srt"),
		Report: analysis.Report{
			Size:          4096,
			SubtitleCount: 42,
			Status:        "GOOD",
			HasContent:    true,
		},
	}); err != nil {
		t.Fatalf("add record: %v", err)
	}
	if err := store.AddRecord(ctx, results.Record{
		RunID:   runID,
		Video:   filepath.Join(env.cfg.Paths.InputDir, "broken.mkv"),
		Message: "pgsrip failed (exit code 2)",
	}); err != nil {
		t.Fatalf("add record: %v", err)
	}
	if err := store.FinishRun(ctx, runID, started.Add(time.Minute), 2, 1, 1); err != nil {
		t.Fatalf("finish run: %v", err)
	}
}

func TestReportRendersLatestRun(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRun(t, env, "run-abc")

	out, _, err := runCLI(t, []string{"report"}, env.configPath)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	requireContains(t, out, "movie")
	requireContains(t, out, "GOOD")
	requireContains(t, out, "pgsrip failed (exit code 2)")
	requireContains(t, out, "Run run-abc: 1 succeeded, 1 failed (2 total)")
}

func TestReportExportsCSV(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRun(t, env, "run-abc")

	target := filepath.Join(env.baseDir, "report.csv")
	out, _, err := runCLI(t, []string{"report", "--format", "csv", "--output", target}, env.configPath)
	if err != nil {
		t.Fatalf("report csv: %v", err)
	}
	requireContains(t, out, "Wrote 2 result(s)")

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	requireContains(t, string(content), "video,success,message")
	requireContains(t, string(content), "GOOD")
}

func TestReportJSONToStdout(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRun(t, env, "run-abc")

	out, _, err := runCLI(t, []string{"report", "--format", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("report json: %v", err)
	}
	requireContains(t, out, "\"generated_at\"")
	requireContains(t, out, "\"results\"")
	requireContains(t, out, "movie.en.srt")
}

func TestReportUnknownRun(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRun(t, env, "run-abc")

	if _, _, err := runCLI(t, []string{"report", "--run", "nope"}, env.configPath); err == nil {
		t.Fatalf("expected error for unknown run")
	}
}

func TestReportNoRuns(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"report"}, env.configPath); err == nil {
		t.Fatalf("expected error when no runs exist")
	}
}
