package results_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"subocr/internal/analysis"
	"subocr/internal/results"
	"subocr/internal/testsupport"
)

func openStore(t *testing.T) *results.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := results.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func sampleReport() analysis.Report {
	return analysis.Report{
		Size:                  4096,
		LineCount:             120,
		EmptyLineCount:        30,
		SubtitleCount:         30,
		TimeSequenceCount:     30,
		AverageSubtitleLength: 38.5,
		DurationSeconds:       1800.25,
		Status:                "GOOD",
		HasContent:            true,
	}
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := store.CreateRun(ctx, "run-1", started); err != nil {
		t.Fatalf("create run: %v", err)
	}
	if err := store.AddRecord(ctx, results.Record{
		RunID:   "run-1",
		Video:   "/input/movie.mkv",
		Success: true,
		Report:  sampleReport(),
	}); err != nil {
		t.Fatalf("add record: %v", err)
	}
	if err := store.AddRecord(ctx, results.Record{
		RunID:   "run-1",
		Video:   "/input/show.mkv",
		Message: "no detectable output",
	}); err != nil {
		t.Fatalf("add record: %v", err)
	}
	if err := store.FinishRun(ctx, "run-1", started.Add(time.Minute), 2, 1, 1); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	run, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Total != 2 || run.Succeeded != 1 || run.Failed != 1 {
		t.Fatalf("unexpected tallies %+v", run)
	}
	if !run.StartedAt.Equal(started) {
		t.Fatalf("started at %v, want %v", run.StartedAt, started)
	}

	records, err := store.RecordsForRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("records for run: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Video != "/input/movie.mkv" || !records[0].Success {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[0].Report.Status != "GOOD" || records[0].Report.AverageSubtitleLength != 38.5 {
		t.Fatalf("analysis fields not round-tripped: %+v", records[0].Report)
	}
	if records[1].Success || records[1].Message != "no detectable output" {
		t.Fatalf("unexpected second record %+v", records[1])
	}
}

func TestRecordsForRunDerivesHasContent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.CreateRun(ctx, "run-1", time.Now().UTC()); err != nil {
		t.Fatalf("create run: %v", err)
	}
	report := sampleReport()
	report.TimeSequenceCount = 0
	report.HasContent = false
	if err := store.AddRecord(ctx, results.Record{
		RunID:  "run-1",
		Video:  "/input/broken.mkv",
		Report: report,
	}); err != nil {
		t.Fatalf("add record: %v", err)
	}

	records, err := store.RecordsForRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("records for run: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Report.HasContent {
		t.Fatalf("record with no time sequences reloaded with HasContent set: %+v", records[0].Report)
	}
}

func TestLatestRunOrdersByStart(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-old", "run-mid", "run-new"} {
		if err := store.CreateRun(ctx, id, base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("create run %s: %v", id, err)
		}
	}

	run, err := store.LatestRun(ctx)
	if err != nil {
		t.Fatalf("latest run: %v", err)
	}
	if run.ID != "run-new" {
		t.Fatalf("expected run-new, got %s", run.ID)
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-new" || runs[1].ID != "run-mid" {
		t.Fatalf("unexpected run order %+v", runs)
	}
}

func TestLatestRunEmpty(t *testing.T) {
	store := openStore(t)
	if _, err := store.LatestRun(context.Background()); !errors.Is(err, results.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := store.GetRun(context.Background(), "missing"); !errors.Is(err, results.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	records := []results.Record{
		{
			Video:     "/input/movie.mkv",
			Success:   true,
			OutputSRT: "/output/movie.en.srt",
			Report:    sampleReport(),
		},
	}

	var buf bytes.Buffer
	if err := results.ExportJSON(&buf, records); err != nil {
		t.Fatalf("export json: %v", err)
	}

	var doc struct {
		GeneratedAt time.Time `json:"generated_at"`
		Results     []struct {
			Video    string `json:"video"`
			Success  bool   `json:"success"`
			Analysis struct {
				Status    string `json:"status"`
				Subtitles int    `json:"subtitles"`
			} `json:"analysis"`
		} `json:"results"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if doc.GeneratedAt.IsZero() {
		t.Fatalf("generated_at missing")
	}
	if len(doc.Results) != 1 || doc.Results[0].Analysis.Status != "GOOD" || doc.Results[0].Analysis.Subtitles != 30 {
		t.Fatalf("unexpected export %+v", doc)
	}
}

func TestExportCSV(t *testing.T) {
	records := []results.Record{
		{
			Video:   "/input/movie.mkv",
			Success: true,
			Report:  sampleReport(),
		},
		{
			Video:   "/input/show.mkv",
			Message: "pgsrip failed (exit code 2)",
		},
	}

	var buf bytes.Buffer
	if err := results.ExportCSV(&buf, records); err != nil {
		t.Fatalf("export csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "video,success,message,output_srt,status") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "GOOD") || !strings.Contains(lines[1], "38.50") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if !strings.Contains(lines[2], "pgsrip failed (exit code 2)") {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}
