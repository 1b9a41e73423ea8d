package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"subocr/internal/testsupport"
)

func TestAnalyzeGradesFiles(t *testing.T) {
	env := setupCLITestEnv(t)

	good := filepath.Join(env.baseDir, "good.srt")
	testsupport.WriteSRT(t, good, 30)

	out, _, err := runCLI(t, []string{"analyze", good}, env.configPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "GOOD")
	requireContains(t, out, "30")
}

func TestAnalyzeMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)

	missing := filepath.Join(env.baseDir, "missing.srt")
	out, _, err := runCLI(t, []string{"analyze", missing}, env.configPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "MISSING")
}

func TestAnalyzeJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	srt := filepath.Join(env.baseDir, "sample.srt")
	testsupport.WriteSRT(t, srt, 10)

	out, _, err := runCLI(t, []string{"analyze", "--json", srt}, env.configPath)
	if err != nil {
		t.Fatalf("analyze --json: %v", err)
	}

	var entries []struct {
		File     string `json:"file"`
		Analysis struct {
			Status    string `json:"status"`
			Subtitles int    `json:"subtitles"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("unmarshal: %v\noutput:\n%s", err, out)
	}
	if len(entries) != 1 || entries[0].File != srt {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if entries[0].Analysis.Status != "MEDIUM" || entries[0].Analysis.Subtitles != 10 {
		t.Fatalf("unexpected analysis %+v", entries[0].Analysis)
	}
}
