package preflight_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subocr/internal/preflight"
	"subocr/internal/testsupport"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func fakeTesseract(t *testing.T, dir string, langs ...string) string {
	t.Helper()
	body := "#!/bin/sh\n" +
		"case \"$1\" in\n" +
		"--version) echo 'tesseract 5.3.4'; exit 0;;\n" +
		"--list-langs) echo 'List of available languages (" +
		"n):'\n"
	for _, lang := range langs {
		body += "echo '" + lang + "'\n"
	}
	body += "exit 0;;\n" +
		"esac\nexit 1\n"
	return writeScript(t, dir, "tesseract", body)
}

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := preflight.CheckDirectoryAccess("Input directory", dir)
	if !result.Passed {
		t.Fatalf("expected pass for %s: %s", dir, result.Detail)
	}

	result = preflight.CheckDirectoryAccess("Input directory", filepath.Join(dir, "missing"))
	if result.Passed || !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("expected missing-directory failure, got %+v", result)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result = preflight.CheckDirectoryAccess("Input directory", file)
	if result.Passed || !strings.Contains(result.Detail, "not a directory") {
		t.Fatalf("expected not-a-directory failure, got %+v", result)
	}
}

func TestCheckPgsrip(t *testing.T) {
	dir := t.TempDir()
	binary := writeScript(t, dir, "pgsrip", "#!/bin/sh\nexit 0\n")

	if result := preflight.CheckPgsrip(binary); !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
	if result := preflight.CheckPgsrip(filepath.Join(dir, "missing")); result.Passed {
		t.Fatalf("expected failure for missing binary")
	}
}

func TestCheckTesseractLanguageWarning(t *testing.T) {
	dir := t.TempDir()
	binary := fakeTesseract(t, dir, "eng", "osd")

	result := preflight.CheckTesseract(context.Background(), binary, "eng")
	if !result.Passed || result.Warning {
		t.Fatalf("expected clean pass, got %+v", result)
	}

	result = preflight.CheckTesseract(context.Background(), binary, "ron")
	if !result.Passed || !result.Warning {
		t.Fatalf("expected pass with warning, got %+v", result)
	}
	if !strings.Contains(result.Detail, "ron") {
		t.Fatalf("warning detail should name the language: %s", result.Detail)
	}
}

func TestCheckTessdata(t *testing.T) {
	dir := t.TempDir()

	result := preflight.CheckTessdata(dir, "eng")
	if !result.Passed || !result.Warning {
		t.Fatalf("expected pass with warning for missing traineddata, got %+v", result)
	}

	if err := os.WriteFile(filepath.Join(dir, "eng.traineddata"), []byte("data"), 0o644); err != nil {
		t.Fatalf("write traineddata: %v", err)
	}
	result = preflight.CheckTessdata(dir, "eng")
	if !result.Passed || result.Warning {
		t.Fatalf("expected clean pass, got %+v", result)
	}
}

func TestCheckMKVToolNix(t *testing.T) {
	dir := t.TempDir()
	mkvmerge := writeScript(t, dir, "mkvmerge", "#!/bin/sh\nexit 0\n")

	result := preflight.CheckMKVToolNix(mkvmerge, filepath.Join(dir, "mkvextract"))
	if result.Passed {
		t.Fatalf("expected failure when mkvextract missing")
	}
	if !strings.Contains(result.Detail, "mkvextract") || strings.Contains(result.Detail, "mkvmerge") {
		t.Fatalf("detail should name only the missing binary: %s", result.Detail)
	}

	mkvextract := writeScript(t, dir, "mkvextract", "#!/bin/sh\nexit 0\n")
	if result := preflight.CheckMKVToolNix(mkvmerge, mkvextract); !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
}

func TestRunAllCoversConfiguredChecks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Tools.TesseractPath = fakeTesseract(t, t.TempDir(), "eng")

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatalf("expected results")
	}
	names := make(map[string]bool, len(results))
	for _, result := range results {
		names[result.Name] = true
	}
	for _, want := range []string{"Input directory", "Output directory", "pgsrip", "Tesseract", "MKVToolNix"} {
		if !names[want] {
			t.Fatalf("missing check %q in %v", want, results)
		}
	}
	if !preflight.Passed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := preflight.RunAll(context.Background(), nil); results != nil {
		t.Fatalf("expected nil results for nil config")
	}
}
