package main

import "testing"

func TestStatusRendersSections(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Configuration ==")
	requireContains(t, out, env.cfg.Paths.InputDir)
	requireContains(t, out, "English [en]")
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "pgsrip")
	requireContains(t, out, "MKVToolNix")
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "Tesseract")
	requireContains(t, out, "== Last run ==")
	requireContains(t, out, "No runs recorded yet")
}

func TestStatusShowsLatestRun(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRun(t, env, "run-status")

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "run-status")
	requireContains(t, out, "1 succeeded, 1 failed")
}
