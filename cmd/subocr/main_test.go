package main

import "testing"

func TestRootShowsHelp(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	requireContains(t, out, "Extract and grade PGS subtitles")
	requireContains(t, out, "run")
	requireContains(t, out, "report")
}

func TestUnknownCommandFails(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"frobnicate"}, env.configPath); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}
