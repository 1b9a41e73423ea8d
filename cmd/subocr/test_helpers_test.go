package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subocr/internal/config"
	"subocr/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t)
	cfg.Rip.SettleMillis = 1

	configPath := filepath.Join(homeDir, ".config", "subocr", "config.toml")
	if err := cfg.Write(configPath); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

// ripStub is a pgsrip replacement that writes a small SRT next to the
// video it was asked to process.
const ripStub = `#!/bin/sh
for last; do :; done
stem="${last%.*}"
cat > "${stem}.en.srt" <<'SRT'
1
00:00:01,000 --> 00:00:02,500
First line

2
00:00:03,000 --> 00:00:04,500
Second line

3
00:00:05,000 --> 00:00:06,500
Third line

4
00:00:07,000 --> 00:00:08,500
Fourth line

5
00:00:09,000 --> 00:00:10,500
Fifth line
SRT
exit 0
`

func installRipStub(t *testing.T, env *cliTestEnv) {
	t.Helper()
	if err := os.WriteFile(env.cfg.Tools.PgsripCommand, []byte(ripStub), 0o755); err != nil {
		t.Fatalf("install rip stub: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
