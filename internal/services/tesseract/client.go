package tesseract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const probeTimeout = 15 * time.Second

// Inspection reports what a Tesseract installation can do.
type Inspection struct {
	Binary      string
	Version     string
	Languages   []string
	HasLanguage bool
}

// runner executes the tesseract binary and returns combined output.
// Tests substitute a fake to avoid requiring a real installation.
type runner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// Client probes a Tesseract binary.
type Client struct {
	command string
	run     runner
}

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces the process runner, primarily for tests.
func WithRunner(run runner) Option {
	return func(c *Client) {
		c.run = run
	}
}

// New returns a client for the given tesseract command or path.
func New(command string, opts ...Option) (*Client, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, errors.New("tesseract command required")
	}
	client := &Client{
		command: command,
		run:     runCommand,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Resolve locates the tesseract binary. Absolute and relative paths are
// checked directly; bare names go through PATH.
func (c *Client) Resolve() (string, error) {
	if strings.ContainsRune(c.command, filepath.Separator) {
		if _, err := exec.LookPath(c.command); err != nil {
			return "", fmt.Errorf("tesseract not found at %s: %w", c.command, err)
		}
		return c.command, nil
	}
	resolved, err := exec.LookPath(c.command)
	if err != nil {
		return "", fmt.Errorf("tesseract not found on PATH: %w", err)
	}
	return resolved, nil
}

// Inspect resolves the binary, reads its version, and lists the
// languages it can serve. A missing binary is an error; a missing
// language is reported through HasLanguage so callers can decide
// whether to warn or fail.
func (c *Client) Inspect(ctx context.Context, language string) (Inspection, error) {
	binary, err := c.Resolve()
	if err != nil {
		return Inspection{}, err
	}

	inspection := Inspection{Binary: binary}
	inspection.Version, err = c.version(ctx, binary)
	if err != nil {
		return inspection, err
	}
	inspection.Languages, err = c.listLanguages(ctx, binary)
	if err != nil {
		return inspection, err
	}
	for _, lang := range inspection.Languages {
		if strings.EqualFold(lang, language) {
			inspection.HasLanguage = true
			break
		}
	}
	return inspection, nil
}

func (c *Client) version(ctx context.Context, binary string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	output, err := c.run(ctx, binary, "--version")
	if err != nil {
		return "", fmt.Errorf("tesseract --version failed: %w", err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(strings.TrimPrefix(line, "tesseract")), nil
}

func (c *Client) listLanguages(ctx context.Context, binary string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	output, err := c.run(ctx, binary, "--list-langs")
	if err != nil {
		return nil, fmt.Errorf("tesseract --list-langs failed: %w", err)
	}

	var languages []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, ":") {
			// The header line reads "List of available languages (N):".
			continue
		}
		languages = append(languages, line)
	}
	return languages, nil
}

func runCommand(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	// Tesseract writes --list-langs and --version to stderr on some builds.
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return buf.Bytes(), err
	}
	return buf.Bytes(), nil
}
