package pgsrip

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Options mirror the pgsrip flags the pipeline passes through. MaxWorkers
// is pgsrip's own internal parallelism, not process-level concurrency here.
type Options struct {
	Language     string
	Tags         []string
	MaxWorkers   int
	Force        bool
	RipAll       bool
	DebugVerbose bool
	KeepTemp     bool
}

// Tooling locates the external helpers pgsrip shells out to. The values are
// injected into the spawned process environment only.
type Tooling struct {
	TesseractPath string
	TessdataDir   string
	MKVToolNixDir string
}

// ExitError reports a pgsrip process that terminated with a non-zero code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("pgsrip failed (exit code %d)", e.Code)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, dir string, env []string, onLine func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps pgsrip CLI interactions.
type Client struct {
	command string
	timeout time.Duration
	exec    Executor
}

// New constructs a pgsrip client.
func New(command string, timeoutSeconds int, opts ...Option) (*Client, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, errors.New("pgsrip command required")
	}
	client := &Client{
		command: command,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Rip invokes pgsrip against videoPath from workDir, forwarding each output
// line to onLine. A non-zero exit surfaces as *ExitError.
func (c *Client) Rip(ctx context.Context, videoPath, workDir string, opts Options, tooling Tooling, onLine func(string)) error {
	if strings.TrimSpace(videoPath) == "" {
		return errors.New("video path required")
	}

	ripCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ripCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := buildArgs(videoPath, opts)
	env := buildEnv(os.Environ(), tooling)
	return c.exec.Run(ripCtx, c.command, args, workDir, env, onLine)
}

func buildArgs(videoPath string, opts Options) []string {
	args := []string{"--language", opts.Language}
	if opts.DebugVerbose {
		args = append(args, "--verbose", "--debug")
	}
	if opts.KeepTemp {
		args = append(args, "--keep-temp-files")
	}
	for _, tag := range opts.Tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			args = append(args, "--tag", trimmed)
		}
	}
	if opts.MaxWorkers > 0 {
		args = append(args, "--max-workers", strconv.Itoa(opts.MaxWorkers))
	}
	if opts.Force {
		args = append(args, "--force")
	}
	if opts.RipAll {
		args = append(args, "--all")
	}
	return append(args, videoPath)
}

// buildEnv derives the child process environment from base: tool
// directories prepended to PATH and TESSDATA_PREFIX overridden when a
// tessdata directory is configured.
func buildEnv(base []string, tooling Tooling) []string {
	var pathParts []string
	if dir := strings.TrimSpace(tooling.MKVToolNixDir); dir != "" {
		pathParts = append(pathParts, dir)
	}
	if exe := strings.TrimSpace(tooling.TesseractPath); exe != "" && strings.ContainsRune(exe, filepath.Separator) {
		pathParts = append(pathParts, filepath.Dir(exe))
	}
	tessdata := strings.TrimSpace(tooling.TessdataDir)

	env := make([]string, 0, len(base)+2)
	for _, kv := range base {
		key, _, ok := strings.Cut(kv, "=")
		if !ok {
			env = append(env, kv)
			continue
		}
		switch key {
		case "PATH":
			if len(pathParts) > 0 {
				kv = "PATH=" + strings.Join(pathParts, string(os.PathListSeparator)) + string(os.PathListSeparator) + kv[len("PATH="):]
				pathParts = nil
			}
		case "TESSDATA_PREFIX":
			if tessdata != "" {
				kv = "TESSDATA_PREFIX=" + tessdata
				tessdata = ""
			}
		}
		env = append(env, kv)
	}
	if len(pathParts) > 0 {
		env = append(env, "PATH="+strings.Join(pathParts, string(os.PathListSeparator)))
	}
	if tessdata != "" {
		env = append(env, "TESSDATA_PREFIX="+tessdata)
	}
	return env
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, dir string, env []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Dir = dir
	cmd.Env = env

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			if onLine != nil {
				onLine(line)
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
