package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"subocr/internal/analysis"
	"subocr/internal/config"
	"subocr/internal/detect"
	"subocr/internal/fileutil"
	"subocr/internal/logging"
	"subocr/internal/media"
	"subocr/internal/services"
	"subocr/internal/services/pgsrip"
)

// Outcome is the result of processing one video.
type Outcome struct {
	Video     string
	Success   bool
	Message   string
	OutputSRT string
	Report    analysis.Report
}

// Processor extracts and grades subtitles for individual videos.
type Processor struct {
	cfg    *config.Config
	client *pgsrip.Client
	logger *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithClient replaces the pgsrip client, primarily for tests.
func WithClient(client *pgsrip.Client) ProcessorOption {
	return func(p *Processor) {
		p.client = client
	}
}

// NewProcessor builds a processor from configuration.
func NewProcessor(cfg *config.Config, logger *slog.Logger, opts ...ProcessorOption) (*Processor, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	client, err := pgsrip.New(cfg.Tools.PgsripCommand, cfg.Rip.TimeoutSeconds)
	if err != nil {
		return nil, err
	}

	processor := &Processor{
		cfg:    cfg,
		client: client,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
	for _, opt := range opts {
		opt(processor)
	}
	return processor, nil
}

// TargetPath returns where the extracted SRT for a video ends up.
func (p *Processor) TargetPath(videoPath string) string {
	name := fmt.Sprintf("%s.%s.srt", media.Stem(videoPath), p.cfg.Languages.RipLanguage)
	return filepath.Join(p.cfg.Paths.OutputDir, name)
}

// Process rips the video's PGS subtitles into an SRT, moves it to the
// output directory, and grades it. It never returns an error: failures
// are reported through the outcome so batch runs can continue.
func (p *Processor) Process(ctx context.Context, videoPath string) Outcome {
	logger := logging.WithContext(ctx, p.logger)
	outcome := Outcome{Video: videoPath}

	target := p.TargetPath(videoPath)
	if !p.cfg.Rip.Force {
		if _, err := os.Stat(target); err == nil {
			logger.Info("output already present, skipping rip", logging.String("srt", target))
			outcome.Success = true
			outcome.Message = "output already exists"
			outcome.OutputSRT = target
			outcome.Report = analysis.Analyze(target)
			return outcome
		}
	}

	videoDir := filepath.Dir(videoPath)
	watchDirs := []string{videoDir, p.cfg.Paths.OutputDir}
	if cwd, err := os.Getwd(); err == nil {
		watchDirs = append(watchDirs, cwd)
	}
	before := detect.Snapshot(watchDirs...)

	logger.Info("ripping subtitles",
		logging.String("language", p.cfg.Languages.RipLanguage))

	err := p.client.Rip(ctx, videoPath, videoDir, p.ripOptions(), p.tooling(), func(line string) {
		logger.Debug("pgsrip", logging.String("line", line))
	})
	if err != nil {
		outcome.Message = ripFailureMessage(err)
		logger.Error("rip failed", logging.Error(err))
		return outcome
	}

	p.settle(ctx)

	produced := detect.Choose(detect.Diff(before, detect.Snapshot(watchDirs...)), media.Stem(videoPath))
	if produced == "" {
		err := services.Wrap(services.ErrNoOutput, "pipeline", "locate output", videoPath, nil)
		outcome.Message = services.ErrNoOutput.Error()
		logger.Error("no output located", logging.Error(err))
		return outcome
	}

	if produced != target {
		if err := fileutil.MoveFile(produced, target); err != nil {
			outcome.Message = fmt.Sprintf("move output: %v", err)
			logger.Error("move failed", logging.Error(err))
			return outcome
		}
	}

	outcome.Success = true
	outcome.OutputSRT = target
	outcome.Report = analysis.Analyze(target)
	logger.Info("rip complete",
		logging.String("srt", target),
		logging.String("quality", outcome.Report.Status))
	return outcome
}

func (p *Processor) ripOptions() pgsrip.Options {
	return pgsrip.Options{
		Language:     p.cfg.Languages.RipLanguage,
		Tags:         p.cfg.Rip.Tags,
		MaxWorkers:   p.cfg.Rip.MaxWorkers,
		Force:        p.cfg.Rip.Force,
		RipAll:       p.cfg.Rip.RipAll,
		DebugVerbose: p.cfg.Rip.DebugVerbose,
		KeepTemp:     p.cfg.Rip.KeepTemp,
	}
}

func (p *Processor) tooling() pgsrip.Tooling {
	return pgsrip.Tooling{
		TesseractPath: p.cfg.Tools.TesseractPath,
		TessdataDir:   p.cfg.Tools.TessdataDir,
		MKVToolNixDir: p.cfg.Tools.MKVToolNixDir,
	}
}

// settle gives pgsrip's filesystem writes a moment to land before the
// after snapshot is taken.
func (p *Processor) settle(ctx context.Context) {
	delay := time.Duration(p.cfg.Rip.SettleMillis) * time.Millisecond
	if delay <= 0 {
		return
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

func ripFailureMessage(err error) string {
	var exitErr *pgsrip.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "pgsrip timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return err.Error()
}
