package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subocr/internal/config"
	"subocr/internal/logging"
	"subocr/internal/results"
	"subocr/internal/services"
)

// ErrBatchRunning indicates another batch holds the run lock.
var ErrBatchRunning = errors.New("another batch is already running")

// Summary tallies a completed batch run.
type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Outcomes  []Outcome
}

// Batch processes a list of videos sequentially, recording every outcome
// in the results store.
type Batch struct {
	cfg       *config.Config
	processor *Processor
	store     *results.Store
	logger    *slog.Logger
	lockPath  string
}

// NewBatch wires a batch runner around an existing processor and store.
func NewBatch(cfg *config.Config, processor *Processor, store *results.Store, logger *slog.Logger) (*Batch, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if processor == nil {
		return nil, errors.New("processor required")
	}
	if store == nil {
		return nil, errors.New("results store required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Batch{
		cfg:       cfg,
		processor: processor,
		store:     store,
		logger:    logging.NewComponentLogger(logger, "batch"),
		lockPath:  filepath.Join(cfg.Paths.LogDir, "subocr.lock"),
	}, nil
}

// Run processes the videos one at a time. Individual failures are
// recorded and the batch continues; cancellation stops it between videos.
// The returned summary is valid even when Run also returns ctx.Err().
func (b *Batch) Run(ctx context.Context, videos []string) (Summary, error) {
	lock := flock.New(b.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return Summary{}, ErrBatchRunning
	}
	defer func() {
		_ = lock.Unlock()
	}()

	summary := Summary{
		RunID: uuid.NewString(),
		Total: len(videos),
	}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, b.logger)

	startedAt := time.Now()
	if err := b.store.CreateRun(ctx, summary.RunID, startedAt); err != nil {
		return Summary{}, fmt.Errorf("record run start: %w", err)
	}
	logger.Info("batch started", logging.Int("videos", len(videos)))

	var runErr error
	for _, video := range videos {
		if ctx.Err() != nil {
			runErr = ctx.Err()
			break
		}

		videoCtx := services.WithVideo(ctx, video)
		outcome := b.processor.Process(videoCtx, video)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}

		if err := b.store.AddRecord(ctx, results.Record{
			RunID:     summary.RunID,
			Video:     outcome.Video,
			Success:   outcome.Success,
			Message:   outcome.Message,
			OutputSRT: outcome.OutputSRT,
			Report:    outcome.Report,
		}); err != nil {
			logger.Error("record outcome", logging.Error(err))
		}
	}

	if err := b.store.FinishRun(ctx, summary.RunID, time.Now(), summary.Total, summary.Succeeded, summary.Failed); err != nil {
		logger.Error("record run finish", logging.Error(err))
	}
	logger.Info("batch finished",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", time.Since(startedAt)))

	return summary, runErr
}
