package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/stressband/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency is the number of documents rendered at once.
const DefaultBatchConcurrency = 4

// RenderFunc renders the document of one band.
type RenderFunc func(ctx context.Context, id model.BandID) ([]byte, error)

// Result is the rendered document of one band.
type Result struct {
	BandID model.BandID
	Data   []byte
}

// BatchGenerator renders documents for several bands concurrently.
type BatchGenerator struct {
	// render produces one document.
	render RenderFunc

	// concurrency is the maximum number of concurrent renders.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchGenerator.
type BatchOption func(*BatchGenerator)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchGenerator) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent renders.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchGenerator) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchGenerator creates a BatchGenerator calling render for each band.
func NewBatchGenerator(render RenderFunc, opts ...BatchOption) *BatchGenerator {
	b := &BatchGenerator{
		render:      render,
		concurrency: DefaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// GenerateAll renders every band in ids and returns the results in input order.
// The first failure cancels the renders still pending and is returned.
func (b *BatchGenerator) GenerateAll(ctx context.Context, ids []model.BandID) ([]Result, error) {
	b.logger.Info("starting batch generation",
		"total", len(ids),
		"concurrency", b.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]Result, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			data, err := b.render(ctx, id)
			if err != nil {
				return fmt.Errorf("band %s: %w", id, err)
			}
			results[i] = Result{BandID: id, Data: data}

			b.logger.Debug("document rendered", "band", id.String(), "bytes", len(data))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.logger.Info("batch generation complete",
		"total", len(ids),
		"elapsed", time.Since(startTime),
	)

	return results, nil
}
