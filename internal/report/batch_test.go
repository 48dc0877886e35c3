package report

import (
	"context"
	"errors"
	"log/slog"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/stressband/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBatchGenerator(t *testing.T) {
	t.Parallel()

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		ids := []model.BandID{"3", "1", "2", "4"}
		b := NewBatchGenerator(func(_ context.Context, id model.BandID) ([]byte, error) {
			// Finish in reverse order of delay to shuffle completion.
			time.Sleep(time.Duration(len(ids)-int(id[0]-'0')) * time.Millisecond)
			return []byte("doc-" + id.String()), nil
		}, WithConcurrency(4), WithBatchLogger(quietLogger()))

		results, err := b.GenerateAll(context.Background(), ids)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != len(ids) {
			t.Fatalf("got %d results, want %d", len(results), len(ids))
		}
		for i, r := range results {
			if r.BandID != ids[i] || string(r.Data) != "doc-"+ids[i].String() {
				t.Errorf("result %d = %s/%q", i, r.BandID, r.Data)
			}
		}
	})

	t.Run("concurrency limit is respected", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		b := NewBatchGenerator(func(context.Context, model.BandID) ([]byte, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			return nil, nil
		}, WithConcurrency(2), WithBatchLogger(quietLogger()))

		ids := make([]model.BandID, 10)
		for i := range ids {
			ids[i] = model.BandAudreyMartin
		}
		if _, err := b.GenerateAll(context.Background(), ids); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("peak concurrency = %d, want <= 2", peak.Load())
		}
	})

	t.Run("first failure is returned", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("render failed")
		b := NewBatchGenerator(func(_ context.Context, id model.BandID) ([]byte, error) {
			if id == model.BandFabriceDurand {
				return nil, sentinel
			}
			return []byte("ok"), nil
		}, WithBatchLogger(quietLogger()))

		_, err := b.GenerateAll(context.Background(), model.KnownBandIDs())
		if !errors.Is(err, sentinel) {
			t.Errorf("expected render error, got %v", err)
		}
	})

	t.Run("cancelled context stops the batch", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		b := NewBatchGenerator(func(context.Context, model.BandID) ([]byte, error) {
			return []byte("ok"), nil
		}, WithBatchLogger(quietLogger()))

		if _, err := b.GenerateAll(ctx, model.KnownBandIDs()); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
