package job

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"settlr/internal/config"
	"settlr/internal/model"
	"settlr/internal/service"
)

// EmbeddingStore reads listings without a vector and writes vectors back
type EmbeddingStore interface {
	PropertiesMissingEmbedding(ctx context.Context, limit int) ([]model.Property, error)
	BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
}

// BackfillResult summarizes one backfill pass
type BackfillResult struct {
	Scanned  int
	Embedded int
	Failed   int
}

// Backfiller generates embeddings for listings that are missing one
type Backfiller struct {
	store       EmbeddingStore
	embedder    service.Embedder
	batchSize   int
	concurrency int
	limit       int
	running     atomic.Bool
}

// NewBackfiller creates a backfiller from the embedding settings
func NewBackfiller(store EmbeddingStore, embedder service.Embedder, cfg config.EmbeddingConfig) *Backfiller {
	b := &Backfiller{
		store:       store,
		embedder:    embedder,
		batchSize:   cfg.BatchSize,
		concurrency: cfg.Concurrency,
		limit:       cfg.BackfillLimit,
	}
	if b.batchSize <= 0 {
		b.batchSize = 50
	}
	if b.concurrency <= 0 {
		b.concurrency = 1
	}
	if b.limit <= 0 {
		b.limit = 500
	}
	return b
}

// RunOnce embeds up to the configured number of listings. A failing batch is
// counted and logged; the other batches still run. Only a failure to read
// the pending listings is returned as an error.
func (b *Backfiller) RunOnce(ctx context.Context) (BackfillResult, error) {
	var result BackfillResult

	if !b.running.CompareAndSwap(false, true) {
		logrus.Warn("⚠️ Embedding backfill already running, skipping")
		return result, nil
	}
	defer b.running.Store(false)

	start := time.Now()
	properties, err := b.store.PropertiesMissingEmbedding(ctx, b.limit)
	if err != nil {
		return result, fmt.Errorf("failed to load pending listings: %w", err)
	}
	result.Scanned = len(properties)
	if len(properties) == 0 {
		logrus.Debug("[DEBUG] No listings waiting for embeddings")
		return result, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i := 0; i < len(properties); i += b.batchSize {
		end := min(i+b.batchSize, len(properties))
		batch := properties[i:end]

		g.Go(func() error {
			embedded, failed := b.embedBatch(gctx, batch)
			mu.Lock()
			result.Embedded += embedded
			result.Failed += failed
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	logrus.Infof("✅ Embedding backfill: %d scanned, %d embedded, %d failed in %v",
		result.Scanned, result.Embedded, result.Failed, time.Since(start))
	return result, nil
}

func (b *Backfiller) embedBatch(ctx context.Context, batch []model.Property) (embedded, failed int) {
	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = service.EmbeddingText(&batch[i])
	}

	vectors, err := b.embedder.CreateEmbeddings(ctx, texts)
	if err != nil {
		logrus.Errorf("❌ Failed to embed batch of %d listings: %v", len(batch), err)
		return 0, len(batch)
	}
	if len(vectors) != len(batch) {
		logrus.Errorf("❌ Embedding count mismatch: got %d for %d listings", len(vectors), len(batch))
		return 0, len(batch)
	}

	items := make([]model.EmbeddingItem, 0, len(batch))
	for i := range batch {
		if len(vectors[i]) == 0 {
			failed++
			continue
		}
		items = append(items, model.EmbeddingItem{
			PropertyID: batch[i].ID,
			Embedding:  vectors[i],
			Text:       texts[i],
		})
	}

	success, errs := b.store.BatchUpdateEmbeddings(ctx, items)
	for _, e := range errs {
		logrus.Warnf("⚠️ Embedding update: %s", e)
	}
	return success, failed + len(items) - success
}

// StartBackfill schedules RunOnce on the configured cron spec. The returned
// scheduler must be stopped by the caller.
func StartBackfill(b *Backfiller, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := b.RunOnce(context.Background()); err != nil {
			logrus.Errorf("❌ Embedding backfill failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid backfill schedule %q: %w", spec, err)
	}

	c.Start()
	logrus.Infof("⏰ Embedding backfill scheduled (%s)", spec)
	return c, nil
}
