package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	"github.com/couchcryptid/hotspot-map-service/internal/observability"
)

// BatchExtractor reads up to batchSize feed messages from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.FeedMessage, error)
}

// Transformer converts a feed message into a hotspot update.
type Transformer interface {
	Transform(ctx context.Context, msg domain.FeedMessage) (domain.HotspotUpdate, error)
}

// BatchLoader applies hotspot updates to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, updates []domain.HotspotUpdate) error
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Pipeline runs the feed loop: extract messages, parse them into hotspot
// updates and load them into the live snapshot. Readiness is reported by the
// snapshot itself (provider.Live).
//
// A batch that fails to load is retried until it succeeds or the context
// ends. The reader's fetch position has already moved past it, so dropping it
// would lose the updates until the next restart.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// Run executes the feed loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("feed pipeline started", "batch_size", p.batchSize)
	p.metrics.FeedRunning.Set(1)
	defer p.metrics.FeedRunning.Set(0)

	for ctx.Err() == nil {
		if err := p.step(ctx); err != nil {
			break
		}
	}
	p.logger.Info("feed pipeline stopping", "reason", context.Cause(ctx))
	return nil
}

// step fetches one batch and applies it. It only returns an error when the
// context has ended.
func (p *Pipeline) step(ctx context.Context) error {
	retry := backoff{next: initialBackoff}

	var msgs []domain.FeedMessage
	for {
		var err error
		msgs, err = p.extractor.ExtractBatch(ctx, p.batchSize)
		if err == nil {
			break
		}
		if len(msgs) > 0 {
			// Messages fetched before the error are past the reader's position
			// and would be lost if dropped here.
			p.logger.Warn("extract batch failed after partial fetch", "error", err, "batch_size", len(msgs))
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Error("extract batch failed", "error", err, "retry_in", retry.next)
		if err := retry.wait(ctx); err != nil {
			return err
		}
	}
	if len(msgs) == 0 {
		return nil
	}

	start := time.Now()
	p.metrics.FeedMessagesConsumed.Add(float64(len(msgs)))
	p.metrics.BatchSize.Observe(float64(len(msgs)))

	updates, accepted := p.transformAll(ctx, msgs)
	if len(updates) == 0 {
		return nil
	}

	retry = backoff{next: initialBackoff}
	for {
		err := p.loader.LoadBatch(ctx, updates)
		if err == nil {
			break
		}
		p.logger.Error("load batch failed", "error", err, "batch_size", len(updates), "retry_in", retry.next)
		if err := retry.wait(ctx); err != nil {
			return err
		}
	}

	p.metrics.FeedUpdatesLoaded.Add(float64(len(updates)))
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	for _, msg := range accepted {
		p.commit(ctx, msg)
	}
	return nil
}

// transformAll parses each message in order. Messages that fail are counted,
// committed and left out; accepted holds the messages behind the returned
// updates so they can be committed after the load.
func (p *Pipeline) transformAll(ctx context.Context, msgs []domain.FeedMessage) (updates []domain.HotspotUpdate, accepted []domain.FeedMessage) {
	updates = make([]domain.HotspotUpdate, 0, len(msgs))
	accepted = make([]domain.FeedMessage, 0, len(msgs))
	for _, msg := range msgs {
		u, err := p.transformer.Transform(ctx, msg)
		if err != nil {
			p.logger.Warn("skipping feed message",
				"error", err,
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
			p.metrics.FeedTransformErrors.Inc()
			p.commit(ctx, msg)
			continue
		}
		updates = append(updates, u)
		accepted = append(accepted, msg)
	}
	return updates, accepted
}

func (p *Pipeline) commit(ctx context.Context, msg domain.FeedMessage) {
	if msg.Commit == nil {
		return
	}
	if err := msg.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
	}
}

// backoff doubles its delay after every wait, up to maxBackoff.
type backoff struct {
	next time.Duration
}

func (b *backoff) wait(ctx context.Context) error {
	timer := time.NewTimer(b.next)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	b.next = min(b.next*2, maxBackoff)
	return nil
}
