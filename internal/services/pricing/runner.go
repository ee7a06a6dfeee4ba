package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DonJuan-DeMarco/cs2investments/internal/models"
	"go.uber.org/zap"
)

// Policy is the pacing contract for one run: how many items are dispatched
// concurrently per group, and how long to pause between groups. Both
// invocation modes share the same runner and differ only in policy.
type Policy struct {
	GroupSize int
	Pause     time.Duration
}

// BatchPolicy is the scheduled-job posture: small concurrent groups with a
// short pause between them, as backpressure against upstream rate limits.
func BatchPolicy(groupSize int, pause time.Duration) Policy {
	if groupSize < 1 {
		groupSize = 1
	}
	return Policy{GroupSize: groupSize, Pause: pause}
}

// ManualPolicy is the conservative posture for user-triggered runs: strictly
// sequential with a long pause between items.
func ManualPolicy(pause time.Duration) Policy {
	return Policy{GroupSize: 1, Pause: pause}
}

// PricePublisher receives every successfully written price row, best-effort.
type PricePublisher interface {
	PublishPrice(record models.ItemPrice)
}

// Runner drives one ingestion run: it partitions the item set into groups,
// resolves and writes each group concurrently, and paces groups apart.
type Runner struct {
	resolver  *Resolver
	writer    RecordWriter
	publisher PricePublisher
	logger    *zap.Logger
	sleep     func(time.Duration)
}

func NewRunner(resolver *Resolver, writer RecordWriter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		resolver: resolver,
		writer:   writer,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// SetPublisher attaches an optional live feed for written prices.
func (r *Runner) SetPublisher(p PricePublisher) {
	r.publisher = p
}

// SetSleep replaces the pacing sleep.
func (r *Runner) SetSleep(sleep func(time.Duration)) {
	r.sleep = sleep
}

// Run processes every item exactly once and returns the aggregated report.
// Items within a group run concurrently and are all joined before the next
// group starts; failed items are recorded and left for the next run, never
// retried and never allowed to abort their siblings.
func (r *Runner) Run(ctx context.Context, items []models.Item, policy Policy) *Report {
	report := NewReport(len(items))
	if len(items) == 0 {
		return report
	}
	if policy.GroupSize < 1 {
		policy.GroupSize = 1
	}

	r.logger.Info("starting price update",
		zap.Int("items", len(items)),
		zap.Int("group_size", policy.GroupSize),
		zap.Duration("pause", policy.Pause))

	for start := 0; start < len(items); start += policy.GroupSize {
		end := start + policy.GroupSize
		if end > len(items) {
			end = len(items)
		}
		group := items[start:end]

		if len(group) == 1 {
			r.processItem(ctx, group[0], report)
		} else {
			var wg sync.WaitGroup
			for _, item := range group {
				wg.Add(1)
				go func(item models.Item) {
					defer wg.Done()
					r.processItem(ctx, item, report)
				}(item)
			}
			wg.Wait()
		}

		if end < len(items) && policy.Pause > 0 {
			r.sleep(policy.Pause)
		}
	}

	snapshot := report.Snapshot()
	r.logger.Info("price update completed",
		zap.Int("success", snapshot.Success),
		zap.Int("failed", snapshot.Failed),
		zap.Int("skipped", snapshot.Skipped))

	return report
}

func (r *Runner) processItem(ctx context.Context, item models.Item, report *Report) {
	outcome := r.resolver.Resolve(ctx, item)

	switch outcome.Status {
	case StatusSkipped:
		report.AddSkipped()
		r.logger.Debug("skipped item",
			zap.Uint("item_id", item.ID),
			zap.String("reason", outcome.Reason))
	case StatusFailed:
		report.AddFailure(fmt.Sprintf("%s: %v", itemLabel(item), outcome.Err))
		r.logger.Warn("failed to resolve price",
			zap.Uint("item_id", item.ID),
			zap.Error(outcome.Err))
	case StatusPriced:
		record, err := r.writer.WritePrice(ctx, item.ID, outcome.PriceCents)
		if err != nil {
			report.AddFailure(fmt.Sprintf("%s: %v", itemLabel(item), err))
			r.logger.Warn("failed to write price",
				zap.Uint("item_id", item.ID),
				zap.Error(err))
			return
		}
		report.AddSuccess()
		r.logger.Info("updated price",
			zap.Uint("item_id", item.ID),
			zap.String("item", item.DefName),
			zap.Int64("price_cents", outcome.PriceCents))
		if r.publisher != nil {
			r.publisher.PublishPrice(record)
		}
	}
}

func itemLabel(item models.Item) string {
	return fmt.Sprintf("item %d (%s)", item.ID, item.DefName)
}
