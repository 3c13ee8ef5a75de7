package batch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hazyhaar/coupure/sink"
)

// Submitter is the sink-facing side of a batch run.
type Submitter interface {
	Submit(ctx context.Context, p *sink.Payload) (*sink.Receipt, error)
}

// Ledger records which content has already been submitted, so re-running a
// batch does not duplicate documents at the sink.
type Ledger interface {
	Seen(ctx context.Context, contentHash string) (bool, error)
	Record(ctx context.Context, contentHash, itemID, title string, chunks, tokens int) error
}

// HashFunc derives the ledger key for a payload's content.
type HashFunc func(content string) string

// Item is one unit of work. Build runs the item's extraction and metadata
// resolution; it is only invoked when the runner reaches the item.
type Item struct {
	ID    string
	Build func(ctx context.Context) (*sink.Payload, error)
}

// Runner drives items through build and submission sequentially.
type Runner struct {
	submitter Submitter
	pace      time.Duration
	dryRun    bool
	ledger    Ledger
	hash      HashFunc
	logger    *slog.Logger
}

// Option adjusts a Runner.
type Option func(*Runner)

// WithPace inserts a fixed delay between consecutive submissions, to stay
// polite toward origin servers and the sink.
func WithPace(d time.Duration) Option {
	return func(r *Runner) { r.pace = d }
}

// WithDryRun builds every item but submits nothing.
func WithDryRun(dry bool) Option {
	return func(r *Runner) { r.dryRun = dry }
}

// WithLedger enables duplicate suppression keyed by content hash.
func WithLedger(l Ledger, hash HashFunc) Option {
	return func(r *Runner) {
		r.ledger = l
		r.hash = hash
	}
}

// WithLogger sets the run logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a Runner submitting through s.
func NewRunner(s Submitter, opts ...Option) *Runner {
	r := &Runner{submitter: s, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes every item in order. Each item is isolated: a build or
// submission failure is recorded in the report and the run moves on. Items
// whose built payload has no content after trimming are recorded as failures
// without contacting the sink. Pacing sleeps between submissions but never
// skips a pending item; context cancellation only shortens the sleep.
func (r *Runner) Run(ctx context.Context, items []Item) *Report {
	report := &Report{Total: len(items)}

	for i, item := range items {
		log := r.logger.With("item", item.ID)

		payload, err := item.Build(ctx)
		if err != nil {
			log.Warn("batch: build failed", "error", err)
			report.Failures = append(report.Failures, Failure{ID: item.ID, Reason: err.Error(), Err: err})
			continue
		}
		if strings.TrimSpace(payload.Content) == "" {
			log.Warn("batch: no text extracted")
			report.Failures = append(report.Failures, Failure{ID: item.ID, Reason: "no text extracted"})
			continue
		}

		if r.ledger != nil {
			hash := r.hash(payload.Content)
			seen, err := r.ledger.Seen(ctx, hash)
			if err != nil {
				log.Warn("batch: ledger lookup failed, submitting anyway", "error", err)
			} else if seen {
				log.Info("batch: already submitted, skipping", "title", payload.Title)
				report.Succeeded++
				continue
			}
		}

		if r.dryRun {
			log.Info("batch: dry run, would submit",
				"title", payload.Title, "chars", len(payload.Content))
			report.Succeeded++
			continue
		}

		rcpt, err := r.submitter.Submit(ctx, payload)
		if err != nil {
			log.Warn("batch: submission failed", "error", err)
			report.Failures = append(report.Failures, Failure{ID: item.ID, Reason: err.Error(), Err: err})
		} else {
			log.Info("batch: submitted", "title", payload.Title,
				"chunks", rcpt.ChunksIngested, "tokens", rcpt.TotalTokens)
			report.Succeeded++
			if r.ledger != nil {
				hash := r.hash(payload.Content)
				if err := r.ledger.Record(ctx, hash, item.ID, payload.Title,
					rcpt.ChunksIngested, rcpt.TotalTokens); err != nil {
					log.Warn("batch: ledger record failed", "error", err)
				}
			}
		}

		if r.pace > 0 && i < len(items)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(r.pace):
			}
		}
	}
	return report
}
