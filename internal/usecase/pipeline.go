package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"SalesDriveSync/internal/catalog"
	"SalesDriveSync/internal/domain"
	"SalesDriveSync/internal/metrics"
	"SalesDriveSync/internal/normalize"
	"SalesDriveSync/internal/ports"
)

// PipelineDeps wires all driven adapters into the sync pipeline.
type PipelineDeps struct {
	Source      ports.FeedSource
	Store       ports.CatalogStore
	Publisher   ports.EventPublisher
	Notifier    ports.Notifier
	FeedURL     string
	GalleryMode catalog.GalleryMode
	Logger      *slog.Logger
}

// Pipeline implements the fetch, normalize and reconcile workflow.
type Pipeline struct {
	source     ports.FeedSource
	reconciler *catalog.Reconciler
	publisher  ports.EventPublisher
	notifier   ports.Notifier
	feedURL    string
	logger     *slog.Logger

	running sync.Mutex
	now     func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:     deps.Source,
		reconciler: catalog.NewReconciler(deps.Store, deps.GalleryMode, logger.With("component", "reconciler")),
		publisher:  deps.Publisher,
		notifier:   deps.Notifier,
		feedURL:    deps.FeedURL,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one sync. An empty feed URL makes it a no-op. Only one run may be active per process.
func (p *Pipeline) Run(ctx context.Context, trigger domain.TriggerKind) (domain.RunReport, error) {
	report := domain.RunReport{Trigger: trigger, FeedURL: p.feedURL, StartedAt: p.now()}

	if p.feedURL == "" || p.source == nil {
		report.Skipped = true
		report.FinishedAt = p.now()
		p.logger.Debug("feed url not configured, skipping run", "trigger", trigger)
		metrics.RecordRun(string(trigger), "skipped", report.Duration())
		return report, nil
	}

	if !p.running.TryLock() {
		p.logger.Warn("sync trigger rejected", "trigger", trigger, "error", domain.ErrRunInProgress)
		return report, domain.ErrRunInProgress
	}
	defer p.running.Unlock()

	p.logger.Info("sync run started", "trigger", trigger, "feed_url", p.feedURL)
	err := p.process(ctx, &report)
	report.FinishedAt = p.now()

	result := "ok"
	if err != nil {
		result = "failed"
		report.Error = domain.FailureMessage(err)
		p.logger.Error("sync run failed", "trigger", trigger, "processed", report.Processed(), "error", err)
	} else {
		p.logger.Info("sync run finished",
			"trigger", trigger,
			"offers", report.Offers,
			"omitted", report.Omitted,
			"created", report.Created,
			"updated", report.Updated,
			"duration", report.Duration())
	}
	metrics.RecordRun(string(trigger), result, report.Duration())

	p.notify(ctx, report)
	return report, err
}

func (p *Pipeline) process(ctx context.Context, report *domain.RunReport) error {
	feed, err := p.source.Fetch(ctx, p.feedURL)
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}

	records, omitted := normalize.NormalizeAll(feed.Offers, feed.CategoryIndex())
	report.Offers = len(feed.Offers)
	report.Omitted = omitted
	for i := 0; i < omitted; i++ {
		metrics.RecordOutcome("omitted")
	}
	if omitted > 0 {
		p.logger.Debug("offers without id skipped", "count", omitted)
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run cancelled: %w", err)
		}

		id, outcome, err := p.reconciler.Reconcile(ctx, record)
		if err != nil {
			return fmt.Errorf("reconcile offer %s: %w", record.ExternalID, err)
		}

		switch outcome {
		case domain.OutcomeCreated:
			report.Created++
		case domain.OutcomeUpdated:
			report.Updated++
		}
		metrics.RecordOutcome(string(outcome))

		if p.publisher != nil {
			if err := p.publisher.PublishOutcome(ctx, record, id, outcome); err != nil {
				p.logger.Warn("outcome event not published", "external_id", record.ExternalID, "error", err)
			}
		}
	}

	return nil
}

func (p *Pipeline) notify(ctx context.Context, report domain.RunReport) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.PublishReport(ctx, report); err != nil {
		p.logger.Warn("run report not delivered", "error", err)
	}
}
