package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/freelansire/hrh/pkg/cloudevents"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
)

// EventProducer publishes a CloudEvent to a topic
type EventProducer interface {
	PublishEvent(ctx context.Context, topic string, event *cloudevents.HRHCloudEvent) error
}

// Publisher relays events from the outbox to Kafka
type Publisher struct {
	repo      Repository
	producer  EventProducer
	logger    *logging.Logger
	metrics   *metrics.Metrics
	config    PublisherConfig
	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	stoppedCh chan struct{}
	published int
	failed    int
	purged    int64
}

// PublisherConfig holds configuration for the outbox publisher
type PublisherConfig struct {
	PollInterval time.Duration
	BatchSize    int

	// Published events older than Retention are purged every PurgeInterval
	Retention     time.Duration
	PurgeInterval time.Duration
}

// DefaultPublisherConfig returns default configuration
func DefaultPublisherConfig() *PublisherConfig {
	return &PublisherConfig{
		PollInterval:  1 * time.Second,
		BatchSize:     100,
		Retention:     7 * 24 * time.Hour,
		PurgeInterval: time.Hour,
	}
}

// NewPublisher creates a new outbox publisher
func NewPublisher(
	repo Repository,
	producer EventProducer,
	logger *logging.Logger,
	metrics *metrics.Metrics,
	config *PublisherConfig,
) *Publisher {
	if config == nil {
		config = DefaultPublisherConfig()
	}

	return &Publisher{
		repo:     repo,
		producer: producer,
		logger:   logger.WithComponent("outbox-publisher"),
		metrics:  metrics,
		config:   *config,
	}
}

// Start starts the outbox publisher loop in its own goroutine
func (p *Publisher) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("publisher already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.stoppedCh = make(chan struct{})

	p.logger.Info("Starting outbox publisher",
		"interval", p.config.PollInterval,
		"batchSize", p.config.BatchSize,
		"retention", p.config.Retention,
	)

	go p.run(ctx, p.stopCh, p.stoppedCh)
	return nil
}

// Stop stops the outbox publisher and waits for the loop to exit
func (p *Publisher) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return fmt.Errorf("publisher not running")
	}
	stopCh, stoppedCh := p.stopCh, p.stoppedCh
	p.running = false
	p.mu.Unlock()

	close(stopCh)
	<-stoppedCh

	stats := p.Stats()
	p.logger.Info("Outbox publisher stopped", "published", stats["published"], "failed", stats["failed"])
	return nil
}

func (p *Publisher) run(ctx context.Context, stopCh <-chan struct{}, stoppedCh chan<- struct{}) {
	defer close(stoppedCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	var purgeC <-chan time.Time
	if p.config.Retention > 0 && p.config.PurgeInterval > 0 {
		purgeTicker := time.NewTicker(p.config.PurgeInterval)
		defer purgeTicker.Stop()
		purgeC = purgeTicker.C
	}

	for {
		select {
		case <-ticker.C:
			p.ProcessBatch(ctx)
		case <-purgeC:
			p.Purge(ctx)
		case <-stopCh:
			return
		case <-ctx.Done():
			p.logger.Info("Publisher context cancelled")
			return
		}
	}
}

// ProcessBatch publishes one batch of unpublished events. Failures are
// recorded on the event and retried on a later poll.
func (p *Publisher) ProcessBatch(ctx context.Context) {
	events, err := p.repo.FindUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.logger.WithError(err).Error("Failed to find unpublished events")
		return
	}

	if p.metrics != nil {
		p.metrics.SetOutboxPending(len(events))
	}

	for _, event := range events {
		duration, err := p.publishEvent(ctx, event)
		if p.metrics != nil {
			p.metrics.RecordOutboxPublish(event.EventType, err == nil, duration)
		}

		if err != nil {
			p.logger.WithError(err).Error("Failed to publish event",
				"eventId", event.ID,
				"eventType", event.EventType,
				"aggregateId", event.AggregateID,
				"retryCount", event.RetryCount+1,
			)
			p.count(false)

			if err := p.repo.IncrementRetry(ctx, event.ID, err.Error()); err != nil {
				p.logger.WithError(err).Error("Failed to increment retry count", "eventId", event.ID)
			}
			if p.metrics != nil {
				p.metrics.RecordOutboxRetry(event.EventType)
			}
			continue
		}

		p.count(true)
		if err := p.repo.MarkPublished(ctx, event.ID); err != nil {
			p.logger.WithError(err).Error("Failed to mark event as published", "eventId", event.ID)
		}
	}
}

// Purge removes published events older than the retention period
func (p *Publisher) Purge(ctx context.Context) {
	deleted, err := p.repo.DeletePublished(ctx, p.config.Retention)
	if err != nil {
		p.logger.WithError(err).Error("Failed to purge published outbox events")
		return
	}
	if deleted > 0 {
		p.mu.Lock()
		p.purged += deleted
		p.mu.Unlock()
		p.logger.Info("Purged published outbox events", "deleted", deleted)
	}
}

func (p *Publisher) publishEvent(ctx context.Context, event *OutboxEvent) (time.Duration, error) {
	start := time.Now()

	cloudEvent, err := event.ToCloudEvent()
	if err != nil {
		return time.Since(start), fmt.Errorf("failed to convert to CloudEvent: %w", err)
	}

	if err := p.producer.PublishEvent(ctx, event.Topic, cloudEvent); err != nil {
		return time.Since(start), fmt.Errorf("failed to publish to Kafka: %w", err)
	}

	duration := time.Since(start)
	p.logger.Debug("Published event from outbox",
		"eventId", event.ID,
		"eventType", event.EventType,
		"topic", event.Topic,
		"durationMs", duration.Milliseconds(),
	)

	return duration, nil
}

func (p *Publisher) count(success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if success {
		p.published++
	} else {
		p.failed++
	}
}

// IsRunning returns whether the publisher is running
func (p *Publisher) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Stats returns publisher statistics
func (p *Publisher) Stats() map[string]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return map[string]int64{
		"published": int64(p.published),
		"failed":    int64(p.failed),
		"purged":    p.purged,
	}
}
