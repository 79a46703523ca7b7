package events

import (
	"context"
	"time"

	"aurum/internal/adapters/kafka"
	"aurum/pkg/logger"
)

// SyncCompletedEvent reports one finished sync run
type SyncCompletedEvent struct {
	TotalCandidates int       `json:"total_candidates"`
	Processed       int       `json:"processed_count"`
	Success         int       `json:"success_count"`
	ErrorCount      int       `json:"error_count"`
	Deactivated     int       `json:"deactivated_count"`
	Aborted         bool      `json:"aborted"`
	Simulated       bool      `json:"simulated"`
	FinishedAt      time.Time `json:"finished_at"`
}

// InsightCreatedEvent reports one recorded analysis insight
type InsightCreatedEvent struct {
	InsightID      string    `json:"insight_id"`
	Symbol         string    `json:"symbol"`
	TechniqueID    string    `json:"technique_id"`
	Recommendation string    `json:"recommendation"`
	Confidence     int       `json:"confidence"`
	ExecutedAt     time.Time `json:"executed_at"`
}

// Publisher publishes pipeline events to Kafka. A nil Publisher is
// valid and drops every event, so callers need no configuration checks.
type Publisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(producer *kafka.Producer) *Publisher {
	return &Publisher{
		producer: producer,
		log:      logger.Get().With("component", "event_publisher"),
	}
}

// PublishSyncCompleted publishes a sync run summary. Failures are
// logged, never propagated: event delivery must not fail a run.
func (p *Publisher) PublishSyncCompleted(ctx context.Context, ev SyncCompletedEvent) {
	if p == nil || p.producer == nil {
		return
	}
	if err := p.producer.Publish(ctx, kafka.TopicSyncCompleted, "sync", ev); err != nil {
		p.log.Warnf("Failed to publish sync event: %v", err)
	}
}

// PublishInsightCreated publishes one insight record
func (p *Publisher) PublishInsightCreated(ctx context.Context, ev InsightCreatedEvent) {
	if p == nil || p.producer == nil {
		return
	}
	if err := p.producer.Publish(ctx, kafka.TopicInsightCreated, ev.Symbol, ev); err != nil {
		p.log.Warnf("Failed to publish insight event: %v", err)
	}
}
