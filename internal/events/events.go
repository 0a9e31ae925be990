// Package events fans activity events out to subscribers: the log, Redis
// pub/sub, a RabbitMQ queue and websocket clients.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/valefinance/vale/internal/domain"
	"go.uber.org/zap"
)

// New builds an event for an activity.
func New(kind string, a *domain.Activity) domain.Event {
	return domain.Event{Kind: kind, Activity: a, OccurredAt: time.Now().UTC()}
}

// LogPublisher writes events to the structured log.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, e domain.Event) error {
	fields := []zap.Field{zap.String("kind", e.Kind)}
	if e.Activity != nil {
		fields = append(fields,
			zap.Int64("activity_id", e.Activity.ID),
			zap.String("title", e.Activity.Title),
		)
		if e.Activity.AgentID != nil {
			fields = append(fields, zap.Int64("agent_id", *e.Activity.AgentID))
		}
	}
	p.logger.Info("event published", fields...)
	return nil
}

// Multi publishes to every publisher and joins their errors.
type Multi struct {
	publishers []domain.EventPublisher
}

func NewMulti(publishers ...domain.EventPublisher) *Multi {
	m := &Multi{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

func (m *Multi) Publish(ctx context.Context, e domain.Event) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of publishers.
func (m *Multi) Len() int {
	return len(m.publishers)
}
