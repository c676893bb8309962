package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-prioritizer/internal/events"
	"github.com/spec-kit/ticket-prioritizer/internal/observability"
)

// ObserverService turns pipeline events into logs and metrics. It is the
// accumulation point for the failures the pipeline absorbs silently.
type ObserverService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewObserverService creates the service.
func NewObserverService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *ObserverService {
	return &ObserverService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to pipeline events.
func (o *ObserverService) RegisterHandlers() {
	if o.dispatcher == nil {
		return
	}
	o.dispatcher.Subscribe(events.EventClientSkipped, o.handleClientSkipped)
	o.dispatcher.Subscribe(events.EventEnrichmentFallback, o.handleEnrichmentFallback)
	o.dispatcher.Subscribe(events.EventSentimentFailed, o.handleSentimentFailed)
	o.dispatcher.Subscribe(events.EventPipelineCompleted, o.handlePipelineCompleted)
}

func (o *ObserverService) handleClientSkipped(ctx context.Context, event events.Event) error {
	o.metrics.RecordClientSkipped()
	o.logger.Info("ClientSkipped", zap.String("cnb_id", event.ClientID), zap.Any("payload", event.Payload))
	return nil
}

func (o *ObserverService) handleEnrichmentFallback(ctx context.Context, event events.Event) error {
	o.logger.Info("EnrichmentFallback", zap.String("cnb_id", event.ClientID), zap.Any("payload", event.Payload))
	return nil
}

func (o *ObserverService) handleSentimentFailed(ctx context.Context, event events.Event) error {
	o.logger.Info("SentimentFailed", zap.String("cnb_id", event.ClientID), zap.Any("payload", event.Payload))
	return nil
}

func (o *ObserverService) handlePipelineCompleted(ctx context.Context, event events.Event) error {
	o.logger.Info("PipelineCompleted", zap.Any("payload", event.Payload))
	return nil
}
