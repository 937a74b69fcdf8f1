package engine

import (
	"context"
	"fmt"

	"github.com/oshokin/ae-conditions/internal/domain/alarm"
	"github.com/oshokin/ae-conditions/internal/domain/catalog"
	"github.com/oshokin/ae-conditions/internal/logger"
)

// ProcessSimpleEvent publishes an event of a Simple category.
// The actor of the input is ignored.
func (e *Engine) ProcessSimpleEvent(ctx context.Context, event alarm.Event) (*alarm.Event, error) {
	event.Kind = alarm.EventSimple
	event.Actor = nil

	return e.processEvent(ctx, &event, catalog.CategorySimple)
}

// ProcessTrackingEvent publishes an event of a Tracking category initiated by actor.
func (e *Engine) ProcessTrackingEvent(ctx context.Context, event alarm.Event) (*alarm.Event, error) {
	event.Kind = alarm.EventTracking
	event.Actor = event.Actor.Clone()

	return e.processEvent(ctx, &event, catalog.CategoryTracking)
}

func (e *Engine) processEvent(ctx context.Context, event *alarm.Event, kind catalog.CategoryKind) (*alarm.Event, error) {
	category, ok := e.catalog.Category(event.CategoryID)
	if !ok {
		return nil, fmt.Errorf("%w: %#x", alarm.ErrUnknownCategory, event.CategoryID)
	}

	if category.Kind != kind {
		return nil, fmt.Errorf("%w: category %#x is %s, want %s",
			alarm.ErrUnknownCategory, event.CategoryID, category.Kind, kind)
	}

	if _, ok = e.catalog.Source(event.SourceID); !ok {
		return nil, fmt.Errorf("%w: %#x", alarm.ErrUnknownSource, event.SourceID)
	}

	event.Severity = catalog.ClampSeverity(event.Severity)
	event.AttributeValues = e.attributeValues(ctx, &category, event.AttributeValues)
	event.Timestamp = e.timestamp(event.Timestamp)
	event.EventID = e.newID()

	logger.DebugKV(ctx, "Event generated",
		"kind", event.Kind.String(),
		"category_id", event.CategoryID,
		"source_id", event.SourceID,
		"severity", event.Severity)

	e.metrics.IncNotification(recordEvent)

	if e.eventSink != nil {
		if err := e.eventSink.PublishEvent(ctx, event); err != nil {
			e.metrics.IncDeliveryError(recordEvent)
			logger.ErrorKV(ctx, "Failed to publish event",
				"event_id", event.EventID,
				"error", err)
		}
	}

	return event, nil
}
