package engine

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/oshokin/ae-conditions/internal/domain/alarm"
	"github.com/oshokin/ae-conditions/internal/domain/catalog"
	"github.com/oshokin/ae-conditions/internal/domain/variant"
	"github.com/oshokin/ae-conditions/internal/logger"
	"github.com/oshokin/ae-conditions/internal/metrics"
)

// ProcessStateChanges applies the requests in order and returns one result per request.
//
// A request failing validation is rejected on its own; the rest of the batch
// continues. The first request ever seen for a condition records a baseline
// and never notifies. Later requests notify when the active flag or the
// sub-condition changes, or when Force is set; otherwise they only refresh
// quality, attributes and timestamp. Such requests are counted as refreshed
// when the quality or an attribute value differs, unchanged otherwise.
func (e *Engine) ProcessStateChanges(ctx context.Context, changes []alarm.StateChange) []Result {
	started := time.Now()
	results := make([]Result, len(changes))

	for i := range changes {
		results[i] = e.processStateChange(ctx, &changes[i])
	}

	e.metrics.ObserveBatch(time.Since(started))

	return results
}

func (e *Engine) processStateChange(ctx context.Context, change *alarm.StateChange) Result {
	result := Result{ConditionID: change.ConditionID}

	binding, ok := e.catalog.Binding(change.ConditionID)
	if !ok {
		result.Err = fmt.Errorf("%w: %#x", alarm.ErrUnknownCondition, change.ConditionID)
		e.reject(ctx, change, result.Err)

		return result
	}

	sh := e.shardFor(change.ConditionID)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	state := sh.states[change.ConditionID]

	subConditionID, defaults, err := resolveDefaults(&binding.Definition, change, state)
	if err != nil {
		result.Err = fmt.Errorf("condition %#x: %w", change.ConditionID, err)
		e.reject(ctx, change, result.Err)

		return result
	}

	var (
		attributes = e.attributeValues(ctx, &binding.Category, change.AttributeValues)
		timestamp  = e.timestamp(change.Timestamp)
	)

	if state == nil {
		sh.states[change.ConditionID] = &alarm.ConditionState{
			Timestamp:       timestamp,
			Message:         defaults.Message,
			AttributeValues: attributes,
			ConditionID:     change.ConditionID,
			SubConditionID:  subConditionID,
			Severity:        defaults.Severity,
			Quality:         change.Quality,
			Active:          change.Active,
			AckRequired:     defaults.AckRequired,
			Acknowledged:    !(change.Active && defaults.AckRequired),
		}

		e.metrics.IncTracked()
		e.metrics.IncStateChange(metrics.ResultBaseline)
		logger.DebugKV(ctx, "Condition baseline recorded",
			"condition_id", change.ConditionID,
			"active", change.Active,
			"sub_condition_id", subConditionID)

		return result
	}

	var (
		changed   = state.Active != change.Active || state.SubConditionID != subConditionID
		refreshed = state.Quality != change.Quality || !slices.EqualFunc(state.AttributeValues, attributes, variant.Equal)
	)

	state.Quality = change.Quality
	state.AttributeValues = attributes
	state.Timestamp = timestamp

	if !changed && !change.Force {
		if !refreshed {
			e.metrics.IncStateChange(metrics.ResultUnchanged)

			return result
		}

		e.metrics.IncStateChange(metrics.ResultRefreshed)
		logger.DebugKV(ctx, "Condition refreshed",
			"condition_id", change.ConditionID,
			"quality", change.Quality.String())

		return result
	}

	notification := &alarm.Notification{
		Timestamp:       timestamp,
		EventID:         e.newID(),
		Message:         defaults.Message,
		ConditionText:   defaults.ConditionText,
		AttributeValues: append(attributes[:0:0], attributes...),
		ConditionID:     change.ConditionID,
		SourceID:        binding.Condition.SourceID,
		CategoryID:      binding.Category.ID,
		SubConditionID:  subConditionID,
		Severity:        defaults.Severity,
		Quality:         change.Quality,
		Active:          change.Active,
		AckRequired:     defaults.AckRequired,
	}

	if change.Message != nil {
		notification.Message = *change.Message
	}

	if change.Severity != nil {
		notification.Severity = catalog.ClampSeverity(*change.Severity)
	}

	if change.AckRequired != nil {
		notification.AckRequired = *change.AckRequired
	}

	state.Active = change.Active
	state.SubConditionID = subConditionID
	state.Severity = defaults.Severity
	state.Message = defaults.Message
	state.AckRequired = defaults.AckRequired

	if changed {
		state.Acknowledged = !notification.AckRequired
	}

	e.metrics.IncStateChange(metrics.ResultNotified)
	logger.DebugKV(ctx, "Condition transition",
		"condition_id", change.ConditionID,
		"active", change.Active,
		"sub_condition_id", subConditionID,
		"severity", notification.Severity,
		"forced", !changed)

	e.publishCondition(ctx, notification)

	result.Notification = notification

	return result
}

// resolveDefaults validates the requested sub-condition against the definition
// and returns the effective sub-condition with its catalog defaults.
//
// Single-state definitions accept sub-condition 0 only. Multi-state
// definitions need an owned sub-condition while active; an inactive request
// with sub-condition 0 keeps the last one for display.
func resolveDefaults(
	definition *catalog.Definition,
	change *alarm.StateChange,
	state *alarm.ConditionState,
) (uint32, catalog.Defaults, error) {
	if definition.Kind == catalog.SingleState {
		if change.SubConditionID != 0 {
			return 0, catalog.Defaults{}, fmt.Errorf(
				"%w: %#x on single-state definition %#x",
				alarm.ErrUnknownSubCondition, change.SubConditionID, definition.ID)
		}

		return 0, definition.Defaults, nil
	}

	subConditionID := change.SubConditionID
	if subConditionID == 0 {
		if change.Active {
			return 0, catalog.Defaults{}, fmt.Errorf(
				"%w: active request on multi-state definition %#x names no sub-condition",
				alarm.ErrUnknownSubCondition, definition.ID)
		}

		if state != nil {
			subConditionID = state.SubConditionID
		}
	}

	if subConditionID == 0 {
		return 0, catalog.Defaults{Severity: catalog.MinSeverity}, nil
	}

	subCondition, ok := definition.SubCondition(subConditionID)
	if !ok {
		return 0, catalog.Defaults{}, fmt.Errorf(
			"%w: %#x is not owned by definition %#x",
			alarm.ErrUnknownSubCondition, subConditionID, definition.ID)
	}

	return subConditionID, subCondition.Defaults, nil
}

func (e *Engine) reject(ctx context.Context, change *alarm.StateChange, err error) {
	e.metrics.IncStateChange(metrics.ResultRejected)
	logger.WarnKV(ctx, "State change rejected",
		"condition_id", change.ConditionID,
		"error", err)
}

func (e *Engine) publishCondition(ctx context.Context, notification *alarm.Notification) {
	e.metrics.IncNotification(recordCondition)

	if e.conditionSink == nil {
		return
	}

	if err := e.conditionSink.PublishCondition(ctx, notification); err != nil {
		e.metrics.IncDeliveryError(recordCondition)
		logger.ErrorKV(ctx, "Failed to publish notification",
			"condition_id", notification.ConditionID,
			"event_id", notification.EventID,
			"error", err)
	}
}
