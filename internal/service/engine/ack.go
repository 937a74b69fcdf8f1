package engine

import (
	"context"
	"fmt"

	"github.com/oshokin/ae-conditions/internal/domain/alarm"
	"github.com/oshokin/ae-conditions/internal/logger"
	"github.com/oshokin/ae-conditions/internal/metrics"
)

// Acknowledge clears the pending acknowledgment of a condition.
//
// The ack notifier is called with the current sub-condition while the
// condition is already marked acknowledged; if it fails the flag is restored,
// no confirmation is produced and the hook error is returned wrapped.
// Acknowledging never changes the active state or the sub-condition.
func (e *Engine) Acknowledge(
	ctx context.Context,
	conditionID uint32,
	actor *alarm.Actor,
	comment string,
) (*alarm.AckConfirmation, error) {
	if _, ok := e.catalog.Condition(conditionID); !ok {
		e.metrics.IncAcknowledgment(metrics.ResultRejected)

		return nil, fmt.Errorf("%w: %#x", alarm.ErrUnknownCondition, conditionID)
	}

	sh := e.shardFor(conditionID)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	state, ok := sh.states[conditionID]
	if !ok || state.Acknowledged {
		e.metrics.IncAcknowledgment(metrics.ResultRejected)

		return nil, fmt.Errorf("%w: condition %#x", alarm.ErrNotAcknowledgeable, conditionID)
	}

	state.Acknowledged = true

	if e.ackNotifier != nil {
		err := e.ackNotifier.OnAckNotification(ctx, conditionID, state.SubConditionID)
		if err != nil {
			state.Acknowledged = false

			e.metrics.IncAcknowledgment(metrics.ResultError)
			logger.WarnKV(ctx, "Acknowledgment refused by notifier",
				"condition_id", conditionID,
				"sub_condition_id", state.SubConditionID,
				"error", err)

			return nil, fmt.Errorf("ack notification for condition %#x: %w", conditionID, err)
		}
	}

	confirmation := &alarm.AckConfirmation{
		Timestamp:      e.now(),
		Actor:          actor.Clone(),
		EventID:        e.newID(),
		Comment:        comment,
		ConditionID:    conditionID,
		SubConditionID: state.SubConditionID,
	}

	e.metrics.IncAcknowledgment(metrics.ResultSuccess)
	logger.InfoKV(ctx, "Condition acknowledged",
		"condition_id", conditionID,
		"sub_condition_id", state.SubConditionID,
		"actor", actor.String())

	e.publishAck(ctx, confirmation)

	return confirmation, nil
}

func (e *Engine) publishAck(ctx context.Context, confirmation *alarm.AckConfirmation) {
	e.metrics.IncNotification(recordAck)

	if e.ackSink == nil {
		return
	}

	if err := e.ackSink.PublishAck(ctx, confirmation); err != nil {
		e.metrics.IncDeliveryError(recordAck)
		logger.ErrorKV(ctx, "Failed to publish acknowledgment",
			"condition_id", confirmation.ConditionID,
			"event_id", confirmation.EventID,
			"error", err)
	}
}
