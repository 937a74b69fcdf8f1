package replay

import (
	"context"
	"fmt"

	"github.com/oshokin/ae-conditions/internal/domain/alarm"
	"github.com/oshokin/ae-conditions/internal/logger"
	"github.com/oshokin/ae-conditions/internal/repository/script"
	"github.com/oshokin/ae-conditions/internal/service/engine"
)

// Summary counts what a replay submitted and what the engine made of it.
type Summary struct {
	// Steps is the number of replayed steps.
	Steps int
	// Requests is the number of state changes, acknowledgments and events submitted.
	Requests int
	// Notifications is the number of condition notifications produced.
	Notifications int
	// Acknowledged is the number of confirmed acknowledgments.
	Acknowledged int
	// Events is the number of simple and tracking events produced.
	Events int
	// Rejected is the number of requests the engine refused.
	Rejected int
}

// runner replays steps against one engine.
type runner struct {
	// engine processes the requests.
	engine *engine.Engine
	// detectActor is called once, on the first request that names no actor.
	detectActor func() (*alarm.Actor, error)
	// actor caches the detected actor.
	actor *alarm.Actor
}

func newRunner(eng *engine.Engine, detectActor func() (*alarm.Actor, error)) *runner {
	return &runner{
		engine:      eng,
		detectActor: detectActor,
	}
}

// run replays all steps. Rejected requests are counted and logged; malformed
// steps and context cancellation stop the run.
func (r *runner) run(ctx context.Context, s *script.Script) (Summary, error) {
	var summary Summary

	for i := range s.Steps {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("replay interrupted at step %d: %w", i+1, err)
		}

		if err := r.step(ctx, &s.Steps[i], &summary); err != nil {
			return summary, fmt.Errorf("step %d: %w", i+1, err)
		}

		summary.Steps++
	}

	return summary, nil
}

func (r *runner) step(ctx context.Context, step *script.Step, summary *Summary) error {
	kind, err := step.Kind()
	if err != nil {
		return err
	}

	switch kind {
	case script.StepChanges:
		return r.changes(ctx, step.Changes, summary)
	case script.StepAck:
		return r.ack(ctx, step.Ack, summary)
	case script.StepSimple, script.StepTracking:
		return r.event(ctx, kind, step, summary)
	default:
		return fmt.Errorf("%w: step kind %s", script.ErrInvalidScript, kind)
	}
}

func (r *runner) changes(ctx context.Context, changes []script.Change, summary *Summary) error {
	requests := make([]alarm.StateChange, 0, len(changes))

	for i := range changes {
		change, err := changes[i].StateChange(r.engine.Catalog())
		if err != nil {
			return err
		}

		requests = append(requests, change)
	}

	summary.Requests += len(requests)

	for _, result := range r.engine.ProcessStateChanges(ctx, requests) {
		switch {
		case result.Err != nil:
			summary.Rejected++
		case result.Notification != nil:
			summary.Notifications++
		}
	}

	return nil
}

func (r *runner) ack(ctx context.Context, ack *script.Ack, summary *Summary) error {
	actor, err := r.resolveActor(ack.Actor)
	if err != nil {
		return err
	}

	summary.Requests++

	if _, err = r.engine.Acknowledge(ctx, ack.Condition, actor, ack.Comment); err != nil {
		summary.Rejected++

		logger.WarnKV(ctx, "Acknowledgment rejected", "condition_id", ack.Condition, "error", err)

		return nil
	}

	summary.Acknowledged++

	return nil
}

func (r *runner) event(ctx context.Context, kind script.StepKind, step *script.Step, summary *Summary) error {
	spec := step.Simple
	process := r.engine.ProcessSimpleEvent

	if kind == script.StepTracking {
		spec = step.Tracking
		process = r.engine.ProcessTrackingEvent
	}

	ev, err := spec.Event(r.engine.Catalog())
	if err != nil {
		return err
	}

	if kind == script.StepTracking {
		if ev.Actor, err = r.resolveActor(spec.Actor); err != nil {
			return err
		}
	}

	summary.Requests++

	if _, err = process(ctx, ev); err != nil {
		summary.Rejected++

		logger.WarnKV(ctx, "Event rejected",
			"kind", kind.String(),
			"category_id", ev.CategoryID,
			"source_id", ev.SourceID,
			"error", err)

		return nil
	}

	summary.Events++

	return nil
}

func (r *runner) resolveActor(spec *script.Actor) (*alarm.Actor, error) {
	if actor := spec.Actor(); actor != nil {
		return actor, nil
	}

	if r.actor == nil {
		actor, err := r.detectActor()
		if err != nil {
			return nil, fmt.Errorf("detect actor: %w", err)
		}

		r.actor = actor
	}

	return r.actor, nil
}
