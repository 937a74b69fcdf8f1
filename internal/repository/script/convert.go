package script

import (
	"fmt"
	"time"

	"github.com/oshokin/ae-conditions/internal/domain/alarm"
	"github.com/oshokin/ae-conditions/internal/domain/catalog"
	"github.com/oshokin/ae-conditions/internal/domain/quality"
	"github.com/oshokin/ae-conditions/internal/domain/variant"
)

// StateChange converts the change into an engine request.
// Attribute values are typed after the defaults of the condition's category.
func (c *Change) StateChange(cat *catalog.Catalog) (alarm.StateChange, error) {
	q, err := c.Quality.Value()
	if err != nil {
		return alarm.StateChange{}, fmt.Errorf("condition %#x: %w", c.Condition, err)
	}

	change := alarm.StateChange{
		Timestamp:      timestamp(c.Timestamp),
		Message:        c.Message,
		Severity:       c.Severity,
		AckRequired:    c.AckRequired,
		ConditionID:    c.Condition,
		SubConditionID: c.SubCondition,
		Quality:        q,
		Active:         c.Active,
		Force:          c.Force,
	}

	if len(c.Attributes) == 0 {
		return change, nil
	}

	binding, ok := cat.Binding(c.Condition)
	if !ok {
		return alarm.StateChange{}, fmt.Errorf("%w: %#x", alarm.ErrUnknownCondition, c.Condition)
	}

	change.AttributeValues, err = attributeValues(&binding.Category, c.Attributes)
	if err != nil {
		return alarm.StateChange{}, fmt.Errorf("condition %#x: %w", c.Condition, err)
	}

	return change, nil
}

// Event converts the event into an engine request.
// The caller sets the actor of tracking events.
func (e *Event) Event(cat *catalog.Catalog) (alarm.Event, error) {
	event := alarm.Event{
		Timestamp:  timestamp(e.Timestamp),
		Actor:      e.Actor.Actor(),
		Message:    e.Message,
		CategoryID: e.Category,
		SourceID:   e.Source,
		Severity:   e.Severity,
	}

	if len(e.Attributes) == 0 {
		return event, nil
	}

	category, ok := cat.Category(e.Category)
	if !ok {
		return alarm.Event{}, fmt.Errorf("%w: %#x", alarm.ErrUnknownCategory, e.Category)
	}

	var err error

	event.AttributeValues, err = attributeValues(&category, e.Attributes)
	if err != nil {
		return alarm.Event{}, fmt.Errorf("category %#x: %w", e.Category, err)
	}

	return event, nil
}

// Actor converts the actor, nil stays nil.
func (a *Actor) Actor() *alarm.Actor {
	if a == nil {
		return nil
	}

	return &alarm.Actor{
		Hostname: a.Hostname,
		Username: a.Username,
	}
}

// Value returns the quality described by q.
func (q *Quality) Value() (quality.Quality, error) {
	if q == nil {
		return quality.GoodQuality, nil
	}

	if q.Code != nil {
		return quality.FromCode(quality.Code(*q.Code)), nil
	}

	status := quality.Good

	if q.Status != "" {
		var ok bool

		status, ok = quality.ParseStatus(q.Status)
		if !ok {
			return quality.Quality{}, fmt.Errorf("%w: unknown quality status %q", ErrInvalidScript, q.Status)
		}
	}

	limit, ok := quality.ParseLimit(q.Limit)
	if !ok {
		return quality.Quality{}, fmt.Errorf("%w: unknown quality limit %q", ErrInvalidScript, q.Limit)
	}

	return quality.Quality{Status: status, Limit: limit, Vendor: q.Vendor}, nil
}

func attributeValues(category *catalog.Category, raw []any) ([]variant.Value, error) {
	if len(raw) > len(category.Attributes) {
		return nil, fmt.Errorf("%w: %d attribute values for %d attributes",
			ErrInvalidScript, len(raw), len(category.Attributes))
	}

	values := make([]variant.Value, len(raw))

	for i, item := range raw {
		attribute := category.Attributes[i]

		value, err := convertLike(attribute.Default, item)
		if err != nil {
			return nil, fmt.Errorf("attribute %#x: %w", attribute.ID, err)
		}

		values[i] = value
	}

	return values, nil
}

//nolint:ireturn // Value is the variant sum type.
func convertLike(like variant.Value, raw any) (variant.Value, error) {
	array, ok := like.(variant.Array)
	if !ok {
		return variant.Convert(like.Kind(), raw)
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a sequence", variant.ErrConvert, raw)
	}

	return variant.ConvertArray(array.Elem(), items)
}

func timestamp(ts *time.Time) time.Time {
	if ts == nil {
		return time.Time{}
	}

	return *ts
}
