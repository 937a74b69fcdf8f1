package event

import (
	"math"
	"strconv"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/oshokin/ae-conditions/internal/domain/alarm"
	"github.com/oshokin/ae-conditions/internal/domain/quality"
	"github.com/oshokin/ae-conditions/internal/domain/variant"
)

// Record types written to the "type" field.
const (
	TypeCondition = "condition"
	TypeAck       = "ack"
)

// FromNotification converts a condition notification to a Struct.
func FromNotification(n *alarm.Notification) *structpb.Struct {
	if n == nil {
		return new(structpb.Struct)
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"type":             structpb.NewStringValue(TypeCondition),
			"event_id":         structpb.NewStringValue(n.EventID),
			"timestamp":        timestampValue(n.Timestamp),
			"condition_id":     structpb.NewNumberValue(float64(n.ConditionID)),
			"source_id":        structpb.NewNumberValue(float64(n.SourceID)),
			"category_id":      structpb.NewNumberValue(float64(n.CategoryID)),
			"sub_condition_id": structpb.NewNumberValue(float64(n.SubConditionID)),
			"severity":         structpb.NewNumberValue(float64(n.Severity)),
			"message":          structpb.NewStringValue(n.Message),
			"condition_text":   structpb.NewStringValue(n.ConditionText),
			"active":           structpb.NewBoolValue(n.Active),
			"ack_required":     structpb.NewBoolValue(n.AckRequired),
			"quality":          qualityValue(n.Quality),
			"attributes":       attributesValue(n.AttributeValues),
		},
	}
}

// FromAck converts an acknowledgment confirmation to a Struct.
func FromAck(a *alarm.AckConfirmation) *structpb.Struct {
	if a == nil {
		return new(structpb.Struct)
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"type":             structpb.NewStringValue(TypeAck),
			"event_id":         structpb.NewStringValue(a.EventID),
			"timestamp":        timestampValue(a.Timestamp),
			"condition_id":     structpb.NewNumberValue(float64(a.ConditionID)),
			"sub_condition_id": structpb.NewNumberValue(float64(a.SubConditionID)),
			"comment":          structpb.NewStringValue(a.Comment),
			"actor":            actorValue(a.Actor),
		},
	}
}

// FromEvent converts a simple or tracking event to a Struct.
// The "type" field holds the event kind.
func FromEvent(e *alarm.Event) *structpb.Struct {
	if e == nil {
		return new(structpb.Struct)
	}

	fields := map[string]*structpb.Value{
		"type":        structpb.NewStringValue(e.Kind.String()),
		"event_id":    structpb.NewStringValue(e.EventID),
		"timestamp":   timestampValue(e.Timestamp),
		"category_id": structpb.NewNumberValue(float64(e.CategoryID)),
		"source_id":   structpb.NewNumberValue(float64(e.SourceID)),
		"severity":    structpb.NewNumberValue(float64(e.Severity)),
		"message":     structpb.NewStringValue(e.Message),
		"attributes":  attributesValue(e.AttributeValues),
	}

	if e.Kind == alarm.EventTracking {
		fields["actor"] = actorValue(e.Actor)
	}

	return &structpb.Struct{Fields: fields}
}

// FromValue converts a variant to a Struct value.
// 64-bit integers are rendered as decimal strings, as protojson does, to keep their precision.
// NaN and infinities become "NaN", "Infinity" and "-Infinity".
func FromValue(v variant.Value) *structpb.Value {
	switch v := v.(type) {
	case nil:
		return structpb.NewNullValue()
	case variant.Bool:
		return structpb.NewBoolValue(bool(v))
	case variant.Int8:
		return structpb.NewNumberValue(float64(v))
	case variant.Int16:
		return structpb.NewNumberValue(float64(v))
	case variant.Int32:
		return structpb.NewNumberValue(float64(v))
	case variant.Int64:
		return structpb.NewStringValue(strconv.FormatInt(int64(v), 10))
	case variant.Uint8:
		return structpb.NewNumberValue(float64(v))
	case variant.Uint16:
		return structpb.NewNumberValue(float64(v))
	case variant.Uint32:
		return structpb.NewNumberValue(float64(v))
	case variant.Uint64:
		return structpb.NewStringValue(strconv.FormatUint(uint64(v), 10))
	case variant.Float32:
		return floatValue(float64(v))
	case variant.Float64:
		return floatValue(float64(v))
	case variant.String:
		return structpb.NewStringValue(string(v))
	case variant.Time:
		return timestampValue(time.Time(v))
	case variant.Array:
		items := v.Items()
		values := make([]*structpb.Value, len(items))

		for i, item := range items {
			values[i] = FromValue(item)
		}

		return structpb.NewListValue(&structpb.ListValue{Values: values})
	default:
		return structpb.NewStringValue(v.String())
	}
}

// floatValue keeps non-finite floats out of number_value, which protojson refuses to marshal.
func floatValue(f float64) *structpb.Value {
	switch {
	case math.IsNaN(f):
		return structpb.NewStringValue("NaN")
	case math.IsInf(f, 1):
		return structpb.NewStringValue("Infinity")
	case math.IsInf(f, -1):
		return structpb.NewStringValue("-Infinity")
	default:
		return structpb.NewNumberValue(f)
	}
}

func attributesValue(values []variant.Value) *structpb.Value {
	list := make([]*structpb.Value, len(values))
	for i, v := range values {
		list[i] = FromValue(v)
	}

	return structpb.NewListValue(&structpb.ListValue{Values: list})
}

func qualityValue(q quality.Quality) *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{
		Fields: map[string]*structpb.Value{
			"code": structpb.NewNumberValue(float64(q.Code())),
			"text": structpb.NewStringValue(q.String()),
			"good": structpb.NewBoolValue(q.IsGood()),
		},
	})
}

func actorValue(actor *alarm.Actor) *structpb.Value {
	if actor == nil {
		return structpb.NewNullValue()
	}

	return structpb.NewStructValue(&structpb.Struct{
		Fields: map[string]*structpb.Value{
			"hostname": structpb.NewStringValue(actor.Hostname),
			"username": structpb.NewStringValue(actor.Username),
		},
	})
}

// timestampValue renders t in the RFC 3339 UTC form used by google.protobuf.Timestamp.
func timestampValue(t time.Time) *structpb.Value {
	if t.IsZero() {
		return structpb.NewNullValue()
	}

	return structpb.NewStringValue(timestamppb.New(t).AsTime().Format(time.RFC3339Nano))
}
