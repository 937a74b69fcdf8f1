package variant

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Convert turns a loosely typed value, as produced by a YAML or JSON decoder,
// into a Value of the requested scalar kind. Out of range numbers are rejected.
//
//nolint:ireturn,cyclop // Value is the sum type; one case per kind.
func Convert(kind Kind, raw any) (Value, error) {
	if raw == nil {
		return Zero(kind)
	}

	switch kind {
	case KindBool:
		switch v := raw.(type) {
		case bool:
			return Bool(v), nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %q to bool", ErrConvert, v)
			}

			return Bool(b), nil
		}
	case KindInt8, KindInt16, KindInt32, KindInt64:
		lo, hi := intRange(kind)

		n, err := toInt(raw, lo, hi)
		if err != nil {
			return nil, err
		}

		return fromInt(kind, n), nil
	case KindUint8, KindUint16, KindUint32, KindUint64:
		n, err := toUint(raw, uintMax(kind))
		if err != nil {
			return nil, err
		}

		return fromUint(kind, n), nil
	case KindFloat32:
		f, err := toFloat(raw)
		if err != nil {
			return nil, err
		}

		if math.Abs(f) > math.MaxFloat32 {
			return nil, fmt.Errorf("%w: %v overflows float32", ErrConvert, raw)
		}

		return Float32(f), nil
	case KindFloat64:
		f, err := toFloat(raw)
		if err != nil {
			return nil, err
		}

		return Float64(f), nil
	case KindString:
		switch v := raw.(type) {
		case string:
			return String(v), nil
		case fmt.Stringer:
			return String(v.String()), nil
		default:
			return String(fmt.Sprint(v)), nil
		}
	case KindTime:
		switch v := raw.(type) {
		case time.Time:
			return Time(v), nil
		case string:
			ts, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return nil, fmt.Errorf("%w: %q to time: %w", ErrConvert, v, err)
			}

			return Time(ts), nil
		}
	case KindInvalid, KindArray:
		return nil, fmt.Errorf("%w: %s is not a scalar kind", ErrUnknownKind, kind)
	}

	return nil, fmt.Errorf("%w: %T to %s", ErrConvert, raw, kind)
}

// ConvertArray converts a list of raw items into an Array of elem.
func ConvertArray(elem Kind, raw []any) (Array, error) {
	items := make([]Value, 0, len(raw))

	for i, r := range raw {
		item, err := Convert(elem, r)
		if err != nil {
			return Array{}, fmt.Errorf("item %d: %w", i, err)
		}

		items = append(items, item)
	}

	return NewArray(elem, items...)
}

// Native returns the Go value held by v, with arrays as []any.
// It is the inverse of Convert for the types a YAML encoder understands.
func Native(v Value) any {
	switch val := v.(type) {
	case Bool:
		return bool(val)
	case Int8:
		return int64(val)
	case Int16:
		return int64(val)
	case Int32:
		return int64(val)
	case Int64:
		return int64(val)
	case Uint8:
		return uint64(val)
	case Uint16:
		return uint64(val)
	case Uint32:
		return uint64(val)
	case Uint64:
		return uint64(val)
	case Float32:
		return float64(val)
	case Float64:
		return float64(val)
	case String:
		return string(val)
	case Time:
		return time.Time(val)
	case Array:
		out := make([]any, len(val.items))
		for i, item := range val.items {
			out[i] = Native(item)
		}

		return out
	default:
		return nil
	}
}

func intRange(kind Kind) (int64, int64) {
	switch kind {
	case KindInt8:
		return math.MinInt8, math.MaxInt8
	case KindInt16:
		return math.MinInt16, math.MaxInt16
	case KindInt32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

func uintMax(kind Kind) uint64 {
	switch kind {
	case KindUint8:
		return math.MaxUint8
	case KindUint16:
		return math.MaxUint16
	case KindUint32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

//nolint:ireturn,gosec // Value is the sum type; ranges are checked by toInt.
func fromInt(kind Kind, n int64) Value {
	switch kind {
	case KindInt8:
		return Int8(n)
	case KindInt16:
		return Int16(n)
	case KindInt32:
		return Int32(n)
	default:
		return Int64(n)
	}
}

//nolint:ireturn,gosec // Value is the sum type; ranges are checked by toUint.
func fromUint(kind Kind, n uint64) Value {
	switch kind {
	case KindUint8:
		return Uint8(n)
	case KindUint16:
		return Uint16(n)
	case KindUint32:
		return Uint32(n)
	default:
		return Uint64(n)
	}
}

func toInt(raw any, lo, hi int64) (int64, error) {
	var n int64

	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case int32:
		n = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d out of range", ErrConvert, v)
		}

		n = int64(v)
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrConvert, v)
		}

		n = int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrConvert, v, err)
		}

		n = parsed
	default:
		return 0, fmt.Errorf("%w: %T to integer", ErrConvert, raw)
	}

	if n < lo || n > hi {
		return 0, fmt.Errorf("%w: %d out of range [%d, %d]", ErrConvert, n, lo, hi)
	}

	return n, nil
}

func toUint(raw any, hi uint64) (uint64, error) {
	var n uint64

	switch v := raw.(type) {
	case int:
		if v < 0 {
			return 0, fmt.Errorf("%w: %d is negative", ErrConvert, v)
		}

		n = uint64(v)
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("%w: %d is negative", ErrConvert, v)
		}

		n = uint64(v)
	case uint64:
		n = v
	case float64:
		if v != math.Trunc(v) || v < 0 || v > math.MaxUint64 {
			return 0, fmt.Errorf("%w: %v is not an unsigned integer", ErrConvert, v)
		}

		n = uint64(v)
	case string:
		parsed, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrConvert, v, err)
		}

		n = parsed
	default:
		return 0, fmt.Errorf("%w: %T to unsigned integer", ErrConvert, raw)
	}

	if n > hi {
		return 0, fmt.Errorf("%w: %d out of range [0, %d]", ErrConvert, n, hi)
	}

	return n, nil
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrConvert, v, err)
		}

		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T to float", ErrConvert, raw)
	}
}
