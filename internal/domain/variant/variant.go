package variant

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind identifies the primitive carried by a Value.
type Kind uint8

// Supported kinds. KindArray values carry homogeneous elements of a scalar kind.
const (
	KindInvalid Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindTime
	KindArray
)

//nolint:gochecknoglobals // Lookup table.
var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindTime:    "time",
	KindArray:   "array",
}

// String returns the lowercase name of k.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsScalar reports whether k is a valid non-array kind.
func (k Kind) IsScalar() bool {
	return k > KindInvalid && k < KindArray
}

// ParseKind maps a kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s && Kind(k) != KindInvalid {
			return Kind(k), nil
		}
	}

	return KindInvalid, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

var (
	// ErrUnknownKind is returned for kind names that are not supported.
	ErrUnknownKind = errors.New("unknown value kind")
	// ErrMixedArray is returned when array elements do not share the declared kind.
	ErrMixedArray = errors.New("array elements must share one scalar kind")
	// ErrConvert is returned when a raw value cannot be represented as the requested kind.
	ErrConvert = errors.New("cannot convert value")
)

// Value is a closed sum type over the supported primitive kinds.
// Only the types declared in this package implement it.
type Value interface {
	Kind() Kind
	String() string
	sealed()
}

type (
	// Bool is a boolean value.
	Bool bool
	// Int8 is a signed 8-bit value.
	Int8 int8
	// Int16 is a signed 16-bit value.
	Int16 int16
	// Int32 is a signed 32-bit value.
	Int32 int32
	// Int64 is a signed 64-bit value.
	Int64 int64
	// Uint8 is an unsigned 8-bit value.
	Uint8 uint8
	// Uint16 is an unsigned 16-bit value.
	Uint16 uint16
	// Uint32 is an unsigned 32-bit value.
	Uint32 uint32
	// Uint64 is an unsigned 64-bit value.
	Uint64 uint64
	// Float32 is a single precision value.
	Float32 float32
	// Float64 is a double precision value.
	Float64 float64
	// String is a text value.
	String string
	// Time is a timestamp value.
	Time time.Time
)

// Array is a homogeneous list of scalar values.
type Array struct {
	elem  Kind
	items []Value
}

// NewArray builds an Array whose items all have kind elem.
func NewArray(elem Kind, items ...Value) (Array, error) {
	if !elem.IsScalar() {
		return Array{}, fmt.Errorf("%w: element kind %s", ErrMixedArray, elem)
	}

	for i, item := range items {
		if item == nil || item.Kind() != elem {
			return Array{}, fmt.Errorf("%w: item %d is not %s", ErrMixedArray, i, elem)
		}
	}

	return Array{
		elem:  elem,
		items: append([]Value(nil), items...),
	}, nil
}

// Elem returns the element kind.
func (a Array) Elem() Kind { return a.elem }

// Len returns the number of items.
func (a Array) Len() int { return len(a.items) }

// Items returns a copy of the items.
func (a Array) Items() []Value { return append([]Value(nil), a.items...) }

func (Bool) Kind() Kind    { return KindBool }
func (Int8) Kind() Kind    { return KindInt8 }
func (Int16) Kind() Kind   { return KindInt16 }
func (Int32) Kind() Kind   { return KindInt32 }
func (Int64) Kind() Kind   { return KindInt64 }
func (Uint8) Kind() Kind   { return KindUint8 }
func (Uint16) Kind() Kind  { return KindUint16 }
func (Uint32) Kind() Kind  { return KindUint32 }
func (Uint64) Kind() Kind  { return KindUint64 }
func (Float32) Kind() Kind { return KindFloat32 }
func (Float64) Kind() Kind { return KindFloat64 }
func (String) Kind() Kind  { return KindString }
func (Time) Kind() Kind    { return KindTime }
func (Array) Kind() Kind   { return KindArray }

func (v Bool) String() string    { return fmt.Sprint(bool(v)) }
func (v Int8) String() string    { return fmt.Sprint(int8(v)) }
func (v Int16) String() string   { return fmt.Sprint(int16(v)) }
func (v Int32) String() string   { return fmt.Sprint(int32(v)) }
func (v Int64) String() string   { return fmt.Sprint(int64(v)) }
func (v Uint8) String() string   { return fmt.Sprint(uint8(v)) }
func (v Uint16) String() string  { return fmt.Sprint(uint16(v)) }
func (v Uint32) String() string  { return fmt.Sprint(uint32(v)) }
func (v Uint64) String() string  { return fmt.Sprint(uint64(v)) }
func (v Float32) String() string { return fmt.Sprint(float32(v)) }
func (v Float64) String() string { return fmt.Sprint(float64(v)) }
func (v String) String() string  { return string(v) }
func (v Time) String() string    { return time.Time(v).UTC().Format(time.RFC3339Nano) }

func (a Array) String() string {
	parts := make([]string, len(a.items))
	for i, item := range a.items {
		parts[i] = item.String()
	}

	return "[" + strings.Join(parts, " ") + "]"
}

func (Bool) sealed()    {}
func (Int8) sealed()    {}
func (Int16) sealed()   {}
func (Int32) sealed()   {}
func (Int64) sealed()   {}
func (Uint8) sealed()   {}
func (Uint16) sealed()  {}
func (Uint32) sealed()  {}
func (Uint64) sealed()  {}
func (Float32) sealed() {}
func (Float64) sealed() {}
func (String) sealed()  {}
func (Time) sealed()    {}
func (Array) sealed()   {}

// Zero returns the zero value of a scalar kind.
//
//nolint:ireturn // Value is the sum type.
func Zero(kind Kind) (Value, error) {
	switch kind {
	case KindBool:
		return Bool(false), nil
	case KindInt8:
		return Int8(0), nil
	case KindInt16:
		return Int16(0), nil
	case KindInt32:
		return Int32(0), nil
	case KindInt64:
		return Int64(0), nil
	case KindUint8:
		return Uint8(0), nil
	case KindUint16:
		return Uint16(0), nil
	case KindUint32:
		return Uint32(0), nil
	case KindUint64:
		return Uint64(0), nil
	case KindFloat32:
		return Float32(0), nil
	case KindFloat64:
		return Float64(0), nil
	case KindString:
		return String(""), nil
	case KindTime:
		return Time(time.Time{}), nil
	case KindInvalid, KindArray:
	}

	return nil, fmt.Errorf("%w: no zero value for %s", ErrUnknownKind, kind)
}

// Equal reports whether a and b hold the same kind and value.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case Time:
		return time.Time(av).Equal(time.Time(b.(Time))) //nolint:forcetypeassert // Kinds match.
	case Array:
		bv := b.(Array) //nolint:forcetypeassert // Kinds match.
		if av.elem != bv.elem || len(av.items) != len(bv.items) {
			return false
		}

		for i := range av.items {
			if !Equal(av.items[i], bv.items[i]) {
				return false
			}
		}

		return true
	default:
		return a == b
	}
}
