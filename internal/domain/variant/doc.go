// Package variant defines the closed set of value kinds carried by event
// attributes: booleans, fixed-width integers, floats, strings, timestamps and
// homogeneous arrays of those.
//
// Value is a sealed interface, so a type switch over it names every kind and a
// new kind is a compile-visible change for all callers.
package variant
