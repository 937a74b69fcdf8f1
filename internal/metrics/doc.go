// Package metrics defines the prometheus collectors of the condition engine.
//
// Collectors are created per Metrics value and registered on the registerer
// passed to New, so tests and embedded hosts can use private registries. All
// methods are safe on a nil *Metrics.
package metrics
