// Package catalog implements the static Alarms & Events registry: event
// categories and their attributes, single- and multi-state condition
// definitions, the process area tree, event sources and the source to
// definition bindings tracked by the runtime engine.
//
// Registration is order sensitive (categories, attributes, definitions,
// sub-conditions, areas, sources, conditions) and every failed call leaves the
// catalog unchanged. The topology views (ChildrenOf, SourcesOf, ConditionsOf)
// are maintained incrementally.
//
// A catalog is built by a single goroutine and then sealed; after Seal it is
// immutable and safe for concurrent readers without locking.
package catalog
