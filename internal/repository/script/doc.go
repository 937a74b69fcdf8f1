// Package script implements storage for replay scripts.
//
// A script is an ordered list of steps: batches of condition state changes,
// acknowledgments and simple or tracking events. The FileRepository stores
// and loads scripts as YAML on disk; the replay service converts the steps
// into engine requests against a catalog.
package script
