// Package event renders engine output as protobuf Struct messages and writes
// them as protojson lines.
//
// It adapts notifications, acknowledgment confirmations and simple/tracking
// events to google.protobuf.Struct so any protobuf consumer can read them
// without a generated schema.
package event
