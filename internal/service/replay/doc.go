// Package replay feeds a replay script through the condition engine.
//
// Every notification, acknowledgment confirmation and event produced by the
// engine is written to the output as one protojson line, and a summary of the
// engine metrics is logged when the script ends.
package replay
