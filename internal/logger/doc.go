// Package logger wraps zap to offer:
//   - a global sugared logger with console or JSON encoding,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - context-scoped convenience functions (InfoKV, WarnKV, etc.).
//
// The engine and the CLI services receive a context and log through the
// logger stored in it, so names and key-value pairs added by callers follow
// every message.
package logger
