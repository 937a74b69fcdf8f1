// Package engine is the condition runtime: it keeps one live state per
// condition binding of a sealed catalog, decides which state change requests
// are real transitions, emits notifications for them and handles operator
// acknowledgments. Simple and tracking events are validated and forwarded
// without touching condition state.
package engine
