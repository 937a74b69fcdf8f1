// Package alarm contains the runtime data model of the condition engine.
//
// It defines ConditionState (the live record kept per condition), the
// StateChange requests callers submit, the Notification, Event and
// AckConfirmation records handed to the host, the Actor that performed an
// action, and the sentinel errors shared by the catalog and the engine.
// Clone helpers avoid leaking internal references.
package alarm
