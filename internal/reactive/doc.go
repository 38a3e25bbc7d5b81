// Package reactive provides a persisted reactive value: a single named, typed cell held in
// memory, mirrored to a durable key/value store and observable without polling.
//
// # Lifecycle
//
// A [Cell] is seeded from storage when a value exists under its key, otherwise from the
// supplied default. Every [Cell.Write] updates memory, notifies listeners registered at the
// time of the call, then writes through to storage. Storage failures are logged and
// swallowed: the in-memory value stays authoritative for the rest of the process.
//
// Use a [Registry] to get the process-wide cell for a key:
//
//	reg := reactive.NewRegistry(store, reactive.WithLogger(logger))
//	user, err := reactive.Register(reg, model.EmptyProfile(), model.ProfileStorageKey)
//
// # Listening
//
// [Cell.NotifyOnce] registers a one-shot listener. It fires on the next write only; callers
// that want every change re-register inside the callback. [Cell.Watch] does exactly that on
// the caller's behalf and [Cell.Next] exposes the next value as a channel, which suits
// bubbletea commands.
//
// Listeners run synchronously on the writing goroutine and must not call Write on the same
// cell.
//
// # Storage format
//
// Values whose underlying kind is string are stored verbatim. Everything else is JSON.
// On load, text that is not valid JSON for T is accepted verbatim when T is a string kind (or
// an interface a string satisfies); for any other T the default is kept and a warning logged.
package reactive
