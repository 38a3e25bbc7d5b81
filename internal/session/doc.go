// Package session derives the login state from the persisted profile cell and drives the
// two-step welcome flow that fills it.
//
// There is no stored "current step". [Gate.State] is computed from the cell on every call:
// an incomplete profile is [LoggedOut], a complete one is [LoggedIn]. The collecting states
// exist only inside a [Flow] while the form is open.
//
// Protected views call [Gate.Guard] on every render. It redirects to [EntryPath] through the
// front end's [Navigator] whenever the derived state is LoggedOut.
package session
