// Package database provides the durable key/value storage behind countrydesk's persisted
// session state.
//
// The package defines the [Store] interface, a string-keyed, string-valued store with the
// same contract as browser local storage: Get, Set and Remove. Several backends implement it:
//   - [Bolt]: BoltDB file (default)
//   - [SQLite]: pure Go SQLite via modernc.org/sqlite
//   - [INI]: a single human-editable INI file
//   - [Memory]: process memory only, nothing survives a restart
//
// # Opening a store
//
// Use [Open] with the configured backend name and path:
//
//	store, err := database.Open("bolt", path)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
// Callers that cannot tolerate storage failures should not use this package directly; the
// reactive cell layered on top swallows write errors by design of its contract.
package database
