// Package model defines the data structures shared by the session, storage and UI layers.
//
// # Profile
//
// The [Profile] struct is the only state countrydesk persists. It is stored as JSON under
// [ProfileStorageKey]:
//
//	type Profile struct {
//	    Username string // letters only
//	    JobTitle string // letters and spaces
//	}
//
// A profile is complete when both fields are non-empty; an incomplete profile means the user
// is logged out.
//
// # Country
//
// [Country] and [CountryDetail] mirror the records returned by the countries GraphQL API.
// They are fetched on demand and never persisted.
package model
