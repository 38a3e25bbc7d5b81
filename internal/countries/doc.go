// Package countries fetches country data from the public countries GraphQL API.
//
// [GraphQL] talks to the endpoint, [Cached] keeps recent answers in an expiring LRU and
// collapses concurrent identical requests, and [Filter] narrows a listing with an
// expr-lang expression such as
//
//	"Spanish" in Languages && Capital startsWith "B"
//
// Records are returned as received; nothing here is persisted.
package countries
