// Package cli is the terminal front end of countrydesk.
//
// It is a single [Bubbletea] program whose [App] model routes between the welcome view and
// the dashboard the same way the web front end does, using the paths from the session
// package. The dashboard is guarded: every update re-checks the session gate and falls back
// to the welcome view once the profile is incomplete.
//
// # Layers
//
// Keys go to the topmost layer only:
//   - the user form (two steps, username then job title)
//   - the country detail modal
//   - the current view (welcome or dashboard)
//
// Async results (country list, country detail, profile changes) are delivered as messages
// and applied whatever layer is on top.
//
// Styling uses [Lipgloss]; shared styles live in styles.go.
//
// [Bubbletea]: https://github.com/charmbracelet/bubbletea
// [Lipgloss]: https://github.com/charmbracelet/lipgloss
package cli
