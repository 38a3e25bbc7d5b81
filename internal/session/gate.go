package session

import (
	"errors"
	"log/slog"

	"github.com/inovacc/countrydesk/internal/model"
)

// ErrLoggedOut is returned by Require when the profile is incomplete.
var ErrLoggedOut = errors.New("no user profile, run the welcome flow first")

// ProfileCell is the persisted profile value the gate reads and replaces.
// *reactive.Cell[model.Profile] satisfies it.
type ProfileCell interface {
	Read() model.Profile
	Write(model.Profile)
}

// Gate derives the session state from the profile cell.
type Gate struct {
	profile ProfileCell
	logger  *slog.Logger
}

func NewGate(profile ProfileCell, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Gate{profile: profile, logger: logger}
}

// Profile returns the current profile.
func (g *Gate) Profile() model.Profile {
	return g.profile.Read()
}

// State is LoggedIn for a complete profile and LoggedOut otherwise.
func (g *Gate) State() State {
	if g.profile.Read().Complete() {
		return LoggedIn
	}

	return LoggedOut
}

// Guard is evaluated on every render of a protected view. It reports whether the view may
// render and otherwise redirects to the entry path.
func (g *Gate) Guard(nav Navigator) bool {
	if g.State() == LoggedIn {
		return true
	}

	g.logger.Debug("protected view requested while logged out, redirecting", "to", EntryPath)

	if nav != nil {
		nav.NavigateTo(EntryPath)
	}

	return false
}

// Require is Guard for callers without navigation, such as CLI commands.
func (g *Gate) Require() error {
	if g.State() != LoggedIn {
		return ErrLoggedOut
	}

	return nil
}

// Logout replaces the profile with the empty one and returns to the entry path.
func (g *Gate) Logout(nav Navigator) {
	g.profile.Write(model.EmptyProfile())
	g.logger.Info("user logged out")

	if nav != nil {
		nav.NavigateTo(EntryPath)
	}
}

// Login runs both steps at once. It is the non-interactive form of the welcome flow.
func (g *Gate) Login(username, jobTitle string, nav Navigator) error {
	flow := g.NewFlow()

	if err := flow.SubmitUsername(username); err != nil {
		return err
	}

	return flow.SubmitJobTitle(jobTitle, nav)
}

// NewFlow opens an empty welcome form at the username step.
func (g *Gate) NewFlow() *Flow {
	return &Flow{gate: g, step: CollectingUsername}
}

// EditFlow opens the form pre-filled with the current profile.
func (g *Gate) EditFlow() *Flow {
	p := g.profile.Read()

	return &Flow{gate: g, step: CollectingUsername, username: p.Username, jobTitle: p.JobTitle, initial: p}
}
