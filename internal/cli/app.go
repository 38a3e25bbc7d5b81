package cli

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/inovacc/countrydesk/internal/countries"
	"github.com/inovacc/countrydesk/internal/model"
	"github.com/inovacc/countrydesk/internal/session"
)

// ProfileCell is the persisted profile the app reads, writes and waits on.
// *reactive.Cell[model.Profile] satisfies it.
type ProfileCell interface {
	session.ProfileCell
	Next() <-chan model.Profile
}

// Options configures the terminal app.
type Options struct {
	Profile ProfileCell
	Source  countries.Source
	// Country opens the detail modal for this code on start.
	Country string
	Logger  *slog.Logger
}

// purger is implemented by sources that keep answers around, like countries.Cached.
type purger interface {
	Purge()
}

type profileChangedMsg struct {
	profile model.Profile
}

// App is the root model. It implements session.Navigator so the gate and the form can move
// it between views.
type App struct {
	ctx     context.Context
	gate    *session.Gate
	profile ProfileCell
	source  countries.Source
	logger  *slog.Logger

	path   string
	form   *userForm
	dash   *dashboard
	detail *detailView

	width  int
	height int

	// commands produced by navigation, flushed at the end of Update
	pending []tea.Cmd
}

// NewApp builds the root model and resolves the start view.
func NewApp(ctx context.Context, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := &App{
		ctx:     ctx,
		gate:    session.NewGate(opts.Profile, logger),
		profile: opts.Profile,
		source:  opts.Source,
		logger:  logger,
	}

	start := session.DashboardPath
	if code := countries.NormalizeCode(opts.Country); code != "" {
		start = session.DetailPath(code)
	}

	m.NavigateTo(start)
	m.guard()

	return m
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewApp(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	return err
}

// Path is the current route.
func (m *App) Path() string {
	return m.path
}

// NavigateTo switches views. Unknown paths fall back to the entry view.
func (m *App) NavigateTo(path string) {
	u, err := url.Parse(path)
	if err != nil {
		u = &url.URL{Path: session.EntryPath}
	}

	switch u.Path {
	case session.DashboardPath:
		if m.dash == nil {
			m.dash = newDashboard()
			m.dash.resize(m.width, m.height)
			m.pending = append(m.pending, m.dash.spinner.Tick, m.loadCountries())
		}

		m.openDetail(countries.NormalizeCode(u.Query().Get("country")))
		m.path = session.DetailPath(m.detailCode())
	default:
		m.dash = nil
		m.detail = nil
		m.pending = nil
		m.path = session.EntryPath
	}

	m.logger.Debug("navigate", "path", m.path)
}

func (m *App) openDetail(code string) {
	if code == "" {
		m.detail = nil
		return
	}

	if m.detail != nil && m.detail.code == code {
		return
	}

	m.detail = newDetailView(code)
	m.pending = append(m.pending, m.detail.spinner.Tick, m.loadDetail(code))
}

func (m *App) detailCode() string {
	if m.detail == nil {
		return ""
	}

	return m.detail.code
}

// guard re-runs the session gate for the protected view.
func (m *App) guard() {
	if m.dash != nil {
		m.gate.Guard(m)
	}
}

func (m *App) Init() tea.Cmd {
	cmds := append([]tea.Cmd{m.waitForProfile()}, m.pending...)
	m.pending = nil

	return tea.Batch(cmds...)
}

// waitForProfile turns the next profile write into a message.
func (m *App) waitForProfile() tea.Cmd {
	ch := m.profile.Next()

	return func() tea.Msg {
		select {
		case p := <-ch:
			return profileChangedMsg{profile: p}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *App) loadCountries() tea.Cmd {
	ctx, src := m.ctx, m.source

	return func() tea.Msg {
		list, err := src.List(ctx)
		return countriesLoadedMsg{countries: list, err: err}
	}
}

func (m *App) loadDetail(code string) tea.Cmd {
	ctx, src := m.ctx, m.source

	return func() tea.Msg {
		d, err := src.Get(ctx, code)
		return detailLoadedMsg{code: code, detail: d, err: err}
	}
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.dash != nil {
			m.dash.resize(msg.Width, msg.Height)
		}

	case profileChangedMsg:
		m.logger.Debug("profile changed", "username", msg.profile.Username)
		cmds = append(cmds, m.waitForProfile())

	case countriesLoadedMsg:
		if msg.err != nil {
			m.logger.Error("loading countries failed", "error", msg.err)
		}

		if m.dash != nil {
			m.dash.loaded(msg)
		}

	case detailLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("loading country failed", "code", msg.code, "error", msg.err)
		}

		if m.detail != nil {
			m.detail.loaded(msg)
		}

	case spinner.TickMsg:
		cmds = append(cmds, m.tick(msg))

	case tea.KeyMsg:
		if key.Matches(msg, keyForceQ) {
			return m, tea.Quit
		}

		cmds = append(cmds, m.handleKey(msg))
	}

	m.guard()

	cmds = append(cmds, m.pending...)
	m.pending = nil

	return m, tea.Batch(cmds...)
}

// tick forwards a spinner frame to whichever spinner it belongs to.
func (m *App) tick(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd

	switch {
	case m.detail != nil && m.detail.loading && msg.ID == m.detail.spinner.ID():
		m.detail.spinner, cmd = m.detail.spinner.Update(msg)
	case m.dash != nil && m.dash.loading && msg.ID == m.dash.spinner.ID():
		m.dash.spinner, cmd = m.dash.spinner.Update(msg)
	}

	return cmd
}

func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case m.form != nil:
		closed, cmd := m.form.update(msg, m)
		if closed {
			m.form = nil
		}

		return cmd

	case m.detail != nil:
		if key.Matches(msg, keyClose) || key.Matches(msg, keyQuit) {
			m.NavigateTo(session.DashboardPath)
		}

		return nil

	case m.dash != nil:
		return m.handleDashboardKey(msg)

	default:
		switch {
		case key.Matches(msg, keyConfirm):
			m.form = newUserForm(m.gate.NewFlow(), false)
			return nil
		case key.Matches(msg, keyQuit):
			return tea.Quit
		}

		return nil
	}
}

func (m *App) handleDashboardKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, dashboardKeys.Quit):
		return tea.Quit

	case key.Matches(msg, dashboardKeys.Logout):
		m.gate.Logout(m)
		return nil

	case key.Matches(msg, dashboardKeys.Edit):
		m.form = newUserForm(m.gate.EditFlow(), true)
		return nil

	case key.Matches(msg, dashboardKeys.Refresh):
		if m.dash.loading {
			return nil
		}

		if p, ok := m.source.(purger); ok {
			p.Purge()
		}

		m.dash.startLoading()

		return tea.Batch(m.dash.spinner.Tick, m.loadCountries())

	case key.Matches(msg, dashboardKeys.Open):
		if c, ok := m.dash.selected(); ok {
			m.NavigateTo(session.DetailPath(c.Code))
		}

		return nil
	}

	var cmd tea.Cmd
	m.dash.table, cmd = m.dash.table.Update(msg)

	return cmd
}

func (m *App) View() string {
	switch {
	case m.form != nil:
		return placeCenter(m.width, m.height, m.form.view())
	case m.detail != nil:
		return placeCenter(m.width, m.height, m.detail.view())
	case m.dash != nil:
		return m.dash.view(m.gate.Profile(), m.width)
	default:
		return m.welcomeView()
	}
}

func (m *App) welcomeView() string {
	s := titleStyle.Render("Welcome to countrydesk") + "\n\n"
	s += "Browse the countries of the world, their capitals and languages.\n"
	s += blurredStyle.Render("Tell us who you are to get started.") + "\n\n"
	s += blurredButton + "\n\n"
	s += helpStyle.Render("enter: continue • q: quit")

	return placeCenter(m.width, m.height, s)
}
