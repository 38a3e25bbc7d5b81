package cli

import "github.com/charmbracelet/bubbles/key"

type dashboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Edit    key.Binding
	Logout  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Edit, k.Logout, k.Quit}
}

func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Edit, k.Logout, k.Refresh, k.Quit},
	}
}

var dashboardKeys = dashboardKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit profile")),
	Logout:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "logout")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	keyConfirm = key.NewBinding(key.WithKeys("enter"))
	keyClose   = key.NewBinding(key.WithKeys("esc"))
	keyBack    = key.NewBinding(key.WithKeys("shift+tab"))
	keyQuit    = key.NewBinding(key.WithKeys("q", "ctrl+c"))
	keyForceQ  = key.NewBinding(key.WithKeys("ctrl+c"))
)
