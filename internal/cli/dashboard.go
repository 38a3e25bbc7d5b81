package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/countrydesk/internal/model"
)

// skeletonRows is how many placeholder rows the table shows while loading.
const skeletonRows = 5

type countriesLoadedMsg struct {
	countries []model.Country
	err       error
}

type dashboard struct {
	table     table.Model
	spinner   spinner.Model
	help      help.Model
	loading   bool
	countries []model.Country
	err       error
}

func newDashboard() *dashboard {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 28},
			{Title: "Capital", Width: 20},
			{Title: "Languages", Width: 40},
		}),
		table.WithFocused(true),
		table.WithHeight(skeletonRows+1),
	)
	t.SetStyles(tableStyles())

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = focusedStyle

	d := &dashboard{table: t, spinner: s, help: help.New()}
	d.startLoading()

	return d
}

func (d *dashboard) startLoading() {
	d.loading = true
	d.err = nil

	bar := skeletonStyle.Render(strings.Repeat("░", 12))
	rows := make([]table.Row, skeletonRows)

	for i := range rows {
		rows[i] = table.Row{bar, bar, bar}
	}

	d.table.SetRows(rows)
	d.table.SetCursor(0)
}

func (d *dashboard) loaded(msg countriesLoadedMsg) {
	d.loading = false
	d.err = msg.err

	if msg.err != nil {
		d.countries = nil
		d.table.SetRows(nil)

		return
	}

	d.countries = msg.countries

	rows := make([]table.Row, len(msg.countries))
	for i, c := range msg.countries {
		rows[i] = table.Row{strings.TrimSpace(c.Emoji + " " + c.Name), c.Capital, model.LanguageNames(c.Languages)}
	}

	d.table.SetRows(rows)
	d.table.SetCursor(0)
}

// selected is the country under the cursor, if the list is loaded.
func (d *dashboard) selected() (model.Country, bool) {
	if d.loading || len(d.countries) == 0 {
		return model.Country{}, false
	}

	i := d.table.Cursor()
	if i < 0 || i >= len(d.countries) {
		return model.Country{}, false
	}

	return d.countries[i], true
}

func (d *dashboard) resize(width, height int) {
	d.help.Width = width

	// navbar, table header and help line
	if h := height - 6; h > skeletonRows {
		d.table.SetHeight(h)
	}
}

func (d *dashboard) view(profile model.Profile, width int) string {
	var b strings.Builder

	b.WriteString(navbar(profile, width) + "\n\n")

	switch {
	case d.loading:
		b.WriteString(" " + d.spinner.View() + " Loading countries...\n")
	case d.err != nil:
		b.WriteString(" " + errorStyle.Render("Could not load countries: "+d.err.Error()) + "\n")
		b.WriteString(helpStyle.Render(" press r to retry") + "\n")
	default:
		b.WriteString(blurredStyle.Render(" Countries") + "\n")
	}

	b.WriteString(d.table.View() + "\n\n")
	b.WriteString(d.help.View(dashboardKeys))

	return b.String()
}

func navbar(p model.Profile, width int) string {
	left := titleStyle.Render("countrydesk")
	right := p.Username
	if p.JobTitle != "" {
		right += " · " + p.JobTitle
	}

	bar := left + "  " + right
	if width > 0 {
		return navbarStyle.Width(width).Render(bar)
	}

	return navbarStyle.Render(bar)
}

func placeCenter(width, height int, s string) string {
	if width == 0 || height == 0 {
		return s
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}
