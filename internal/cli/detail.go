package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/inovacc/countrydesk/internal/countries"
	"github.com/inovacc/countrydesk/internal/model"
)

type detailLoadedMsg struct {
	code   string
	detail model.CountryDetail
	err    error
}

// detailView is the country modal opened from the dashboard or a deep link.
type detailView struct {
	code    string
	loading bool
	detail  model.CountryDetail
	err     error
	spinner spinner.Model
}

func newDetailView(code string) *detailView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = focusedStyle

	return &detailView{code: code, loading: true, spinner: s}
}

func (v *detailView) loaded(msg detailLoadedMsg) {
	// a stale answer for a modal that was closed and reopened on another country
	if msg.code != v.code {
		return
	}

	v.loading = false
	v.detail = msg.detail
	v.err = msg.err
}

func (v *detailView) view() string {
	var b strings.Builder

	switch {
	case v.loading:
		b.WriteString(titleStyle.Render(v.code) + "\n\n")
		b.WriteString(v.spinner.View() + " Loading...\n")

		bar := skeletonStyle.Render(strings.Repeat("░", 16))
		for _, label := range []string{"Native", "Capital", "Currency", "Languages"} {
			b.WriteString(labelStyle.Render(label) + bar + "\n")
		}
	case errors.Is(v.err, countries.ErrCountryNotFound):
		b.WriteString(titleStyle.Render(v.code) + "\n\n")
		b.WriteString(errorStyle.Render("No country with code "+v.code) + "\n")
	case v.err != nil:
		b.WriteString(titleStyle.Render(v.code) + "\n\n")
		b.WriteString(errorStyle.Render(v.err.Error()) + "\n")
	default:
		d := v.detail
		b.WriteString(titleStyle.Render(d.Title()) + "\n\n")
		b.WriteString(labelStyle.Render("Native") + d.Native + "\n")
		b.WriteString(labelStyle.Render("Capital") + d.Capital + "\n")
		b.WriteString(labelStyle.Render("Currency") + d.Currency + "\n")
		b.WriteString(labelStyle.Render("Languages") + "\n")

		for _, l := range d.Languages {
			b.WriteString("  • " + l.Name + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("esc: close"))

	return modalStyle.Render(b.String())
}
