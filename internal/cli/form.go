package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/inovacc/countrydesk/internal/session"
)

// userForm is the two-step profile form drawn as a modal.
type userForm struct {
	flow    *session.Flow
	input   textinput.Model
	err     string
	editing bool
}

func newUserForm(flow *session.Flow, editing bool) *userForm {
	t := textinput.New()
	t.Cursor.Style = cursorStyle
	t.PromptStyle = focusedStyle
	t.TextStyle = focusedStyle
	t.CharLimit = 64
	t.Focus()

	f := &userForm{flow: flow, input: t, editing: editing}
	f.syncInput()

	return f
}

// syncInput points the single text input at the field of the current step.
func (f *userForm) syncInput() {
	switch f.flow.Step() {
	case session.CollectingJobTitle:
		f.input.Placeholder = "Software Developer"
		f.input.SetValue(f.flow.JobTitle())
	default:
		f.input.Placeholder = "john"
		f.input.SetValue(f.flow.Username())
	}

	f.input.CursorEnd()
}

// update handles one message. closed reports that the form is done, either submitted or
// dismissed.
func (f *userForm) update(msg tea.Msg, nav session.Navigator) (closed bool, cmd tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keyClose):
			f.close()
			return true, nil

		case key.Matches(msg, keyBack):
			f.flow.Back()
			f.err = ""
			f.syncInput()

			return false, nil

		case key.Matches(msg, keyConfirm):
			return f.submit(nav), nil
		}
	}

	f.input, cmd = f.input.Update(msg)

	return false, cmd
}

func (f *userForm) submit(nav session.Navigator) bool {
	value := f.input.Value()

	var err error

	switch f.flow.Step() {
	case session.CollectingUsername:
		err = f.flow.SubmitUsername(value)
		if err == nil {
			f.err = ""
			f.syncInput()

			return false
		}
	case session.CollectingJobTitle:
		err = f.flow.SubmitJobTitle(value, nav)
		if err == nil {
			f.err = ""
			return true
		}
	}

	var verr *session.ValidationError
	if errors.As(err, &verr) {
		f.err = verr.Message
	} else if err != nil {
		f.err = err.Error()
	}

	return false
}

// close dismisses the form; the next open starts from the first step.
func (f *userForm) close() {
	f.flow.Reset()
	f.err = ""
	f.syncInput()
}

func (f *userForm) view() string {
	title := "Tell us about you"
	if f.editing {
		title = "Edit profile"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(title) + "\n")

	switch f.flow.Step() {
	case session.CollectingJobTitle:
		b.WriteString(blurredStyle.Render("Step 2 of 2") + "\n\n")
		fmt.Fprintf(&b, " %s\n %s\n", blurredStyle.Render("Job title:"), f.input.View())
	default:
		b.WriteString(blurredStyle.Render("Step 1 of 2") + "\n\n")
		fmt.Fprintf(&b, " %s\n %s\n", blurredStyle.Render("Username:"), f.input.View())
	}

	if f.err != "" {
		b.WriteString("\n " + errorStyle.Render(f.err) + "\n")
	}

	b.WriteString("\n " + focusedButton + "\n\n")

	help := " enter: continue • esc: close"
	if f.flow.Step() == session.CollectingJobTitle {
		help += " • shift+tab: back"
	}

	b.WriteString(helpStyle.Render(help))

	return modalStyle.Render(b.String())
}
