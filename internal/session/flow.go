package session

import (
	"errors"
	"strings"

	"github.com/inovacc/countrydesk/internal/model"
)

// ErrStepOrder is returned when a job title is submitted before a valid username.
var ErrStepOrder = errors.New("username step not completed")

// Flow is one open welcome form. Its step lives only as long as the form.
type Flow struct {
	gate     *Gate
	step     State
	username string
	jobTitle string
	initial  model.Profile
}

// Step is CollectingUsername, CollectingJobTitle, or LoggedIn once submitted.
func (f *Flow) Step() State {
	return f.step
}

// Username is the value to show in the username input.
func (f *Flow) Username() string {
	return f.username
}

// JobTitle is the value to show in the job title input.
func (f *Flow) JobTitle() string {
	return f.jobTitle
}

// SubmitUsername validates the username and advances to the job title step. Surrounding
// whitespace is dropped before validation, in every front end.
func (f *Flow) SubmitUsername(username string) error {
	username = strings.TrimSpace(username)
	f.username = username

	if err := ValidateUsername(username); err != nil {
		return err
	}

	f.step = CollectingJobTitle

	return nil
}

// SubmitJobTitle validates the job title, writes the whole profile and navigates to the
// dashboard. Nothing is written when validation fails.
func (f *Flow) SubmitJobTitle(jobTitle string, nav Navigator) error {
	if f.step != CollectingJobTitle {
		return ErrStepOrder
	}

	jobTitle = strings.TrimSpace(jobTitle)
	f.jobTitle = jobTitle

	if err := ValidateJobTitle(jobTitle); err != nil {
		return err
	}

	f.gate.profile.Write(model.Profile{Username: f.username, JobTitle: jobTitle})
	f.step = LoggedIn
	f.gate.logger.Info("profile saved", "username", f.username)

	if nav != nil {
		nav.NavigateTo(DashboardPath)
	}

	return nil
}

// Back returns from the job title step to the username step, keeping the inputs.
func (f *Flow) Back() {
	if f.step == CollectingJobTitle {
		f.step = CollectingUsername
	}
}

// Reset is what closing the form does: back to the first step with the inputs restored to
// what the form was opened with.
func (f *Flow) Reset() {
	f.step = CollectingUsername
	f.username = f.initial.Username
	f.jobTitle = f.initial.JobTitle
}
