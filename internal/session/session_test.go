package session

import (
	"errors"
	"testing"

	"github.com/inovacc/countrydesk/internal/database"
	"github.com/inovacc/countrydesk/internal/model"
	"github.com/inovacc/countrydesk/internal/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) NavigateTo(path string) {
	n.paths = append(n.paths, path)
}

func newGate(t *testing.T, p model.Profile) (*Gate, *reactive.Cell[model.Profile], *database.Memory) {
	t.Helper()

	store := database.NewMemory()
	cell := reactive.New(store, model.EmptyProfile(), model.ProfileStorageKey)
	cell.Write(p)

	return NewGate(cell, nil), cell, store
}

func TestGuard_RedirectsWhenProfileEmpty(t *testing.T) {
	gate, _, _ := newGate(t, model.Profile{Username: "", JobTitle: ""})
	nav := &recordingNavigator{}

	allowed := gate.Guard(nav)

	assert.False(t, allowed)
	assert.Equal(t, []string{EntryPath}, nav.paths)
	assert.Equal(t, LoggedOut, gate.State())
}

func TestGuard_AllowsCompleteProfile(t *testing.T) {
	gate, _, _ := newGate(t, model.Profile{Username: "john", JobTitle: "Developer"})
	nav := &recordingNavigator{}

	allowed := gate.Guard(nav)

	assert.True(t, allowed)
	assert.Empty(t, nav.paths)
	assert.Equal(t, LoggedIn, gate.State())
}

func TestGuard_IsReevaluatedOnEveryRender(t *testing.T) {
	gate, cell, _ := newGate(t, model.Profile{Username: "john", JobTitle: "Developer"})
	nav := &recordingNavigator{}

	require.True(t, gate.Guard(nav))

	// profile cleared behind the gate's back, e.g. by another view
	cell.Write(model.Profile{Username: "john"})

	assert.False(t, gate.Guard(nav))
	assert.False(t, gate.Guard(nav))
	assert.Equal(t, []string{EntryPath, EntryPath}, nav.paths)
}

func TestFlow_ValidationScenario(t *testing.T) {
	gate, cell, store := newGate(t, model.EmptyProfile())
	nav := &recordingNavigator{}

	flow := gate.NewFlow()
	require.Equal(t, CollectingUsername, flow.Step())

	err := flow.SubmitUsername("john123")
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, FieldUsername, verr.Field)
	assert.Equal(t, CollectingUsername, flow.Step())
	assert.Equal(t, model.EmptyProfile(), cell.Read())

	require.NoError(t, flow.SubmitUsername("john"))
	assert.Equal(t, CollectingJobTitle, flow.Step())
	assert.Equal(t, model.EmptyProfile(), cell.Read(), "username step must not write")

	require.NoError(t, flow.SubmitJobTitle("Software Developer", nav))

	assert.Equal(t, LoggedIn, flow.Step())
	assert.Equal(t, LoggedIn, gate.State())
	assert.Equal(t, model.Profile{Username: "john", JobTitle: "Software Developer"}, cell.Read())
	assert.Equal(t, []string{DashboardPath}, nav.paths)

	stored, ok, err := store.Get(model.ProfileStorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"username":"john","jobTitle":"Software Developer"}`, stored)
}

func TestFlow_InvalidJobTitleBlocksTransition(t *testing.T) {
	gate, cell, _ := newGate(t, model.EmptyProfile())
	nav := &recordingNavigator{}

	flow := gate.NewFlow()
	require.NoError(t, flow.SubmitUsername("john"))

	err := flow.SubmitJobTitle("Dev-Ops 2", nav)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, FieldJobTitle, verr.Field)
	assert.Equal(t, CollectingJobTitle, flow.Step())
	assert.Equal(t, model.EmptyProfile(), cell.Read())
	assert.Empty(t, nav.paths)
}

func TestFlow_TrimsSurroundingWhitespace(t *testing.T) {
	gate, cell, _ := newGate(t, model.EmptyProfile())

	flow := gate.NewFlow()
	require.NoError(t, flow.SubmitUsername(" john\t"))
	assert.Equal(t, "john", flow.Username())

	require.NoError(t, flow.SubmitJobTitle("  Software Developer ", nil))
	assert.Equal(t, model.Profile{Username: "john", JobTitle: "Software Developer"}, cell.Read())

	err := gate.NewFlow().SubmitUsername("   ")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, FieldUsername, verr.Field)
}

func TestFlow_JobTitleBeforeUsername(t *testing.T) {
	gate, _, _ := newGate(t, model.EmptyProfile())

	err := gate.NewFlow().SubmitJobTitle("Developer", nil)

	assert.True(t, errors.Is(err, ErrStepOrder))
}

func TestFlow_BackAndReset(t *testing.T) {
	gate, _, _ := newGate(t, model.EmptyProfile())

	flow := gate.NewFlow()
	require.NoError(t, flow.SubmitUsername("john"))

	flow.Back()
	assert.Equal(t, CollectingUsername, flow.Step())
	assert.Equal(t, "john", flow.Username())

	require.NoError(t, flow.SubmitUsername("john"))
	flow.Reset()

	assert.Equal(t, CollectingUsername, flow.Step())
	assert.Empty(t, flow.Username())
	assert.Empty(t, flow.JobTitle())
}

func TestEditFlow_PrefillsCurrentProfile(t *testing.T) {
	gate, cell, _ := newGate(t, model.Profile{Username: "john", JobTitle: "Developer"})

	flow := gate.EditFlow()
	assert.Equal(t, "john", flow.Username())
	assert.Equal(t, "Developer", flow.JobTitle())

	require.NoError(t, flow.SubmitUsername("johnny"))
	require.NoError(t, flow.SubmitJobTitle("Lead Developer", nil))

	assert.Equal(t, model.Profile{Username: "johnny", JobTitle: "Lead Developer"}, cell.Read())

	flow = gate.EditFlow()
	flow.Reset()
	assert.Equal(t, "johnny", flow.Username())
}

func TestLogout(t *testing.T) {
	gate, cell, store := newGate(t, model.Profile{Username: "john", JobTitle: "Developer"})
	nav := &recordingNavigator{}

	notified := make(chan model.Profile, 1)
	cell.NotifyOnce(func(p model.Profile) { notified <- p })

	gate.Logout(nav)

	assert.Equal(t, model.EmptyProfile(), cell.Read())
	assert.Equal(t, model.EmptyProfile(), <-notified)
	assert.Equal(t, []string{EntryPath}, nav.paths)
	assert.Equal(t, LoggedOut, gate.State())

	stored, ok, err := store.Get(model.ProfileStorageKey)
	require.NoError(t, err)
	require.True(t, ok, "logout resets the profile, it does not delete it")
	assert.JSONEq(t, `{"username":"","jobTitle":""}`, stored)
}

func TestLogin(t *testing.T) {
	gate, _, _ := newGate(t, model.EmptyProfile())

	require.Error(t, gate.Login("john", "", nil))
	require.Error(t, gate.Require())

	require.NoError(t, gate.Login("john", "Developer", nil))
	require.NoError(t, gate.Require())
}

func TestGate_StateSurvivesRestart(t *testing.T) {
	store := database.NewMemory()

	cell := reactive.New(store, model.EmptyProfile(), model.ProfileStorageKey)
	require.NoError(t, NewGate(cell, nil).Login("john", "Developer", nil))

	restarted := reactive.New(store, model.EmptyProfile(), model.ProfileStorageKey)
	assert.Equal(t, LoggedIn, NewGate(restarted, nil).State())
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string) error
		input string
		ok    bool
	}{
		{"username letters", ValidateUsername, "john", true},
		{"username mixed case", ValidateUsername, "JohnDoe", true},
		{"username digits", ValidateUsername, "john123", false},
		{"username space", ValidateUsername, "john doe", false},
		{"username punctuation", ValidateUsername, "john.doe", false},
		{"username empty", ValidateUsername, "", false},
		{"job title words", ValidateJobTitle, "Software Developer", true},
		{"job title single", ValidateJobTitle, "Developer", true},
		{"job title digits", ValidateJobTitle, "Developer 2", false},
		{"job title hyphen", ValidateJobTitle, "Dev-Ops", false},
		{"job title empty", ValidateJobTitle, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(tt.input)
			assert.Equal(t, tt.ok, err == nil, "err = %v", err)
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "logged-out", LoggedOut.String())
	assert.Equal(t, "collecting-username", CollectingUsername.String())
	assert.Equal(t, "collecting-job-title", CollectingJobTitle.String())
	assert.Equal(t, "logged-in", LoggedIn.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestDetailPath(t *testing.T) {
	assert.Equal(t, "/dashboard?country=BR", DetailPath("BR"))
	assert.Equal(t, "/dashboard", DetailPath(""))
}
