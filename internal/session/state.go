package session

// State is the derived login state.
type State int

const (
	LoggedOut State = iota
	CollectingUsername
	CollectingJobTitle
	LoggedIn
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged-out"
	case CollectingUsername:
		return "collecting-username"
	case CollectingJobTitle:
		return "collecting-job-title"
	case LoggedIn:
		return "logged-in"
	default:
		return "unknown"
	}
}

const (
	// EntryPath is the welcome view.
	EntryPath = "/"

	// DashboardPath is the protected view.
	DashboardPath = "/dashboard"
)

// DetailPath encodes the open country modal on the dashboard path.
func DetailPath(code string) string {
	if code == "" {
		return DashboardPath
	}

	return DashboardPath + "?country=" + code
}

// Navigator moves the active front end to a path.
type Navigator interface {
	NavigateTo(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) NavigateTo(path string) { f(path) }
