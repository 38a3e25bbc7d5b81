package model

// ProfileStorageKey is the durable storage key of the user profile.
const ProfileStorageKey = "user"

// Profile is the locally persisted user identity collected by the welcome flow.
type Profile struct {
	Username string `json:"username"`
	JobTitle string `json:"jobTitle"`
}

// EmptyProfile is the logged-out shape, also used as the first-run default.
func EmptyProfile() Profile {
	return Profile{}
}

// Complete reports whether both fields are set.
func (p Profile) Complete() bool {
	return p.Username != "" && p.JobTitle != ""
}
