package model

import "strings"

// Language is a spoken language as reported by the countries API.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Country is one row of the dashboard listing.
type Country struct {
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	Capital   string     `json:"capital"`
	Emoji     string     `json:"emoji"`
	Languages []Language `json:"languages"`
}

// CountryDetail is the record shown in the detail modal.
type CountryDetail struct {
	Name      string     `json:"name"`
	Native    string     `json:"native"`
	Capital   string     `json:"capital"`
	Emoji     string     `json:"emoji"`
	Currency  string     `json:"currency"`
	Languages []Language `json:"languages"`
}

// LanguageNames joins language names the way the dashboard renders them.
func LanguageNames(langs []Language) string {
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = l.Name
	}

	return strings.Join(names, ", ")
}

// Title is the modal header: name followed by the flag emoji.
func (d CountryDetail) Title() string {
	return strings.TrimSpace(d.Name + " " + d.Emoji)
}
