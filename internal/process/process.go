// Package process finds other running countrydesk processes.
package process

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/gops/goprocess"
)

// Process is one running Go program.
type Process struct {
	PID  int
	Exec string
	Path string
}

// Finder lists Go processes. goprocess.FindAll is the default source.
type Finder struct {
	find func() []goprocess.P
	self int
}

func NewFinder() *Finder {
	return &Finder{find: goprocess.FindAll, self: os.Getpid()}
}

// Named returns the processes other than this one whose executable name contains name,
// compared case-insensitively.
func (f *Finder) Named(name string) []Process {
	name = strings.ToLower(name)

	var out []Process

	for _, p := range f.find() {
		if p.PID == f.self {
			continue
		}

		exec := strings.ToLower(p.Exec)
		base := strings.ToLower(filepath.Base(p.Path))

		if strings.Contains(exec, name) || strings.Contains(base, name) {
			out = append(out, Process{PID: p.PID, Exec: p.Exec, Path: p.Path})
		}
	}

	return out
}
