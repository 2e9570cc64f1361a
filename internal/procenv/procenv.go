// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package procenv records the process environment as it was at start up.
//
// It imports nothing outside the standard library and its import path sorts
// ahead of github.com/gobuffalo/envy, so it is initialised before envy's
// init overlays ./.env onto the environment.
package procenv

import (
	"os"
	"strings"
)

var snapshot = Parse(os.Environ())

// Snapshot returns a copy of the environment captured at start up.
func Snapshot() map[string]string {
	env := make(map[string]string, len(snapshot))
	for k, v := range snapshot {
		env[k] = v
	}
	return env
}

// Current returns the environment as it is now.
func Current() map[string]string {
	return Parse(os.Environ())
}

// Parse turns KEY=VALUE pairs into a map.
func Parse(pairs []string) map[string]string {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		if k, v, ok := strings.Cut(pair, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}
