//go:build darwin || freebsd || linux || windows

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader

import "github.com/ebitengine/purego"

// registerFunc makes the func variable fnPtr points to call the native
// function at addr.
func registerFunc(fnPtr interface{}, addr uintptr) {
	purego.RegisterFunc(fnPtr, addr)
}
