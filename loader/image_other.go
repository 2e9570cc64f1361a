//go:build !darwin && !freebsd && !linux && !windows

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader

import (
	"fmt"
	"runtime"
)

// DefaultLibraryName is the soname the Vulkan loader is usually installed
// under. Loading is not supported on this platform.
var DefaultLibraryName = "libvulkan.so.1"

func openImage(name string) (image, error) {
	return nil, fmt.Errorf("dynamic loading is unsupported on %s/%s", runtime.GOOS, runtime.GOARCH)
}

// registerFunc is unreachable here, no image can be opened to resolve from.
func registerFunc(fnPtr interface{}, addr uintptr) {
	panic("loader: foreign calls are unsupported on " + runtime.GOOS)
}
