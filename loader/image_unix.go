//go:build darwin || freebsd || linux

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader

import (
	"runtime"

	"github.com/ebitengine/purego"
)

// DefaultLibraryName is the soname the Vulkan loader is installed under.
var DefaultLibraryName = func() string {
	switch runtime.GOOS {
	case "android":
		return "libvulkan.so"
	case "darwin":
		return "libvulkan.1.dylib"
	}
	return "libvulkan.so.1"
}()

type dlImage struct {
	handle uintptr
}

func openImage(name string) (image, error) {
	h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, err
	}
	return &dlImage{handle: h}, nil
}

func (d *dlImage) lookup(name string) (uintptr, error) {
	return purego.Dlsym(d.handle, name)
}

func (d *dlImage) close() error {
	if d.handle == 0 {
		return nil
	}
	err := purego.Dlclose(d.handle)
	d.handle = 0
	return err
}
