// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader

import "golang.org/x/sys/windows"

// DefaultLibraryName is the Vulkan loader DLL.
var DefaultLibraryName = "vulkan-1.dll"

type dllImage struct {
	handle windows.Handle
}

func openImage(name string) (image, error) {
	h, err := windows.LoadLibrary(name)
	if err != nil {
		return nil, err
	}
	return &dllImage{handle: h}, nil
}

func (d *dllImage) lookup(name string) (uintptr, error) {
	return windows.GetProcAddress(d.handle, name)
}

func (d *dllImage) close() error {
	if d.handle == 0 {
		return nil
	}
	err := windows.FreeLibrary(d.handle)
	d.handle = 0
	return err
}
