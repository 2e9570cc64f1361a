// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devblok/vkinfo/vk"
)

type fakeImage struct {
	symbols map[string]uintptr
	closed  int
}

func (f *fakeImage) lookup(name string) (uintptr, error) {
	if addr, ok := f.symbols[name]; ok {
		return addr, nil
	}
	return 0, errors.New("undefined symbol: " + name)
}

func (f *fakeImage) close() error {
	f.closed++
	return nil
}

// cstr reads the NUL terminated name the resolver was handed.
func cstr(p *byte) string {
	var b []byte
	for ptr := unsafe.Pointer(p); *(*byte)(ptr) != 0; ptr = unsafe.Add(ptr, 1) {
		b = append(b, *(*byte)(ptr))
	}
	return string(b)
}

// fakeLibrary builds a Library whose bootstrap resolver knows the given
// global and instance-scoped symbols.
func fakeLibrary(img *fakeImage, global, scoped map[string]uintptr) *Library {
	return &Library{
		name: "fake",
		img:  img,
		refs: 1,
		getInstanceProcAddr: func(instance vk.Instance, name *byte) uintptr {
			if instance == vk.NullInstance {
				return global[cstr(name)]
			}
			return scoped[cstr(name)]
		},
	}
}

func TestProcAddrUnknownSymbol(t *testing.T) {
	lib := fakeLibrary(&fakeImage{}, map[string]uintptr{"vkCreateInstance": 0x1000}, nil)

	for _, name := range []string{"vkCreateInstanceX", "vkDestroyInstance", "vkEnumeratePhysicalDevices", "x"} {
		addr, err := lib.ProcAddr(vk.NullInstance, name)
		assert.Zero(t, addr, name)
		require.ErrorIs(t, err, ErrSymbolNotFound, name)

		var serr *SymbolError
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, name, serr.Name)
		assert.False(t, serr.Scoped)
	}
}

func TestProcAddrScopes(t *testing.T) {
	lib := fakeLibrary(&fakeImage{},
		map[string]uintptr{"vkCreateInstance": 0x1000},
		map[string]uintptr{"vkDestroyInstance": 0x2000})

	addr, err := lib.ProcAddr(vk.NullInstance, "vkCreateInstance")
	require.NoError(t, err)
	assert.EqualValues(t, 0x1000, addr)

	// instance-level functions are not visible through the null instance
	_, err = lib.ProcAddr(vk.NullInstance, "vkDestroyInstance")
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	addr, err = lib.ProcAddr(vk.Instance(0xbeef), "vkDestroyInstance")
	require.NoError(t, err)
	assert.EqualValues(t, 0x2000, addr)

	_, err = lib.ProcAddr(vk.Instance(0xbeef), "vkCreateInstance")
	var serr *SymbolError
	require.True(t, errors.As(err, &serr))
	assert.True(t, serr.Scoped)
	assert.Contains(t, err.Error(), "instance scope")
}

func TestProcAddrMalformedName(t *testing.T) {
	called := false
	lib := fakeLibrary(&fakeImage{}, nil, nil)
	lib.getInstanceProcAddr = func(vk.Instance, *byte) uintptr {
		called = true
		return 0x1
	}

	_, err := lib.ProcAddr(vk.NullInstance, "vkCreate\x00Instance")
	assert.ErrorIs(t, err, ErrInvalidSymbolName)
	_, err = lib.ProcAddr(vk.NullInstance, "")
	assert.ErrorIs(t, err, ErrInvalidSymbolName)
	assert.False(t, called, "resolver must not be asked for a malformed name")
}

func TestNewLibraryMissingBootstrap(t *testing.T) {
	img := &fakeImage{symbols: map[string]uintptr{"vkCreateInstance": 0x1000}}
	lib, err := newLibrary("fake", img)
	assert.Nil(t, lib)
	assert.ErrorIs(t, err, ErrBootstrapSymbolMissing)
	assert.Equal(t, 1, img.closed, "image must be unmapped when bootstrap is missing")
}

func TestExportAddr(t *testing.T) {
	img := &fakeImage{symbols: map[string]uintptr{"vkDestroyInstance": 0x3000}}
	lib := fakeLibrary(img, nil, nil)

	addr, err := lib.ExportAddr("vkDestroyInstance")
	require.NoError(t, err)
	assert.EqualValues(t, 0x3000, addr)

	_, err = lib.ExportAddr("vkNothing")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestReferenceCounting(t *testing.T) {
	img := &fakeImage{}
	lib := fakeLibrary(img, map[string]uintptr{"vkCreateInstance": 0x1000}, nil)

	require.NoError(t, lib.Acquire())
	require.NoError(t, lib.Acquire())
	assert.Equal(t, 3, lib.Refs())

	require.NoError(t, lib.Release())
	require.NoError(t, lib.Release())
	assert.Equal(t, 0, img.closed, "image unmapped while still referenced")

	_, err := lib.ProcAddr(vk.NullInstance, "vkCreateInstance")
	require.NoError(t, err)

	require.NoError(t, lib.Release())
	assert.Equal(t, 1, img.closed)
	assert.Equal(t, 0, lib.Refs())

	assert.ErrorIs(t, lib.Acquire(), ErrLibraryClosed)
	assert.ErrorIs(t, lib.Release(), ErrLibraryClosed)
	_, err = lib.ProcAddr(vk.NullInstance, "vkCreateInstance")
	assert.ErrorIs(t, err, ErrLibraryClosed)
	assert.Equal(t, 1, img.closed)
}
