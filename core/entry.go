// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"runtime"

	"github.com/devblok/vkinfo/loader"
	"github.com/devblok/vkinfo/vk"
)

// NewEntry loads the Vulkan loader named by cfg and resolves the global
// entry points from it.
func NewEntry(cfg Configuration) (*Entry, error) {
	lib, err := loader.Open(cfg.LibraryName)
	if err != nil {
		return nil, wrap("NewEntry", err)
	}
	// the Entry takes its own reference, ours only covers construction
	defer lib.Release()

	return NewEntryWithLibrary(lib, cfg)
}

// NewEntryWithLibrary resolves the global entry points from an already
// loaded library. The Entry acquires its own reference on lib.
func NewEntryWithLibrary(lib Library, cfg Configuration) (*Entry, error) {
	if err := lib.Acquire(); err != nil {
		return nil, wrap("NewEntry", err)
	}

	e := &Entry{
		lib:      lib,
		attempts: cfg.attempts(),
	}
	for _, fn := range []struct {
		name string
		ptr  interface{}
	}{
		{vk.SymCreateInstance, &e.createInstance},
		{vk.SymEnumerateInstanceLayerProperties, &e.enumerateInstanceLayerProperties},
		{vk.SymEnumerateInstanceExtensionProperties, &e.enumerateInstanceExtensionProperties},
	} {
		if err := lib.Resolve(vk.NullInstance, fn.name, fn.ptr); err != nil {
			lib.Release()
			return nil, wrap("NewEntry", err)
		}
	}
	return e, nil
}

// Entry holds the entry points that are valid without an instance.
type Entry struct {
	lib      Library
	attempts int
	closed   bool

	createInstance                       vk.CreateInstanceFunc
	enumerateInstanceLayerProperties     vk.EnumerateInstanceLayerPropertiesFunc
	enumerateInstanceExtensionProperties vk.EnumerateInstanceExtensionPropertiesFunc
}

// EnumerateLayerProperties returns the instance layers in driver order.
func (e *Entry) EnumerateLayerProperties() ([]vk.LayerProperties, error) {
	const op = vk.SymEnumerateInstanceLayerProperties
	if e.closed {
		return nil, wrap(op, ErrEntryClosed)
	}
	layers, err := Enumerate(e.attempts, func(count *uint32, props *vk.LayerProperties) vk.Result {
		return e.enumerateInstanceLayerProperties(count, props)
	})
	return layers, wrap(op, err)
}

// EnumerateInstanceExtensionProperties returns the extensions provided by
// the loader and implicit layers, that is with no layer named.
func (e *Entry) EnumerateInstanceExtensionProperties() ([]vk.ExtensionProperties, error) {
	return e.enumerateExtensions(nil)
}

// EnumerateLayerExtensionProperties returns the extensions provided by
// the named layer.
func (e *Entry) EnumerateLayerExtensionProperties(layer string) ([]vk.ExtensionProperties, error) {
	name, ok := vk.CString(layer)
	if !ok || layer == "" {
		return nil, wrap(vk.SymEnumerateInstanceExtensionProperties, fmt.Errorf("%w: %q", ErrInvalidLayerName, layer))
	}
	props, err := e.enumerateExtensions(&name[0])
	runtime.KeepAlive(name)
	return props, err
}

func (e *Entry) enumerateExtensions(layer *byte) ([]vk.ExtensionProperties, error) {
	const op = vk.SymEnumerateInstanceExtensionProperties
	if e.closed {
		return nil, wrap(op, ErrEntryClosed)
	}
	props, err := Enumerate(e.attempts, func(count *uint32, props *vk.ExtensionProperties) vk.Result {
		return e.enumerateInstanceExtensionProperties(layer, count, props)
	})
	return props, wrap(op, err)
}

// CreateInstance creates an instance with no application info and no
// layers or extensions enabled, then resolves its instance-level entry
// points. The returned Instance must be destroyed explicitly.
func (e *Entry) CreateInstance() (*Instance, error) {
	const op = vk.SymCreateInstance
	if e.closed {
		return nil, wrap(op, ErrEntryClosed)
	}

	// taken before the driver call so the image cannot go away between
	// creating the handle and tearing it down on failure
	if err := e.lib.Acquire(); err != nil {
		return nil, wrap(op, err)
	}

	info := vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
	}
	var handle vk.Instance
	if res := e.createInstance(&info, nil, &handle); res != vk.Success {
		e.lib.Release()
		return nil, wrap(op, fmt.Errorf("%w: %w", ErrContextCreationFailed, res))
	}

	instance, err := newInstance(e.lib, handle, e.attempts)
	if err != nil {
		return nil, wrap(op, err)
	}
	return instance, nil
}

// Close releases the Entry's reference on the library. Instances created
// from it remain valid until destroyed.
func (e *Entry) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.lib.Release()
}
