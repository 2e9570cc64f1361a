// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package loader maps the Vulkan loader library into the process and
// resolves entry points from it through vkGetInstanceProcAddr.
//
// A Library is reference counted. Every object holding function addresses
// resolved from it keeps one reference, and the image is unmapped only
// when the last reference is released, so no resolved address can outlive
// the code it points into.
package loader

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/devblok/vkinfo/vk"
)

// BootstrapSymbol is the one symbol looked up directly in the image.
// Every other entry point is obtained through it.
const BootstrapSymbol = vk.SymGetInstanceProcAddr

// package errors
var (
	ErrLibraryNotFound        = errors.New("vulkan library could not be loaded")
	ErrBootstrapSymbolMissing = errors.New("vkGetInstanceProcAddr not exported by library")
	ErrSymbolNotFound         = errors.New("symbol not found")
	ErrInvalidSymbolName      = errors.New("malformed symbol name")
	ErrLibraryClosed          = errors.New("library already released")
)

// SymbolError records which symbol failed to resolve and in which scope.
type SymbolError struct {
	Name string

	// Scoped is true when the lookup was made against a specific
	// instance rather than the null instance.
	Scoped bool

	Err error
}

func (e *SymbolError) Error() string {
	scope := "global"
	if e.Scoped {
		scope = "instance"
	}
	return fmt.Sprintf("%s (%s scope): %s", e.Name, scope, e.Err)
}

func (e *SymbolError) Unwrap() error {
	return e.Err
}

// image is a mapped shared object.
type image interface {
	lookup(name string) (uintptr, error)
	close() error
}

// Library is a loaded Vulkan loader image and its bootstrap resolver.
// It is not safe for concurrent use beyond Acquire and Release.
type Library struct {
	name string
	img  image
	refs int32

	getInstanceProcAddr vk.GetInstanceProcAddrFunc
}

// Open loads the library with the given name, or the platform default
// when name is empty, and resolves vkGetInstanceProcAddr from it.
// The returned Library holds one reference.
func Open(name string) (*Library, error) {
	if name == "" {
		name = DefaultLibraryName
	}
	img, err := openImage(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLibraryNotFound, name, err)
	}
	return newLibrary(name, img)
}

func newLibrary(name string, img image) (*Library, error) {
	addr, err := img.lookup(BootstrapSymbol)
	if err != nil || addr == 0 {
		img.close()
		return nil, fmt.Errorf("%w: %s", ErrBootstrapSymbolMissing, name)
	}

	l := &Library{
		name: name,
		img:  img,
		refs: 1,
	}
	registerFunc(&l.getInstanceProcAddr, addr)
	return l, nil
}

// Name returns the name the library was loaded by.
func (l *Library) Name() string {
	return l.name
}

// ProcAddr asks the bootstrap resolver for the address of name under
// instance, which may be vk.NullInstance for global-level functions.
func (l *Library) ProcAddr(instance vk.Instance, name string) (uintptr, error) {
	if atomic.LoadInt32(&l.refs) <= 0 {
		return 0, ErrLibraryClosed
	}
	scoped := instance != vk.NullInstance

	cname, ok := vk.CString(name)
	if !ok || name == "" {
		return 0, &SymbolError{Name: name, Scoped: scoped, Err: ErrInvalidSymbolName}
	}
	addr := l.getInstanceProcAddr(instance, &cname[0])
	runtime.KeepAlive(cname)
	if addr == 0 {
		return 0, &SymbolError{Name: name, Scoped: scoped, Err: ErrSymbolNotFound}
	}
	return addr, nil
}

// Resolve binds fnPtr, a pointer to a func variable, to the entry point
// name resolved under instance.
func (l *Library) Resolve(instance vk.Instance, name string, fnPtr interface{}) error {
	addr, err := l.ProcAddr(instance, name)
	if err != nil {
		return err
	}
	registerFunc(fnPtr, addr)
	return nil
}

// ExportAddr looks name up in the image's own symbol table, bypassing
// the bootstrap resolver.
func (l *Library) ExportAddr(name string) (uintptr, error) {
	if atomic.LoadInt32(&l.refs) <= 0 {
		return 0, ErrLibraryClosed
	}
	if _, ok := vk.CString(name); !ok || name == "" {
		return 0, &SymbolError{Name: name, Err: ErrInvalidSymbolName}
	}
	addr, err := l.img.lookup(name)
	if err != nil || addr == 0 {
		return 0, &SymbolError{Name: name, Err: ErrSymbolNotFound}
	}
	return addr, nil
}

// ResolveExport binds fnPtr to the symbol name exported by the image.
func (l *Library) ResolveExport(name string, fnPtr interface{}) error {
	addr, err := l.ExportAddr(name)
	if err != nil {
		return err
	}
	registerFunc(fnPtr, addr)
	return nil
}

// Acquire takes another reference on the image. It fails once the last
// reference has been released.
func (l *Library) Acquire() error {
	for {
		n := atomic.LoadInt32(&l.refs)
		if n <= 0 {
			return ErrLibraryClosed
		}
		if atomic.CompareAndSwapInt32(&l.refs, n, n+1) {
			return nil
		}
	}
}

// Release drops one reference and unmaps the image when it was the last.
// Any function resolved from the library must not be called afterwards
// by the releasing holder.
func (l *Library) Release() error {
	for {
		n := atomic.LoadInt32(&l.refs)
		if n <= 0 {
			return ErrLibraryClosed
		}
		if !atomic.CompareAndSwapInt32(&l.refs, n, n-1) {
			continue
		}
		if n == 1 {
			l.getInstanceProcAddr = nil
			return l.img.close()
		}
		return nil
	}
}

// Refs returns the current reference count.
func (l *Library) Refs() int {
	return int(atomic.LoadInt32(&l.refs))
}
