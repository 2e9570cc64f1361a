// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core binds the Vulkan loader's global and instance level entry
// points and exposes the capability queries built on them.
//
// An Entry owns the functions resolved against the null instance. Each
// Instance created from it owns its own instance-scoped functions. Both
// hold a reference on the shared Library, which stays mapped until the
// last of them is closed or destroyed.
//
// Nothing in this package is safe for concurrent use. Callers sharing an
// Entry or Instance between goroutines must serialise access themselves.
package core

import "github.com/devblok/vkinfo/vk"

// Library resolves typed entry points out of a loaded driver image.
// *loader.Library is the production implementation.
type Library interface {
	// Resolve binds fnPtr, a pointer to a func variable, to name as
	// returned by vkGetInstanceProcAddr(instance, name).
	Resolve(instance vk.Instance, name string, fnPtr interface{}) error

	// ResolveExport binds fnPtr to name from the image's export table.
	ResolveExport(name string, fnPtr interface{}) error

	// Acquire takes a reference that keeps the image mapped.
	Acquire() error

	// Release drops a reference taken by Acquire or at load time.
	Release() error
}
