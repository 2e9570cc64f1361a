// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

// DefaultMaxEnumerationAttempts caps how many times an enumeration is
// restarted when the driver keeps reporting vk.Incomplete.
const DefaultMaxEnumerationAttempts = 8

// Configuration defines how the driver is loaded and queried
type Configuration struct {
	// LibraryName is the file name or path of the Vulkan loader.
	// Empty means the platform default.
	LibraryName string

	// MaxEnumerationAttempts bounds the size-then-fill retry loop.
	// Zero or less means DefaultMaxEnumerationAttempts.
	MaxEnumerationAttempts int
}

func (c Configuration) attempts() int {
	if c.MaxEnumerationAttempts <= 0 {
		return DefaultMaxEnumerationAttempts
	}
	return c.MaxEnumerationAttempts
}
