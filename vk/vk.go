// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vk describes the fixed layout records, handles and enumerations
// of the Vulkan 1.0 ABI that the binding exchanges with the driver.
// Every record here is plain data: the driver writes into it by address,
// so field order, sizes and padding must match the C declarations exactly.
package vk

import (
	"bytes"
	"fmt"
)

// Capacities of the fixed-size arrays embedded in records.
const (
	MaxExtensionNameSize      = 256
	MaxDescriptionSize        = 256
	MaxPhysicalDeviceNameSize = 256
	UUIDSize                  = 16
)

// Instance is a dispatchable handle for one created driver context.
type Instance uintptr

// NullInstance is used to resolve global-level entry points.
const NullInstance Instance = 0

// PhysicalDevice is a dispatchable handle for a physical device
// enumerated from an Instance.
type PhysicalDevice uintptr

// Bool32 is the 4-byte boolean used by the native ABI.
type Bool32 uint32

// Bool32 values.
const (
	False Bool32 = 0
	True  Bool32 = 1
)

// Bool reports whether b is non-zero.
func (b Bool32) Bool() bool {
	return b != False
}

// DeviceSize is a 64-bit memory size or offset.
type DeviceSize uint64

// Version is a packed major.minor.patch version number.
type Version uint32

// MakeVersion packs a version the way the driver reports it.
func MakeVersion(major, minor, patch uint32) Version {
	return Version(major<<22 | minor<<12 | patch)
}

// Major of the version.
func (v Version) Major() uint32 { return uint32(v) >> 22 }

// Minor of the version.
func (v Version) Minor() uint32 { return (uint32(v) >> 12) & 0x3ff }

// Patch of the version.
func (v Version) Patch() uint32 { return uint32(v) & 0xfff }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// ToString reads a driver supplied, possibly unterminated, C string
// out of a fixed-size array. Reading stops at the first NUL or at the
// end of the array, whichever comes first.
func ToString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// CString returns s as a NUL terminated byte slice suitable for passing
// to the driver. It reports false if s already contains a NUL byte,
// since the driver would silently see a different, truncated name.
func CString(s string) ([]byte, bool) {
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return nil, false
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b, true
}
