// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device gathers what an instance can tell about each physical
// device into one summary per device.
package device

import "github.com/devblok/vkinfo/vk"

// PhysicalDeviceInfo describes available physical properties of a rendering device
type PhysicalDeviceInfo struct {
	Handle        vk.PhysicalDevice
	ID            int
	VendorID      int
	DriverVersion int
	APIVersion    vk.Version
	Name          string
	Type          vk.PhysicalDeviceType

	// Invalid is set when one of the queries for this device failed,
	// the remaining fields are then only partially filled.
	Invalid bool

	Features      vk.PhysicalDeviceFeatures
	Properties    vk.PhysicalDeviceProperties
	QueueFamilies []vk.QueueFamilyProperties
}

// QueueFamily returns the index of the first queue family with all the
// requested capabilities, or -1 if there is none.
func (p *PhysicalDeviceInfo) QueueFamily(required vk.QueueFlags) int {
	for i, family := range p.QueueFamilies {
		if family.QueueCount > 0 && family.QueueFlags&required == required {
			return i
		}
	}
	return -1
}

// Source is what device summaries are gathered from, *core.Instance
// implements it.
type Source interface {
	EnumeratePhysicalDevices() ([]vk.PhysicalDevice, error)
	GetPhysicalDeviceFeatures(vk.PhysicalDevice) (vk.PhysicalDeviceFeatures, error)
	GetPhysicalDeviceProperties(vk.PhysicalDevice) (vk.PhysicalDeviceProperties, error)
	GetPhysicalDeviceQueueFamilyProperties(vk.PhysicalDevice) ([]vk.QueueFamilyProperties, error)
}
