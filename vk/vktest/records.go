// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vktest

import "github.com/devblok/vkinfo/vk"

// DeviceHandle is the handle the driver hands out for Devices[i].
func DeviceHandle(i int) vk.PhysicalDevice {
	return vk.PhysicalDevice(0x100 + i)
}

// LayerProperties converts l into its native record.
func LayerProperties(l Layer) vk.LayerProperties {
	var p vk.LayerProperties
	copy(p.LayerName[:len(p.LayerName)-1], l.Name)
	copy(p.Description[:len(p.Description)-1], l.Description)
	p.SpecVersion = l.SpecVersion
	p.ImplementationVersion = l.ImplementationVersion
	return p
}

// ExtensionProperties converts e into its native record.
func ExtensionProperties(e Extension) vk.ExtensionProperties {
	var p vk.ExtensionProperties
	copy(p.ExtensionName[:len(p.ExtensionName)-1], e.Name)
	p.SpecVersion = e.SpecVersion
	return p
}

// DeviceProperties builds a properties record with the identifying fields
// set and everything else zero.
func DeviceProperties(name string, deviceType vk.PhysicalDeviceType, vendorID, deviceID uint32) vk.PhysicalDeviceProperties {
	var p vk.PhysicalDeviceProperties
	copy(p.DeviceName[:len(p.DeviceName)-1], name)
	p.DeviceType = deviceType
	p.VendorID = vendorID
	p.DeviceID = deviceID
	p.APIVersion = vk.MakeVersion(1, 0, 0)
	return p
}
