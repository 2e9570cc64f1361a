// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vk

import "unsafe"

// Entry point names as exported by the loader.
const (
	SymGetInstanceProcAddr                    = "vkGetInstanceProcAddr"
	SymCreateInstance                         = "vkCreateInstance"
	SymDestroyInstance                        = "vkDestroyInstance"
	SymEnumerateInstanceLayerProperties       = "vkEnumerateInstanceLayerProperties"
	SymEnumerateInstanceExtensionProperties   = "vkEnumerateInstanceExtensionProperties"
	SymEnumeratePhysicalDevices               = "vkEnumeratePhysicalDevices"
	SymGetPhysicalDeviceFeatures              = "vkGetPhysicalDeviceFeatures"
	SymGetPhysicalDeviceProperties            = "vkGetPhysicalDeviceProperties"
	SymGetPhysicalDeviceQueueFamilyProperties = "vkGetPhysicalDeviceQueueFamilyProperties"
)

// Call signatures of the entry points above. Allocator arguments are
// always passed as nil.
type (
	GetInstanceProcAddrFunc                    func(instance Instance, name *byte) uintptr
	CreateInstanceFunc                         func(createInfo *InstanceCreateInfo, allocator unsafe.Pointer, instance *Instance) Result
	DestroyInstanceFunc                        func(instance Instance, allocator unsafe.Pointer)
	EnumerateInstanceLayerPropertiesFunc       func(count *uint32, properties *LayerProperties) Result
	EnumerateInstanceExtensionPropertiesFunc   func(layerName *byte, count *uint32, properties *ExtensionProperties) Result
	EnumeratePhysicalDevicesFunc               func(instance Instance, count *uint32, devices *PhysicalDevice) Result
	GetPhysicalDeviceFeaturesFunc              func(device PhysicalDevice, features *PhysicalDeviceFeatures)
	GetPhysicalDevicePropertiesFunc            func(device PhysicalDevice, properties *PhysicalDeviceProperties)
	GetPhysicalDeviceQueueFamilyPropertiesFunc func(device PhysicalDevice, count *uint32, properties *QueueFamilyProperties)
)
