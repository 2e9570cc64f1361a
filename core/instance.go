// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/vkinfo/vk"
)

// newInstance resolves the instance-scoped entry points for handle. The
// caller's reference on lib is handed over; on failure the native
// instance is destroyed and the reference released before returning.
func newInstance(lib Library, handle vk.Instance, attempts int) (*Instance, error) {
	v := &Instance{
		lib:      lib,
		handle:   handle,
		attempts: attempts,
	}

	var firstErr error
	if err := lib.Resolve(handle, vk.SymDestroyInstance, &v.destroyInstance); err != nil {
		firstErr = err
		// still need something to tear the handle down with
		if lib.ResolveExport(vk.SymDestroyInstance, &v.destroyInstance) != nil {
			v.destroyInstance = nil
		}
	}

	for _, fn := range []struct {
		name string
		ptr  interface{}
	}{
		{vk.SymEnumeratePhysicalDevices, &v.enumeratePhysicalDevices},
		{vk.SymGetPhysicalDeviceFeatures, &v.getPhysicalDeviceFeatures},
		{vk.SymGetPhysicalDeviceProperties, &v.getPhysicalDeviceProperties},
		{vk.SymGetPhysicalDeviceQueueFamilyProperties, &v.getPhysicalDeviceQueueFamilyProperties},
	} {
		if firstErr != nil {
			break
		}
		firstErr = lib.Resolve(handle, fn.name, fn.ptr)
	}

	if firstErr != nil {
		if v.destroyInstance != nil {
			v.destroyInstance(handle, nil)
		}
		lib.Release()
		return nil, firstErr
	}
	return v, nil
}

// Instance is a created driver instance together with the entry points
// resolved against it.
//
// Physical device handles passed to its methods must come from
// EnumeratePhysicalDevices on the same Instance; the driver cannot
// detect a foreign handle and behaviour is then undefined.
type Instance struct {
	lib       Library
	handle    vk.Instance
	attempts  int
	destroyed bool

	destroyInstance                        vk.DestroyInstanceFunc
	enumeratePhysicalDevices               vk.EnumeratePhysicalDevicesFunc
	getPhysicalDeviceFeatures              vk.GetPhysicalDeviceFeaturesFunc
	getPhysicalDeviceProperties            vk.GetPhysicalDevicePropertiesFunc
	getPhysicalDeviceQueueFamilyProperties vk.GetPhysicalDeviceQueueFamilyPropertiesFunc
}

// Handle returns the native instance handle.
func (v *Instance) Handle() vk.Instance {
	return v.handle
}

// Destroyed reports whether Destroy has been called.
func (v *Instance) Destroyed() bool {
	return v.destroyed
}

// EnumeratePhysicalDevices returns the physical devices in driver order.
// No devices is an empty slice, not an error.
func (v *Instance) EnumeratePhysicalDevices() ([]vk.PhysicalDevice, error) {
	const op = vk.SymEnumeratePhysicalDevices
	if v.destroyed {
		return nil, wrap(op, ErrInstanceDestroyed)
	}
	devices, err := Enumerate(v.attempts, func(count *uint32, devices *vk.PhysicalDevice) vk.Result {
		return v.enumeratePhysicalDevices(v.handle, count, devices)
	})
	return devices, wrap(op, err)
}

// GetPhysicalDeviceFeatures returns the features device supports.
func (v *Instance) GetPhysicalDeviceFeatures(device vk.PhysicalDevice) (vk.PhysicalDeviceFeatures, error) {
	var features vk.PhysicalDeviceFeatures
	if v.destroyed {
		return features, wrap(vk.SymGetPhysicalDeviceFeatures, ErrInstanceDestroyed)
	}
	v.getPhysicalDeviceFeatures(device, &features)
	return features, nil
}

// GetPhysicalDeviceProperties returns the properties and limits of device.
func (v *Instance) GetPhysicalDeviceProperties(device vk.PhysicalDevice) (vk.PhysicalDeviceProperties, error) {
	var properties vk.PhysicalDeviceProperties
	if v.destroyed {
		return properties, wrap(vk.SymGetPhysicalDeviceProperties, ErrInstanceDestroyed)
	}
	v.getPhysicalDeviceProperties(device, &properties)
	return properties, nil
}

// GetPhysicalDeviceQueueFamilyProperties returns the queue families of
// device in driver order.
func (v *Instance) GetPhysicalDeviceQueueFamilyProperties(device vk.PhysicalDevice) ([]vk.QueueFamilyProperties, error) {
	const op = vk.SymGetPhysicalDeviceQueueFamilyProperties
	if v.destroyed {
		return nil, wrap(op, ErrInstanceDestroyed)
	}
	families, err := Enumerate(v.attempts, infallible(func(count *uint32, props *vk.QueueFamilyProperties) {
		v.getPhysicalDeviceQueueFamilyProperties(device, count, props)
	}))
	return families, wrap(op, err)
}

// Destroy destroys the native instance and releases its reference on the
// library. Only the first call has any effect; every other method
// returns ErrInstanceDestroyed afterwards.
func (v *Instance) Destroy() error {
	if v.destroyed {
		return nil
	}
	v.destroyed = true
	v.destroyInstance(v.handle, nil)
	return v.lib.Release()
}
