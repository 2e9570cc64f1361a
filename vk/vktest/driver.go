// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vktest provides an in-process stand-in for a Vulkan loader.
// A Driver serves typed Go functions instead of native addresses, follows
// the same scoping and size-then-fill rules as a real loader, and counts
// every call so tests can assert on how the binding drove it.
package vktest

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/devblok/vkinfo/loader"
	"github.com/devblok/vkinfo/vk"
)

// Extension is one extension the driver advertises.
type Extension struct {
	Name        string
	SpecVersion uint32
}

// Layer is one instance layer and the extensions it provides.
type Layer struct {
	Name                  string
	Description           string
	SpecVersion           vk.Version
	ImplementationVersion uint32
	Extensions            []Extension
}

// Device is one physical device.
type Device struct {
	Properties    vk.PhysicalDeviceProperties
	Features      vk.PhysicalDeviceFeatures
	QueueFamilies []vk.QueueFamilyProperties
}

// Driver is a fake loader image. The zero value has no layers,
// extensions or devices, exports every entry point and holds no
// references; use NewDriver for one that behaves like a freshly loaded
// library.
type Driver struct {
	Layers     []Layer
	Extensions []Extension
	Devices    []Device

	// CreateResult is returned by vkCreateInstance when not vk.Success.
	CreateResult vk.Result

	// Missing lists entry points vkGetInstanceProcAddr reports as absent.
	Missing map[string]bool

	// NotExported lists entry points absent from the export table.
	NotExported map[string]bool

	// BeforeCall runs ahead of every enumeration call with the entry
	// point name and whether the caller supplied storage. It may modify
	// the Driver to simulate changes between the two protocol calls.
	BeforeCall func(name string, filling bool)

	// Calls counts invocations per entry point name.
	Calls map[string]int

	refs      int
	unmapped  bool
	nextID    vk.Instance
	instances map[vk.Instance]bool
}

// NewDriver returns a Driver holding one reference, like a library that
// has just been opened.
func NewDriver() *Driver {
	return &Driver{refs: 1}
}

// Refs returns the number of outstanding references.
func (d *Driver) Refs() int { return d.refs }

// Unmapped reports whether the last reference has been released.
func (d *Driver) Unmapped() bool { return d.unmapped }

// LiveInstances returns how many created instances are not destroyed.
func (d *Driver) LiveInstances() int { return len(d.instances) }

// Acquire implements core.Library.
func (d *Driver) Acquire() error {
	if d.refs <= 0 {
		return loader.ErrLibraryClosed
	}
	d.refs++
	return nil
}

// Release implements core.Library.
func (d *Driver) Release() error {
	if d.refs <= 0 {
		return loader.ErrLibraryClosed
	}
	d.refs--
	if d.refs == 0 {
		d.unmapped = true
	}
	return nil
}

// Resolve implements core.Library with vkGetInstanceProcAddr scoping:
// global entry points resolve only against vk.NullInstance, instance
// entry points only against an instance this driver created.
func (d *Driver) Resolve(instance vk.Instance, name string, fnPtr interface{}) error {
	scoped := instance != vk.NullInstance
	if d.unmapped {
		return loader.ErrLibraryClosed
	}
	if d.Missing[name] {
		return &loader.SymbolError{Name: name, Scoped: scoped, Err: loader.ErrSymbolNotFound}
	}

	var fn interface{}
	if scoped {
		if d.instances[instance] {
			fn = d.instanceFunc(name)
		}
	} else {
		fn = d.globalFunc(name)
	}
	if fn == nil {
		return &loader.SymbolError{Name: name, Scoped: scoped, Err: loader.ErrSymbolNotFound}
	}
	bind(fnPtr, fn)
	return nil
}

// ResolveExport implements core.Library. Every entry point is exported
// unless listed in NotExported.
func (d *Driver) ResolveExport(name string, fnPtr interface{}) error {
	if d.unmapped {
		return loader.ErrLibraryClosed
	}
	fn := d.globalFunc(name)
	if fn == nil {
		fn = d.instanceFunc(name)
	}
	if fn == nil || d.NotExported[name] {
		return &loader.SymbolError{Name: name, Err: loader.ErrSymbolNotFound}
	}
	bind(fnPtr, fn)
	return nil
}

func bind(fnPtr interface{}, fn interface{}) {
	reflect.ValueOf(fnPtr).Elem().Set(reflect.ValueOf(fn))
}

func (d *Driver) count(name string) {
	if d.Calls == nil {
		d.Calls = make(map[string]int)
	}
	d.Calls[name]++
}

func (d *Driver) before(name string, filling bool) {
	if d.BeforeCall != nil {
		d.BeforeCall(name, filling)
	}
}

func (d *Driver) globalFunc(name string) interface{} {
	switch name {
	case vk.SymCreateInstance:
		return vk.CreateInstanceFunc(d.createInstance)
	case vk.SymEnumerateInstanceLayerProperties:
		return vk.EnumerateInstanceLayerPropertiesFunc(d.enumerateLayers)
	case vk.SymEnumerateInstanceExtensionProperties:
		return vk.EnumerateInstanceExtensionPropertiesFunc(d.enumerateExtensions)
	}
	return nil
}

func (d *Driver) instanceFunc(name string) interface{} {
	switch name {
	case vk.SymDestroyInstance:
		return vk.DestroyInstanceFunc(d.destroyInstance)
	case vk.SymEnumeratePhysicalDevices:
		return vk.EnumeratePhysicalDevicesFunc(d.enumeratePhysicalDevices)
	case vk.SymGetPhysicalDeviceFeatures:
		return vk.GetPhysicalDeviceFeaturesFunc(d.getFeatures)
	case vk.SymGetPhysicalDeviceProperties:
		return vk.GetPhysicalDevicePropertiesFunc(d.getProperties)
	case vk.SymGetPhysicalDeviceQueueFamilyProperties:
		return vk.GetPhysicalDeviceQueueFamilyPropertiesFunc(d.getQueueFamilies)
	}
	return nil
}

func (d *Driver) createInstance(info *vk.InstanceCreateInfo, _ unsafe.Pointer, instance *vk.Instance) vk.Result {
	d.count(vk.SymCreateInstance)
	if info == nil || info.SType != vk.StructureTypeInstanceCreateInfo {
		return vk.ErrorInitializationFailed
	}
	if d.CreateResult != vk.Success {
		return d.CreateResult
	}
	if d.instances == nil {
		d.instances = make(map[vk.Instance]bool)
		d.nextID = 0x1000
	}
	d.nextID += 0x10
	d.instances[d.nextID] = true
	*instance = d.nextID
	return vk.Success
}

func (d *Driver) destroyInstance(instance vk.Instance, _ unsafe.Pointer) {
	d.count(vk.SymDestroyInstance)
	delete(d.instances, instance)
}

func (d *Driver) enumerateLayers(count *uint32, props *vk.LayerProperties) vk.Result {
	d.count(vk.SymEnumerateInstanceLayerProperties)
	d.before(vk.SymEnumerateInstanceLayerProperties, props != nil)
	layers := make([]vk.LayerProperties, len(d.Layers))
	for i, l := range d.Layers {
		layers[i] = LayerProperties(l)
	}
	return fill(layers, count, props)
}

func (d *Driver) enumerateExtensions(layerName *byte, count *uint32, props *vk.ExtensionProperties) vk.Result {
	d.count(vk.SymEnumerateInstanceExtensionProperties)
	d.before(vk.SymEnumerateInstanceExtensionProperties, props != nil)

	source := d.Extensions
	if layerName != nil {
		name := goString(layerName)
		found := false
		for _, l := range d.Layers {
			if l.Name == name {
				source, found = l.Extensions, true
				break
			}
		}
		if !found {
			return vk.ErrorLayerNotPresent
		}
	}
	exts := make([]vk.ExtensionProperties, len(source))
	for i, e := range source {
		exts[i] = ExtensionProperties(e)
	}
	return fill(exts, count, props)
}

func (d *Driver) enumeratePhysicalDevices(instance vk.Instance, count *uint32, devices *vk.PhysicalDevice) vk.Result {
	d.count(vk.SymEnumeratePhysicalDevices)
	if !d.instances[instance] {
		return vk.ErrorInitializationFailed
	}
	d.before(vk.SymEnumeratePhysicalDevices, devices != nil)
	handles := make([]vk.PhysicalDevice, len(d.Devices))
	for i := range d.Devices {
		handles[i] = DeviceHandle(i)
	}
	return fill(handles, count, devices)
}

func (d *Driver) device(handle vk.PhysicalDevice) *Device {
	i := int(handle) - int(DeviceHandle(0))
	if i < 0 || i >= len(d.Devices) {
		panic(fmt.Sprintf("vktest: unknown physical device %#x", uintptr(handle)))
	}
	return &d.Devices[i]
}

func (d *Driver) getFeatures(device vk.PhysicalDevice, features *vk.PhysicalDeviceFeatures) {
	d.count(vk.SymGetPhysicalDeviceFeatures)
	*features = d.device(device).Features
}

func (d *Driver) getProperties(device vk.PhysicalDevice, properties *vk.PhysicalDeviceProperties) {
	d.count(vk.SymGetPhysicalDeviceProperties)
	*properties = d.device(device).Properties
}

func (d *Driver) getQueueFamilies(device vk.PhysicalDevice, count *uint32, props *vk.QueueFamilyProperties) {
	d.count(vk.SymGetPhysicalDeviceQueueFamilyProperties)
	d.before(vk.SymGetPhysicalDeviceQueueFamilyProperties, props != nil)
	fill(d.device(device).QueueFamilies, count, props)
}

// fill answers one protocol call over src the way the loader does.
func fill[T any](src []T, count *uint32, out *T) vk.Result {
	if out == nil {
		*count = uint32(len(src))
		return vk.Success
	}
	n := int(*count)
	if n > len(src) {
		n = len(src)
	}
	copy(unsafe.Slice(out, *count), src[:n])
	*count = uint32(n)
	if n < len(src) {
		return vk.Incomplete
	}
	return vk.Success
}

func goString(p *byte) string {
	var b []byte
	for ptr := unsafe.Pointer(p); *(*byte)(ptr) != 0; ptr = unsafe.Add(ptr, 1) {
		b = append(b, *(*byte)(ptr))
	}
	return string(b)
}
