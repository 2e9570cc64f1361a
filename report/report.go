// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package report turns query results into a serialisable description of
// the driver and renders it as text, JSON or YAML.
package report

import (
	"fmt"
	"reflect"
	"unicode"

	"github.com/google/uuid"

	"github.com/devblok/vkinfo/device"
	"github.com/devblok/vkinfo/vk"
)

// LayerSource is what layer and extension listings are read from,
// *core.Entry implements it.
type LayerSource interface {
	EnumerateLayerProperties() ([]vk.LayerProperties, error)
	EnumerateInstanceExtensionProperties() ([]vk.ExtensionProperties, error)
	EnumerateLayerExtensionProperties(layer string) ([]vk.ExtensionProperties, error)
}

// Report is everything the tool prints.
type Report struct {
	Extensions []Extension `json:"extensions" yaml:"extensions"`
	Layers     []Layer     `json:"layers" yaml:"layers"`
	Devices    []Device    `json:"devices" yaml:"devices"`
}

// Extension is an instance extension.
type Extension struct {
	Name        string `json:"name" yaml:"name"`
	SpecVersion uint32 `json:"specVersion" yaml:"specVersion"`
}

// Layer is an instance layer and the extensions it provides.
type Layer struct {
	Name                  string      `json:"name" yaml:"name"`
	Description           string      `json:"description" yaml:"description"`
	SpecVersion           string      `json:"specVersion" yaml:"specVersion"`
	ImplementationVersion uint32      `json:"implementationVersion" yaml:"implementationVersion"`
	Extensions            []Extension `json:"extensions" yaml:"extensions"`
}

// QueueFamily is one queue family of a device.
type QueueFamily struct {
	Index                       int    `json:"index" yaml:"index"`
	Flags                       string `json:"flags" yaml:"flags"`
	QueueCount                  uint32 `json:"queueCount" yaml:"queueCount"`
	TimestampValidBits          uint32 `json:"timestampValidBits" yaml:"timestampValidBits"`
	MinImageTransferGranularity string `json:"minImageTransferGranularity" yaml:"minImageTransferGranularity"`
}

// Device is one physical device.
type Device struct {
	Name              string `json:"name" yaml:"name"`
	Type              string `json:"type" yaml:"type"`
	VendorID          string `json:"vendorID" yaml:"vendorID"`
	DeviceID          string `json:"deviceID" yaml:"deviceID"`
	APIVersion        string `json:"apiVersion" yaml:"apiVersion"`
	DriverVersion     uint32 `json:"driverVersion" yaml:"driverVersion"`
	PipelineCacheUUID string `json:"pipelineCacheUUID" yaml:"pipelineCacheUUID"`
	Invalid           bool   `json:"invalid,omitempty" yaml:"invalid,omitempty"`

	// Features lists the supported features by their Vulkan names.
	Features      []string      `json:"features" yaml:"features"`
	QueueFamilies []QueueFamily `json:"queueFamilies" yaml:"queueFamilies"`

	Limits           *vk.PhysicalDeviceLimits           `json:"limits,omitempty" yaml:"limits,omitempty"`
	SparseProperties *vk.PhysicalDeviceSparseProperties `json:"sparseProperties,omitempty" yaml:"sparseProperties,omitempty"`
}

// Options controls how much detail Build includes.
type Options struct {
	// Limits adds the full limit and sparse property records per device.
	Limits bool
}

// Build queries layers and extensions from src and combines them with
// already collected device summaries.
func Build(src LayerSource, devices []device.PhysicalDeviceInfo, opts Options) (*Report, error) {
	r := &Report{
		Layers: []Layer{},
	}

	base, err := src.EnumerateInstanceExtensionProperties()
	if err != nil {
		return nil, err
	}
	r.Extensions = NewExtensions(base)

	layers, err := src.EnumerateLayerProperties()
	if err != nil {
		return nil, err
	}
	for i := range layers {
		l := &layers[i]
		exts := []vk.ExtensionProperties{}
		// A nameless layer cannot be queried, it is listed without extensions.
		if l.Name() != "" {
			var err error
			if exts, err = src.EnumerateLayerExtensionProperties(l.Name()); err != nil {
				return nil, fmt.Errorf("layer %s: %w", l.Name(), err)
			}
		}
		r.Layers = append(r.Layers, Layer{
			Name:                  l.Name(),
			Description:           l.Desc(),
			SpecVersion:           l.SpecVersion.String(),
			ImplementationVersion: l.ImplementationVersion,
			Extensions:            NewExtensions(exts),
		})
	}

	r.Devices = NewDevices(devices, opts)
	return r, nil
}

// NewExtensions converts native extension records.
func NewExtensions(props []vk.ExtensionProperties) []Extension {
	exts := make([]Extension, 0, len(props))
	for i := range props {
		exts = append(exts, Extension{
			Name:        props[i].Name(),
			SpecVersion: props[i].SpecVersion,
		})
	}
	return exts
}

// NewDevices converts collected device summaries.
func NewDevices(devices []device.PhysicalDeviceInfo, opts Options) []Device {
	out := make([]Device, 0, len(devices))
	for i := range devices {
		out = append(out, newDevice(&devices[i], opts))
	}
	return out
}

func newDevice(info *device.PhysicalDeviceInfo, opts Options) Device {
	d := Device{
		Name:              info.Name,
		Type:              info.Type.String(),
		VendorID:          fmt.Sprintf("0x%04x", info.VendorID),
		DeviceID:          fmt.Sprintf("0x%04x", info.ID),
		APIVersion:        info.APIVersion.String(),
		DriverVersion:     uint32(info.DriverVersion),
		PipelineCacheUUID: uuid.UUID(info.Properties.PipelineCacheUUID).String(),
		Invalid:           info.Invalid,
		Features:          SupportedFeatures(info.Features),
		QueueFamilies:     make([]QueueFamily, 0, len(info.QueueFamilies)),
	}
	for i, family := range info.QueueFamilies {
		g := family.MinImageTransferGranularity
		d.QueueFamilies = append(d.QueueFamilies, QueueFamily{
			Index:                       i,
			Flags:                       family.QueueFlags.String(),
			QueueCount:                  family.QueueCount,
			TimestampValidBits:          family.TimestampValidBits,
			MinImageTransferGranularity: fmt.Sprintf("%dx%dx%d", g.Width, g.Height, g.Depth),
		})
	}
	if opts.Limits {
		limits := info.Properties.Limits
		sparse := info.Properties.SparseProperties
		d.Limits = &limits
		d.SparseProperties = &sparse
	}
	return d
}

var featureType = reflect.TypeOf(vk.PhysicalDeviceFeatures{})

// SupportedFeatures lists the names of the features set in f, in
// declaration order.
func SupportedFeatures(f vk.PhysicalDeviceFeatures) []string {
	names := []string{}
	v := reflect.ValueOf(f)
	for i := 0; i < featureType.NumField(); i++ {
		if vk.Bool32(v.Field(i).Uint()).Bool() {
			names = append(names, featureName(featureType.Field(i).Name))
		}
	}
	return names
}

// featureName turns a Go field name into the Vulkan member name.
func featureName(field string) string {
	r := []rune(field)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
