// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/devblok/vkinfo/config"
	"github.com/devblok/vkinfo/core"
	"github.com/devblok/vkinfo/report"
	"github.com/devblok/vkinfo/vk"
	"github.com/devblok/vkinfo/vk/vktest"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		config.EnvLibrary,
		config.EnvEnumerationAttempts,
		config.EnvFormat,
		config.EnvLogLevel,
		config.EnvOutput,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func newDriver() *vktest.Driver {
	d := vktest.NewDriver()
	d.Extensions = []vktest.Extension{{Name: "VK_KHR_surface", SpecVersion: 25}}
	d.Layers = []vktest.Layer{{
		Name:                  "VK_LAYER_MESA_device_select",
		Description:           "Linux device selection layer",
		SpecVersion:           vk.MakeVersion(1, 3, 211),
		ImplementationVersion: 1,
	}, {
		Name:                  "VK_LAYER_KHRONOS_validation",
		Description:           "Khronos Validation Layer",
		SpecVersion:           vk.MakeVersion(1, 3, 250),
		ImplementationVersion: 1,
		Extensions: []vktest.Extension{
			{Name: "VK_EXT_debug_report", SpecVersion: 9},
			{Name: "VK_EXT_debug_utils", SpecVersion: 2},
		},
	}}
	d.Devices = []vktest.Device{{
		Properties: vktest.DeviceProperties("AMD RADV NAVI10", vk.PhysicalDeviceTypeDiscreteGpu, 0x1002, 0x731f),
		Features:   vk.PhysicalDeviceFeatures{ShaderInt16: vk.True},
		QueueFamilies: []vk.QueueFamilyProperties{
			{QueueFlags: vk.QueueGraphicsBit | vk.QueueComputeBit, QueueCount: 1},
		},
	}}
	return d
}

// execute runs the command tree against d and returns what it printed.
func execute(t *testing.T, d *vktest.Driver, args ...string) (string, *core.Configuration, error) {
	t.Helper()
	var used *core.Configuration
	cmd := newRootCommand(func(cfg core.Configuration) (*core.Entry, error) {
		used = &cfg
		e, err := core.NewEntryWithLibrary(d, cfg)
		if err != nil {
			return nil, err
		}
		return e, d.Release()
	})

	var out, stderr bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), used, err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "vkinfo", cmd.Use)

	for _, name := range []string{"layers", "extensions", "devices"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "auto", format.DefValue)

	output := cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)

	for _, name := range []string{"library", "attempts", "env-file"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestLimitsFlagScope(t *testing.T) {
	cmd := NewRootCommand()
	assert.Nil(t, cmd.PersistentFlags().Lookup("limits"))
	assert.NotNil(t, cmd.Flags().Lookup("limits"))

	for name, want := range map[string]bool{"devices": true, "layers": false, "extensions": false} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, want, sub.Flags().Lookup("limits") != nil, name)
	}
}

func TestLimitsRejectedWithoutDevices(t *testing.T) {
	clearEnv(t)
	for _, name := range []string{"layers", "extensions"} {
		_, used, err := execute(t, newDriver(), name, "--limits")
		assert.Error(t, err, name)
		assert.Nil(t, used, name)
	}
}

func TestFullReportWithLimits(t *testing.T) {
	clearEnv(t)
	out, _, err := execute(t, newDriver(), "--limits", "--format", "json")
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.Len(t, r.Devices, 1)
	assert.NotNil(t, r.Devices[0].Limits)
	assert.NotNil(t, r.Devices[0].SparseProperties)
}

func TestFullReport(t *testing.T) {
	clearEnv(t)
	d := newDriver()

	out, _, err := execute(t, d)
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r), "auto picks JSON off a terminal")
	assert.Len(t, r.Extensions, 1)
	require.Len(t, r.Layers, 2)
	assert.Len(t, r.Layers[1].Extensions, 2)
	require.Len(t, r.Devices, 1)
	assert.Equal(t, "AMD RADV NAVI10", r.Devices[0].Name)
	assert.Equal(t, []string{"shaderInt16"}, r.Devices[0].Features)
	assert.Nil(t, r.Devices[0].Limits)

	assert.Zero(t, d.LiveInstances())
	assert.True(t, d.Unmapped())
}

func TestLayersText(t *testing.T) {
	clearEnv(t)
	d := newDriver()

	out, _, err := execute(t, d, "layers", "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "Layers\n"+
		"  VK_LAYER_MESA_device_select 1.3.211, implementation 1\n"+
		"    Linux device selection layer\n"+
		"  VK_LAYER_KHRONOS_validation 1.3.250, implementation 1\n"+
		"    Khronos Validation Layer\n"+
		"    VK_EXT_debug_report (version 9)\n"+
		"    VK_EXT_debug_utils (version 2)\n", out)
	assert.Zero(t, d.Calls[vk.SymCreateInstance])
	assert.True(t, d.Unmapped())
}

func TestExtensions(t *testing.T) {
	clearEnv(t)

	out, _, err := execute(t, newDriver(), "extensions", "--format", "yaml")
	require.NoError(t, err)
	var exts []report.Extension
	require.NoError(t, yaml.Unmarshal([]byte(out), &exts))
	assert.Equal(t, []report.Extension{{Name: "VK_KHR_surface", SpecVersion: 25}}, exts)

	out, _, err = execute(t, newDriver(), "extensions", "VK_LAYER_KHRONOS_validation", "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &exts))
	assert.Equal(t, []report.Extension{
		{Name: "VK_EXT_debug_report", SpecVersion: 9},
		{Name: "VK_EXT_debug_utils", SpecVersion: 2},
	}, exts)
}

func TestExtensionsUnknownLayer(t *testing.T) {
	clearEnv(t)
	d := newDriver()

	_, _, err := execute(t, d, "extensions", "VK_LAYER_missing")
	assert.True(t, errors.Is(err, vk.ErrorLayerNotPresent))
	assert.True(t, d.Unmapped())
}

func TestDevicesCompressedOutput(t *testing.T) {
	clearEnv(t)
	d := newDriver()
	path := filepath.Join(t.TempDir(), "devices.json.lz4")

	out, _, err := execute(t, d, "devices", "--limits", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	plain, err := io.ReadAll(lz4.NewReader(f))
	require.NoError(t, err)

	var devices []report.Device
	require.NoError(t, json.Unmarshal(plain, &devices))
	require.Len(t, devices, 1)
	assert.Equal(t, "0x1002", devices[0].VendorID)
	assert.NotNil(t, devices[0].Limits)
	assert.True(t, d.Unmapped())
}

func TestConfigurationPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvLibrary, "libvulkan-env.so")
	t.Setenv(config.EnvEnumerationAttempts, "5")

	_, used, err := execute(t, newDriver(), "layers")
	require.NoError(t, err)
	require.NotNil(t, used)
	assert.Equal(t, core.Configuration{LibraryName: "libvulkan-env.so", MaxEnumerationAttempts: 5}, *used)

	_, used, err = execute(t, newDriver(), "layers", "--library", "libvulkan-flag.so", "--attempts", "2")
	require.NoError(t, err)
	require.NotNil(t, used)
	assert.Equal(t, core.Configuration{LibraryName: "libvulkan-flag.so", MaxEnumerationAttempts: 2}, *used)
}

func TestInvalidFlags(t *testing.T) {
	clearEnv(t)

	_, used, err := execute(t, newDriver(), "--format", "xml")
	assert.ErrorIs(t, err, report.ErrUnknownFormat)
	assert.Nil(t, used, "loader must not be opened")

	_, used, err = execute(t, newDriver(), "--attempts", "0")
	assert.Error(t, err)
	assert.Nil(t, used)
}

func TestCreateInstanceFailure(t *testing.T) {
	clearEnv(t)
	d := newDriver()
	d.CreateResult = vk.ErrorIncompatibleDriver

	_, _, err := execute(t, d, "devices")
	assert.ErrorIs(t, err, core.ErrContextCreationFailed)
	assert.True(t, d.Unmapped())
}
