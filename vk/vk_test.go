// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vk_test

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devblok/vkinfo/vk"
)

func TestRecordLayout(t *testing.T) {
	assert.EqualValues(t, 520, unsafe.Sizeof(vk.LayerProperties{}))
	assert.EqualValues(t, 260, unsafe.Sizeof(vk.ExtensionProperties{}))
	assert.EqualValues(t, 24, unsafe.Sizeof(vk.QueueFamilyProperties{}))
	assert.EqualValues(t, 220, unsafe.Sizeof(vk.PhysicalDeviceFeatures{}))
	assert.EqualValues(t, 20, unsafe.Sizeof(vk.PhysicalDeviceSparseProperties{}))

	var props vk.PhysicalDeviceProperties
	assert.EqualValues(t, 20, unsafe.Offsetof(props.DeviceName))
	assert.EqualValues(t, 276, unsafe.Offsetof(props.PipelineCacheUUID))

	var layer vk.LayerProperties
	assert.EqualValues(t, 256, unsafe.Offsetof(layer.SpecVersion))
	assert.EqualValues(t, 264, unsafe.Offsetof(layer.Description))
}

func TestRecordLayout64(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layout sizes below are for 64-bit targets")
	}
	assert.EqualValues(t, 504, unsafe.Sizeof(vk.PhysicalDeviceLimits{}))
	assert.EqualValues(t, 824, unsafe.Sizeof(vk.PhysicalDeviceProperties{}))
	assert.EqualValues(t, 64, unsafe.Sizeof(vk.InstanceCreateInfo{}))

	var props vk.PhysicalDeviceProperties
	assert.EqualValues(t, 296, unsafe.Offsetof(props.Limits))
	assert.EqualValues(t, 800, unsafe.Offsetof(props.SparseProperties))
}

func TestToString(t *testing.T) {
	var name [vk.MaxExtensionNameSize]byte
	copy(name[:], "VK_LAYER_test\x00garbage")
	assert.Equal(t, "VK_LAYER_test", vk.ToString(name[:]))

	// no terminator anywhere: the whole array is the string
	full := make([]byte, 4)
	copy(full, "abcd")
	assert.Equal(t, "abcd", vk.ToString(full))

	assert.Equal(t, "", vk.ToString(nil))
}

func TestCString(t *testing.T) {
	b, ok := vk.CString("vkCreateInstance")
	require.True(t, ok)
	assert.Equal(t, []byte("vkCreateInstance\x00"), b)

	_, ok = vk.CString("vkCreate\x00Instance")
	assert.False(t, ok)

	b, ok = vk.CString("")
	require.True(t, ok)
	assert.Equal(t, []byte{0}, b)
}

func TestVersion(t *testing.T) {
	v := vk.MakeVersion(1, 3, 275)
	assert.EqualValues(t, 1, v.Major())
	assert.EqualValues(t, 3, v.Minor())
	assert.EqualValues(t, 275, v.Patch())
	assert.Equal(t, "1.3.275", v.String())
}

func TestResult(t *testing.T) {
	assert.NoError(t, vk.Error(vk.Success))

	err := vk.Error(vk.ErrorLayerNotPresent)
	require.Error(t, err)
	var res vk.Result
	require.True(t, errors.As(err, &res))
	assert.Equal(t, vk.ErrorLayerNotPresent, res)
	assert.Equal(t, "vulkan: VK_ERROR_LAYER_NOT_PRESENT", err.Error())

	assert.True(t, vk.ErrorDeviceLost.IsError())
	assert.False(t, vk.Incomplete.IsError())
	assert.Equal(t, "VkResult(42)", vk.Result(42).String())
}

func TestQueueFlagsString(t *testing.T) {
	assert.Equal(t, "graphics|compute|transfer", (vk.QueueGraphicsBit | vk.QueueComputeBit | vk.QueueTransferBit).String())
	assert.Equal(t, "none", vk.QueueFlags(0).String())
	assert.Equal(t, "sparse-binding|0x100", (vk.QueueSparseBindingBit | 0x100).String())
	assert.Equal(t, "discrete-gpu", vk.PhysicalDeviceTypeDiscreteGpu.String())
}
