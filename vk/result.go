// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vk

import "fmt"

// Result is a native status code. Non-negative values are success or
// informational codes, negative values are errors.
type Result int32

// Result codes defined by Vulkan 1.0 and the extensions the loader may
// report from global or instance level calls.
const (
	Success                    Result = 0
	NotReady                   Result = 1
	Timeout                    Result = 2
	EventSet                   Result = 3
	EventReset                 Result = 4
	Incomplete                 Result = 5
	ErrorOutOfHostMemory       Result = -1
	ErrorOutOfDeviceMemory     Result = -2
	ErrorInitializationFailed  Result = -3
	ErrorDeviceLost            Result = -4
	ErrorMemoryMapFailed       Result = -5
	ErrorLayerNotPresent       Result = -6
	ErrorExtensionNotPresent   Result = -7
	ErrorFeatureNotPresent     Result = -8
	ErrorIncompatibleDriver    Result = -9
	ErrorTooManyObjects        Result = -10
	ErrorFormatNotSupported    Result = -11
	ErrorFragmentedPool        Result = -12
	ErrorSurfaceLost           Result = -1000000000
	ErrorNativeWindowInUse     Result = -1000000001
	Suboptimal                 Result = 1000001003
	ErrorOutOfDate             Result = -1000001004
	ErrorIncompatibleDisplay   Result = -1000003001
	ErrorValidationFailed      Result = -1000011001
	ErrorInvalidShader         Result = -1000012000
	ErrorOutOfPoolMemory       Result = -1000069000
	ErrorInvalidExternalHandle Result = -1000072003
)

var resultNames = map[Result]string{
	Success:                    "VK_SUCCESS",
	NotReady:                   "VK_NOT_READY",
	Timeout:                    "VK_TIMEOUT",
	EventSet:                   "VK_EVENT_SET",
	EventReset:                 "VK_EVENT_RESET",
	Incomplete:                 "VK_INCOMPLETE",
	ErrorOutOfHostMemory:       "VK_ERROR_OUT_OF_HOST_MEMORY",
	ErrorOutOfDeviceMemory:     "VK_ERROR_OUT_OF_DEVICE_MEMORY",
	ErrorInitializationFailed:  "VK_ERROR_INITIALIZATION_FAILED",
	ErrorDeviceLost:            "VK_ERROR_DEVICE_LOST",
	ErrorMemoryMapFailed:       "VK_ERROR_MEMORY_MAP_FAILED",
	ErrorLayerNotPresent:       "VK_ERROR_LAYER_NOT_PRESENT",
	ErrorExtensionNotPresent:   "VK_ERROR_EXTENSION_NOT_PRESENT",
	ErrorFeatureNotPresent:     "VK_ERROR_FEATURE_NOT_PRESENT",
	ErrorIncompatibleDriver:    "VK_ERROR_INCOMPATIBLE_DRIVER",
	ErrorTooManyObjects:        "VK_ERROR_TOO_MANY_OBJECTS",
	ErrorFormatNotSupported:    "VK_ERROR_FORMAT_NOT_SUPPORTED",
	ErrorFragmentedPool:        "VK_ERROR_FRAGMENTED_POOL",
	ErrorSurfaceLost:           "VK_ERROR_SURFACE_LOST_KHR",
	ErrorNativeWindowInUse:     "VK_ERROR_NATIVE_WINDOW_IN_USE_KHR",
	Suboptimal:                 "VK_SUBOPTIMAL_KHR",
	ErrorOutOfDate:             "VK_ERROR_OUT_OF_DATE_KHR",
	ErrorIncompatibleDisplay:   "VK_ERROR_INCOMPATIBLE_DISPLAY_KHR",
	ErrorValidationFailed:      "VK_ERROR_VALIDATION_FAILED_EXT",
	ErrorInvalidShader:         "VK_ERROR_INVALID_SHADER_NV",
	ErrorOutOfPoolMemory:       "VK_ERROR_OUT_OF_POOL_MEMORY_KHR",
	ErrorInvalidExternalHandle: "VK_ERROR_INVALID_EXTERNAL_HANDLE_KHR",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("VkResult(%d)", int32(r))
}

// Error implements error so that a Result can be returned and inspected
// with errors.As.
func (r Result) Error() string {
	return "vulkan: " + r.String()
}

// IsError reports whether r is an error code rather than a success or
// informational status.
func (r Result) IsError() bool {
	return r < 0
}

// Error converts a Result into an error, nil for Success.
func Error(r Result) error {
	if r == Success {
		return nil
	}
	return r
}
