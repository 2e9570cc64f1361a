// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Collect enumerates the physical devices of src and queries each one.
// Only a failed enumeration is an error; a device whose own queries fail
// is still returned, marked Invalid, and the failure is logged.
func Collect(src Source, logger log.FieldLogger) ([]PhysicalDeviceInfo, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}

	devices, err := src.EnumeratePhysicalDevices()
	if err != nil {
		return nil, fmt.Errorf("physical device enumeration failed: %w", err)
	}
	logger.WithField("count", len(devices)).Debug("physical devices enumerated")

	pdi := make([]PhysicalDeviceInfo, len(devices))
	for i, dev := range devices {
		pdi[i].Handle = dev
		entry := logger.WithField("device", i)

		// Get general device info
		if props, err := src.GetPhysicalDeviceProperties(dev); err != nil {
			entry.WithError(err).WithField("op", "properties").Warn("device query failed")
			pdi[i].Invalid = true
		} else {
			pdi[i].Properties = props
			pdi[i].ID = int(props.DeviceID)
			pdi[i].VendorID = int(props.VendorID)
			pdi[i].DriverVersion = int(props.DriverVersion)
			pdi[i].APIVersion = props.APIVersion
			pdi[i].Name = props.Name()
			pdi[i].Type = props.DeviceType
		}

		// Get features
		if features, err := src.GetPhysicalDeviceFeatures(dev); err != nil {
			entry.WithError(err).WithField("op", "features").Warn("device query failed")
			pdi[i].Invalid = true
		} else {
			pdi[i].Features = features
		}

		// Get queue families
		if families, err := src.GetPhysicalDeviceQueueFamilyProperties(dev); err != nil {
			entry.WithError(err).WithField("op", "queue families").Warn("device query failed")
			pdi[i].Invalid = true
		} else {
			pdi[i].QueueFamilies = families
		}

		entry.WithFields(log.Fields{
			"name":    pdi[i].Name,
			"type":    pdi[i].Type,
			"invalid": pdi[i].Invalid,
		}).Debug("physical device collected")
	}
	return pdi, nil
}
