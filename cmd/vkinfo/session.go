// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkinfo/core"
	"github.com/devblok/vkinfo/device"
)

// session owns the entry and, once devices are needed, an instance.
// close releases them in reverse order.
type session struct {
	logger   log.FieldLogger
	entry    *core.Entry
	instance *core.Instance
	devices  []device.PhysicalDeviceInfo
}

func (o *options) newSession() (*session, error) {
	cfg := o.cfg.Core()
	o.logger.WithFields(log.Fields{
		"library":  cfg.LibraryName,
		"attempts": cfg.MaxEnumerationAttempts,
	}).Debug("opening loader")

	entry, err := o.open(cfg)
	if err != nil {
		return nil, err
	}
	return &session{logger: o.logger, entry: entry}, nil
}

// collect creates an instance and gathers every physical device.
func (s *session) collect() error {
	inst, err := s.entry.CreateInstance()
	if err != nil {
		return err
	}
	s.instance = inst
	s.logger.WithField("instance", inst.Handle()).Debug("instance created")

	devices, err := device.Collect(inst, s.logger)
	if err != nil {
		return err
	}
	s.devices = devices
	return nil
}

func (s *session) close() {
	if s.instance != nil {
		if err := s.instance.Destroy(); err != nil {
			s.logger.WithError(err).Warn("failed to destroy instance")
		}
	}
	if err := s.entry.Close(); err != nil {
		s.logger.WithError(err).Warn("failed to close loader")
	}
}
