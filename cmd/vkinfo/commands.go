// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/devblok/vkinfo/report"
	"github.com/devblok/vkinfo/vk"
)

func newLayersCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "layers",
		Short: "List instance layers and the extensions each provides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, report.SectionLayers, func(s *session) (*report.Report, error) {
				return report.Build(s.entry, nil, report.Options{})
			})
		},
	}
}

func newExtensionsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "extensions [layer]",
		Short: "List instance extensions, or those provided by one layer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, report.SectionExtensions, func(s *session) (*report.Report, error) {
				var (
					props []vk.ExtensionProperties
					err   error
				)
				if len(args) == 0 {
					props, err = s.entry.EnumerateInstanceExtensionProperties()
				} else {
					props, err = s.entry.EnumerateLayerExtensionProperties(args[0])
				}
				if err != nil {
					return nil, err
				}
				return &report.Report{Extensions: report.NewExtensions(props)}, nil
			})
		},
	}
}

func newDevicesCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Describe every physical device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, report.SectionDevices, func(s *session) (*report.Report, error) {
				if err := s.collect(); err != nil {
					return nil, err
				}
				return &report.Report{Devices: report.NewDevices(s.devices, report.Options{Limits: opts.limits})}, nil
			})
		},
	}
	opts.addLimitsFlag(cmd)
	return cmd
}
