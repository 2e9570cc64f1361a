// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/devblok/vkinfo/config"
	"github.com/devblok/vkinfo/core"
	"github.com/devblok/vkinfo/report"
)

// opener loads the Vulkan loader for one run.
type opener func(core.Configuration) (*core.Entry, error)

// options holds global flags and the configuration resolved from them.
type options struct {
	envFile  string
	library  string
	attempts int
	format   string
	output   string
	verbose  bool
	limits   bool

	cfg    *config.Config
	logger *log.Logger
	open   opener
}

// NewRootCommand creates the vkinfo command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(core.NewEntry)
}

func newRootCommand(open opener) *cobra.Command {
	opts := &options{logger: log.New(), open: open}

	cmd := &cobra.Command{
		Use:   "vkinfo",
		Short: "Report what the Vulkan loader and drivers provide",
		Long: "vkinfo loads the system Vulkan loader at run time and reports its " +
			"instance layers, extensions and physical devices.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, report.SectionAll, func(s *session) (*report.Report, error) {
				if err := s.collect(); err != nil {
					return nil, err
				}
				return report.Build(s.entry, s.devices, report.Options{Limits: opts.limits})
			})
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", "", "dotenv file to read settings from")
	flags.StringVar(&opts.library, "library", "", "Vulkan loader library to open (default: platform loader)")
	flags.IntVar(&opts.attempts, "attempts", core.DefaultMaxEnumerationAttempts, "enumeration attempts before giving up")
	flags.StringVar(&opts.format, "format", config.DefaultFormat, "output format (auto|text|json|yaml)")
	flags.StringVarP(&opts.output, "output", "o", "", "write to file, a .lz4 suffix compresses")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")
	opts.addLimitsFlag(cmd)

	cmd.AddCommand(newLayersCommand(opts))
	cmd.AddCommand(newExtensionsCommand(opts))
	cmd.AddCommand(newDevicesCommand(opts))

	return cmd
}

// addLimitsFlag registers --limits on the commands that report devices.
func (o *options) addLimitsFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.limits, "limits", false, "include device limits and sparse properties")
}

// resolve merges environment configuration with the flags that were set.
func (o *options) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("library") {
		cfg.Library = o.library
	}
	if flags.Changed("attempts") {
		if o.attempts < 1 {
			return fmt.Errorf("invalid attempt count %d", o.attempts)
		}
		cfg.EnumerationAttempts = o.attempts
	}
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if o.verbose {
		cfg.LogLevel = log.DebugLevel
	}

	if cfg.Format != config.DefaultFormat {
		if _, err := report.ParseFormat(cfg.Format); err != nil {
			return err
		}
	}

	o.logger.SetOutput(cmd.ErrOrStderr())
	o.logger.SetLevel(cfg.LogLevel)
	o.cfg = cfg
	return nil
}

// outputFormat picks the concrete output format, "auto" means text on a
// terminal and JSON everywhere else.
func (o *options) outputFormat(w io.Writer) report.Format {
	if o.cfg.Format != config.DefaultFormat {
		f, _ := report.ParseFormat(o.cfg.Format)
		return f
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return report.FormatText
	}
	return report.FormatJSON
}

// run opens a session, builds a report with fn and renders one section.
func (o *options) run(cmd *cobra.Command, section report.Section, fn func(*session) (*report.Report, error)) error {
	s, err := o.newSession()
	if err != nil {
		return err
	}
	defer s.close()

	r, err := fn(s)
	if err != nil {
		return err
	}

	if o.cfg.Output == "" {
		return o.render(cmd.OutOrStdout(), r, section)
	}

	f, err := report.Create(o.cfg.Output)
	if err != nil {
		return err
	}
	o.logger.WithField("path", o.cfg.Output).Info("writing report")
	if err := o.render(f, r, section); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (o *options) render(w io.Writer, r *report.Report, section report.Section) error {
	format := o.outputFormat(w)
	if err := report.RenderSection(w, r, format, section); err != nil {
		return fmt.Errorf("failed to render %s: %w", format, err)
	}
	return nil
}
