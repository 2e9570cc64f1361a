// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config reads tool settings from the environment and an optional
// dotenv file.
package config

import (
	"fmt"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkinfo/core"
)

// Environment variables read by Load.
const (
	EnvLibrary             = "VKINFO_LIBRARY"
	EnvEnumerationAttempts = "VKINFO_ENUMERATION_ATTEMPTS"
	EnvFormat              = "VKINFO_FORMAT"
	EnvLogLevel            = "VKINFO_LOG_LEVEL"
	EnvOutput              = "VKINFO_OUTPUT"
)

// Defaults used when neither the environment nor the command line set a value.
const (
	DefaultFormat   = "auto"
	DefaultLogLevel = log.WarnLevel
)

// Config holds the settings of one run.
type Config struct {
	// Library overrides the platform loader name.
	Library string
	// EnumerationAttempts bounds the size-then-fill retries, 0 means
	// core.DefaultMaxEnumerationAttempts.
	EnumerationAttempts int
	// Format is a report format name or "auto".
	Format string
	// Output is a file path, empty means standard output.
	Output   string
	LogLevel log.Level
}

var keys = []string{
	EnvLibrary,
	EnvEnumerationAttempts,
	EnvFormat,
	EnvLogLevel,
	EnvOutput,
}

// Load reads the configuration. The process environment takes precedence,
// then envFile when it is not empty, then a .env file in the working
// directory.
func Load(envFile string) (*Config, error) {
	introduced := workingDirDotenv.withdraw(keys)
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			workingDirDotenv.fill(introduced)
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	workingDirDotenv.fill(introduced)
	envy.Reload()

	cfg := &Config{
		Library: envy.Get(EnvLibrary, ""),
		Format:  envy.Get(EnvFormat, DefaultFormat),
		Output:  envy.Get(EnvOutput, ""),
	}

	if v := envy.Get(EnvEnumerationAttempts, ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s: invalid attempt count %q", EnvEnumerationAttempts, v)
		}
		cfg.EnumerationAttempts = n
	}

	cfg.LogLevel = DefaultLogLevel
	if v := envy.Get(EnvLogLevel, ""); v != "" {
		level, err := log.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// Core returns the binding configuration.
func (c *Config) Core() core.Configuration {
	return core.Configuration{
		LibraryName:            c.Library,
		MaxEnumerationAttempts: c.EnumerationAttempts,
	}
}
