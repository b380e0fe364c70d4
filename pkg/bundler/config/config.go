// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"

	"github.com/NVIDIA/appbundler/pkg/defaults"
)

// Config provides immutable configuration options for the bundler.
// All fields are read-only after creation to prevent accidental modifications.
type Config struct {
	// includeChecksums writes a checksum file for verification.
	includeChecksums bool

	// includePkgInfo writes the legacy Contents/PkgInfo file.
	includePkgInfo bool

	// allowUnnamedDocumentTypes renders document types with an empty name
	// instead of failing validation.
	allowUnnamedDocumentTypes bool

	// copyConcurrency bounds concurrent resource copies.
	copyConcurrency int

	// overwrite replaces an existing bundle directory.
	overwrite bool

	// lint re-reads the rendered manifest before it is written.
	lint bool

	// dryRun skips every filesystem write.
	dryRun bool

	// verbose enables detailed output during bundle generation.
	verbose bool

	// version specifies the bundler version.
	version string

	// variables are exposed to configuration files as var.<name>.
	variables map[string]string
}

// IncludeChecksums returns the include checksums setting.
func (c *Config) IncludeChecksums() bool {
	return c.includeChecksums
}

// IncludePkgInfo returns the include PkgInfo setting.
func (c *Config) IncludePkgInfo() bool {
	return c.includePkgInfo
}

// AllowUnnamedDocumentTypes returns whether nameless document types render.
func (c *Config) AllowUnnamedDocumentTypes() bool {
	return c.allowUnnamedDocumentTypes
}

// CopyConcurrency returns the copy concurrency setting.
func (c *Config) CopyConcurrency() int {
	return c.copyConcurrency
}

// Overwrite returns the overwrite setting.
func (c *Config) Overwrite() bool {
	return c.overwrite
}

// Lint returns the lint setting.
func (c *Config) Lint() bool {
	return c.lint
}

// DryRun returns the dry-run setting.
func (c *Config) DryRun() bool {
	return c.dryRun
}

// Verbose returns the verbose setting.
func (c *Config) Verbose() bool {
	return c.verbose
}

// Version returns the bundler version.
func (c *Config) Version() string {
	return c.version
}

// Variables returns a copy of the configuration variables to prevent modification.
func (c *Config) Variables() map[string]string {
	vars := make(map[string]string, len(c.variables))
	for k, v := range c.variables {
		vars[k] = v
	}
	return vars
}

// Validate checks if the Config has valid settings.
func (c *Config) Validate() error {
	if c.copyConcurrency < 1 || c.copyConcurrency > defaults.MaxCopyConcurrency {
		return fmt.Errorf("invalid copy concurrency: %d (must be between 1 and %d)",
			c.copyConcurrency, defaults.MaxCopyConcurrency)
	}

	for k := range c.variables {
		if k == "" {
			return fmt.Errorf("variable name cannot be empty")
		}
	}

	return nil
}

type Option func(*Config)

// WithIncludeChecksums sets whether a checksums file should be written next to the bundle.
func WithIncludeChecksums(enabled bool) Option {
	return func(c *Config) {
		c.includeChecksums = enabled
	}
}

// WithIncludePkgInfo sets whether Contents/PkgInfo should be written.
func WithIncludePkgInfo(enabled bool) Option {
	return func(c *Config) {
		c.includePkgInfo = enabled
	}
}

// WithAllowUnnamedDocumentTypes sets whether document types without a name
// are rendered instead of rejected.
func WithAllowUnnamedDocumentTypes(enabled bool) Option {
	return func(c *Config) {
		c.allowUnnamedDocumentTypes = enabled
	}
}

// WithCopyConcurrency sets the number of resource files copied at once.
func WithCopyConcurrency(n int) Option {
	return func(c *Config) {
		c.copyConcurrency = n
	}
}

// WithOverwrite sets whether an existing bundle directory is replaced.
func WithOverwrite(enabled bool) Option {
	return func(c *Config) {
		c.overwrite = enabled
	}
}

// WithLint sets whether the rendered manifest is verified before writing.
func WithLint(enabled bool) Option {
	return func(c *Config) {
		c.lint = enabled
	}
}

// WithDryRun sets whether filesystem writes are skipped.
func WithDryRun(enabled bool) Option {
	return func(c *Config) {
		c.dryRun = enabled
	}
}

// WithVerbose sets whether verbose logging is enabled for the bundler.
func WithVerbose(enabled bool) Option {
	return func(c *Config) {
		c.verbose = enabled
	}
}

// WithVersion sets the version for the bundler.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.version = version
	}
}

// WithVariables adds configuration variables. Later calls override earlier
// values for the same name.
func WithVariables(vars map[string]string) Option {
	return func(c *Config) {
		for k, v := range vars {
			c.variables[k] = v
		}
	}
}

// NewConfig returns a Config with default values.
func NewConfig(options ...Option) *Config {
	c := &Config{
		includeChecksums: true,
		includePkgInfo:   true,
		copyConcurrency:  defaults.CopyConcurrency,
		overwrite:        true,
		lint:             true,
		variables:        make(map[string]string),
		version:          "dev",
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}
