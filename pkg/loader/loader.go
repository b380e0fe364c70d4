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

package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/appbundler/pkg/descriptor"
	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
)

// Syntax identifies a configuration file syntax.
type Syntax string

const (
	SyntaxHCL  Syntax = "hcl"
	SyntaxYAML Syntax = "yaml"
)

// SyntaxFromPath picks the syntax from the file extension.
func SyntaxFromPath(path string) (Syntax, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return SyntaxHCL, nil
	case ".yaml", ".yml", ".json":
		return SyntaxYAML, nil
	default:
		return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported configuration file extension %q (use .hcl, .yaml, .yml or .json)", filepath.Ext(path)),
			map[string]any{"path": path})
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	variables map[string]string
	environ   []string
	baseDir   string
}

// WithVariables sets variable values. They override HCL variable defaults
// and take precedence over the environment for YAML ${name} references.
func WithVariables(vars map[string]string) Option {
	return func(o *options) {
		for k, v := range vars {
			o.variables[k] = v
		}
	}
}

// WithEnviron replaces the process environment (KEY=VALUE entries).
func WithEnviron(environ []string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// WithBaseDir sets the directory relative resource paths are resolved
// against. Load defaults it to the configuration file's directory.
func WithBaseDir(dir string) Option {
	return func(o *options) {
		o.baseDir = dir
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		variables: make(map[string]string),
		environ:   os.Environ(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) env() map[string]string {
	m := make(map[string]string, len(o.environ))
	for _, kv := range o.environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			m[k] = v
		}
	}
	return m
}

// Load reads the configuration file at path and returns the descriptor it
// declares.
func Load(path string, opts ...Option) (*descriptor.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := apperrors.ErrCodeInvalidConfig
		if errors.Is(err, os.ErrNotExist) {
			code = apperrors.ErrCodeNotFound
		}
		return nil, apperrors.WrapWithContext(code, "failed to read configuration", err,
			map[string]any{"path": path})
	}

	all := append([]Option{WithBaseDir(filepath.Dir(path))}, opts...)
	return LoadBytes(data, path, all...)
}

// LoadBytes parses configuration content. filename selects the syntax and
// appears in diagnostics.
func LoadBytes(data []byte, filename string, opts ...Option) (*descriptor.Descriptor, error) {
	syntax, err := SyntaxFromPath(filename)
	if err != nil {
		return nil, err
	}

	o := newOptions(opts)

	var spec *bundleSpec
	switch syntax {
	case SyntaxHCL:
		spec, err = decodeHCL(data, filename, o)
	case SyntaxYAML:
		spec, err = decodeYAML(data, filename, o)
	}
	if err != nil {
		return nil, err
	}

	d, err := spec.apply(o.baseDir)
	if err != nil {
		return nil, err
	}

	slog.Debug("configuration loaded",
		"path", filename,
		"syntax", syntax,
		"name", d.Name(),
		"documentTypes", len(d.DocumentTypes()),
	)
	return d, nil
}

// bundleSpec is the syntax-neutral form both decoders produce.
type bundleSpec struct {
	Name                  string     `yaml:"name"`
	DisplayName           string     `yaml:"displayName"`
	Identifier            string     `yaml:"identifier"`
	ShortVersion          string     `yaml:"shortVersion"`
	Version               string     `yaml:"version"`
	Signature             string     `yaml:"signature"`
	Copyright             string     `yaml:"copyright"`
	Category              string     `yaml:"category"`
	MinimumSystemVersion  string     `yaml:"minimumSystemVersion"`
	ExecutableName        string     `yaml:"executableName"`
	Executable            string     `yaml:"executable"`
	Icon                  string     `yaml:"icon"`
	MainClassName         string     `yaml:"mainClassName"`
	HighResolutionCapable *bool      `yaml:"highResolutionCapable"`
	ClassPath             []string   `yaml:"classPath"`
	JVMOptions            []string   `yaml:"jvmOptions"`
	Arguments             []string   `yaml:"arguments"`
	DocumentTypes         []*docSpec `yaml:"documentTypes"`
}

type docSpec struct {
	Name       string      `yaml:"name"`
	Icon       string      `yaml:"icon"`
	Role       string      `yaml:"role"`
	Extensions []*pairSpec `yaml:"extensions"`
	MimeTypes  []*pairSpec `yaml:"mimeTypes"`
	OSTypes    []*pairSpec `yaml:"osTypes"`
}

type pairSpec struct {
	Key     string  `yaml:"key"`
	Value   *string `yaml:"value"`
	Enabled *bool   `yaml:"enabled"`
}

func (p *pairSpec) keyValue() descriptor.KeyValue {
	value := p.Key
	if p.Value != nil {
		value = *p.Value
	}
	enabled := true
	if p.Enabled != nil {
		enabled = *p.Enabled
	}
	return descriptor.NewKeyValueWithEnabled(p.Key, value, enabled)
}

// apply replays the spec as registration calls, in declaration order.
// Empty fields keep the descriptor defaults.
func (s *bundleSpec) apply(baseDir string) (*descriptor.Descriptor, error) {
	d := descriptor.New(s.Name)

	setIf(d.SetDisplayName, s.DisplayName)
	setIf(d.SetIdentifier, s.Identifier)
	setIf(d.SetShortVersion, s.ShortVersion)
	setIf(d.SetVersion, s.Version)
	setIf(d.SetSignature, s.Signature)
	setIf(d.SetCopyright, s.Copyright)
	setIf(d.SetCategory, s.Category)
	setIf(d.SetMinimumSystemVersion, s.MinimumSystemVersion)
	setIf(d.SetExecutableName, s.ExecutableName)
	setIf(d.SetExecutable, resolvePath(baseDir, s.Executable))
	setIf(d.SetIcon, resolvePath(baseDir, s.Icon))
	setIf(d.SetMainClassName, s.MainClassName)
	if s.HighResolutionCapable != nil {
		d.SetHighResolutionCapable(*s.HighResolutionCapable)
	}

	for _, entry := range s.ClassPath {
		d.AddClassPath(resolvePath(baseDir, entry))
	}
	for _, opt := range s.JVMOptions {
		d.AddJVMOption(opt)
	}
	for _, arg := range s.Arguments {
		d.AddArgument(arg)
	}

	for i, ds := range s.DocumentTypes {
		if ds == nil {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidConfig,
				fmt.Sprintf("documentTypes[%d] is empty", i), map[string]any{"index": i})
		}
		role, err := descriptor.ParseRole(ds.Role)
		if err != nil {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidConfig,
				fmt.Sprintf("documentTypes[%d].role", i), err, map[string]any{"index": i})
		}

		dt := d.AddDocumentType()
		dt.SetName(ds.Name)
		dt.SetRole(role)
		if ds.Icon != "" {
			dt.SetIcon(resolvePath(baseDir, ds.Icon))
		}
		for _, p := range ds.Extensions {
			if p != nil {
				dt.AddExtension(p.keyValue())
			}
		}
		for _, p := range ds.MimeTypes {
			if p != nil {
				dt.AddMimeType(p.keyValue())
			}
		}
		for _, p := range ds.OSTypes {
			if p != nil {
				dt.AddOSType(p.keyValue())
			}
		}
	}
	return d, nil
}

func setIf(set func(string), v string) {
	if v != "" {
		set(v)
	}
}

func resolvePath(baseDir, p string) string {
	if p == "" || baseDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
