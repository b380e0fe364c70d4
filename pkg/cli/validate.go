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

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/appbundler/pkg/bundler/checksum"
	"github.com/NVIDIA/appbundler/pkg/defaults"
	"github.com/NVIDIA/appbundler/pkg/descriptor"
	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
	"github.com/NVIDIA/appbundler/pkg/manifest"
	"github.com/NVIDIA/appbundler/pkg/resource"
	"github.com/NVIDIA/appbundler/pkg/serializer"
)

// validationReport is the output of the validate command.
type validationReport struct {
	Configs []validationEntry `json:"configs,omitempty" yaml:"configs,omitempty"`
	Bundles []validationEntry `json:"bundles,omitempty" yaml:"bundles,omitempty"`
}

type validationEntry struct {
	Path     string   `json:"path" yaml:"path"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Valid    bool     `json:"valid" yaml:"valid"`
	Problems []string `json:"problems,omitempty" yaml:"problems,omitempty"`
}

func (r *validationReport) failures() int {
	n := 0
	for _, e := range append(append([]validationEntry(nil), r.Configs...), r.Bundles...) {
		if !e.Valid {
			n++
		}
	}
	return n
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Check descriptions and generated bundles",
		Description: `Checks each --config description without writing anything: required
fields, version strings, signature, document types and the presence of every
referenced resource file.

Each --bundle directory is checked against its <Name>.app.sha256 listing and
its Contents/Info.plist is decoded to confirm it is a well-formed XML
property list.

The command exits non-zero when any check fails.

# Examples

  appbundler validate --config app.hcl
  appbundler validate --bundle dist/Demo.app --format json`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Bundle description file to check; can be repeated",
			},
			&cli.StringSliceFlag{
				Name:    "bundle",
				Aliases: []string{"b"},
				Usage:   "Generated .app directory to verify; can be repeated",
			},
			varFlag(),
			&cli.BoolFlag{
				Name:  "allow-unnamed-document-types",
				Usage: "Accept document types without a name",
			},
			outputFlag(),
			formatFlag(serializer.FormatYAML, serializer.FormatYAML, serializer.FormatJSON, serializer.FormatTable),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd,
				serializer.FormatYAML, serializer.FormatJSON, serializer.FormatTable)
			if err != nil {
				return err
			}

			configs := cmd.StringSlice("config")
			bundles := cmd.StringSlice("bundle")
			if len(configs) == 0 && len(bundles) == 0 {
				return fmt.Errorf("at least one --config or --bundle is required")
			}

			vars, err := parseVariables(cmd.StringSlice("var"))
			if err != nil {
				return err
			}

			opts := descriptor.ValidateOptions{AllowUnnamedDocumentTypes: cmd.Bool("allow-unnamed-document-types")}
			report := &validationReport{}
			for _, p := range configs {
				report.Configs = append(report.Configs, validateConfig(p, vars, opts))
			}
			for _, dir := range bundles {
				report.Bundles = append(report.Bundles, validateBundle(ctx, dir))
			}

			if err := writeOutput(ctx, outFormat, cmd.String("output"), report); err != nil {
				return err
			}

			if n := report.failures(); n > 0 {
				return fmt.Errorf("%d of %d item(s) failed validation", n, len(configs)+len(bundles))
			}
			return nil
		},
	}
}

func validateConfig(path string, vars map[string]string, opts descriptor.ValidateOptions) validationEntry {
	entry := validationEntry{Path: path}

	descs, err := loadDescriptors([]string{path}, vars)
	if err != nil {
		entry.Problems = append(entry.Problems, err.Error())
		return entry
	}
	d := descs[0]
	entry.Name = d.Name()

	if err := d.Validate(opts); err != nil {
		var ve *descriptor.ValidationError
		if errors.As(err, &ve) {
			for _, p := range ve.Problems {
				entry.Problems = append(entry.Problems, p.String())
			}
		} else {
			entry.Problems = append(entry.Problems, err.Error())
		}
	}

	if _, err := resource.Resolve(d); err != nil {
		entry.Problems = append(entry.Problems, resourceProblems(err)...)
	}

	entry.Valid = len(entry.Problems) == 0
	return entry
}

func validateBundle(ctx context.Context, dir string) validationEntry {
	entry := validationEntry{Path: dir}

	infoPath := filepath.Join(dir, defaults.ContentsDir, defaults.InfoPlistFile)
	data, err := os.ReadFile(infoPath)
	if err != nil {
		entry.Problems = append(entry.Problems, fmt.Sprintf("cannot read %s: %v", infoPath, err))
	} else {
		if err := serializer.Lint(data, nil); err != nil {
			entry.Problems = append(entry.Problems, err.Error())
		}
		if tree, err := serializer.DecodePlist(bytes.NewReader(data)); err == nil {
			if n := tree.Get(manifest.KeyName); n != nil {
				entry.Name = n.Str
			}
			entry.Problems = append(entry.Problems, classPathProblems(dir, tree)...)
		}
	}

	// Bundles built without checksums have no listing to verify.
	if _, err := os.Stat(checksum.GetChecksumFilePath(dir)); err == nil {
		mismatched, err := checksum.Verify(ctx, dir)
		if err != nil {
			entry.Problems = append(entry.Problems, err.Error())
		}
		for _, m := range mismatched {
			entry.Problems = append(entry.Problems, fmt.Sprintf("checksum mismatch: %s", m))
		}
	}

	entry.Valid = len(entry.Problems) == 0
	return entry
}

// classPathProblems reports JVMClassPath entries under $APP_ROOT that are
// missing from the bundle.
func classPathProblems(dir string, tree *manifest.Node) []string {
	var problems []string
	for _, entry := range tree.Get(manifest.KeyClassPath).StringValues() {
		rel, ok := strings.CutPrefix(entry, defaults.AppRootVariable+"/")
		if !ok {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			problems = append(problems, fmt.Sprintf("missing classpath entry: %s", rel))
		}
	}
	return problems
}

// resourceProblems returns the per-file problems carried by a resource
// error, or the error text when it carries none.
func resourceProblems(err error) []string {
	var se *apperrors.StructuredError
	if errors.As(err, &se) {
		if ps, ok := se.Context["problems"].([]string); ok && len(ps) > 0 {
			return ps
		}
	}
	return []string{err.Error()}
}
