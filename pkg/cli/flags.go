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
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/appbundler/pkg/descriptor"
	"github.com/NVIDIA/appbundler/pkg/loader"
	"github.com/NVIDIA/appbundler/pkg/serializer"
)

// Flags are built per command: urfave flags keep parsed state.

func configFlag() *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Required: true,
		Usage:    "Bundle description file (.hcl, .yaml, .yml); can be repeated",
	}
}

func varFlag() *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:  "var",
		Usage: "Set a configuration variable (format: name=value, can be repeated)",
	}
}

func outputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag(def serializer.Format, allowed ...serializer.Format) *cli.StringFlag {
	names := make([]string, len(allowed))
	for i, f := range allowed {
		names[i] = string(f)
	}
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(def),
		Usage:   fmt.Sprintf("Output format (%s)", strings.Join(names, ", ")),
	}
}

// parseOutputFormat reads --format and rejects names outside allowed.
// An empty allowed list accepts every supported format.
func parseOutputFormat(cmd *cli.Command, allowed ...serializer.Format) (serializer.Format, error) {
	f, err := serializer.ParseFormat(cmd.String("format"))
	if err != nil {
		return "", err
	}
	if len(allowed) == 0 {
		return f, nil
	}
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", fmt.Errorf("format %q is not supported by %s", f, cmd.Name)
}

// parseVariables parses name=value pairs. Later pairs win.
func parseVariables(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid variable %q, expected name=value", p)
		}
		vars[k] = v
	}
	return vars, nil
}

// loadDescriptors loads every description file with the given variables.
func loadDescriptors(paths []string, vars map[string]string) ([]*descriptor.Descriptor, error) {
	descs := make([]*descriptor.Descriptor, 0, len(paths))
	for _, p := range paths {
		d, err := loader.Load(p,
			loader.WithVariables(vars),
			loader.WithEnviron(os.Environ()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", p, err)
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// writeOutput serializes v to path, or stdout when path is empty.
func writeOutput(ctx context.Context, format serializer.Format, path string, v any) error {
	w, err := serializer.NewFileWriterOrStdout(format, path)
	if err != nil {
		return err
	}
	var s serializer.Serializer = w
	if c, ok := s.(serializer.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				slog.Warn("failed to close output", "path", path, "error", err)
			}
		}()
	}
	return s.Serialize(ctx, v)
}
