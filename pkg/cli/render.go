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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/appbundler/pkg/bundler"
	"github.com/NVIDIA/appbundler/pkg/bundler/config"
	"github.com/NVIDIA/appbundler/pkg/resource"
	"github.com/NVIDIA/appbundler/pkg/serializer"
)

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:                  "render",
		EnableShellCompletion: true,
		Usage:                 "Print the Info.plist a description would produce",
		Description: `Validates a description and prints its manifest without touching any
bundle. Classpath globs are expanded when the referenced files exist.

# Examples

  appbundler render --config app.hcl
  appbundler render -c app.yaml --format json --output info.json`,
		Flags: []cli.Flag{
			configFlag(),
			varFlag(),
			&cli.BoolFlag{
				Name:  "allow-unnamed-document-types",
				Usage: "Render document types without a name instead of failing",
			},
			outputFlag(),
			formatFlag(serializer.FormatPlist,
				serializer.FormatPlist, serializer.FormatJSON, serializer.FormatYAML, serializer.FormatTable),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			paths := cmd.StringSlice("config")
			if len(paths) != 1 {
				return fmt.Errorf("render takes exactly one --config, got %d", len(paths))
			}

			vars, err := parseVariables(cmd.StringSlice("var"))
			if err != nil {
				return err
			}

			descs, err := loadDescriptors(paths, vars)
			if err != nil {
				return err
			}
			d := descs[0]

			b, err := bundler.NewWithConfig(config.NewConfig(
				config.WithAllowUnnamedDocumentTypes(cmd.Bool("allow-unnamed-document-types")),
			))
			if err != nil {
				return err
			}

			plan, err := resource.Resolve(d)
			if err != nil {
				slog.Warn("resources unresolved, classpath globs are omitted", "error", err)
				plan = nil
			}

			tree, err := b.Manifest(d, plan)
			if err != nil {
				return err
			}

			return writeOutput(ctx, outFormat, cmd.String("output"), tree)
		},
	}
}
