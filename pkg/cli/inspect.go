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
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"howett.net/plist"

	"github.com/NVIDIA/appbundler/pkg/descriptor"
	"github.com/NVIDIA/appbundler/pkg/manifest"
	"github.com/NVIDIA/appbundler/pkg/serializer"
)

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "inspect",
		EnableShellCompletion: true,
		Usage:                 "Decode and print an existing Info.plist",
		Description: `Decodes an Info.plist in XML, binary or OpenStep form and prints it.
XML property lists keep their key order. The table format shows document
type roles in display form (e.g., "Viewer").

# Examples

  appbundler inspect --file dist/Demo.app/Contents/Info.plist
  appbundler inspect -f Info.plist --format json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Required: true,
				Usage:    "Property list file to decode",
			},
			outputFlag(),
			formatFlag(serializer.FormatTable, serializer.FormatTable, serializer.FormatJSON, serializer.FormatYAML),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd,
				serializer.FormatTable, serializer.FormatJSON, serializer.FormatYAML)
			if err != nil {
				return err
			}

			path := cmd.String("file")
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			v, err := decodeInfo(data, outFormat == serializer.FormatTable)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", path, err)
			}

			return writeOutput(ctx, outFormat, cmd.String("output"), v)
		},
	}
}

// decodeInfo returns an ordered tree for XML property lists and a plain
// map for every other encoding. With titleRoles, document type roles are
// replaced by their display form.
func decodeInfo(data []byte, titleRoles bool) (any, error) {
	info, format, err := serializer.ReadInfo(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	slog.Debug("property list decoded", "format", format, "keys", len(info))

	if format == plist.FormatNames[plist.XMLFormat] {
		if tree, err := serializer.DecodePlist(bytes.NewReader(data)); err == nil {
			if titleRoles {
				titleTreeRoles(tree)
			}
			return tree, nil
		}
	}

	if titleRoles {
		titleMapRoles(info)
	}
	return info, nil
}

func titleTreeRoles(root *manifest.Node) {
	docs := root.Get(manifest.KeyDocumentTypes)
	if docs == nil || docs.Kind != manifest.KindArray {
		return
	}
	for _, dt := range docs.Items {
		if dt.Kind != manifest.KindDict {
			continue
		}
		if role := dt.Get(manifest.KeyTypeRole); role != nil && role.Kind == manifest.KindString {
			role.Str = roleTitle(role.Str)
		}
	}
}

func titleMapRoles(info map[string]any) {
	docs, ok := info[manifest.KeyDocumentTypes].([]any)
	if !ok {
		return
	}
	for _, item := range docs {
		dt, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := dt[manifest.KeyTypeRole].(string); ok {
			dt[manifest.KeyTypeRole] = roleTitle(s)
		}
	}
}

// roleTitle returns the display form of a role tag, or the tag unchanged
// when it is not a known role.
func roleTitle(tag string) string {
	r, err := descriptor.ParseRole(tag)
	if err != nil {
		return tag
	}
	return r.Title()
}
