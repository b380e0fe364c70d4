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

// Package serializer writes manifest trees and other structured values to
// the formats appbundler emits, and reads them back.
//
// The package supports four output formats:
//   - Plist: Apple XML property list 1.0, the on-disk Info.plist format
//   - JSON: Machine-readable structured data with proper indentation
//   - YAML: Human-readable configuration format
//   - Table: Flattened FIELD/VALUE listing for terminals
//
// Manifest trees (*manifest.Node) keep their dictionary key and array
// element order in every format. Plain Go values are encoded with
// encoding/json and gopkg.in/yaml.v3 as usual.
//
// Usage:
//
//	writer := serializer.NewWriter(serializer.FormatPlist, os.Stdout)
//	defer writer.Close()
//	if err := writer.Serialize(ctx, tree); err != nil {
//		return err
//	}
//
// Encoding a plist is all-or-nothing: the document is rendered to memory
// and only written once every string has been checked. A string holding a
// character XML 1.0 cannot carry fails with a SERIALIZATION error.
//
// DecodePlist parses the subset EncodePlist produces (dict, array, string,
// true, false) back into a tree, so decode followed by encode reproduces
// the same bytes. Lint and ReadInfo use howett.net/plist as an independent
// reader for verification and for inspecting arbitrary Info.plist files.
package serializer

import "context"

// Serializer is an interface for serializing manifest trees and reports.
//
// The context parameter is used for cancellation, particularly for
// implementations that perform I/O.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is an optional interface that Serializers can implement
// if they need to release resources (e.g., close file handles).
type Closer interface {
	Close() error
}
