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

package serializer

import (
	"bytes"
	"fmt"
	"io"

	"howett.net/plist"

	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
	"github.com/NVIDIA/appbundler/pkg/manifest"
)

// Lint decodes data with an independent plist reader and checks that it is
// an XML plist whose root is a dictionary. When want is non-nil the decoded
// content must also match it.
func Lint(data []byte, want *manifest.Node) error {
	var decoded any
	format, err := plist.Unmarshal(data, &decoded)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeSerialization, "plist does not decode", err)
	}
	if format != plist.XMLFormat {
		return apperrors.NewWithContext(apperrors.ErrCodeSerialization,
			"plist is not in XML format", map[string]any{"format": plist.FormatNames[format]})
	}
	if _, ok := decoded.(map[string]any); !ok {
		return apperrors.New(apperrors.ErrCodeSerialization,
			fmt.Sprintf("plist root is %T, expected a dictionary", decoded))
	}
	if want != nil && !genericEqual(decoded, Generic(want)) {
		return apperrors.New(apperrors.ErrCodeSerialization, "decoded plist does not match the manifest")
	}
	return nil
}

// ReadInfo decodes any plist encoding (XML, binary, OpenStep) into generic
// values and reports the encoding's name.
func ReadInfo(r io.Reader) (map[string]any, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrCodeSerialization, "failed to read plist", err)
	}

	dec := plist.NewDecoder(bytes.NewReader(data))
	var info map[string]any
	if err := dec.Decode(&info); err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrCodeSerialization, "failed to decode plist", err)
	}
	return info, plist.FormatNames[dec.Format], nil
}

// Generic converts a tree to the values encoding/json and plist decoders
// produce: map[string]any, []any, string and bool.
func Generic(n *manifest.Node) any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case manifest.KindDict:
		m := make(map[string]any, len(n.Entries))
		for _, e := range n.Entries {
			m[e.Key] = Generic(e.Value)
		}
		return m
	case manifest.KindArray:
		items := make([]any, len(n.Items))
		for i, item := range n.Items {
			items[i] = Generic(item)
		}
		return items
	case manifest.KindString:
		return n.Str
	case manifest.KindBool:
		return n.Bool
	default:
		return nil
	}
}

// genericEqual compares decoded values, treating nil and empty containers alike.
func genericEqual(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, found := bv[k]
			if !found || !genericEqual(v, w) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !genericEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
