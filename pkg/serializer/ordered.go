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
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
	"github.com/NVIDIA/appbundler/pkg/manifest"
)

// marshalNodeJSON writes the tree as indented JSON with object members in
// manifest order. encoding/json sorts map keys, so objects are assembled
// by hand and only scalars go through json.Marshal.
func marshalNodeJSON(root *manifest.Node) ([]byte, error) {
	var compact bytes.Buffer
	if err := writeNodeJSON(&compact, root, ""); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeSerialization, "failed to indent JSON", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeNodeJSON(buf *bytes.Buffer, n *manifest.Node, path string) error {
	if n == nil {
		return serializationError(path, "nil value")
	}

	switch n.Kind {
	case manifest.KindDict:
		buf.WriteByte('{')
		for i, e := range n.Entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(e.Key)
			if err != nil {
				return serializationError(joinKey(path, e.Key), err.Error())
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeNodeJSON(buf, e.Value, joinKey(path, e.Key)); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case manifest.KindArray:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNodeJSON(buf, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case manifest.KindString:
		s, err := json.Marshal(n.Str)
		if err != nil {
			return serializationError(path, err.Error())
		}
		buf.Write(s)
	case manifest.KindBool:
		buf.WriteString(strconv.FormatBool(n.Bool))
	default:
		return serializationError(path, fmt.Sprintf("unsupported node kind %s", n.Kind))
	}
	return nil
}

// marshalNodeYAML writes the tree through yaml.v3 nodes, which keep
// mapping order.
func marshalNodeYAML(root *manifest.Node) ([]byte, error) {
	doc, err := toYAMLNode(root, "")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeSerialization, "failed to serialize to YAML", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeSerialization, "failed to serialize to YAML", err)
	}
	return buf.Bytes(), nil
}

func toYAMLNode(n *manifest.Node, path string) (*yaml.Node, error) {
	if n == nil {
		return nil, serializationError(path, "nil value")
	}

	switch n.Kind {
	case manifest.KindDict:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range n.Entries {
			v, err := toYAMLNode(e.Value, joinKey(path, e.Key))
			if err != nil {
				return nil, err
			}
			key, err := yamlScalar(e.Key, joinKey(path, e.Key))
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, key, v)
		}
		return out, nil
	case manifest.KindArray:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range n.Items {
			v, err := toYAMLNode(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, v)
		}
		return out, nil
	case manifest.KindString:
		return yamlScalar(n.Str, path)
	case manifest.KindBool:
		return yamlScalar(n.Bool, path)
	default:
		return nil, serializationError(path, fmt.Sprintf("unsupported node kind %s", n.Kind))
	}
}

// flattenNode lists the leaves of a tree as dotted paths in manifest order.
// Empty containers appear as {} and [].
func flattenNode(root *manifest.Node) []tableRow {
	var rows []tableRow
	var walk func(n *manifest.Node, path string)
	walk = func(n *manifest.Node, path string) {
		if n == nil {
			return
		}
		if path == "" && n.Kind != manifest.KindDict && n.Kind != manifest.KindArray {
			path = defaultValueKey
		}
		switch n.Kind {
		case manifest.KindDict:
			if len(n.Entries) == 0 && path != "" {
				rows = append(rows, tableRow{key: path, value: "{}"})
			}
			for _, e := range n.Entries {
				walk(e.Value, joinKey(path, e.Key))
			}
		case manifest.KindArray:
			if len(n.Items) == 0 && path != "" {
				rows = append(rows, tableRow{key: path, value: "[]"})
			}
			for i, item := range n.Items {
				walk(item, fmt.Sprintf("%s[%d]", path, i))
			}
		case manifest.KindString:
			rows = append(rows, tableRow{key: path, value: n.Str})
		case manifest.KindBool:
			rows = append(rows, tableRow{key: path, value: n.Bool})
		}
	}
	walk(root, "")
	return rows
}

// yamlScalar lets yaml.v3 pick the scalar style, so strings such as "true"
// or "1.0" come out quoted.
func yamlScalar(v any, path string) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, serializationError(path, err.Error())
	}
	return &n, nil
}
