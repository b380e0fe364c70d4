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
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"

	"gopkg.in/yaml.v3"

	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
)

// refPattern matches ${name} references. A bare $NAME is left alone so
// launcher variables such as $APP_ROOT pass through.
var refPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_.-]*)\}`)

// UnmarshalYAML accepts either a plain string (key and value alike) or a
// mapping with key, value and enabled.
func (p *pairSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		p.Key = value.Value
		return nil
	}
	// Decode starts a fresh decoder, so unknown keys are checked here.
	if value.Kind == yaml.MappingNode {
		for i := 0; i < len(value.Content); i += 2 {
			k := value.Content[i]
			switch k.Value {
			case "key", "value", "enabled":
			default:
				return fmt.Errorf("line %d: field %s not found in key/value entry", k.Line, k.Value)
			}
		}
	}
	type plain pairSpec
	return value.Decode((*plain)(p))
}

func decodeYAML(data []byte, filename string, o *options) (*bundleSpec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, yamlError(filename, err)
	}
	if doc.Kind == 0 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidConfig,
			"configuration is empty", map[string]any{"path": filename})
	}

	lookup := newLookup(o)
	if err := expandNode(&doc, lookup); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidConfig,
			"failed to expand references", err, map[string]any{"path": filename})
	}

	expanded, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, yamlError(filename, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(expanded))
	dec.KnownFields(true)

	var spec bundleSpec
	if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		return nil, yamlError(filename, err)
	}
	return &spec, nil
}

func yamlError(filename string, err error) error {
	return apperrors.WrapWithContext(apperrors.ErrCodeInvalidConfig,
		fmt.Sprintf("failed to decode %s", filename), err, map[string]any{"path": filename})
}

func newLookup(o *options) func(string) (string, bool) {
	env := o.env()
	return func(name string) (string, bool) {
		if v, ok := o.variables[name]; ok {
			return v, true
		}
		v, ok := env[name]
		return v, ok
	}
}

// expandNode replaces ${name} references in string scalars. Mapping keys
// are not expanded. A scalar that is a single reference is retyped from
// its substituted value, so ${ON} can feed a bool field.
func expandNode(n *yaml.Node, lookup func(string) (string, bool)) error {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			if err := expandNode(c, lookup); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			if err := expandNode(n.Content[i], lookup); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		if n.Tag != "!!str" || !refPattern.MatchString(n.Value) {
			return nil
		}
		whole := refPattern.FindString(n.Value) == n.Value
		var missing []string
		n.Value = refPattern.ReplaceAllStringFunc(n.Value, func(ref string) string {
			name := refPattern.FindStringSubmatch(ref)[1]
			v, ok := lookup(name)
			if !ok {
				missing = append(missing, name)
				return ref
			}
			return v
		})
		if len(missing) > 0 {
			return fmt.Errorf("line %d: undefined variable %q", n.Line, missing[0])
		}
		if whole {
			n.Tag = ""
			n.Style = 0
			return nil
		}
		n.Style = yaml.DoubleQuotedStyle
	}
	return nil
}
