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
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
	"github.com/NVIDIA/appbundler/pkg/manifest"
)

// DecodePlist parses an XML property list into an ordered manifest tree.
// Only dict, array, string, true and false elements are accepted.
func DecodePlist(r io.Reader) (*manifest.Node, error) {
	d := &plistDecoder{dec: xml.NewDecoder(r)}

	start, err := d.nextStart()
	if err != nil {
		return nil, d.fail("", err)
	}
	if start.Name.Local != "plist" {
		return nil, d.fail("", fmt.Errorf("expected <plist>, found <%s>", start.Name.Local))
	}

	valueStart, err := d.nextStart()
	if err != nil {
		return nil, d.fail("", err)
	}
	root, err := d.value(valueStart, "")
	if err != nil {
		return nil, err
	}
	if err := d.expectEnd("plist"); err != nil {
		return nil, d.fail("", err)
	}
	return root, nil
}

type plistDecoder struct {
	dec *xml.Decoder
}

var errUnexpectedEnd = errors.New("unexpected end element")

// next returns the next element token, skipping whitespace, comments,
// processing instructions and directives.
func (d *plistDecoder) next() (xml.Token, error) {
	for {
		tok, err := d.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement, xml.EndElement:
			return t, nil
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return nil, fmt.Errorf("unexpected text %q", string(t))
			}
		}
	}
}

func (d *plistDecoder) nextStart() (xml.StartElement, error) {
	tok, err := d.next()
	if err != nil {
		return xml.StartElement{}, err
	}
	start, ok := tok.(xml.StartElement)
	if !ok {
		return xml.StartElement{}, errUnexpectedEnd
	}
	return start, nil
}

func (d *plistDecoder) expectEnd(name string) error {
	tok, err := d.next()
	if err != nil {
		return err
	}
	end, ok := tok.(xml.EndElement)
	if !ok || end.Name.Local != name {
		return fmt.Errorf("expected </%s>", name)
	}
	return nil
}

func (d *plistDecoder) value(start xml.StartElement, path string) (*manifest.Node, error) {
	switch start.Name.Local {
	case "dict":
		return d.dict(path)
	case "array":
		return d.array(path)
	case "string":
		s, err := d.text("string")
		if err != nil {
			return nil, d.fail(path, err)
		}
		return manifest.String(s), nil
	case "true", "false":
		if err := d.expectEnd(start.Name.Local); err != nil {
			return nil, d.fail(path, err)
		}
		return manifest.Bool(start.Name.Local == "true"), nil
	default:
		return nil, d.fail(path, fmt.Errorf("unsupported element <%s>", start.Name.Local))
	}
}

func (d *plistDecoder) dict(path string) (*manifest.Node, error) {
	node := manifest.Dict()
	for {
		tok, err := d.next()
		if err != nil {
			return nil, d.fail(path, err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local != "dict" {
				return nil, d.fail(path, fmt.Errorf("expected </dict>, found </%s>", t.Name.Local))
			}
			return node, nil
		case xml.StartElement:
			if t.Name.Local != "key" {
				return nil, d.fail(path, fmt.Errorf("expected <key>, found <%s>", t.Name.Local))
			}
			key, err := d.text("key")
			if err != nil {
				return nil, d.fail(path, err)
			}
			child := joinKey(path, key)
			if node.Has(key) {
				return nil, d.fail(child, errors.New("duplicate key"))
			}
			valueStart, err := d.nextStart()
			if err != nil {
				return nil, d.fail(child, fmt.Errorf("missing value: %w", err))
			}
			v, err := d.value(valueStart, child)
			if err != nil {
				return nil, err
			}
			node.Set(key, v)
		}
	}
}

func (d *plistDecoder) array(path string) (*manifest.Node, error) {
	node := manifest.Array()
	for i := 0; ; i++ {
		tok, err := d.next()
		if err != nil {
			return nil, d.fail(path, err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local != "array" {
				return nil, d.fail(path, fmt.Errorf("expected </array>, found </%s>", t.Name.Local))
			}
			return node, nil
		case xml.StartElement:
			v, err := d.value(t, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			node.Append(v)
		}
	}
}

// text collects character data up to the closing tag of a leaf element.
func (d *plistDecoder) text(name string) (string, error) {
	var b strings.Builder
	for {
		tok, err := d.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if t.Name.Local != name {
				return "", fmt.Errorf("expected </%s>, found </%s>", name, t.Name.Local)
			}
			return b.String(), nil
		case xml.StartElement:
			return "", fmt.Errorf("unexpected <%s> inside <%s>", t.Name.Local, name)
		}
	}
}

func (d *plistDecoder) fail(path string, err error) error {
	if path == "" {
		path = "<root>"
	}
	line, _ := d.dec.InputPos()
	return apperrors.WrapWithContext(apperrors.ErrCodeSerialization,
		fmt.Sprintf("invalid plist at %s (line %d)", path, line), err,
		map[string]any{"path": path, "line": line})
}
