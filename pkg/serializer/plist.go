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
	"strings"
	"unicode/utf8"

	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
	"github.com/NVIDIA/appbundler/pkg/manifest"
)

const (
	plistHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n" +
		`<plist version="1.0">` + "\n"
	plistFooter = "</plist>\n"
)

// MarshalPlist renders root as an XML property list. Nothing is returned
// unless the whole tree encodes.
func MarshalPlist(root *manifest.Node) ([]byte, error) {
	if root == nil {
		return nil, apperrors.New(apperrors.ErrCodeSerialization, "manifest tree is nil")
	}

	var buf bytes.Buffer
	buf.WriteString(plistHeader)
	if err := encodeNode(&buf, root, 0, ""); err != nil {
		return nil, err
	}
	buf.WriteString(plistFooter)
	return buf.Bytes(), nil
}

// EncodePlist writes root to w as an XML property list. Validation happens
// before the first byte is written, so a failed encode leaves w untouched.
func EncodePlist(w io.Writer, root *manifest.Node) error {
	data, err := MarshalPlist(root)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeSerialization, "failed to write plist", err)
	}
	return nil
}

func encodeNode(buf *bytes.Buffer, n *manifest.Node, depth int, path string) error {
	if n == nil {
		return serializationError(path, "nil value")
	}

	indent := strings.Repeat("\t", depth)

	switch n.Kind {
	case manifest.KindDict:
		if len(n.Entries) == 0 {
			buf.WriteString(indent + "<dict/>\n")
			return nil
		}
		buf.WriteString(indent + "<dict>\n")
		for _, e := range n.Entries {
			child := joinKey(path, e.Key)
			if err := writeText(buf, indent+"\t", "key", e.Key, child); err != nil {
				return err
			}
			if err := encodeNode(buf, e.Value, depth+1, child); err != nil {
				return err
			}
		}
		buf.WriteString(indent + "</dict>\n")
	case manifest.KindArray:
		if len(n.Items) == 0 {
			buf.WriteString(indent + "<array/>\n")
			return nil
		}
		buf.WriteString(indent + "<array>\n")
		for i, item := range n.Items {
			if err := encodeNode(buf, item, depth+1, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		buf.WriteString(indent + "</array>\n")
	case manifest.KindString:
		return writeText(buf, indent, "string", n.Str, path)
	case manifest.KindBool:
		if n.Bool {
			buf.WriteString(indent + "<true/>\n")
		} else {
			buf.WriteString(indent + "<false/>\n")
		}
	default:
		return serializationError(path, fmt.Sprintf("unsupported node kind %s", n.Kind))
	}
	return nil
}

func writeText(buf *bytes.Buffer, indent, tag, s, path string) error {
	escaped, err := escapeText(s)
	if err != nil {
		return serializationError(path, err.Error())
	}
	buf.WriteString(indent)
	buf.WriteString("<" + tag + ">")
	buf.WriteString(escaped)
	buf.WriteString("</" + tag + ">\n")
	return nil
}

// escapeText escapes the XML reserved characters and rejects anything an
// XML 1.0 document cannot carry. CR is written as a character reference
// because parsers normalize literal line endings.
func escapeText(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return "", fmt.Errorf("invalid UTF-8 at byte %d", i)
		}
		if !isXMLChar(r) {
			return "", fmt.Errorf("character %U at byte %d is not allowed in XML 1.0", r, i)
		}
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '\r':
			b.WriteString("&#13;")
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String(), nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	default:
		return false
	}
}

func serializationError(path, message string) error {
	if path == "" {
		path = "<root>"
	}
	return apperrors.NewWithContext(apperrors.ErrCodeSerialization,
		fmt.Sprintf("cannot encode %s: %s", path, message),
		map[string]any{"path": path})
}
