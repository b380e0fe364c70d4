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
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
	"github.com/NVIDIA/appbundler/pkg/manifest"
)

func TestMarshalPlist_Layout(t *testing.T) {
	tree := manifest.Dict().
		SetString("CFBundleName", "Demo").
		Set("NSHighResolutionCapable", manifest.Bool(true)).
		Set("Disabled", manifest.Bool(false)).
		Set("JVMOptions", manifest.Strings("-Xmx1g")).
		Set("Empty", manifest.Array()).
		Set("Nested", manifest.Dict())

	data, err := MarshalPlist(tree)
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleName</key>
	<string>Demo</string>
	<key>NSHighResolutionCapable</key>
	<true/>
	<key>Disabled</key>
	<false/>
	<key>JVMOptions</key>
	<array>
		<string>-Xmx1g</string>
	</array>
	<key>Empty</key>
	<array/>
	<key>Nested</key>
	<dict/>
</dict>
</plist>
`
	assert.Equal(t, want, string(data))
}

func TestMarshalPlist_Escaping(t *testing.T) {
	tree := manifest.Dict().
		SetString("A&B", `Tom & Jerry <"cartoon"> 'quoted'`).
		SetString("Lines", "one\r\ntwo\tthree")

	data, err := MarshalPlist(tree)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "<key>A&amp;B</key>")
	assert.Contains(t, out, `<string>Tom &amp; Jerry &lt;"cartoon"&gt; 'quoted'</string>`)
	assert.Contains(t, out, "<string>one&#13;\ntwo\tthree</string>")
}

func TestMarshalPlist_RejectsInvalidCharacters(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"nul", "a\x00b"},
		{"bell", "ring\x07"},
		{"invalid utf8", "bad\xffbyte"},
		{"non-character", "x\uFFFEy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := manifest.Dict().Set("CFBundleDocumentTypes", manifest.Array(
				manifest.Dict().SetString("CFBundleTypeName", tt.value),
			))

			var buf bytes.Buffer
			err := EncodePlist(&buf, tree)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSerialization))
			assert.Zero(t, buf.Len(), "nothing may be written when encoding fails")

			var se *apperrors.StructuredError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, "CFBundleDocumentTypes[0].CFBundleTypeName", se.Context["path"])
		})
	}
}

func TestMarshalPlist_NilTree(t *testing.T) {
	_, err := MarshalPlist(nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSerialization))

	_, err = MarshalPlist(manifest.Dict().Set("Missing", nil))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSerialization))
}

func TestMarshalPlist_Deterministic(t *testing.T) {
	first, err := MarshalPlist(sampleTree())
	require.NoError(t, err)
	second, err := MarshalPlist(sampleTree())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodePlist_RoundTrip(t *testing.T) {
	tree := sampleTree().
		SetString("Weird", "  spaced  & <tagged>\r\n").
		SetString("Blank", "").
		Set("Empty", manifest.Array()).
		Set("Nested", manifest.Dict())

	first, err := MarshalPlist(tree)
	require.NoError(t, err)

	decoded, err := DecodePlist(bytes.NewReader(first))
	require.NoError(t, err)
	assert.True(t, tree.Equal(decoded), "decoded tree must equal the original")

	second, err := MarshalPlist(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestDecodePlist_Errors(t *testing.T) {
	wrap := func(body string) string {
		return `<?xml version="1.0" encoding="UTF-8"?>` + "\n<plist version=\"1.0\">\n" + body + "\n</plist>\n"
	}

	tests := []struct {
		name string
		doc  string
	}{
		{"not a plist", `<html></html>`},
		{"unsupported element", wrap(`<dict><key>n</key><integer>1</integer></dict>`)},
		{"missing key", wrap(`<dict><string>x</string></dict>`)},
		{"missing value", wrap(`<dict><key>n</key></dict>`)},
		{"duplicate key", wrap(`<dict><key>n</key><true/><key>n</key><false/></dict>`)},
		{"stray text", wrap(`<array>oops</array>`)},
		{"truncated", `<plist version="1.0"><dict><key>n</key>`},
		{"nested in string", wrap(`<string>a<b/></string>`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePlist(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSerialization), "got %v", err)
		})
	}
}

func TestLint(t *testing.T) {
	tree := sampleTree()
	data, err := MarshalPlist(tree)
	require.NoError(t, err)

	t.Run("matches", func(t *testing.T) {
		assert.NoError(t, Lint(data, tree))
	})

	t.Run("no comparison", func(t *testing.T) {
		assert.NoError(t, Lint(data, nil))
	})

	t.Run("mismatch", func(t *testing.T) {
		other := sampleTree().SetString("CFBundleName", "Other")
		err := Lint(data, other)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSerialization))
	})

	t.Run("array root", func(t *testing.T) {
		arr, err := MarshalPlist(manifest.Strings("a"))
		require.NoError(t, err)
		assert.Error(t, Lint(arr, nil))
	})

	t.Run("garbage", func(t *testing.T) {
		assert.Error(t, Lint([]byte("<plist><dict><key>"), nil))
	})
}

func TestReadInfo(t *testing.T) {
	data, err := MarshalPlist(sampleTree())
	require.NoError(t, err)

	info, format, err := ReadInfo(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "XML", format)
	assert.Equal(t, "Demo", info["CFBundleName"])
	assert.Equal(t, true, info["NSHighResolutionCapable"])

	docs, ok := info["CFBundleDocumentTypes"].([]any)
	require.True(t, ok)
	require.Len(t, docs, 1)
}

func TestGeneric(t *testing.T) {
	got := Generic(sampleTree())
	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "JavaAppLauncher", m["CFBundleExecutable"])
	assert.Equal(t, true, m["NSHighResolutionCapable"])
	assert.Nil(t, Generic(nil))
}
