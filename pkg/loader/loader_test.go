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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/appbundler/pkg/descriptor"
	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
)

const sampleHCL = `
variable "version" {
  default = "2.1"
}

variable "vendor" {
  default = env.VENDOR
}

bundle "Demo" {
  display_name    = "Demo App"
  identifier      = "com.example.demo"
  main_class_name = "com.example.Main"
  short_version   = var.version
  copyright       = "(c) ${var.vendor}"
  icon            = "icons/demo.icns"
  executable      = "/opt/launcher/JavaAppLauncher"
  classpath       = ["lib/*.jar", "/abs/extra.jar"]
  jvm_options     = ["-Xmx1g", "-Dapp.root=$APP_ROOT"]
  arguments       = ["--verbose"]

  high_resolution_capable = false

  document_type "Text File" {
    role = "Viewer"
    icon = "icons/text.icns"

    extension "txt" {}
    extension "text" {
      enabled = false
    }
    mime_type "text/plain" {}
  }

  document_type "Shell Script" {
    extension "sh" {
      value = "sh"
    }
    os_type "TEXT" {}
  }
}
`

const sampleYAML = `
name: Demo
identifier: com.example.demo
mainClassName: com.example.Main
shortVersion: 1.10
copyright: (c) ${vendor}
icon: icons/demo.icns
classPath:
  - lib/*.jar
jvmOptions:
  - -Dapp.root=$APP_ROOT
documentTypes:
  - name: Text File
    role: viewer
    extensions:
      - txt
      - key: text
        enabled: false
    mimeTypes: [text/plain]
  - name: Shell Script
    osTypes:
      - key: TEXT
        value: TEXT
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_HCL(t *testing.T) {
	path := writeConfig(t, "app.hcl", sampleHCL)
	dir := filepath.Dir(path)

	d, err := Load(path, WithEnviron([]string{"VENDOR=Example Corp"}))
	require.NoError(t, err)

	assert.Equal(t, "Demo", d.Name())
	assert.Equal(t, "Demo App", d.DisplayName())
	assert.Equal(t, "com.example.demo", d.Identifier())
	assert.Equal(t, "2.1", d.ShortVersion())
	assert.Equal(t, "(c) Example Corp", d.Copyright())
	assert.Equal(t, filepath.Join(dir, "icons/demo.icns"), d.Icon())
	assert.Equal(t, "/opt/launcher/JavaAppLauncher", d.Executable())
	assert.False(t, d.HighResolutionCapable())
	assert.Equal(t, []string{filepath.Join(dir, "lib/*.jar"), "/abs/extra.jar"}, d.ClassPath())
	assert.Equal(t, []string{"-Xmx1g", "-Dapp.root=$APP_ROOT"}, d.JVMOptions())
	assert.Equal(t, []string{"--verbose"}, d.Arguments())

	docs := d.DocumentTypes()
	require.Len(t, docs, 2)

	text := docs[0]
	assert.Equal(t, "Text File", text.Name())
	assert.Equal(t, descriptor.RoleViewer, text.Role())
	assert.Equal(t, filepath.Join(dir, "icons/text.icns"), text.Icon())
	exts := text.Extensions()
	require.Len(t, exts, 2)
	assert.Equal(t, "txt", exts[0].Key())
	assert.Equal(t, "txt", exts[0].Value())
	assert.True(t, exts[0].IsEnabled())
	assert.Equal(t, "text", exts[1].Key())
	assert.False(t, exts[1].IsEnabled())
	require.Len(t, text.MimeTypes(), 1)
	assert.Equal(t, "text/plain", text.MimeTypes()[0].Value())

	shell := docs[1]
	assert.Equal(t, descriptor.RoleNone, shell.Role())
	assert.False(t, shell.HasIcon())
	require.Len(t, shell.OSTypes(), 1)
	assert.Equal(t, "TEXT", shell.OSTypes()[0].Key())
}

func TestLoad_HCLVariableOverride(t *testing.T) {
	path := writeConfig(t, "app.hcl", sampleHCL)

	d, err := Load(path,
		WithEnviron(nil),
		WithVariables(map[string]string{"version": "3.0", "vendor": "ACME"}),
	)
	require.NoError(t, err)
	assert.Equal(t, "3.0", d.ShortVersion())
	assert.Equal(t, "(c) ACME", d.Copyright())
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "app.yaml", sampleYAML)
	dir := filepath.Dir(path)

	d, err := Load(path,
		WithEnviron([]string{"vendor=from-env"}),
		WithVariables(map[string]string{"vendor": "from-var"}),
	)
	require.NoError(t, err)

	assert.Equal(t, "Demo", d.Name())
	assert.Equal(t, "1.10", d.ShortVersion())
	assert.Equal(t, "(c) from-var", d.Copyright())
	assert.True(t, d.HighResolutionCapable(), "default kept when not configured")
	assert.Equal(t, []string{filepath.Join(dir, "lib/*.jar")}, d.ClassPath())
	assert.Equal(t, []string{"-Dapp.root=$APP_ROOT"}, d.JVMOptions())

	docs := d.DocumentTypes()
	require.Len(t, docs, 2)
	assert.Equal(t, "Text File", docs[0].Name())
	assert.Equal(t, "Shell Script", docs[1].Name())

	exts := docs[0].Extensions()
	require.Len(t, exts, 2)
	assert.Equal(t, "txt", exts[0].Value())
	assert.False(t, exts[1].IsEnabled())
	assert.Equal(t, "TEXT", docs[1].OSTypes()[0].Value())
}

func TestLoad_YAMLTypedReferences(t *testing.T) {
	src := `
name: Demo
shortVersion: ${version}
copyright: "${vendor}"
highResolutionCapable: ${HIDPI}
documentTypes:
  - name: Text File
    extensions:
      - key: txt
        enabled: ${ON}
      - key: ${EXT}
`
	d, err := LoadBytes([]byte(src), "typed.yaml",
		WithEnviron([]string{"HIDPI=false", "ON=false", "EXT=text", "vendor=123"}),
		WithVariables(map[string]string{"version": "1.10"}),
	)
	require.NoError(t, err)

	assert.Equal(t, "1.10", d.ShortVersion())
	assert.Equal(t, "123", d.Copyright())
	assert.False(t, d.HighResolutionCapable())

	exts := d.DocumentTypes()[0].Extensions()
	require.Len(t, exts, 2)
	assert.False(t, exts[0].IsEnabled())
	assert.Equal(t, "text", exts[1].Key())
	assert.True(t, exts[1].IsEnabled())
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "app.json", `{
  "name": "Demo",
  "identifier": "com.example.demo",
  "mainClassName": "com.example.Main",
  "documentTypes": [{"name": "Image", "role": "editor", "extensions": ["png"]}]
}`)

	d, err := Load(path)
	require.NoError(t, err)
	require.Len(t, d.DocumentTypes(), 1)
	assert.Equal(t, descriptor.RoleEditor, d.DocumentTypes()[0].Role())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    apperrors.ErrorCode
	}{
		{"unsupported extension", "app.toml", "name = 1", apperrors.ErrCodeInvalidRequest},
		{"hcl syntax", "app.hcl", `bundle "Demo" {`, apperrors.ErrCodeInvalidConfig},
		{"hcl no bundle", "app.hcl", `variable "x" {}`, apperrors.ErrCodeInvalidConfig},
		{"hcl two bundles", "app.hcl", "bundle \"A\" {}\nbundle \"B\" {}\n", apperrors.ErrCodeInvalidConfig},
		{"hcl unknown attribute", "app.hcl", "bundle \"A\" {\n  colour = \"red\"\n}\n", apperrors.ErrCodeInvalidConfig},
		{"hcl undefined variable", "app.hcl", "bundle \"A\" {\n  version = var.missing\n}\n", apperrors.ErrCodeInvalidConfig},
		{"hcl bad role", "app.hcl", "bundle \"A\" {\n  document_type \"T\" {\n    role = \"owner\"\n  }\n}\n", apperrors.ErrCodeInvalidConfig},
		{"yaml unknown field", "app.yaml", "name: Demo\ncolour: red\n", apperrors.ErrCodeInvalidConfig},
		{"yaml undefined reference", "app.yaml", "name: ${nope}\n", apperrors.ErrCodeInvalidConfig},
		{"yaml empty", "app.yaml", "", apperrors.ErrCodeInvalidConfig},
		{"yaml unknown pair field", "app.yaml", "name: A\ndocumentTypes:\n  - name: T\n    extensions:\n      - key: txt\n        enable: false\n", apperrors.ErrCodeInvalidConfig},
		{"yaml bad role", "app.yml", "name: A\ndocumentTypes:\n  - name: T\n    role: owner\n", apperrors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			_, err := Load(path, WithEnviron(nil))
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err), "got %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestLoadBytes_PreservesDeclarationOrder(t *testing.T) {
	src := `
bundle "Order" {
  document_type "B" {}
  document_type "A" {}
  document_type "C" {
    extension "z" {}
    extension "a" {}
  }
}
`
	d, err := LoadBytes([]byte(src), "order.hcl", WithEnviron(nil))
	require.NoError(t, err)

	var names []string
	for _, dt := range d.DocumentTypes() {
		names = append(names, dt.Name())
	}
	assert.Equal(t, []string{"B", "A", "C"}, names)

	exts := d.DocumentTypes()[2].Extensions()
	assert.Equal(t, "z", exts[0].Key())
	assert.Equal(t, "a", exts[1].Key())
}

func TestSyntaxFromPath(t *testing.T) {
	for path, want := range map[string]Syntax{
		"a.hcl":  SyntaxHCL,
		"a.HCL":  SyntaxHCL,
		"a.yaml": SyntaxYAML,
		"a.yml":  SyntaxYAML,
		"a.json": SyntaxYAML,
	} {
		got, err := SyntaxFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := SyntaxFromPath("a.xml")
	assert.Error(t, err)
}
