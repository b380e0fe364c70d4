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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `name: Demo
identifier: com.example.demo
mainClassName: com.example.Main
shortVersion: ${version}
signature: DEMO
executable: bin/launcher
icon: icons/demo.icns
classPath:
  - lib/*.jar
documentTypes:
  - name: Text File
    role: viewer
    extensions: [txt]
`

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// project creates a description with its resources and returns its path.
func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "bin", "launcher"), "#!/bin/sh\n")
	writeTestFile(t, filepath.Join(dir, "icons", "demo.icns"), "icns")
	writeTestFile(t, filepath.Join(dir, "lib", "main.jar"), "main")
	writeTestFile(t, filepath.Join(dir, "lib", "util.jar"), "util")

	cfg := filepath.Join(dir, "app.yaml")
	writeTestFile(t, cfg, testConfig)
	return cfg
}

func runApp(t *testing.T, args ...string) error {
	t.Helper()
	return NewApp().Run(context.Background(), append([]string{name, "--log-level", "error"}, args...))
}

func TestBundleCommand(t *testing.T) {
	cfg := project(t)
	out := t.TempDir()
	report := filepath.Join(t.TempDir(), "report.json")
	metrics := filepath.Join(t.TempDir(), "metrics.prom")

	err := runApp(t, "bundle",
		"--config", cfg,
		"--output", out,
		"--var", "version=2.1",
		"--format", "json",
		"--report", report,
		"--metrics-file", metrics,
	)
	require.NoError(t, err)

	app := filepath.Join(out, "Demo.app")
	assert.FileExists(t, filepath.Join(app, "Contents", "Info.plist"))
	assert.FileExists(t, filepath.Join(app, "Contents", "Java", "util.jar"))
	assert.FileExists(t, filepath.Join(out, "Demo.app.sha256"))
	assert.FileExists(t, metrics)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var parsed struct {
		RunID   string `json:"run_id"`
		Results []struct {
			Name    string `json:"name"`
			Success bool   `json:"success"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.NotEmpty(t, parsed.RunID)
	require.Len(t, parsed.Results, 1)
	assert.Equal(t, "Demo", parsed.Results[0].Name)
	assert.True(t, parsed.Results[0].Success)

	info, err := os.ReadFile(filepath.Join(app, "Contents", "Info.plist"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "<string>2.1</string>")
}

func TestBundleCommandDryRun(t *testing.T) {
	cfg := project(t)
	out := filepath.Join(t.TempDir(), "dist")

	err := runApp(t, "bundle", "-c", cfg, "-o", out, "--var", "version=1.0", "--dry-run",
		"--report", filepath.Join(t.TempDir(), "report.yaml"))
	require.NoError(t, err)

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestBundleCommandErrors(t *testing.T) {
	cfg := project(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing config", args: []string{"bundle"}},
		{name: "undefined variable", args: []string{"bundle", "-c", cfg, "--dry-run"}},
		{name: "bad variable", args: []string{"bundle", "-c", cfg, "--var", "nope"}},
		{name: "bad report format", args: []string{"bundle", "-c", cfg, "--var", "version=1.0", "--format", "plist"}},
		{name: "push with dry run", args: []string{"bundle", "-c", cfg, "--var", "version=1.0", "--dry-run", "--push", "oci://ghcr.io/example/demo:1"}},
		{name: "bad push target", args: []string{"bundle", "-c", cfg, "--var", "version=1.0", "--push", "ghcr.io/example/demo"}},
		{name: "bad concurrency", args: []string{"bundle", "-c", cfg, "--var", "version=1.0", "--concurrency", "0", "--dry-run"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, runApp(t, tt.args...))
		})
	}
}

func TestRenderCommand(t *testing.T) {
	cfg := project(t)
	dir := t.TempDir()

	plistOut := filepath.Join(dir, "Info.plist")
	require.NoError(t, runApp(t, "render", "-c", cfg, "--var", "version=3.0", "-o", plistOut))

	data, err := os.ReadFile(plistOut)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, text, "<string>$APP_ROOT/Contents/Java/main.jar</string>")
	assert.Contains(t, text, "<string>$APP_ROOT/Contents/Java/util.jar</string>")
	assert.Contains(t, text, "<string>viewer</string>")

	jsonOut := filepath.Join(dir, "info.json")
	require.NoError(t, runApp(t, "render", "-c", cfg, "--var", "version=3.0", "--format", "json", "-o", jsonOut))
	data, err = os.ReadFile(jsonOut)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "3.0", parsed["CFBundleShortVersionString"])
}

func TestRenderCommandInvalid(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "app.yaml")
	writeTestFile(t, cfg, "name: Demo\n")

	err := runApp(t, "render", "-c", cfg, "-o", filepath.Join(dir, "out.plist"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identifier")
}

func TestValidateCommand(t *testing.T) {
	cfg := project(t)
	out := t.TempDir()
	require.NoError(t, runApp(t, "bundle", "-c", cfg, "-o", out, "--var", "version=1.0",
		"--report", filepath.Join(t.TempDir(), "r.yaml")))
	app := filepath.Join(out, "Demo.app")

	report := filepath.Join(t.TempDir(), "validate.json")
	require.NoError(t, runApp(t, "validate", "-c", cfg, "--var", "version=1.0", "-b", app,
		"--format", "json", "-o", report))

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var parsed validationReport
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed.Configs, 1)
	require.Len(t, parsed.Bundles, 1)
	assert.True(t, parsed.Configs[0].Valid)
	assert.True(t, parsed.Bundles[0].Valid)
	assert.Equal(t, "Demo", parsed.Bundles[0].Name)

	// Tamper with a jar and validation must fail.
	writeTestFile(t, filepath.Join(app, "Contents", "Java", "main.jar"), "changed")
	err = runApp(t, "validate", "-b", app, "-o", report)
	require.Error(t, err)

	data, err = os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "checksum mismatch: Demo.app/Contents/Java/main.jar")
}

func TestValidateCommandMissingClassPathEntry(t *testing.T) {
	cfg := project(t)
	out := t.TempDir()
	require.NoError(t, runApp(t, "bundle", "-c", cfg, "-o", out, "--var", "version=1.0",
		"--no-checksums", "--report", filepath.Join(t.TempDir(), "r.yaml")))
	app := filepath.Join(out, "Demo.app")

	report := filepath.Join(t.TempDir(), "validate.yaml")
	require.NoError(t, runApp(t, "validate", "-b", app, "-o", report),
		"bundles without a checksum listing still validate")

	require.NoError(t, os.Remove(filepath.Join(app, "Contents", "Java", "util.jar")))
	require.Error(t, runApp(t, "validate", "-b", app, "-o", report))

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "missing classpath entry: Contents/Java/util.jar")
}

func TestValidateCommandReportsProblems(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "app.yaml")
	writeTestFile(t, cfg, `name: Demo
identifier: com.example.demo
mainClassName: Main
icon: missing.icns
documentTypes:
  - extensions: [txt]
`)

	report := filepath.Join(dir, "report.json")
	err := runApp(t, "validate", "-c", cfg, "--format", "json", "-o", report)
	require.Error(t, err)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var parsed validationReport
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed.Configs, 1)
	assert.False(t, parsed.Configs[0].Valid)

	problems := strings.Join(parsed.Configs[0].Problems, "\n")
	assert.Contains(t, problems, "documentTypes[0].name")
	assert.Contains(t, problems, "missing.icns")

	assert.Error(t, runApp(t, "validate"), "validate needs --config or --bundle")
}

func TestInspectCommand(t *testing.T) {
	cfg := project(t)
	dir := t.TempDir()
	plistPath := filepath.Join(dir, "Info.plist")
	require.NoError(t, runApp(t, "render", "-c", cfg, "--var", "version=1.0", "-o", plistPath))

	tableOut := filepath.Join(dir, "info.txt")
	require.NoError(t, runApp(t, "inspect", "-f", plistPath, "-o", tableOut))
	data, err := os.ReadFile(tableOut)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "CFBundleDocumentTypes[0].CFBundleTypeRole")
	assert.Contains(t, text, "Viewer")
	assert.Less(t, strings.Index(text, "CFBundleDevelopmentRegion"), strings.Index(text, "CFBundleName"),
		"XML property lists keep key order")

	jsonOut := filepath.Join(dir, "info.json")
	require.NoError(t, runApp(t, "inspect", "-f", plistPath, "--format", "json", "-o", jsonOut))
	data, err = os.ReadFile(jsonOut)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"viewer"`)

	assert.Error(t, runApp(t, "inspect", "-f", filepath.Join(dir, "missing.plist")))
}
