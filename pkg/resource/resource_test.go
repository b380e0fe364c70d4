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

package resource

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/appbundler/pkg/descriptor"
	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
)

func touch(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fixture(t *testing.T) (string, *descriptor.Descriptor) {
	t.Helper()
	src := t.TempDir()
	touch(t, filepath.Join(src, "bin", "launcher"), "#!/bin/sh\n")
	touch(t, filepath.Join(src, "icons", "app.icns"), "icns")
	touch(t, filepath.Join(src, "icons", "doc.icns"), "doc")
	touch(t, filepath.Join(src, "lib", "b.jar"), "bbb")
	touch(t, filepath.Join(src, "lib", "a.jar"), "aa")
	touch(t, filepath.Join(src, "lib", "nested", "c.jar"), "c")
	touch(t, filepath.Join(src, "main.jar"), "main")

	d := descriptor.New("Demo")
	d.SetExecutable(filepath.Join(src, "bin", "launcher"))
	d.SetIcon(filepath.Join(src, "icons", "app.icns"))
	d.AddClassPath(filepath.Join(src, "main.jar"))
	d.AddClassPath(filepath.Join(src, "lib", "**", "*.jar"))

	text := d.AddDocumentType()
	text.SetName("Text")
	text.SetIcon(filepath.Join(src, "icons", "doc.icns"))

	other := d.AddDocumentType()
	other.SetName("Other")
	other.SetIcon(filepath.Join(src, "icons", "doc.icns"))

	return src, d
}

func TestResolve(t *testing.T) {
	src, d := fixture(t)

	plan, err := Resolve(d)
	require.NoError(t, err)

	require.NotNil(t, plan.Launcher)
	assert.Equal(t, "Contents/MacOS/JavaAppLauncher", plan.Launcher.Dst)
	assert.Equal(t, os.FileMode(0o755), plan.Launcher.Mode)

	require.Len(t, plan.Icons, 2, "shared document icon is copied once")
	assert.Equal(t, "Contents/Resources/app.icns", plan.Icons[0].Dst)
	assert.Equal(t, "Contents/Resources/doc.icns", plan.Icons[1].Dst)

	assert.Equal(t, []string{"main.jar", "a.jar", "b.jar", "c.jar"}, plan.ClassPathNames())
	assert.Equal(t, filepath.Join(src, "lib", "a.jar"), plan.ClassPath[1].Src)
	assert.Len(t, plan.Copies(), 7)
	assert.Len(t, plan.Sources(), 7)
}

func TestResolve_Problems(t *testing.T) {
	src := t.TempDir()
	touch(t, filepath.Join(src, "one", "dup.jar"), "1")
	touch(t, filepath.Join(src, "two", "dup.jar"), "2")

	d := descriptor.New("Broken")
	d.SetExecutable(filepath.Join(src, "missing-launcher"))
	d.SetIcon(src)
	d.AddClassPath(filepath.Join(src, "one", "dup.jar"))
	d.AddClassPath(filepath.Join(src, "two", "dup.jar"))
	d.AddClassPath(filepath.Join(src, "none", "*.jar"))

	_, err := Resolve(d)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeResource))

	var se *apperrors.StructuredError
	require.ErrorAs(t, err, &se)
	problems, ok := se.Context["problems"].([]string)
	require.True(t, ok)
	assert.Len(t, problems, 4)
	assert.Contains(t, problems[0], "executable")
	assert.Contains(t, problems[1], "not a regular file")
	assert.Contains(t, problems[2], "both map to Contents/Java/dup.jar")
	assert.Contains(t, problems[3], "no files match")
}

func TestResolve_NoResources(t *testing.T) {
	plan, err := Resolve(descriptor.New("Empty"))
	require.NoError(t, err)
	assert.Nil(t, plan.Launcher)
	assert.Empty(t, plan.Copies())
	assert.Empty(t, plan.ClassPathNames())
}

func TestCopyAll(t *testing.T) {
	_, d := fixture(t)
	plan, err := Resolve(d)
	require.NoError(t, err)

	root := filepath.Join(t.TempDir(), "Demo.app")
	n, err := CopyAll(context.Background(), root, plan.Copies(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(len("#!/bin/sh\n")+len("icns")+len("doc")+len("main")+len("aa")+len("bbb")+len("c")), n)

	data, err := os.ReadFile(filepath.Join(root, "Contents", "Java", "b.jar"))
	require.NoError(t, err)
	assert.Equal(t, "bbb", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(root, "Contents", "MacOS", "JavaAppLauncher"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}
}

func TestCopyAll_Failure(t *testing.T) {
	copies := []Copy{{Src: filepath.Join(t.TempDir(), "gone.jar"), Dst: "Contents/Java/gone.jar", Mode: 0o644}}

	_, err := CopyAll(context.Background(), t.TempDir(), copies, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeResource))
}

func TestCopyAll_Cancelled(t *testing.T) {
	_, d := fixture(t)
	plan, err := Resolve(d)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = CopyAll(ctx, t.TempDir(), plan.Copies(), 1)
	assert.ErrorIs(t, err, context.Canceled)
}
