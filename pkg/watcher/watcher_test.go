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

package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
)

const waitTimeout = 5 * time.Second

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func startWatcher(t *testing.T, paths ...string) *Watcher {
	t.Helper()
	w, err := New(Config{Paths: paths, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w.Start(ctx)
	return w
}

func nextChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case ch, ok := <-w.Events():
		require.True(t, ok, "events channel closed")
		return ch
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for change")
	}
	return Change{}
}

func TestWatcherReportsChangedFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "bundle.hcl")
	other := filepath.Join(dir, "notes.txt")
	writeFile(t, cfg, "v1")

	w := startWatcher(t, cfg)

	writeFile(t, other, "ignored")
	writeFile(t, cfg, "v2")

	ch := nextChange(t, w)
	abs, err := filepath.Abs(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, ch.Paths)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.jar")
	writeFile(t, a, "a1")
	writeFile(t, b, "b1")

	w := startWatcher(t, a, b)

	writeFile(t, a, "a2")
	writeFile(t, b, "b2")
	writeFile(t, a, "a3")

	ch := nextChange(t, w)
	assert.Len(t, ch.Paths, 2)
}

func TestWatcherSkipsUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "same")
	writeFile(t, b, "b1")

	w := startWatcher(t, a, b)

	writeFile(t, a, "same")
	time.Sleep(200 * time.Millisecond)
	writeFile(t, b, "b2")

	ch := nextChange(t, w)
	absB, err := filepath.Abs(b)
	require.NoError(t, err)
	assert.Equal(t, []string{absB}, ch.Paths, "rewriting identical content is not a change")
}

func TestWatcherReportsRemoval(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "app.icns")
	writeFile(t, a, "icns")

	w := startWatcher(t, a)
	require.NoError(t, os.Remove(a))

	ch := nextChange(t, w)
	require.Len(t, ch.Paths, 1)
	assert.Equal(t, "app.icns", filepath.Base(ch.Paths[0]))
}

func TestWatcherAdd(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	writeFile(t, a, "a")

	w, err := New(Config{Paths: []string{a}})
	require.NoError(t, err)

	sub := filepath.Join(t.TempDir(), "lib")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	jar := filepath.Join(sub, "main.jar")
	writeFile(t, jar, "jar")

	require.NoError(t, w.Add(jar, a))
	assert.Len(t, w.Paths(), 2)

	err = w.Add(filepath.Join(t.TempDir(), "missing", "x.jar"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok, "events channel must close when the context is done")
	case <-time.After(waitTimeout):
		t.Fatal("events channel not closed")
	}
}

func TestWatcherReportsCreatedFile(t *testing.T) {
	dir := t.TempDir()
	icon := filepath.Join(dir, "app.icns")

	w := startWatcher(t, icon)
	writeFile(t, icon, "icns")

	ch := nextChange(t, w)
	abs, err := filepath.Abs(icon)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, ch.Paths)
}

func TestWatcherPatterns(t *testing.T) {
	lib := filepath.Join(t.TempDir(), "lib")
	require.NoError(t, os.MkdirAll(lib, 0o755))

	w, err := New(Config{
		Patterns: []string{filepath.Join(lib, "*.jar")},
		Debounce: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w.Start(ctx)

	writeFile(t, filepath.Join(lib, "notes.txt"), "ignored")
	jar := filepath.Join(lib, "dep.jar")
	writeFile(t, jar, "jar")

	ch := nextChange(t, w)
	abs, err := filepath.Abs(jar)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, ch.Paths)
}

func TestWatcherAddPatternsErrors(t *testing.T) {
	w, err := New(Config{})
	require.NoError(t, err)

	err = w.AddPatterns(filepath.Join(t.TempDir(), "missing", "*.jar"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))

	err = w.AddPatterns(filepath.Join(t.TempDir(), "[.jar"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidRequest))
}
