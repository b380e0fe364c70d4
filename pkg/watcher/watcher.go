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

// Package watcher reports settled changes to a set of files.
//
// Directories containing the watched files are observed with fsnotify so
// that editors which replace files by rename are still detected. Events
// are debounced: a Change is emitted once no further event has arrived for
// the debounce delay, and only when the content of at least one watched
// file actually differs from the last seen version.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/NVIDIA/appbundler/pkg/bundler/checksum"
	"github.com/NVIDIA/appbundler/pkg/defaults"
	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
)

// Config configures a Watcher.
type Config struct {
	// Paths are the files to watch.
	Paths []string

	// Patterns are doublestar globs. Files matching a pattern are watched
	// even if they do not exist yet. Only the pattern's base directory is
	// observed.
	Patterns []string

	// Debounce is how long to wait for more changes before emitting.
	// Defaults to defaults.WatchDebounce.
	Debounce time.Duration

	// Logger for watcher events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Change lists the watched files whose content changed, sorted.
// A removed file is reported as changed.
type Change struct {
	Paths []string
}

// Watcher watches files and emits a Change per settled burst of edits.
type Watcher struct {
	debounce time.Duration
	fsw      *fsnotify.Watcher
	logger   *slog.Logger

	mu       sync.Mutex
	files    map[string]string // abs path → content hash, "" when missing
	patterns []string
	dirs     map[string]bool
	events   chan Change
}

// New creates a watcher for cfg.Paths. Watching starts with Start.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create file watcher", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaults.WatchDebounce
	}

	w := &Watcher{
		debounce: debounce,
		fsw:      fsw,
		logger:   logger,
		files:    make(map[string]string),
		dirs:     make(map[string]bool),
		events:   make(chan Change, 16),
	}

	if err := w.Add(cfg.Paths...); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if err := w.AddPatterns(cfg.Patterns...); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Add starts watching more files. Files already watched are ignored.
func (w *Watcher) Add(paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to resolve watch path", err)
		}
		if _, ok := w.files[abs]; ok {
			continue
		}

		if err := w.watchDir(filepath.Dir(abs)); err != nil {
			return err
		}
		w.files[abs] = hashFile(abs)
	}
	return nil
}

// AddPatterns starts watching files matching the given globs.
func (w *Watcher) AddPatterns(patterns ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range patterns {
		abs, err := filepath.Abs(p)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to resolve watch pattern", err)
		}
		if !doublestar.ValidatePathPattern(abs) {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "invalid watch pattern",
				map[string]any{"pattern": p})
		}
		if slices.Contains(w.patterns, abs) {
			continue
		}

		base, _ := doublestar.SplitPattern(filepath.ToSlash(abs))
		if err := w.watchDir(filepath.FromSlash(base)); err != nil {
			return err
		}
		w.patterns = append(w.patterns, abs)
	}
	return nil
}

// watchDir adds dir to the fsnotify watch list once. Callers hold w.mu.
func (w *Watcher) watchDir(dir string) error {
	if w.dirs[dir] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeNotFound, "failed to watch directory", err,
			map[string]any{"dir": dir})
	}
	w.dirs[dir] = true
	w.logger.Debug("watching directory", "path", dir)
	return nil
}

// Paths returns the watched files, sorted.
func (w *Watcher) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Events returns the channel of settled changes. It is closed when the
// context passed to Start is done.
func (w *Watcher) Events() <-chan Change {
	return w.events
}

// Start begins processing file system events until ctx is done.
func (w *Watcher) Start(ctx context.Context) {
	go w.processEvents(ctx)

	w.logger.Info("file watcher started",
		"files", len(w.Paths()),
		"debounce", w.debounce)
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	defer func() { _ = w.fsw.Close() }()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.isWatched(event.Name) {
				continue
			}
			w.logger.Debug("file change detected", "path", event.Name, "op", event.Op.String())
			pending[filepath.Clean(event.Name)] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-timer.C:
			if change, ok := w.settle(pending); ok {
				select {
				case w.events <- change:
				case <-ctx.Done():
					return
				}
			}
			pending = make(map[string]bool)
		}
	}
}

func (w *Watcher) isWatched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[abs]; ok {
		return true
	}
	for _, p := range w.patterns {
		if ok, _ := doublestar.PathMatch(p, abs); ok {
			return true
		}
	}
	return false
}

// settle re-hashes pending files and returns those whose content changed.
func (w *Watcher) settle(pending map[string]bool) (Change, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var changed []string
	for p := range pending {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		sum := hashFile(abs)
		if sum == w.files[abs] {
			continue
		}
		w.files[abs] = sum
		changed = append(changed, abs)
	}
	if len(changed) == 0 {
		return Change{}, false
	}
	sort.Strings(changed)
	return Change{Paths: changed}, true
}

func hashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return checksum.Sum(data)
}
