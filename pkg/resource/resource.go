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

// Package resource resolves the files a bundle descriptor refers to and
// copies them into the bundle layout.
//
// Resolve checks that the launcher, the application icon, document type
// icons and classpath entries exist, expands classpath glob patterns
// (including ** via doublestar) and maps every file to its destination
// under Contents/. Names that would collide inside the bundle are
// rejected. Nothing is written until CopyAll runs.
//
// CopyAll copies a plan with bounded concurrency and stops at the first
// failure.
package resource

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/NVIDIA/appbundler/pkg/defaults"
	"github.com/NVIDIA/appbundler/pkg/descriptor"
	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
	"github.com/NVIDIA/appbundler/pkg/manifest"
)

// Copy is one file to place in the bundle. Dst is slash-separated and
// relative to the bundle root.
type Copy struct {
	Src  string
	Dst  string
	Mode os.FileMode
}

// Plan lists every file a bundle needs besides the generated ones.
type Plan struct {
	Launcher  *Copy
	Icons     []Copy
	ClassPath []Copy
}

// Copies returns all planned copies: launcher, icons, then classpath.
func (p *Plan) Copies() []Copy {
	out := make([]Copy, 0, 1+len(p.Icons)+len(p.ClassPath))
	if p.Launcher != nil {
		out = append(out, *p.Launcher)
	}
	out = append(out, p.Icons...)
	return append(out, p.ClassPath...)
}

// ClassPathNames returns the jar file names in classpath order, as the
// launcher sees them under Contents/Java.
func (p *Plan) ClassPathNames() []string {
	names := make([]string, len(p.ClassPath))
	for i, c := range p.ClassPath {
		names[i] = path.Base(c.Dst)
	}
	return names
}

// Sources returns the resolved source files, sorted.
func (p *Plan) Sources() []string {
	copies := p.Copies()
	out := make([]string, 0, len(copies))
	for _, c := range copies {
		out = append(out, c.Src)
	}
	sort.Strings(out)
	return out
}

// Resolve builds the copy plan for d. Every missing file is reported in a
// single RESOURCE error whose context lists the offending paths.
func Resolve(d *descriptor.Descriptor) (*Plan, error) {
	r := &resolver{
		plan:  &Plan{},
		taken: make(map[string]string),
	}

	if exe := d.Executable(); exe != "" {
		if c, ok := r.file("executable", exe, path.Join(defaults.ContentsDir, defaults.MacOSDir, d.ExecutableName()), 0o755); ok {
			r.plan.Launcher = &c
		}
	}

	if icon := d.Icon(); icon != "" {
		r.icon("icon", icon)
	}
	for i, dt := range d.DocumentTypes() {
		if dt.HasIcon() {
			r.icon(fmt.Sprintf("documentTypes[%d].icon", i), dt.Icon())
		}
	}

	for i, entry := range d.ClassPath() {
		r.classPath(fmt.Sprintf("classPath[%d]", i), entry)
	}

	if len(r.problems) > 0 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeResource,
			fmt.Sprintf("%d resource problem(s): %s", len(r.problems), strings.Join(r.problems, "; ")),
			map[string]any{"problems": r.problems})
	}
	return r.plan, nil
}

type resolver struct {
	plan     *Plan
	taken    map[string]string // bundle destination -> source
	problems []string
}

func (r *resolver) addProblem(field, format string, args ...any) {
	r.problems = append(r.problems, field+": "+fmt.Sprintf(format, args...))
}

// file checks src and reserves dst. A second reservation of the same
// destination from the same source is dropped silently.
func (r *resolver) file(field, src, dst string, mode os.FileMode) (Copy, bool) {
	info, err := os.Stat(src)
	if err != nil {
		r.addProblem(field, "%s: %v", src, unwrapPathError(err))
		return Copy{}, false
	}
	if !info.Mode().IsRegular() {
		r.addProblem(field, "%s is not a regular file", src)
		return Copy{}, false
	}
	if prev, ok := r.taken[dst]; ok {
		if prev != src {
			r.addProblem(field, "%s and %s both map to %s", prev, src, dst)
		}
		return Copy{}, false
	}
	r.taken[dst] = src
	if mode == 0 {
		mode = info.Mode().Perm()
	}
	return Copy{Src: src, Dst: dst, Mode: mode}, true
}

func (r *resolver) icon(field, src string) {
	dst := path.Join(defaults.ContentsDir, defaults.ResourcesDir, manifest.ResourceName(src))
	if c, ok := r.file(field, src, dst, 0o644); ok {
		r.plan.Icons = append(r.plan.Icons, c)
	}
}

func (r *resolver) classPath(field, entry string) {
	sources := []string{entry}
	if manifest.IsGlob(entry) {
		matches, err := doublestar.FilepathGlob(entry, doublestar.WithFilesOnly())
		if err != nil {
			r.addProblem(field, "bad pattern %q: %v", entry, err)
			return
		}
		if len(matches) == 0 {
			r.addProblem(field, "no files match %q", entry)
			return
		}
		sort.Strings(matches)
		sources = matches
	}

	for _, src := range sources {
		dst := path.Join(defaults.ContentsDir, defaults.JavaDir, manifest.ResourceName(src))
		if c, ok := r.file(field, src, dst, 0o644); ok {
			r.plan.ClassPath = append(r.plan.ClassPath, c)
		}
	}
}

func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
