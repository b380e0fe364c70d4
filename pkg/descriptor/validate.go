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

package descriptor

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/appbundler/pkg/defaults"
	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
	"github.com/NVIDIA/appbundler/pkg/version"
)

var minimumSystemVersionFloor = version.MustParseVersion(defaults.MinimumSystemVersionFloor)

// ValidateOptions controls validation policy.
type ValidateOptions struct {
	// AllowUnnamedDocumentTypes renders document types with an empty name
	// instead of rejecting them.
	AllowUnnamedDocumentTypes bool
}

// Problem is a single validation failure. Path locates the offending
// field, e.g. "documentTypes[1].name".
type Problem struct {
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Path, p.Message)
}

// ValidationError collects every problem found in one validation pass.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return fmt.Sprintf("%d problem(s): %s", len(e.Problems), strings.Join(msgs, "; "))
}

type problems []Problem

func (ps *problems) add(path, format string, args ...any) {
	*ps = append(*ps, Problem{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Validate checks that the descriptor can be rendered. It returns nil or a
// StructuredError with code INVALID_CONFIG wrapping a *ValidationError.
func (d *Descriptor) Validate(opts ValidateOptions) error {
	var ps problems

	if strings.TrimSpace(d.name) == "" {
		ps.add("name", "application name is required")
	} else if strings.ContainsRune(d.name, '/') {
		ps.add("name", "application name %q must not contain '/'", d.name)
	}
	if d.identifier == "" {
		ps.add("identifier", "bundle identifier is required")
	}
	if d.mainClassName == "" {
		ps.add("mainClassName", "main class name is required")
	}
	if d.executableName == "" {
		ps.add("executableName", "executable name is required")
	} else if strings.ContainsRune(d.executableName, '/') {
		ps.add("executableName", "executable name %q must be a file name, not a path", d.executableName)
	}
	if !isCreatorCode(d.signature) {
		ps.add("signature", "signature %q must be exactly 4 ASCII characters", d.signature)
	}

	validateVersion(&ps, "shortVersion", d.shortVersion, true)
	validateVersion(&ps, "version", d.version, true)
	validateMinimumSystemVersion(&ps, d.minimumSystemVersion)

	for i, entry := range d.classPath {
		if strings.TrimSpace(entry) == "" {
			ps.add(fmt.Sprintf("classPath[%d]", i), "classpath entry is empty")
		}
	}

	for i, dt := range d.documentTypes {
		validateDocumentType(&ps, fmt.Sprintf("documentTypes[%d]", i), dt, opts)
	}

	if len(ps) == 0 {
		return nil
	}

	return apperrors.WrapWithContext(apperrors.ErrCodeInvalidConfig,
		fmt.Sprintf("bundle descriptor for %q is invalid", d.name),
		&ValidationError{Problems: ps},
		map[string]any{"problems": len(ps)},
	)
}

func validateDocumentType(ps *problems, path string, dt *DocumentType, opts ValidateOptions) {
	if dt == nil {
		ps.add(path, "document type is nil")
		return
	}
	if dt.name == "" && !opts.AllowUnnamedDocumentTypes {
		ps.add(path+".name", "document type name is required")
	}
	if !dt.role.IsValid() {
		ps.add(path+".role", "unknown role %d", int(dt.role))
	}
	validatePairs(ps, path+".extensions", dt.extensions)
	validatePairs(ps, path+".mimeTypes", dt.mimeTypes)
	validatePairs(ps, path+".osTypes", dt.osTypes)
}

func validatePairs(ps *problems, path string, kvs []KeyValue) {
	for i, kv := range kvs {
		if kv.key == "" {
			ps.add(fmt.Sprintf("%s[%d].key", path, i), "key is required")
		}
	}
}

func validateVersion(ps *problems, path, s string, required bool) {
	if s == "" {
		if required {
			ps.add(path, "version is required")
		}
		return
	}
	if _, err := version.ParseVersion(s); err != nil {
		ps.add(path, "invalid version %q: %v", s, err)
	}
}

func validateMinimumSystemVersion(ps *problems, s string) {
	if s == "" {
		return
	}
	v, err := version.ParseVersion(s)
	if err != nil {
		ps.add("minimumSystemVersion", "invalid version %q: %v", s, err)
		return
	}
	if !v.EqualsOrNewer(minimumSystemVersionFloor) {
		ps.add("minimumSystemVersion", "version %q is older than %s", s, minimumSystemVersionFloor)
	}
}

func isCreatorCode(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
