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

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role describes how the application handles a document type.
// The zero value is RoleNone.
type Role int

const (
	RoleNone Role = iota
	RoleEditor
	RoleViewer
	RoleShell
)

var roleTags = [...]string{
	RoleNone:   "none",
	RoleEditor: "editor",
	RoleViewer: "viewer",
	RoleShell:  "shell",
}

// Roles returns every role in declaration order.
func Roles() []Role {
	return []Role{RoleNone, RoleEditor, RoleViewer, RoleShell}
}

// String returns the lowercase tag written into manifests.
func (r Role) String() string {
	if r < RoleNone || int(r) >= len(roleTags) {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleTags[r]
}

// Title returns the display form of the role, e.g. "Viewer".
func (r Role) Title() string {
	// Casers carry state and are not shared between goroutines.
	return cases.Title(language.English).String(r.String())
}

// IsValid reports whether r is one of the declared roles.
func (r Role) IsValid() bool {
	return r >= RoleNone && int(r) < len(roleTags)
}

// ParseRole parses a role name in any casing. The empty string is RoleNone.
func ParseRole(s string) (Role, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	if tag == "" {
		return RoleNone, nil
	}
	for i, t := range roleTags {
		if t == tag {
			return Role(i), nil
		}
	}
	return RoleNone, fmt.Errorf("unknown document role %q (must be one of editor, viewer, shell, none)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
