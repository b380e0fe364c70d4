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

// DocumentType declares a kind of document the application can open and
// how it handles it. All mutators are last-write-wins or append-only and
// perform no validation.
type DocumentType struct {
	name       string
	icon       string
	role       Role
	extensions []KeyValue
	mimeTypes  []KeyValue
	osTypes    []KeyValue
}

// NewDocumentType returns an empty document type with RoleNone.
func NewDocumentType() *DocumentType {
	return &DocumentType{}
}

// SetName sets the display name of the document type.
func (dt *DocumentType) SetName(name string) { dt.name = name }

// SetIcon sets the path to the document icon. An empty path clears it.
func (dt *DocumentType) SetIcon(path string) { dt.icon = path }

// SetRole sets how the application handles the document type.
func (dt *DocumentType) SetRole(r Role) { dt.role = r }

// AddExtension appends a file extension entry.
func (dt *DocumentType) AddExtension(kv KeyValue) { dt.extensions = append(dt.extensions, kv) }

// AddMimeType appends a MIME type entry.
func (dt *DocumentType) AddMimeType(kv KeyValue) { dt.mimeTypes = append(dt.mimeTypes, kv) }

// AddOSType appends a classic four-character OS type entry.
func (dt *DocumentType) AddOSType(kv KeyValue) { dt.osTypes = append(dt.osTypes, kv) }

// Name returns the document type name.
func (dt *DocumentType) Name() string { return dt.name }

// Icon returns the icon path, or "" when unset.
func (dt *DocumentType) Icon() string { return dt.icon }

// HasIcon reports whether an icon path was set.
func (dt *DocumentType) HasIcon() bool { return dt.icon != "" }

// Role returns the document role.
func (dt *DocumentType) Role() Role { return dt.role }

// Extensions returns the extension entries in insertion order.
func (dt *DocumentType) Extensions() []Pair { return pairs(dt.extensions) }

// MimeTypes returns the MIME type entries in insertion order.
func (dt *DocumentType) MimeTypes() []Pair { return pairs(dt.mimeTypes) }

// OSTypes returns the OS type entries in insertion order.
func (dt *DocumentType) OSTypes() []Pair { return pairs(dt.osTypes) }
