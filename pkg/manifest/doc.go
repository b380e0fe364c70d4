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

// Package manifest renders a validated bundle descriptor into an ordered
// tree of property-list nodes.
//
// The tree is the hand-off between the renderer and the serializers in
// pkg/serializer. Dictionary keys and array elements keep insertion order;
// serializers must not reorder them.
//
// Document type dictionaries follow these rules:
//
//   - CFBundleTypeName is always present
//   - CFBundleTypeIconFile holds the icon's base name and only appears when an icon is set
//   - CFBundleTypeRole is omitted for the none role
//   - extension, MIME type and OS type arrays contain only enabled values and
//     are omitted when empty
//
// Rendering is pure: it performs no I/O and never validates. Callers run
// descriptor.Validate first.
package manifest
