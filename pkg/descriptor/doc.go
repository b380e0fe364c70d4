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

// Package descriptor holds the in-memory model of an application bundle:
// application identity, launcher, icon, classpath, JVM settings and the
// ordered list of document types the application handles.
//
// A Descriptor is assembled incrementally by a configuration loader through
// plain setters and Add* calls. Setters never validate, so a partially
// configured descriptor is always accepted during assembly. Validation is a
// separate explicit pass (Descriptor.Validate) run once before rendering; it
// reports every problem it finds in a single ValidationError.
//
// Ordering is significant throughout. Document types and their extension,
// MIME type and OS type lists keep the order in which they were added,
// because the host platform resolves document handlers by first match.
//
// Example:
//
//	d := descriptor.New("Demo")
//	d.SetIdentifier("com.example.demo")
//	d.SetMainClassName("com.example.Main")
//
//	dt := d.AddDocumentType()
//	dt.SetName("Text File")
//	dt.SetRole(descriptor.RoleViewer)
//	dt.AddExtension(descriptor.NewKeyValue("txt", "txt"))
//
//	if err := d.Validate(descriptor.ValidateOptions{}); err != nil {
//	    return err
//	}
package descriptor
