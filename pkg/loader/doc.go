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

// Package loader reads a bundle configuration file and replays it as an
// ordered sequence of registration calls on a descriptor.Descriptor.
//
// Two syntaxes are supported, chosen by file extension:
//
//   - .hcl: HashiCorp HCL v2. A single bundle block, labelled with the
//     application name, plus optional variable blocks. Expressions can
//     reference var.<name> (variable defaults overridden by WithVariables)
//     and env.<NAME> (the process environment).
//   - .yaml, .yml, .json: a YAML document (JSON is valid YAML). String
//     values may reference ${name}, resolved against variables then the
//     environment.
//
// Example HCL:
//
//	variable "version" {
//	  default = "1.0"
//	}
//
//	bundle "Demo" {
//	  identifier      = "com.example.demo"
//	  main_class_name = "com.example.Main"
//	  short_version   = var.version
//	  classpath       = ["lib/*.jar"]
//
//	  document_type "Text File" {
//	    role = "viewer"
//	    extension "txt" {}
//	    mime_type "text/plain" {}
//	  }
//	}
//
// Declaration order is preserved: document types, and the extensions, MIME
// types and OS types inside each, are registered in the order they appear.
// Relative resource paths (icon, executable, classpath, document type
// icons) are resolved against the directory holding the configuration file.
//
// The loader performs no validation beyond syntax and role names. Call
// Descriptor.Validate before rendering.
package loader
