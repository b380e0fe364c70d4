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

// Package defaults provides centralized configuration constants for appbundler.
//
// This package defines the fixed Info.plist values, bundle layout names,
// concurrency limits and timeouts used across the codebase. Centralizing
// these values keeps the renderer, the resource collaborator and the CLI in
// agreement about what a generated bundle looks like.
//
// # Categories
//
//   - Manifest constants: values written verbatim into Info.plist
//   - Layout constants: directory and file names inside a .app bundle
//   - Execution limits: copy concurrency and watch debounce
//   - Timeouts: OCI registry operations
//
// # Usage
//
//	import "github.com/NVIDIA/appbundler/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
//	defer cancel()
package defaults
