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

// Package config provides configuration options for the bundle builder.
//
// This package defines an immutable configuration structure built with the
// functional options pattern. The bundler reads it through getters only.
//
// # Configuration Options
//
//   - IncludeChecksums: Write <Name>.app.sha256 next to the bundle
//   - IncludePkgInfo: Write Contents/PkgInfo
//   - AllowUnnamedDocumentTypes: Render document types without a name
//   - CopyConcurrency: Number of resource files copied at once
//   - Overwrite: Replace an existing bundle directory
//   - Lint: Re-read the rendered Info.plist with an independent decoder
//   - DryRun: Resolve, render and report without writing
//   - Variables: Values for var.* references in configuration files
//   - Version: Tool version recorded in the result
//   - Verbose: Enable verbose output
//
// # Usage
//
//	cfg := config.NewConfig(
//	    config.WithIncludeChecksums(true),
//	    config.WithCopyConcurrency(8),
//	)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Defaults
//
//   - IncludeChecksums: true
//   - IncludePkgInfo: true
//   - AllowUnnamedDocumentTypes: false
//   - CopyConcurrency: defaults.CopyConcurrency
//   - Overwrite: true
//   - Lint: true
//   - DryRun: false
//   - Version: "dev"
//
// Config is immutable after creation, safe for concurrent use.
package config
