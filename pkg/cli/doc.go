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

// Package cli implements the appbundler command-line interface.
//
// # Commands
//
// bundle - Build application bundles:
//
//	appbundler bundle --config app.hcl --output dist [--dry-run] [--watch]
//
// Loads each description, validates it, resolves its resources and writes
// <output>/<Name>.app together with a SHA256 listing. --push publishes a
// single bundle to an OCI registry; --metrics-file exports Prometheus
// metrics after each run.
//
// render - Print a manifest:
//
//	appbundler render --config app.yaml [--format plist|json|yaml|table]
//
// validate - Check descriptions and bundles:
//
//	appbundler validate --config app.hcl --bundle dist/Demo.app
//
// inspect - Decode an existing Info.plist:
//
//	appbundler inspect --file dist/Demo.app/Contents/Info.plist
//
// # Global Flags
//
//	--log-level    debug, info, warn, error (default: info, env LOG_LEVEL)
//	--log-format   text or json (default: text)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, validation or build failure)
//	2  Interrupted or timed out
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/appbundler/pkg/cli.version=1.0.0'"
package cli
