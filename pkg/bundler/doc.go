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

/*
Package bundler assembles macOS application bundles from descriptors.

A bundle is the directory <Name>.app with the layout:

	<Name>.app/
	  Contents/
	    Info.plist        rendered manifest
	    PkgInfo           "APPL" followed by the signature
	    MacOS/<exe>       launcher, mode 0755
	    Resources/*.icns  application and document icons
	    Java/*.jar        classpath entries

# Core Components

  - DefaultBundler: validates, renders and writes one bundle per Make call
  - config.Config: immutable bundler options
  - result.Result: outcome of a single bundle
  - result.Output: aggregated outcome of MakeAll
  - checksum: SHA256 listing written next to the bundle

# Quick Start

	d := descriptor.New("Demo")
	d.SetIdentifier("com.example.demo")
	d.SetMainClassName("com.example.Main")

	b, err := bundler.New()
	if err != nil {
		return err
	}
	res, err := b.Make(ctx, d, "./dist")

Customize with functional options:

	b, err := bundler.New(bundler.WithConfig(config.NewConfig(
	    config.WithDryRun(true),
	    config.WithIncludeChecksums(false),
	)))

# Failure Semantics

A bundle is written to a hidden staging directory and renamed into place
once complete. Validation, resource and serialization failures leave the
output directory as it was. MakeAll builds bundles concurrently and keeps
going after a failure, reporting every outcome in result.Output.

# Metrics

Generation counts, durations, sizes and per-stage errors are recorded in
the default Prometheus registry under the appbundler_ prefix. WriteMetrics
exports them to a textfile.
*/
package bundler
