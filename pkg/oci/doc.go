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

// Package oci publishes generated application bundles as OCI artifacts
// using ORAS.
//
// A bundle directory is packed as a single gzip tar layer titled with the
// bundle's directory name (e.g., "Demo.app"), wrapped in an OCI 1.1 image
// manifest with artifact type ArtifactType.
//
// # Core Types
//
//   - Reference: parsed oci://registry/repository[:tag] target
//   - PackageOptions, PackageResult: local packaging into an OCI image layout
//   - PushOptions, PushResult: push from a local layout to a registry
//   - PublishOptions: package and push in one call
//
// # Usage
//
//	ref, err := oci.ParseReference("oci://ghcr.io/example/demo:1.0")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.PackageAndPush(ctx, oci.PublishOptions{
//	    BundleDir: "dist/Demo.app",
//	    WorkDir:   tmp,
//	    Reference: ref,
//	    Version:   "1.0",
//	})
//
// # Authentication
//
// Credentials are loaded from the standard Docker configuration
// (~/.docker/config.json) through the ORAS credentials package. When no
// configuration is available the push is anonymous.
//
// # Reproducibility
//
// Layer tarballs are written without timestamps. Setting
// PackageOptions.ReproducibleTimestamp pins the manifest creation
// annotation so identical bundles yield identical digests.
package oci
