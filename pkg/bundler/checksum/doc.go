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

// Package checksum writes and verifies SHA256 listings for generated bundles.
//
// GenerateChecksums walks a bundle directory and writes <Name>.app.sha256
// next to it, one line per file, sorted by path. Paths are relative to the
// directory holding the bundle, so the listing can be checked in place:
//
//	err := checksum.GenerateChecksums(ctx, "/out/Demo.app")
//	if err != nil {
//	    return err
//	}
//
// The file format is compatible with sha256sum:
//
//	cd /out && sha256sum -c Demo.app.sha256
package checksum
