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

package defaults

import "time"

// Manifest constants written into every Info.plist.
const (
	// DevelopmentRegion is the CFBundleDevelopmentRegion value.
	DevelopmentRegion = "English"

	// InfoDictionaryVersion is the CFBundleInfoDictionaryVersion value.
	InfoDictionaryVersion = "6.0"

	// PackageType is the CFBundlePackageType value for applications.
	PackageType = "APPL"

	// Signature is the CFBundleSignature used when none is configured.
	Signature = "????"

	// ShortVersion is the CFBundleShortVersionString used when none is configured.
	ShortVersion = "1.0"

	// BuildVersion is the CFBundleVersion used when none is configured.
	BuildVersion = "1"

	// ExecutableName is the launcher name used when none is configured.
	ExecutableName = "JavaAppLauncher"

	// AppRootVariable is expanded by the launcher to the bundle root.
	AppRootVariable = "$APP_ROOT"

	// MinimumSystemVersionFloor is the oldest LSMinimumSystemVersion the
	// launcher runs on.
	MinimumSystemVersionFloor = "10.7"
)

// Bundle layout.
const (
	// BundleExtension is appended to the application name to form the bundle directory.
	BundleExtension = ".app"

	// ContentsDir is the top-level directory inside a bundle.
	ContentsDir = "Contents"

	// MacOSDir holds the launcher executable.
	MacOSDir = "MacOS"

	// ResourcesDir holds icons and other resources.
	ResourcesDir = "Resources"

	// JavaDir holds classpath jars.
	JavaDir = "Java"

	// InfoPlistFile is the manifest file name.
	InfoPlistFile = "Info.plist"

	// PkgInfoFile is the legacy type/creator file name.
	PkgInfoFile = "PkgInfo"

	// ChecksumExtension is appended to the bundle directory name for the checksum file.
	ChecksumExtension = ".sha256"
)

// Execution limits.
const (
	// CopyConcurrency is the default number of concurrent resource copies.
	CopyConcurrency = 4

	// MaxCopyConcurrency bounds the configurable copy concurrency.
	MaxCopyConcurrency = 64

	// WatchDebounce is how long the watcher waits for writes to settle.
	WatchDebounce = 250 * time.Millisecond
)

// Timeouts for OCI registry operations.
const (
	// OCIPushTimeout is the maximum duration for packaging and pushing a bundle.
	OCIPushTimeout = 5 * time.Minute
)
