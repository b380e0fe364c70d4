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

package manifest

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/appbundler/pkg/defaults"
	"github.com/NVIDIA/appbundler/pkg/descriptor"
)

// Info.plist keys written by Render.
const (
	KeyDevelopmentRegion     = "CFBundleDevelopmentRegion"
	KeyExecutable            = "CFBundleExecutable"
	KeyIconFile              = "CFBundleIconFile"
	KeyIdentifier            = "CFBundleIdentifier"
	KeyDisplayName           = "CFBundleDisplayName"
	KeyInfoDictionaryVersion = "CFBundleInfoDictionaryVersion"
	KeyName                  = "CFBundleName"
	KeyPackageType           = "CFBundlePackageType"
	KeyShortVersion          = "CFBundleShortVersionString"
	KeySignature             = "CFBundleSignature"
	KeyVersion               = "CFBundleVersion"
	KeyCategory              = "LSApplicationCategoryType"
	KeyMinimumSystemVersion  = "LSMinimumSystemVersion"
	KeyCopyright             = "NSHumanReadableCopyright"
	KeyHighResolution        = "NSHighResolutionCapable"
	KeyMainClassName         = "JVMMainClassName"
	KeyClassPath             = "JVMClassPath"
	KeyJVMOptions            = "JVMOptions"
	KeyJVMArguments          = "JVMArguments"
	KeyDocumentTypes         = "CFBundleDocumentTypes"
)

// Document type dictionary keys.
const (
	KeyTypeName       = "CFBundleTypeName"
	KeyTypeIconFile   = "CFBundleTypeIconFile"
	KeyTypeRole       = "CFBundleTypeRole"
	KeyTypeExtensions = "CFBundleTypeExtensions"
	KeyTypeMIMETypes  = "CFBundleTypeMIMETypes"
	KeyTypeOSTypes    = "CFBundleTypeOSTypes"
)

// RenderOptions carries values resolved outside the renderer.
type RenderOptions struct {
	// ClassPath lists the jar file names placed in Contents/Java, in order.
	// When nil, the descriptor's classpath entries are used directly and
	// glob patterns among them are skipped.
	ClassPath []string
}

// Render builds the Info.plist dictionary for d.
func Render(d *descriptor.Descriptor, opts RenderOptions) *Node {
	root := Dict()

	root.SetString(KeyDevelopmentRegion, defaults.DevelopmentRegion)
	root.SetString(KeyExecutable, d.ExecutableName())
	if d.Icon() != "" {
		root.SetString(KeyIconFile, ResourceName(d.Icon()))
	}
	root.SetString(KeyIdentifier, d.Identifier())
	if d.DisplayName() != "" {
		root.SetString(KeyDisplayName, d.DisplayName())
	}
	root.SetString(KeyInfoDictionaryVersion, defaults.InfoDictionaryVersion)
	root.SetString(KeyName, d.Name())
	root.SetString(KeyPackageType, defaults.PackageType)
	root.SetString(KeyShortVersion, d.ShortVersion())
	root.SetString(KeySignature, d.Signature())
	root.SetString(KeyVersion, d.Version())
	setIfNotEmpty(root, KeyCategory, d.Category())
	setIfNotEmpty(root, KeyMinimumSystemVersion, d.MinimumSystemVersion())
	setIfNotEmpty(root, KeyCopyright, d.Copyright())
	root.Set(KeyHighResolution, Bool(d.HighResolutionCapable()))
	root.SetString(KeyMainClassName, d.MainClassName())

	if jars := classPathNames(d, opts); len(jars) > 0 {
		arr := Array()
		for _, jar := range jars {
			arr.Append(String(path.Join(defaults.AppRootVariable, defaults.ContentsDir, defaults.JavaDir, jar)))
		}
		root.Set(KeyClassPath, arr)
	}
	if jvmOpts := d.JVMOptions(); len(jvmOpts) > 0 {
		root.Set(KeyJVMOptions, Strings(jvmOpts...))
	}
	if args := d.Arguments(); len(args) > 0 {
		root.Set(KeyJVMArguments, Strings(args...))
	}

	if dts := d.DocumentTypes(); len(dts) > 0 {
		arr := Array()
		for _, dt := range dts {
			arr.Append(RenderDocumentType(dt))
		}
		root.Set(KeyDocumentTypes, arr)
	}

	return root
}

// RenderDocumentType builds the dictionary for a single document type.
func RenderDocumentType(dt *descriptor.DocumentType) *Node {
	dict := Dict()
	dict.SetString(KeyTypeName, dt.Name())
	if dt.HasIcon() {
		dict.SetString(KeyTypeIconFile, ResourceName(dt.Icon()))
	}
	if dt.Role() != descriptor.RoleNone {
		dict.SetString(KeyTypeRole, dt.Role().String())
	}
	setEnabledValues(dict, KeyTypeExtensions, dt.Extensions())
	setEnabledValues(dict, KeyTypeMIMETypes, dt.MimeTypes())
	setEnabledValues(dict, KeyTypeOSTypes, dt.OSTypes())
	return dict
}

// ResourceName returns the name a resource has inside Contents/Resources.
func ResourceName(p string) string {
	return filepath.Base(filepath.FromSlash(p))
}

// IsGlob reports whether a classpath entry is a pattern rather than a path.
func IsGlob(entry string) bool {
	return strings.ContainsAny(entry, "*?[{")
}

func setEnabledValues(dict *Node, key string, ps []descriptor.Pair) {
	arr := Array()
	for _, p := range ps {
		if p.IsEnabled() {
			arr.Append(String(p.Value()))
		}
	}
	if arr.Len() > 0 {
		dict.Set(key, arr)
	}
}

func setIfNotEmpty(dict *Node, key, value string) {
	if value != "" {
		dict.SetString(key, value)
	}
}

func classPathNames(d *descriptor.Descriptor, opts RenderOptions) []string {
	if opts.ClassPath != nil {
		return opts.ClassPath
	}
	var names []string
	for _, entry := range d.ClassPath() {
		if IsGlob(entry) {
			continue
		}
		names = append(names, ResourceName(entry))
	}
	return names
}
