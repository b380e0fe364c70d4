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

package descriptor

import "github.com/NVIDIA/appbundler/pkg/defaults"

// Descriptor is the root of the bundle model. It owns its document types
// exclusively; document types hold no reference back to it.
type Descriptor struct {
	name                  string
	displayName           string
	identifier            string
	shortVersion          string
	version               string
	signature             string
	copyright             string
	category              string
	minimumSystemVersion  string
	executableName        string
	executable            string
	icon                  string
	mainClassName         string
	highResolutionCapable bool
	classPath             []string
	jvmOptions            []string
	arguments             []string
	documentTypes         []*DocumentType
}

// New returns a descriptor for the named application with the platform
// defaults applied.
func New(name string) *Descriptor {
	return &Descriptor{
		name:                  name,
		shortVersion:          defaults.ShortVersion,
		version:               defaults.BuildVersion,
		signature:             defaults.Signature,
		executableName:        defaults.ExecutableName,
		highResolutionCapable: true,
	}
}

// SetName sets CFBundleName and the bundle directory name.
func (d *Descriptor) SetName(s string) { d.name = s }

// SetDisplayName sets CFBundleDisplayName.
func (d *Descriptor) SetDisplayName(s string) { d.displayName = s }

// SetIdentifier sets the reverse-DNS CFBundleIdentifier.
func (d *Descriptor) SetIdentifier(s string) { d.identifier = s }

// SetShortVersion sets the user-visible CFBundleShortVersionString.
func (d *Descriptor) SetShortVersion(s string) { d.shortVersion = s }

// SetVersion sets the build number (CFBundleVersion).
func (d *Descriptor) SetVersion(s string) { d.version = s }

// SetSignature sets the four-character creator code.
func (d *Descriptor) SetSignature(s string) { d.signature = s }

// SetCopyright sets NSHumanReadableCopyright.
func (d *Descriptor) SetCopyright(s string) { d.copyright = s }

// SetCategory sets LSApplicationCategoryType.
func (d *Descriptor) SetCategory(s string) { d.category = s }

// SetMinimumSystemVersion sets LSMinimumSystemVersion.
func (d *Descriptor) SetMinimumSystemVersion(s string) { d.minimumSystemVersion = s }

// SetExecutableName sets the launcher file name inside Contents/MacOS.
func (d *Descriptor) SetExecutableName(s string) { d.executableName = s }

// SetExecutable sets the path of the launcher binary copied into the bundle.
func (d *Descriptor) SetExecutable(path string) { d.executable = path }

// SetIcon sets the path of the application icon.
func (d *Descriptor) SetIcon(path string) { d.icon = path }

// SetMainClassName sets the fully qualified Java main class.
func (d *Descriptor) SetMainClassName(s string) { d.mainClassName = s }

// SetHighResolutionCapable sets NSHighResolutionCapable.
func (d *Descriptor) SetHighResolutionCapable(b bool) { d.highResolutionCapable = b }

// AddClassPath appends a classpath entry. Entries may be file paths or
// doublestar glob patterns resolved by the resource collaborator.
func (d *Descriptor) AddClassPath(entry string) { d.classPath = append(d.classPath, entry) }

// AddJVMOption appends a JVM option such as "-Xmx512m".
func (d *Descriptor) AddJVMOption(opt string) { d.jvmOptions = append(d.jvmOptions, opt) }

// AddArgument appends an argument passed to the main class.
func (d *Descriptor) AddArgument(arg string) { d.arguments = append(d.arguments, arg) }

// AddDocumentType appends a new, empty document type and returns it for
// further configuration.
func (d *Descriptor) AddDocumentType() *DocumentType {
	dt := NewDocumentType()
	d.documentTypes = append(d.documentTypes, dt)
	return dt
}

func (d *Descriptor) Name() string                 { return d.name }
func (d *Descriptor) DisplayName() string          { return d.displayName }
func (d *Descriptor) Identifier() string           { return d.identifier }
func (d *Descriptor) ShortVersion() string         { return d.shortVersion }
func (d *Descriptor) Version() string              { return d.version }
func (d *Descriptor) Signature() string            { return d.signature }
func (d *Descriptor) Copyright() string            { return d.copyright }
func (d *Descriptor) Category() string             { return d.category }
func (d *Descriptor) MinimumSystemVersion() string { return d.minimumSystemVersion }
func (d *Descriptor) ExecutableName() string       { return d.executableName }
func (d *Descriptor) Executable() string           { return d.executable }
func (d *Descriptor) Icon() string                 { return d.icon }
func (d *Descriptor) MainClassName() string        { return d.mainClassName }
func (d *Descriptor) HighResolutionCapable() bool  { return d.highResolutionCapable }

// BundleName returns the bundle directory name, e.g. "Demo.app".
func (d *Descriptor) BundleName() string {
	return d.name + defaults.BundleExtension
}

// ClassPath returns a copy of the classpath entries.
func (d *Descriptor) ClassPath() []string { return clone(d.classPath) }

// JVMOptions returns a copy of the JVM options.
func (d *Descriptor) JVMOptions() []string { return clone(d.jvmOptions) }

// Arguments returns a copy of the main class arguments.
func (d *Descriptor) Arguments() []string { return clone(d.arguments) }

// DocumentTypes returns the document types in declaration order. The
// slice is a copy; the elements are the descriptor's own instances.
func (d *Descriptor) DocumentTypes() []*DocumentType {
	out := make([]*DocumentType, len(d.documentTypes))
	copy(out, d.documentTypes)
	return out
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
