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

package result

import (
	"time"
)

// Result captures the outcome of generating a single bundle.
type Result struct {
	// Name is the application name.
	Name string `json:"name" yaml:"name"`

	// Dir is the bundle directory (<output>/<Name>.app).
	Dir string `json:"dir" yaml:"dir"`

	// Files lists written files relative to Dir, in write order.
	Files []string `json:"files" yaml:"files"`

	// Size is the total size in bytes of all written files.
	Size int64 `json:"size_bytes" yaml:"size_bytes"`

	// Checksum is the SHA256 of the rendered Info.plist.
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty"`

	// ChecksumFile is the path of the checksum listing, if one was written.
	ChecksumFile string `json:"checksum_file,omitempty" yaml:"checksum_file,omitempty"`

	// DocumentTypes is the number of document types rendered.
	DocumentTypes int `json:"document_types" yaml:"document_types"`

	// DryRun is true when nothing was written.
	DryRun bool `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`

	// Duration is the time taken to generate the bundle.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Success indicates whether generation completed.
	Success bool `json:"success" yaml:"success"`

	// Errors collects failures seen while generating.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// New creates an empty Result for the named application.
func New(name string) *Result {
	return &Result{
		Name:   name,
		Files:  make([]string, 0),
		Errors: make([]string, 0),
	}
}

// AddFile records a written file and its size.
func (r *Result) AddFile(path string, size int64) {
	r.Files = append(r.Files, path)
	r.Size += size
}

// AddError records an error. Nil errors are ignored.
func (r *Result) AddError(err error) {
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
	}
}

// MarkSuccess marks the result as successful.
func (r *Result) MarkSuccess() {
	r.Success = true
}
