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
	"fmt"
	"sync"
	"time"
)

// Output contains the aggregated results of one bundling run.
type Output struct {
	// RunID identifies the run in logs and reports.
	RunID string `json:"run_id" yaml:"run_id"`

	// Results contains individual bundle results.
	Results []*Result `json:"results" yaml:"results"`

	// TotalSize is the total size in bytes of all generated files.
	TotalSize int64 `json:"total_size_bytes" yaml:"total_size_bytes"`

	// TotalFiles is the total count of generated files.
	TotalFiles int `json:"total_files" yaml:"total_files"`

	// TotalDuration is the total time taken for the run.
	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`

	// Errors contains errors from failed bundles.
	Errors []BundleError `json:"errors,omitempty" yaml:"errors,omitempty"`

	// OutputDir is the directory bundles were generated into.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Artifact is the OCI reference the bundles were pushed to, if any.
	Artifact *ArtifactInfo `json:"artifact,omitempty" yaml:"artifact,omitempty"`

	mu sync.Mutex
}

// ArtifactInfo describes a pushed OCI artifact.
type ArtifactInfo struct {
	Reference string `json:"reference" yaml:"reference"`
	Digest    string `json:"digest" yaml:"digest"`
}

// BundleError represents an error from a specific bundle.
type BundleError struct {
	Name  string `json:"name" yaml:"name"`
	Error string `json:"error" yaml:"error"`
}

// NewOutput creates an empty Output.
func NewOutput(runID, outputDir string) *Output {
	return &Output{
		RunID:     runID,
		OutputDir: outputDir,
		Results:   make([]*Result, 0),
	}
}

// Add records a bundle result and updates the totals.
func (o *Output) Add(r *Result) {
	if r == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	o.Results = append(o.Results, r)
	if r.Success {
		o.TotalSize += r.Size
		o.TotalFiles += len(r.Files)
		return
	}
	for _, e := range r.Errors {
		o.Errors = append(o.Errors, BundleError{Name: r.Name, Error: e})
	}
}

// HasErrors returns true if any bundle failed.
func (o *Output) HasErrors() bool {
	return len(o.Errors) > 0
}

// SuccessCount returns the number of successful bundles.
func (o *Output) SuccessCount() int {
	count := 0
	for _, r := range o.Results {
		if r.Success {
			count++
		}
	}
	return count
}

// FailureCount returns the number of failed bundles.
func (o *Output) FailureCount() int {
	return len(o.Results) - o.SuccessCount()
}

// ByName returns results keyed by application name.
func (o *Output) ByName() map[string]*Result {
	results := make(map[string]*Result, len(o.Results))
	for _, r := range o.Results {
		results[r.Name] = r
	}
	return results
}

// Summary returns a human-readable summary of the run.
func (o *Output) Summary() string {
	noun := "files"
	if o.TotalFiles == 1 {
		noun = "file"
	}
	return fmt.Sprintf(
		"Generated %d %s (%s) in %v. Success: %d/%d bundles.",
		o.TotalFiles,
		noun,
		formatBytes(o.TotalSize),
		o.TotalDuration.Round(time.Millisecond),
		o.SuccessCount(),
		len(o.Results),
	)
}

// formatBytes formats bytes into human-readable format.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
