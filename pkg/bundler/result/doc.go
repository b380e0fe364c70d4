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

// Package result provides types for tracking bundle generation results.
//
// Result describes one generated .app bundle: the files written relative to
// the bundle directory, their total size, the Info.plist digest and any
// errors. Output aggregates the results of one run, which may build several
// bundles, and carries the run identifier shared by every log line of that
// run.
//
// # Usage
//
//	r := result.New("Demo")
//	r.Dir = "/out/Demo.app"
//	r.AddFile("Contents/Info.plist", 1024)
//	r.MarkSuccess()
//
//	out := result.NewOutput(runID, "/out")
//	out.Add(r)
//	fmt.Println(out.Summary())
//	// Generated 1 file (1.0 KB) in 3ms. Success: 1/1 bundles.
//
// Both types serialize to JSON and YAML for the CLI report.
//
// Result is not safe for concurrent mutation. Output.Add is safe to call
// from several goroutines.
package result
