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

package bundler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/appbundler/pkg/bundler/result"
	"github.com/NVIDIA/appbundler/pkg/descriptor"
	"github.com/NVIDIA/appbundler/pkg/errors"
)

// MakeAll generates one bundle per descriptor into dir. Bundles are built
// concurrently, each by its own Make call. Every descriptor is attempted;
// failures are collected in the output and summarized in the returned
// error.
//
// Descriptors must have distinct names, compared case-insensitively, since
// each owns <dir>/<Name>.app.
func (b *DefaultBundler) MakeAll(ctx context.Context, descs []*descriptor.Descriptor, dir string) (*result.Output, error) {
	start := time.Now()

	if len(descs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "no bundle descriptors provided")
	}

	seen := make(map[string]bool, len(descs))
	for i, d := range descs {
		if d == nil {
			return nil, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("descriptor %d is nil", i))
		}
		// macOS volumes are case-insensitive by default.
		key := strings.ToLower(d.Name())
		if seen[key] {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("duplicate application name %q", d.Name()),
				map[string]any{"name": d.Name()})
		}
		seen[key] = true
	}

	runID := RunIDFromContext(ctx)
	if runID == "" {
		runID = NewRunID()
		ctx = ContextWithRunID(ctx, runID)
	}

	output := result.NewOutput(runID, dir)

	slog.Info("starting bundle generation",
		"run_id", runID,
		"bundle_count", len(descs),
		"output_dir", dir,
		"dry_run", b.Config.DryRun(),
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range descs {
		g.Go(func() error {
			res, err := b.Make(gctx, d, dir)
			if res == nil {
				res = result.New(d.Name())
				res.AddError(err)
			}
			output.Add(res)
			// Failures are reported through the output; siblings keep going.
			return nil
		})
	}
	_ = g.Wait()

	output.TotalDuration = time.Since(start)

	slog.Info("bundle generation complete", "run_id", runID, "summary", output.Summary())

	if output.HasErrors() {
		return output, errors.NewWithContext(errors.ErrCodeInternal,
			fmt.Sprintf("%d of %d bundle(s) failed", output.FailureCount(), len(output.Results)),
			map[string]any{"run_id": runID})
	}
	return output, nil
}
