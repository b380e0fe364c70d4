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

package resource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/appbundler/pkg/defaults"
	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
)

// CopyAll copies every entry into root, running up to concurrency copies
// at once. It returns the total number of bytes written.
func CopyAll(ctx context.Context, root string, copies []Copy, concurrency int) (int64, error) {
	if concurrency <= 0 {
		concurrency = defaults.CopyConcurrency
	}

	var total atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, c := range copies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := copyFile(c.Src, filepath.Join(root, filepath.FromSlash(c.Dst)), c.Mode)
			if err != nil {
				return apperrors.WrapWithContext(apperrors.ErrCodeResource,
					fmt.Sprintf("failed to copy %s", c.Src), err,
					map[string]any{"src": c.Src, "dst": c.Dst})
			}
			total.Add(n)
			slog.Debug("copied resource", "src", c.Src, "dst", c.Dst, "bytes", n)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return total.Load(), err
	}
	return total.Load(), nil
}

func copyFile(src, dst string, mode os.FileMode) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, err
	}
	// OpenFile applies the umask; the launcher must stay executable.
	return n, os.Chmod(dst, mode)
}
