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
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/appbundler/pkg/bundler/checksum"
	"github.com/NVIDIA/appbundler/pkg/bundler/config"
	"github.com/NVIDIA/appbundler/pkg/bundler/result"
	"github.com/NVIDIA/appbundler/pkg/defaults"
	"github.com/NVIDIA/appbundler/pkg/descriptor"
	"github.com/NVIDIA/appbundler/pkg/errors"
	"github.com/NVIDIA/appbundler/pkg/manifest"
	"github.com/NVIDIA/appbundler/pkg/resource"
	"github.com/NVIDIA/appbundler/pkg/serializer"
)

// DefaultBundler turns bundle descriptors into .app directories.
//
// Each Make call owns its descriptor for the duration of the call. The
// bundle is assembled in a staging directory next to the destination and
// renamed into place only after every file has been written, so a failed
// run leaves any previous bundle untouched.
//
// Thread-safety: DefaultBundler is safe for concurrent use.
type DefaultBundler struct {
	// Config provides bundler configuration.
	Config *config.Config
}

// Option defines a functional option for configuring DefaultBundler.
type Option func(*DefaultBundler)

// WithConfig sets the bundler configuration.
func WithConfig(cfg *config.Config) Option {
	return func(db *DefaultBundler) {
		if cfg != nil {
			db.Config = cfg
		}
	}
}

// New creates a new DefaultBundler with the given options. The resulting
// configuration is validated.
//
// Example:
//
//	b, err := bundler.New(
//	    bundler.WithConfig(config.NewConfig(
//	        config.WithCopyConcurrency(8),
//	    )),
//	)
func New(opts ...Option) (*DefaultBundler, error) {
	db := &DefaultBundler{
		Config: config.NewConfig(),
	}

	for _, opt := range opts {
		opt(db)
	}

	if err := db.Config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid bundler configuration", err)
	}

	return db, nil
}

// NewWithConfig creates a new DefaultBundler with the given config.
// This is a convenience function equivalent to New(WithConfig(cfg)).
func NewWithConfig(cfg *config.Config) (*DefaultBundler, error) {
	return New(WithConfig(cfg))
}

type runIDKey struct{}

// ContextWithRunID attaches a run identifier that Make includes in logs.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run identifier attached to ctx, if any.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Manifest validates d and renders its Info.plist tree. When plan is
// non-nil, its jar names populate JVMClassPath so expanded globs appear.
func (b *DefaultBundler) Manifest(d *descriptor.Descriptor, plan *resource.Plan) (*manifest.Node, error) {
	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "descriptor cannot be nil")
	}

	opts := descriptor.ValidateOptions{AllowUnnamedDocumentTypes: b.Config.AllowUnnamedDocumentTypes()}
	if err := d.Validate(opts); err != nil {
		recordBundleError(stageValidate)
		return nil, err
	}

	var renderOpts manifest.RenderOptions
	if plan != nil {
		renderOpts.ClassPath = plan.ClassPathNames()
	}
	return manifest.Render(d, renderOpts), nil
}

// Make generates <dir>/<Name>.app from d.
//
// Steps, each of which aborts the run on failure:
//   - validate the descriptor
//   - resolve icons, launcher and classpath files
//   - render, encode and lint Info.plist in memory
//   - write Info.plist, PkgInfo and copy resources into a staging directory
//   - replace the bundle directory with the staging directory
//   - write the checksum listing
//
// In dry-run mode the returned result lists the files that would be
// written and nothing touches the disk.
func (b *DefaultBundler) Make(ctx context.Context, d *descriptor.Descriptor, dir string) (*result.Result, error) {
	start := time.Now()

	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "descriptor cannot be nil")
	}
	if dir == "" {
		dir = "."
	}

	runID := RunIDFromContext(ctx)
	if runID == "" {
		runID = NewRunID()
	}
	log := slog.With("run_id", runID, "name", d.Name())

	res := result.New(d.Name())
	res.DryRun = b.Config.DryRun()
	res.DocumentTypes = len(d.DocumentTypes())

	fail := func(stage string, err error) (*result.Result, error) {
		recordBundleError(stage)
		recordBundleGenerated(false)
		res.AddError(err)
		res.Duration = time.Since(start)
		log.Error("bundle generation failed", "stage", stage, "error", err)
		return res, err
	}

	opts := descriptor.ValidateOptions{AllowUnnamedDocumentTypes: b.Config.AllowUnnamedDocumentTypes()}
	if err := d.Validate(opts); err != nil {
		return fail(stageValidate, err)
	}
	res.Dir = filepath.Join(dir, d.BundleName())

	plan, err := resource.Resolve(d)
	if err != nil {
		return fail(stageResolve, err)
	}
	if plan.Launcher == nil {
		log.Warn("no launcher configured, bundle will not be runnable", "executable", d.ExecutableName())
	}

	tree := manifest.Render(d, manifest.RenderOptions{ClassPath: plan.ClassPathNames()})
	plistData, err := serializer.MarshalPlist(tree)
	if err != nil {
		return fail(stageRender, err)
	}
	if b.Config.Lint() {
		if err := serializer.Lint(plistData, tree); err != nil {
			return fail(stageRender, err)
		}
	}
	res.Checksum = checksum.Sum(plistData)

	pkgInfo := []byte(defaults.PackageType + d.Signature())
	infoPath := path.Join(defaults.ContentsDir, defaults.InfoPlistFile)
	pkgInfoPath := path.Join(defaults.ContentsDir, defaults.PkgInfoFile)

	log.Debug("bundle prepared",
		"dir", res.Dir,
		"resources", len(plan.Copies()),
		"classpath", len(plan.ClassPath),
		"dry_run", b.Config.DryRun(),
	)

	if b.Config.DryRun() {
		res.AddFile(infoPath, int64(len(plistData)))
		if b.Config.IncludePkgInfo() {
			res.AddFile(pkgInfoPath, int64(len(pkgInfo)))
		}
		for _, c := range plan.Copies() {
			info, err := os.Stat(c.Src)
			if err != nil {
				return fail(stageResolve, errors.Wrap(errors.ErrCodeResource, "resource disappeared", err))
			}
			res.AddFile(c.Dst, info.Size())
		}
		res.Duration = time.Since(start)
		res.MarkSuccess()
		log.Info("dry run complete", "files", len(res.Files), "size_bytes", res.Size)
		return res, nil
	}

	if _, err := os.Stat(res.Dir); err == nil && !b.Config.Overwrite() {
		return fail(stageWrite, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"bundle already exists", map[string]any{"dir": res.Dir}))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail(stageWrite, errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("failed to create directory %s", dir), err))
	}

	staging, err := os.MkdirTemp(dir, "."+d.BundleName()+"-")
	if err != nil {
		return fail(stageWrite, errors.Wrap(errors.ErrCodeInternal, "failed to create staging directory", err))
	}
	defer os.RemoveAll(staging)

	if err := writeFile(staging, infoPath, plistData); err != nil {
		return fail(stageWrite, err)
	}
	res.AddFile(infoPath, int64(len(plistData)))

	if b.Config.IncludePkgInfo() {
		if err := writeFile(staging, pkgInfoPath, pkgInfo); err != nil {
			return fail(stageWrite, err)
		}
		res.AddFile(pkgInfoPath, int64(len(pkgInfo)))
	}

	copies := plan.Copies()
	copied, err := resource.CopyAll(ctx, staging, copies, b.Config.CopyConcurrency())
	if err != nil {
		return fail(stageCopy, err)
	}
	for _, c := range copies {
		res.Files = append(res.Files, c.Dst)
	}
	res.Size += copied
	recordResourcesCopied(len(copies))

	// MkdirTemp creates 0700; a bundle is a normal world-readable directory.
	if err := os.Chmod(staging, 0o755); err != nil {
		return fail(stageWrite, errors.Wrap(errors.ErrCodeInternal, "failed to set bundle permissions", err))
	}
	if err := os.RemoveAll(res.Dir); err != nil {
		return fail(stageWrite, errors.Wrap(errors.ErrCodeInternal, "failed to remove previous bundle", err))
	}
	if err := os.Rename(staging, res.Dir); err != nil {
		return fail(stageWrite, errors.Wrap(errors.ErrCodeInternal, "failed to move bundle into place", err))
	}

	if b.Config.IncludeChecksums() {
		sumPath, err := checksum.GenerateChecksums(ctx, res.Dir)
		if err != nil {
			return fail(stageChecksum, errors.Wrap(errors.ErrCodeInternal, "failed to write checksums", err))
		}
		res.ChecksumFile = sumPath
	} else if err := os.Remove(checksum.GetChecksumFilePath(res.Dir)); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to remove stale checksum file", "error", err)
	}

	res.Duration = time.Since(start)
	res.MarkSuccess()

	recordBundleGenerated(true)
	recordBundleDuration(res.Duration.Seconds())
	recordBundleSize(res.Size)

	log.Info("bundle generated",
		"dir", res.Dir,
		"files", len(res.Files),
		"size_bytes", res.Size,
		"duration", res.Duration.Round(time.Millisecond),
	)

	return res, nil
}

func writeFile(root, rel string, data []byte) error {
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to create directory for %s", rel), err)
	}
	if err := serializer.WriteToFile(p, data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to write %s", rel), err)
	}
	return nil
}
