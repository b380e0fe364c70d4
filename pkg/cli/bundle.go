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

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/appbundler/pkg/bundler"
	"github.com/NVIDIA/appbundler/pkg/bundler/config"
	"github.com/NVIDIA/appbundler/pkg/bundler/result"
	"github.com/NVIDIA/appbundler/pkg/defaults"
	"github.com/NVIDIA/appbundler/pkg/descriptor"
	"github.com/NVIDIA/appbundler/pkg/manifest"
	"github.com/NVIDIA/appbundler/pkg/oci"
	"github.com/NVIDIA/appbundler/pkg/resource"
	"github.com/NVIDIA/appbundler/pkg/serializer"
	"github.com/NVIDIA/appbundler/pkg/watcher"
)

// bundleCmdOptions holds parsed options for the bundle command.
type bundleCmdOptions struct {
	configPaths  []string
	outputDir    string
	variables    map[string]string
	dryRun       bool
	checksums    bool
	pkgInfo      bool
	allowUnnamed bool
	overwrite    bool
	concurrency  int
	watch        bool
	push         *oci.Reference
	plainHTTP    bool
	insecureTLS  bool
	metricsFile  string
	reportFormat serializer.Format
	reportPath   string
}

// parseBundleCmdOptions parses and validates command options.
func parseBundleCmdOptions(cmd *cli.Command) (*bundleCmdOptions, error) {
	opts := &bundleCmdOptions{
		configPaths:  cmd.StringSlice("config"),
		outputDir:    cmd.String("output"),
		dryRun:       cmd.Bool("dry-run"),
		checksums:    !cmd.Bool("no-checksums"),
		pkgInfo:      !cmd.Bool("no-pkginfo"),
		allowUnnamed: cmd.Bool("allow-unnamed-document-types"),
		overwrite:    !cmd.Bool("no-overwrite"),
		concurrency:  int(cmd.Int("concurrency")),
		watch:        cmd.Bool("watch"),
		plainHTTP:    cmd.Bool("plain-http"),
		insecureTLS:  cmd.Bool("insecure-tls"),
		metricsFile:  cmd.String("metrics-file"),
		reportPath:   cmd.String("report"),
	}

	var err error
	if opts.variables, err = parseVariables(cmd.StringSlice("var")); err != nil {
		return nil, err
	}
	if opts.reportFormat, err = parseOutputFormat(cmd,
		serializer.FormatYAML, serializer.FormatJSON, serializer.FormatTable); err != nil {
		return nil, err
	}

	if target := cmd.String("push"); target != "" {
		if opts.dryRun {
			return nil, fmt.Errorf("--push cannot be combined with --dry-run")
		}
		if len(opts.configPaths) != 1 {
			return nil, fmt.Errorf("--push requires exactly one --config")
		}
		if opts.push, err = oci.ParseReference(target); err != nil {
			return nil, fmt.Errorf("invalid --push target: %w", err)
		}
	}

	return opts, nil
}

func (o *bundleCmdOptions) bundlerConfig() *config.Config {
	return config.NewConfig(
		config.WithVersion(version),
		config.WithDryRun(o.dryRun),
		config.WithIncludeChecksums(o.checksums),
		config.WithIncludePkgInfo(o.pkgInfo),
		config.WithAllowUnnamedDocumentTypes(o.allowUnnamed),
		config.WithOverwrite(o.overwrite),
		config.WithCopyConcurrency(o.concurrency),
		config.WithVariables(o.variables),
	)
}

func bundleCmd() *cli.Command {
	return &cli.Command{
		Name:                  "bundle",
		EnableShellCompletion: true,
		Usage:                 "Generate application bundles from description files",
		Description: `Generates <output>/<Name>.app for every --config file:

  Contents/Info.plist         rendered manifest
  Contents/PkgInfo            "APPL" + signature
  Contents/MacOS/<launcher>   copied with mode 0755
  Contents/Resources/*.icns   application and document icons
  Contents/Java/*.jar         classpath entries, globs expanded

A SHA256 listing is written to <output>/<Name>.app.sha256 unless
--no-checksums is given. A run report is printed in --format.

# Examples

Build a bundle:
  appbundler bundle --config app.hcl --output dist

Preview without writing:
  appbundler bundle -c app.yaml --dry-run --format table

Override a variable declared in the description:
  appbundler bundle -c app.hcl --var version=2.1.0

Rebuild whenever the description or a resource changes:
  appbundler bundle -c app.hcl --watch

Push the bundle as an OCI artifact:
  appbundler bundle -c app.hcl --push oci://ghcr.io/example/demo:2.1.0`,
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "dist",
				Usage:   "Directory the bundles are written to",
			},
			varFlag(),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Validate and render without writing anything",
			},
			&cli.BoolFlag{
				Name:  "no-checksums",
				Usage: "Do not write the <Name>.app.sha256 listing",
			},
			&cli.BoolFlag{
				Name:  "no-pkginfo",
				Usage: "Do not write Contents/PkgInfo",
			},
			&cli.BoolFlag{
				Name:  "no-overwrite",
				Usage: "Fail instead of replacing an existing bundle",
			},
			&cli.BoolFlag{
				Name:  "allow-unnamed-document-types",
				Usage: "Render document types without a name instead of failing",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Value: defaults.CopyConcurrency,
				Usage: fmt.Sprintf("Concurrent resource copies per bundle (1-%d)", defaults.MaxCopyConcurrency),
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Rebuild when a description or resource file changes",
			},
			&cli.StringFlag{
				Name:  "push",
				Usage: "Push the bundle to an OCI registry (format: oci://registry/repository[:tag])",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the OCI registry",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification for the OCI registry",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics to this file after each run",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write the run report to this file instead of stdout",
			},
			formatFlag(serializer.FormatYAML, serializer.FormatYAML, serializer.FormatJSON, serializer.FormatTable),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseBundleCmdOptions(cmd)
			if err != nil {
				return err
			}

			b, err := bundler.NewWithConfig(opts.bundlerConfig())
			if err != nil {
				return err
			}

			descs, runErr := runBundle(ctx, b, opts)
			if !opts.watch {
				return runErr
			}
			if descs == nil {
				// Nothing loaded, so there is nothing to watch.
				return runErr
			}
			return watchAndRebuild(ctx, b, opts, descs)
		},
	}
}

// runBundle loads the descriptions, builds every bundle, pushes when asked,
// writes the report and metrics. It returns the loaded descriptors even
// when the build fails so watch mode can observe their files.
func runBundle(ctx context.Context, b *bundler.DefaultBundler, opts *bundleCmdOptions) ([]*descriptor.Descriptor, error) {
	descs, err := loadDescriptors(opts.configPaths, opts.variables)
	if err != nil {
		return nil, err
	}

	slog.Info("generating bundles",
		"configs", len(opts.configPaths),
		"output", opts.outputDir,
		"dry_run", opts.dryRun,
	)

	out, err := b.MakeAll(ctx, descs, opts.outputDir)

	if err == nil && opts.push != nil {
		err = pushBundle(ctx, out, descs[0], opts)
	}

	if out != nil {
		if reportErr := writeReport(ctx, out, opts); reportErr != nil {
			err = errors.Join(err, reportErr)
		}
		slog.Info("bundle run complete", "summary", out.Summary())
	}

	if opts.metricsFile != "" {
		if mErr := bundler.WriteMetrics(opts.metricsFile); mErr != nil {
			err = errors.Join(err, mErr)
		}
	}

	return descs, err
}

func pushBundle(ctx context.Context, out *result.Output, d *descriptor.Descriptor, opts *bundleCmdOptions) error {
	ref := opts.push
	if ref.Tag == "" {
		ref = ref.WithTag(d.ShortVersion())
	}

	workDir, err := os.MkdirTemp("", "appbundler-oci-*")
	if err != nil {
		return fmt.Errorf("failed to create OCI work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	res, err := oci.PackageAndPush(ctx, oci.PublishOptions{
		BundleDir:   filepath.Join(opts.outputDir, d.BundleName()),
		WorkDir:     workDir,
		Reference:   ref,
		Version:     d.ShortVersion(),
		Title:       d.Name(),
		PlainHTTP:   opts.plainHTTP,
		InsecureTLS: opts.insecureTLS,
	})
	if err != nil {
		return err
	}

	out.Artifact = &result.ArtifactInfo{
		Reference: res.Reference,
		Digest:    res.Digest,
	}
	return nil
}

func writeReport(ctx context.Context, out *result.Output, opts *bundleCmdOptions) error {
	return writeOutput(ctx, opts.reportFormat, opts.reportPath, out)
}

// watchSources lists what a rebuild depends on: the description files, the
// resource paths each descriptor configures and the classpath globs. Paths
// come from the configuration, so a missing icon or jar is watched and its
// creation triggers a rebuild. Entries whose directory does not exist are
// skipped.
func watchSources(opts *bundleCmdOptions, descs []*descriptor.Descriptor) (files, patterns []string) {
	files = append(files, opts.configPaths...)
	for _, d := range descs {
		for _, p := range []string{d.Executable(), d.Icon()} {
			if p != "" {
				files = append(files, p)
			}
		}
		for _, dt := range d.DocumentTypes() {
			if dt.HasIcon() {
				files = append(files, dt.Icon())
			}
		}
		for _, entry := range d.ClassPath() {
			if manifest.IsGlob(entry) {
				patterns = append(patterns, entry)
			} else {
				files = append(files, entry)
			}
		}
		// Seed hashes of files already matched by globs.
		if plan, err := resource.Resolve(d); err == nil {
			files = append(files, plan.Sources()...)
		}
	}
	return existingDirs(files, false), existingDirs(patterns, true)
}

func existingDirs(paths []string, glob bool) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		dir := filepath.Dir(p)
		if glob {
			base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
			dir = filepath.FromSlash(base)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			slog.Warn("not watching path, directory does not exist", "path", p)
			continue
		}
		out = append(out, p)
	}
	return out
}

func watchAndRebuild(ctx context.Context, b *bundler.DefaultBundler, opts *bundleCmdOptions, descs []*descriptor.Descriptor) error {
	files, patterns := watchSources(opts, descs)
	w, err := watcher.New(watcher.Config{Paths: files, Patterns: patterns})
	if err != nil {
		return err
	}
	w.Start(ctx)

	slog.Info("watching for changes", "files", len(w.Paths()))

	for change := range w.Events() {
		slog.Info("change detected, rebuilding", "paths", change.Paths)

		next, err := runBundle(ctx, b, opts)
		if err != nil {
			slog.Error("rebuild failed", "error", err)
		}
		if next == nil {
			continue
		}
		files, patterns := watchSources(opts, next)
		if err := w.Add(files...); err != nil {
			slog.Warn("failed to watch new files", "error", err)
		}
		if err := w.AddPatterns(patterns...); err != nil {
			slog.Warn("failed to watch new patterns", "error", err)
		}
	}

	slog.Info("watch stopped")
	return nil
}
