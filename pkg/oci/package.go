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

package oci

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/content/oci"

	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
)

const (
	// ArtifactType is the media type for application bundle artifacts.
	ArtifactType = "application/vnd.nvidia.appbundler.bundle"

	// storeDirName is the OCI image layout directory created by Package.
	storeDirName = "oci-layout"
)

// PackageOptions configures local OCI packaging of a bundle directory.
type PackageOptions struct {
	// BundleDir is the .app directory to package.
	BundleDir string
	// OutputDir is where the OCI image layout is created.
	OutputDir string
	// Tag is the tag applied in the local layout.
	Tag string
	// Annotations are added to the manifest.
	Annotations map[string]string
	// ReproducibleTimestamp sets org.opencontainers.image.created so that
	// identical bundles produce identical digests.
	ReproducibleTimestamp string
}

// PackageResult is the outcome of Package.
type PackageResult struct {
	// Digest is the manifest digest.
	Digest string
	// Tag is the tag applied in the local layout.
	Tag string
	// StorePath is the OCI image layout directory.
	StorePath string
}

// Package packs BundleDir as a single gzip tar layer into an OCI image
// layout under OutputDir. The layer is titled with the bundle's directory
// name so extraction recreates <Name>.app.
func Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	if opts.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required for OCI packaging")
	}
	if opts.BundleDir == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "bundle directory is required")
	}
	if opts.OutputDir == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "output directory is required")
	}

	absBundle, err := filepath.Abs(opts.BundleDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve bundle directory", err)
	}
	info, err := os.Stat(absBundle)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, fmt.Sprintf("bundle %s not found", opts.BundleDir), err)
	}
	if !info.IsDir() {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"bundle path is not a directory", map[string]any{"path": opts.BundleDir})
	}

	storePath, err := filepath.Abs(filepath.Join(opts.OutputDir, storeDirName))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve output directory", err)
	}

	// Convert to absolute path to avoid ORAS working directory issues
	fs, err := file.New(filepath.Dir(absBundle))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()

	// Make tars deterministic for reproducible builds
	fs.TarReproducible = true

	layerDesc, err := fs.Add(ctx, filepath.Base(absBundle), ociv1.MediaTypeImageLayerGzip, absBundle)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to add bundle to store", err)
	}

	annotations := make(map[string]string, len(opts.Annotations)+1)
	for k, v := range opts.Annotations {
		annotations[k] = v
	}
	if opts.ReproducibleTimestamp != "" {
		annotations[ociv1.AnnotationCreated] = opts.ReproducibleTimestamp
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layerDesc},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to pack manifest", err)
	}
	if err := fs.Tag(ctx, manifestDesc, opts.Tag); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to tag manifest in file store", err)
	}

	store, err := oci.New(storePath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create OCI layout", err)
	}
	if _, err := oras.Copy(ctx, fs, opts.Tag, store, opts.Tag, oras.DefaultCopyOptions); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to copy artifact to OCI layout", err)
	}

	slog.Debug("bundle packaged",
		"bundle", absBundle,
		"digest", manifestDesc.Digest.String(),
		"store_path", storePath,
	)

	return &PackageResult{
		Digest:    manifestDesc.Digest.String(),
		Tag:       opts.Tag,
		StorePath: storePath,
	}, nil
}
