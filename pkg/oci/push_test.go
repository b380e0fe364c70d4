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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
)

func makeBundle(t *testing.T) string {
	t.Helper()
	app := filepath.Join(t.TempDir(), "Demo.app")
	files := map[string]string{
		"Contents/Info.plist":            "<plist/>",
		"Contents/PkgInfo":               "APPL????",
		"Contents/MacOS/JavaAppLauncher": "#!/bin/sh\n",
	}
	for rel, content := range files {
		p := filepath.Join(app, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return app
}

func TestPackageValidation(t *testing.T) {
	ctx := context.Background()
	app := makeBundle(t)
	notDir := filepath.Join(app, "Contents", "PkgInfo")

	tests := []struct {
		name string
		opts PackageOptions
		code apperrors.ErrorCode
	}{
		{name: "missing tag", opts: PackageOptions{BundleDir: app, OutputDir: t.TempDir()}, code: apperrors.ErrCodeInvalidRequest},
		{name: "missing bundle", opts: PackageOptions{OutputDir: t.TempDir(), Tag: "v1"}, code: apperrors.ErrCodeInvalidRequest},
		{name: "missing output", opts: PackageOptions{BundleDir: app, Tag: "v1"}, code: apperrors.ErrCodeInvalidRequest},
		{name: "bundle does not exist", opts: PackageOptions{BundleDir: filepath.Join(t.TempDir(), "Nope.app"), OutputDir: t.TempDir(), Tag: "v1"}, code: apperrors.ErrCodeNotFound},
		{name: "bundle is a file", opts: PackageOptions{BundleDir: notDir, OutputDir: t.TempDir(), Tag: "v1"}, code: apperrors.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Package(ctx, tt.opts)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestPackageCreatesLayout(t *testing.T) {
	ctx := context.Background()
	app := makeBundle(t)
	out := t.TempDir()

	res, err := Package(ctx, PackageOptions{
		BundleDir: app,
		OutputDir: out,
		Tag:       "1.0",
		Annotations: map[string]string{
			ociv1.AnnotationTitle: "Demo",
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Digest)
	assert.Equal(t, "1.0", res.Tag)
	assert.Equal(t, filepath.Join(out, "oci-layout"), res.StorePath)
	assert.FileExists(t, filepath.Join(res.StorePath, "oci-layout"))

	indexData, err := os.ReadFile(filepath.Join(res.StorePath, "index.json"))
	require.NoError(t, err)
	var index ociv1.Index
	require.NoError(t, json.Unmarshal(indexData, &index))
	require.Len(t, index.Manifests, 1)
	assert.Equal(t, res.Digest, index.Manifests[0].Digest.String())
	assert.Equal(t, "1.0", index.Manifests[0].Annotations[ociv1.AnnotationRefName])

	manifestPath := filepath.Join(res.StorePath, "blobs", "sha256", index.Manifests[0].Digest.Encoded())
	manifestData, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	var manifest ociv1.Manifest
	require.NoError(t, json.Unmarshal(manifestData, &manifest))

	assert.Equal(t, ArtifactType, manifest.ArtifactType)
	assert.Equal(t, "Demo", manifest.Annotations[ociv1.AnnotationTitle])
	require.Len(t, manifest.Layers, 1)
	assert.Equal(t, ociv1.MediaTypeImageLayerGzip, manifest.Layers[0].MediaType)
	assert.Equal(t, "Demo.app", manifest.Layers[0].Annotations[ociv1.AnnotationTitle])
}

func TestPackageReproducible(t *testing.T) {
	ctx := context.Background()
	app := makeBundle(t)

	opts := func() PackageOptions {
		return PackageOptions{
			BundleDir:             app,
			OutputDir:             t.TempDir(),
			Tag:                   "1.0",
			ReproducibleTimestamp: "2025-01-01T00:00:00Z",
		}
	}

	first, err := Package(ctx, opts())
	require.NoError(t, err)
	second, err := Package(ctx, opts())
	require.NoError(t, err)

	assert.Equal(t, first.Digest, second.Digest)
}

func TestPushFromStoreValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		storePath string
		opts      PushOptions
		code      apperrors.ErrorCode
	}{
		{name: "nil reference", storePath: t.TempDir(), code: apperrors.ErrCodeInvalidRequest},
		{
			name:      "empty tag",
			storePath: t.TempDir(),
			opts:      PushOptions{Reference: &Reference{Registry: "ghcr.io", Repository: "example/demo"}},
			code:      apperrors.ErrCodeInvalidRequest,
		},
		{
			name:      "invalid repository",
			storePath: t.TempDir(),
			opts:      PushOptions{Reference: &Reference{Registry: "ghcr.io", Repository: "Bad Repo", Tag: "1.0"}},
			code:      apperrors.ErrCodeInvalidRequest,
		},
		{
			name:      "missing layout",
			storePath: filepath.Join(t.TempDir(), "missing"),
			opts:      PushOptions{Reference: &Reference{Registry: "ghcr.io", Repository: "example/demo", Tag: "1.0"}},
			code:      apperrors.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PushFromStore(ctx, tt.storePath, tt.opts)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestPackageAndPushRequiresTag(t *testing.T) {
	_, err := PackageAndPush(context.Background(), PublishOptions{
		BundleDir: makeBundle(t),
		WorkDir:   t.TempDir(),
		Reference: &Reference{Registry: "ghcr.io", Repository: "example/demo"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidRequest))
}
