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
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/NVIDIA/appbundler/pkg/defaults"
	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
)

// PushOptions configures a push from a local OCI layout.
type PushOptions struct {
	// Reference is the remote target. Tag must be set.
	Reference *Reference
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult contains the result of a successful OCI push.
type PushResult struct {
	// Digest is the SHA256 digest of the pushed manifest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// PushFromStore pushes the manifest tagged opts.Reference.Tag in the OCI
// layout at storePath to the remote repository.
func PushFromStore(ctx context.Context, storePath string, opts PushOptions) (*PushResult, error) {
	if opts.Reference == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI reference is required")
	}
	if opts.Reference.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required to push OCI artifact")
	}
	if err := ValidateRegistryReference(opts.Reference.Registry, opts.Reference.Repository); err != nil {
		return nil, err
	}
	if _, err := os.Stat(storePath); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, "OCI layout not found", err)
	}

	store, err := oci.New(storePath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to open OCI layout", err)
	}

	registryHost := stripProtocol(opts.Reference.Registry)
	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", registryHost, opts.Reference.Repository))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	tag := opts.Reference.Tag
	desc, err := oras.Copy(ctx, store, tag, repo, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to push artifact to registry", err)
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: fmt.Sprintf("%s/%s:%s", registryHost, opts.Reference.Repository, tag),
	}, nil
}

// PublishOptions configures PackageAndPush.
type PublishOptions struct {
	// BundleDir is the .app directory to publish.
	BundleDir string
	// WorkDir holds the intermediate OCI layout.
	WorkDir string
	// Reference is the remote target. Tag must be set.
	Reference *Reference
	// Version is recorded as org.opencontainers.image.version.
	Version string
	// Title is recorded as org.opencontainers.image.title.
	Title string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PackageAndPush packages a bundle directory and pushes it to a registry.
// The whole operation is bounded by defaults.OCIPushTimeout.
func PackageAndPush(ctx context.Context, opts PublishOptions) (*PushResult, error) {
	if opts.Reference == nil || opts.Reference.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "tagged OCI reference is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
	defer cancel()

	slog.Info("packaging bundle as OCI artifact",
		"bundle", opts.BundleDir,
		"reference", opts.Reference.String(),
	)

	annotations := map[string]string{ociv1.AnnotationVendor: "NVIDIA"}
	if opts.Version != "" {
		annotations[ociv1.AnnotationVersion] = opts.Version
	}
	if opts.Title != "" {
		annotations[ociv1.AnnotationTitle] = opts.Title
	}

	pkg, err := Package(ctx, PackageOptions{
		BundleDir:   opts.BundleDir,
		OutputDir:   opts.WorkDir,
		Tag:         opts.Reference.Tag,
		Annotations: annotations,
	})
	if err != nil {
		return nil, err
	}

	res, err := PushFromStore(ctx, pkg.StorePath, PushOptions{
		Reference:   opts.Reference,
		PlainHTTP:   opts.PlainHTTP,
		InsecureTLS: opts.InsecureTLS,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("OCI artifact pushed",
		"reference", res.Reference,
		"digest", res.Digest,
	)
	return res, nil
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}

	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable, pushing anonymously", "error", err)
		return client
	}
	client.Credential = credentials.Credential(credStore)
	return client
}
