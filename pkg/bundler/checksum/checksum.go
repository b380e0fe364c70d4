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

package checksum

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/NVIDIA/appbundler/pkg/defaults"
)

// Sum returns the hex-encoded SHA256 of data.
func Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GenerateChecksums writes SHA256 checksums for every regular file under
// bundleDir to GetChecksumFilePath(bundleDir) and returns that path.
//
// Returns an error if the context is canceled, any file cannot be read,
// or the checksums file cannot be written.
func GenerateChecksums(ctx context.Context, bundleDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	base := filepath.Dir(filepath.Clean(bundleDir))
	var lines []string

	err := filepath.WalkDir(bundleDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s for checksum: %w", path, err)
		}

		relPath, err := filepath.Rel(base, path)
		if err != nil {
			relPath = path
		}
		lines = append(lines, fmt.Sprintf("%s  %s", Sum(data), filepath.ToSlash(relPath)))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to checksum %s: %w", bundleDir, err)
	}

	// Lines start with the digest; sort on the path part.
	sort.Slice(lines, func(i, j int) bool { return lines[i][66:] < lines[j][66:] })

	checksumPath := GetChecksumFilePath(bundleDir)
	content := strings.Join(lines, "\n") + "\n"

	if err := os.WriteFile(checksumPath, []byte(content), 0o644); err != nil { //nolint:gosec // listing is meant to be shared
		return "", fmt.Errorf("failed to write checksums: %w", err)
	}

	slog.Debug("checksums generated",
		"file_count", len(lines),
		"path", checksumPath,
	)

	return checksumPath, nil
}

// Verify re-hashes every file listed in the checksum file for bundleDir.
// It returns the paths whose content no longer matches, or an error when
// the listing cannot be read.
func Verify(ctx context.Context, bundleDir string) ([]string, error) {
	checksumPath := GetChecksumFilePath(bundleDir)
	data, err := os.ReadFile(checksumPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read checksums: %w", err)
	}

	base := filepath.Dir(filepath.Clean(bundleDir))
	var mismatched []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled: %w", err)
		}
		text := scanner.Text()
		if text == "" {
			continue
		}
		want, rel, ok := strings.Cut(text, "  ")
		if !ok || len(want) != sha256.Size*2 {
			return nil, fmt.Errorf("%s:%d: malformed checksum line", checksumPath, line)
		}

		content, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(rel)))
		if err != nil || Sum(content) != want {
			mismatched = append(mismatched, rel)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read checksums: %w", err)
	}
	return mismatched, nil
}

// GetChecksumFilePath returns the checksum listing path for a bundle
// directory: the directory name with the checksum extension appended.
func GetChecksumFilePath(bundleDir string) string {
	return filepath.Clean(bundleDir) + defaults.ChecksumExtension
}
