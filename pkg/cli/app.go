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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
	"github.com/NVIDIA/appbundler/pkg/logging"
)

const (
	name           = "appbundler"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes returned by Execute.
const (
	exitOK       = 0
	exitError    = 1
	exitCanceled = 2
)

// NewApp returns the root command with every subcommand attached.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Package Java applications as macOS .app bundles",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Description: `appbundler assembles a macOS application bundle from a declarative HCL or
YAML description: Info.plist, PkgInfo, launcher, icons and classpath jars.

Commands:
  bundle    build one or more bundles
  render    print the Info.plist a description would produce
  validate  check descriptions and, optionally, existing bundles
  inspect   decode an existing Info.plist`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvLogLevel),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: logging.FormatText,
				Usage: fmt.Sprintf("Log format (%s, %s)", logging.FormatText, logging.FormatJSON),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultLogger(cmd.String("log-format"), name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			bundleCmd(),
			renderCmd(),
			validateCmd(),
			inspectCmd(),
		},
	}
}

// Execute runs the CLI with os.Args and exits with a status code:
// 0 on success, 2 when interrupted, 1 otherwise.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewApp().Run(ctx, os.Args)
	os.Exit(exitCode(ctx, err))
}

func exitCode(ctx context.Context, err error) int {
	if err == nil {
		return exitOK
	}
	if ctx.Err() != nil || apperrors.IsCode(err, apperrors.ErrCodeTimeout) {
		fmt.Fprintln(os.Stderr, "interrupted:", err)
		return exitCanceled
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	return exitError
}
