// Copyright 2025 walteh LLC
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

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/tagrelease/cmd/tagrelease/commands"
	"github.com/walteh/tagrelease/cmd/tagrelease/opts"
	"github.com/walteh/tagrelease/pkg/action"
	"github.com/walteh/tagrelease/pkg/log"
)

var (
	// Flags
	configFile string
	debugMode  bool
)

func newRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:           "tagrelease",
		Short:         "Publish a GitHub release from an annotated tag",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := setupLogging(cmd)
			cmd.SetContext(ctx)

			act := action.New()
			rootOpts.ConfigFile = configFile
			rootOpts.Action = act
			rootOpts.Console = log.New(os.Stdout, level(),
				log.WithAnnotations(act.IsActions()),
				log.WithZerolog(*zerolog.Ctx(ctx)),
			)
		},
	}

	addRootFlags(cmd)

	cmd.AddCommand(commands.NewPublishCmd(rootOpts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default .github/tagrelease.yml when present)")
	cmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "enable debug logging")
}

func level() zerolog.Level {
	if debugMode {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// setupLogging configures zerolog based on flags and attaches it to the command context
func setupLogging(cmd *cobra.Command) context.Context {
	zerolog.SetGlobalLevel(level())
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return logger.WithContext(cmd.Context())
}
