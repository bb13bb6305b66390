// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

func VersionCmd(info Info, isReleaseBuild bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of tos428",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version := info.Version
			if !isReleaseBuild {
				version = getGitVersion()
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "tos428 version:\t%s\n", version)
			fmt.Fprintf(w, "Build date:\t%s\n", info.Date)
			if !isReleaseBuild {
				fmt.Fprintln(w, "Build type:\tdevelopment")
			}
		},
	}
	return cmd
}

// getGitVersion tries to determine a useful version string from git
func getGitVersion() string {
	if tag, err := exec.Command("git", "describe", "--tags", "--exact-match").Output(); err == nil {
		return strings.TrimSpace(string(tag))
	}

	if desc, err := exec.Command("git", "describe", "--tags", "--dirty").Output(); err == nil {
		return strings.TrimSpace(string(desc))
	}

	if rev, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output(); err == nil {
		commit := strings.TrimSpace(string(rev))
		return "dev-" + commit
	}

	return "dev-unknown"
}
