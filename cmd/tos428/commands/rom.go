// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/directory"
	"github.com/toitlang/tos428/cmd/tos428/roms"
)

func SetupROMCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setuprom <romname>",
		Short: "Set the way (4 vs. 8) for the given ROM name",
		Long: "Set the way of all ports to the one the given ROM needs. ROMs on the 4-way\n" +
			"list are 4-way, all others are 8-way. The ROM name may include a directory,\n" +
			"only the file name is matched against the list.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := directory.LoadSettings(cmd.Flags())
			if err != nil {
				return err
			}
			resolver, err := loadResolver(settings)
			if err != nil {
				return err
			}
			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			res, err := s.Board.SetupROM(resolver, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func ROMsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roms",
		Short: "Inspect the list of 4-way ROMs",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "export <file>",
			Short: "Write the built-in 4-way ROM list to a file",
			Long: "Write the built-in 4-way ROM list to a file. The file can be edited and\n" +
				"used with --romlist or 'tos428 config romlist set'.",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := os.WriteFile(args[0], roms.FourWayList, 0644); err != nil {
					return fmt.Errorf("failed to export ROM list: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d ROM names to '%s'\n", roms.Default().Len(), args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "check <romname>",
			Short: "Print the way (4 vs. 8) the given ROM needs without touching the device",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				settings, err := directory.LoadSettings(cmd.Flags())
				if err != nil {
					return err
				}
				resolver, err := loadResolver(settings)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resolver.Resolve(args[0]))
				return nil
			},
		},
	)
	return cmd
}
