// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/directory"
	"github.com/toitlang/tos428/cmd/tos428/roms"
)

func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configure tos428",
		Long: "Configure the tos428 command line tool. The settings are stored in\n" +
			"~/.config/tos428/config.yaml, or in $" + directory.UserConfigPathEnv + " if set.\n" +
			"Flags and TOS428_* environment variables take precedence over the file.",
	}

	cmd.AddCommand(
		ConfigPortCmd(),
		ConfigROMListCmd(),
		ConfigShowCmd(),
	)
	return cmd
}

func ConfigPortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "port",
		Short: "Configure the serial port of the controller",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <port>",
			Short: "Always use the given serial port instead of scanning for the controller",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return storePort(args[0])
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Scan for the controller again",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return storePort(directory.AutoPort)
			},
		},
	)
	return cmd
}

func ConfigROMListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "romlist",
		Short: "Configure the list of 4-way ROMs used by setuprom and watch",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <file>",
			Short: "Use the given file instead of the built-in list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				resolver, err := roms.Load(path)
				if err != nil {
					return err
				}

				cfg, err := directory.GetUserConfig()
				if err != nil {
					return err
				}
				cfg.Set(directory.ROMListKey, path)
				if err := directory.WriteConfig(cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Using %d ROM names from '%s'\n", resolver.Len(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Go back to the built-in list",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, err := directory.GetUserConfig()
				if err != nil {
					return err
				}
				cfg.Set(directory.ROMListKey, "")
				return directory.WriteConfig(cfg)
			},
		},
	)
	return cmd
}

func ConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc, err := parseOutputFlag(cmd)
			if err != nil {
				return err
			}
			settings, err := directory.LoadSettings(cmd.Flags())
			if err != nil {
				return err
			}
			if path, err := directory.GetUserConfigPath(); err == nil {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Config file: %s\n", path)
				}
			}
			return enc.Encode(configSettings{*settings})
		},
	}
	cmd.Flags().StringP("output", "o", "yaml", "output format, either json, yaml or short")
	return cmd
}

type configSettings struct {
	directory.Settings `yaml:",inline"`
}

func (s configSettings) Elements() []Short {
	romList := s.ROMList
	if romList == "" {
		romList = "built-in"
	}
	return []Short{
		infoLine{"Port", s.Port},
		infoLine{"Baud rate", strconv.Itoa(s.BaudRate)},
		infoLine{"Read timeout", s.Timeout.String()},
		infoLine{"Write timeout", s.WriteTimeout.String()},
		infoLine{"ROM list", romList},
		infoLine{"Debug", strconv.FormatBool(s.Debug)},
	}
}
