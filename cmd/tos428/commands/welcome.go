// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/device"
)

func GetWelcomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "getwelcome",
		Short: "Get the welcome message from the device",
		Long: "Get the product name and firmware version of the controller. Useful to check\n" +
			"that the right serial port is in use.",
		Args: cobra.NoArgs,
		RunE: runBoard(func(_ *cobra.Command, _ []string, board *device.Board) (string, error) {
			return board.Welcome()
		}),
	}
}

func GetKeyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "getkeylist",
		Short: "List the key names buttons can send when used as keyboard keys",
		Args:  cobra.NoArgs,
		RunE: runBoard(func(_ *cobra.Command, _ []string, board *device.Board) (string, error) {
			return board.KeyList()
		}),
	}
}

func GetVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "getversion",
		Short: "Get the firmware version of the device",
		Args:  cobra.NoArgs,
		RunE: runBoard(func(_ *cobra.Command, _ []string, board *device.Board) (string, error) {
			return board.Version()
		}),
	}
}

func GetMCUCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "getmcu",
		Short: "Get the microcontroller type of the device",
		Args:  cobra.NoArgs,
		RunE: runBoard(func(_ *cobra.Command, _ []string, board *device.Board) (string, error) {
			return board.MCU()
		}),
	}
}

func DumpEEPROMCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dumpeeprom",
		Short: "Dump the EEPROM holding the permanent configuration",
		Args:  cobra.NoArgs,
		RunE: runBoard(func(_ *cobra.Command, _ []string, board *device.Board) (string, error) {
			return board.DumpEEPROM()
		}),
	}
}
