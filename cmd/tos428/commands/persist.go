// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/device"
)

func RestoreFactoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restorefactory",
		Short: "Restore all set* values to the factory defaults",
		Long: "Restore all set* values to the factory defaults. The defaults are only kept\n" +
			"over a power cycle after 'tos428 makepermanent'.",
		Args: cobra.NoArgs,
		RunE: runBoard(func(_ *cobra.Command, _ []string, board *device.Board) (string, error) {
			return board.RestoreFactory()
		}),
	}
}

func MakePermanentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "makepermanent",
		Short: "Make any set* or restorefactory calls permanent",
		Args:  cobra.NoArgs,
		RunE: runBoard(func(_ *cobra.Command, _ []string, board *device.Board) (string, error) {
			return board.MakePermanent()
		}),
	}
}
