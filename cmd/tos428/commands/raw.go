// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/device"
)

func SendCommandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sendcommand <command>",
		Short: "Send an arbitrary command to the device",
		Long: "Send a command verbatim to the controller and print its answer. Useful for\n" +
			"commands this tool has no subcommand for, e.g. 'getscope,1'.",
		Args: cobra.ExactArgs(1),
		RunE: runBoard(func(_ *cobra.Command, args []string, board *device.Board) (string, error) {
			return board.SendCommand(args[0])
		}),
	}
}
