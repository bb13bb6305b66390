// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/device"
)

func GetSilentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "getsilent",
		Short: "Get whether the servos are unpowered while not moving",
		Args:  cobra.NoArgs,
		RunE: runBoard(func(_ *cobra.Command, _ []string, board *device.Board) (string, error) {
			return board.Silent()
		}),
	}
}

func SetSilentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setsilent <on|off>",
		Short: "Unpower the servos while not moving",
		Long: "With silent mode on, the servos are unpowered while not moving. This lowers\n" +
			"power use and noise, but also the holding torque of the restrictors.\n" +
			"The recommended setting is off.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), onOffArg(0)),
		ValidArgs: []string{"on", "off"},
		RunE: runBoard(func(_ *cobra.Command, args []string, board *device.Board) (string, error) {
			silent, err := parseOnOff(args[0])
			if err != nil {
				return "", err
			}
			return board.SetSilent(silent)
		}),
	}
}
