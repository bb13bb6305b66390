// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/device"
)

func GetAngleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "getangle <4|8>",
		Short: "Get the servo angle for the given way (4 vs. 8)",
		Args:  cobra.MatchAll(cobra.ExactArgs(1), wayArg(0)),
		RunE: runBoard(func(cmd *cobra.Command, args []string, board *device.Board) (string, error) {
			port, err := getPortFlag(cmd)
			if err != nil {
				return "", err
			}
			way, err := parseWay(args[0])
			if err != nil {
				return "", err
			}
			return board.Angle(port, way)
		}),
	}
	addPortFlag(cmd)
	return cmd
}

func SetAngleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setangle <4|8> <angle>",
		Short: "Set the servo angle for the given way (4 vs. 8) on all ports",
		Long: "Set the servo angle for the given way (4 vs. 8) on all ports. The angle may\n" +
			"be negative. Flags must come before the arguments.",
		Args: cobra.MatchAll(cobra.ExactArgs(2), wayArg(0), intArg("angle", 1)),
		RunE: runBoard(func(_ *cobra.Command, args []string, board *device.Board) (string, error) {
			way, err := parseWay(args[0])
			if err != nil {
				return "", err
			}
			angle, err := strconv.Atoi(args[1])
			if err != nil {
				return "", err
			}
			return board.SetAngle(way, angle)
		}),
	}
	// Stop flag parsing at the way so "setangle 4 -5" reads -5 as the angle.
	cmd.Flags().SetInterspersed(false)
	return cmd
}
