// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/device"
)

func GetWayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "getway",
		Short: "Get the current way (4 vs. 8) for a joystick port",
		Args:  cobra.NoArgs,
		RunE: runBoard(func(cmd *cobra.Command, _ []string, board *device.Board) (string, error) {
			port, err := getPortFlag(cmd)
			if err != nil {
				return "", err
			}
			return board.Way(port)
		}),
	}
	addPortFlag(cmd)
	return cmd
}

func SetWayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setway <4|8>",
		Short: "Set the way (4 vs. 8) for all joystick ports",
		Args:  cobra.MatchAll(cobra.ExactArgs(1), wayArg(0)),
		RunE: runBoard(func(_ *cobra.Command, args []string, board *device.Board) (string, error) {
			way, err := parseWay(args[0])
			if err != nil {
				return "", err
			}
			return board.SetWay(way)
		}),
	}
}

func GetStartupWayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "getstartupway",
		Short: "Get the startup (i.e. power on) way for the device",
		Args:  cobra.NoArgs,
		RunE: runBoard(func(_ *cobra.Command, _ []string, board *device.Board) (string, error) {
			return board.StartupWay()
		}),
	}
}

func SetStartupWayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setstartupway <4|8>",
		Short: "Set the startup way for the device",
		Args:  cobra.MatchAll(cobra.ExactArgs(1), wayArg(0)),
		RunE: runBoard(func(_ *cobra.Command, args []string, board *device.Board) (string, error) {
			way, err := parseWay(args[0])
			if err != nil {
				return "", err
			}
			return board.SetStartupWay(way)
		}),
	}
}
