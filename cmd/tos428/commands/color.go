// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/device"
)

func GetColorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "getcolor <4|8>",
		Short: "Get the RGB color for the given way (4 vs. 8)",
		Args:  cobra.MatchAll(cobra.ExactArgs(1), wayArg(0)),
		RunE: runBoard(func(_ *cobra.Command, args []string, board *device.Board) (string, error) {
			way, err := parseWay(args[0])
			if err != nil {
				return "", err
			}
			return board.Color(way)
		}),
	}
}

func SetColorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setcolor <4|8> <red> <green> <blue>",
		Short: "Set the RGB color for the given way (4 vs. 8)",
		Long: "Set the color the button shows while the restrictors are in the given way.\n" +
			"Each color component must be between 0 and 255.",
		Args: cobra.MatchAll(cobra.ExactArgs(4), wayArg(0), colorArgs(1)),
		RunE: runBoard(func(_ *cobra.Command, args []string, board *device.Board) (string, error) {
			way, err := parseWay(args[0])
			if err != nil {
				return "", err
			}
			var rgb [3]int
			for i, name := range []string{"red", "green", "blue"} {
				if rgb[i], err = parseColorComponent(name, args[i+1]); err != nil {
					return "", err
				}
			}
			return board.SetColor(way, rgb[0], rgb[1], rgb[2])
		}),
	}
}
