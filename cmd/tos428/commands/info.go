// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"fmt"
	"regexp"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/device"
)

func InfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show an overview of the device settings",
		Long: "Query the welcome message, startup way, silent mode and the colors of both\n" +
			"ways, one exchange at a time, and print them.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc, err := parseOutputFlag(cmd)
			if err != nil {
				return err
			}

			s, err := openBoard(cmd)
			if err != nil {
				return err
			}

			info, err := queryBoardInfo(s.Board)
			if err != nil {
				return err
			}
			info.Port = s.Channel.Path()
			return enc.Encode(info)
		},
	}
	addOutputFlag(cmd)
	return cmd
}

type BoardInfo struct {
	Port          string `yaml:"port" json:"port"`
	Welcome       string `yaml:"welcome" json:"welcome"`
	Firmware      string `yaml:"firmware,omitempty" json:"firmware,omitempty"`
	StartupWay    string `yaml:"startupWay" json:"startupWay"`
	Silent        string `yaml:"silent" json:"silent"`
	FourWayColor  string `yaml:"fourWayColor" json:"fourWayColor"`
	EightWayColor string `yaml:"eightWayColor" json:"eightWayColor"`
}

type infoLine struct {
	key   string
	value string
}

func (l infoLine) Short() string {
	return fmt.Sprintf("%s:\t%s", l.key, l.value)
}

func (i BoardInfo) Elements() []Short {
	res := []Short{
		infoLine{"Device", i.Port},
		infoLine{"Welcome", i.Welcome},
	}
	if i.Firmware != "" {
		res = append(res, infoLine{"Firmware", i.Firmware})
	}
	return append(res,
		infoLine{"Startup way", i.StartupWay},
		infoLine{"Silent", i.Silent},
		infoLine{"4-way color", i.FourWayColor},
		infoLine{"8-way color", i.EightWayColor},
	)
}

func queryBoardInfo(board *device.Board) (*BoardInfo, error) {
	var res BoardInfo
	var err error
	if res.Welcome, err = board.Welcome(); err != nil {
		return nil, err
	}
	if v, ok := parseFirmwareVersion(res.Welcome); ok {
		res.Firmware = v.String()
	}
	if res.StartupWay, err = board.StartupWay(); err != nil {
		return nil, err
	}
	if res.Silent, err = board.Silent(); err != nil {
		return nil, err
	}
	if res.FourWayColor, err = board.Color(device.FourWay); err != nil {
		return nil, err
	}
	if res.EightWayColor, err = board.Color(device.EightWay); err != nil {
		return nil, err
	}
	return &res, nil
}

var firmwareVersionRegexp = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// parseFirmwareVersion finds the version number in a welcome message such as
// "TOS GRS 428 v1.7". A missing patch level is taken as 0.
func parseFirmwareVersion(welcome string) (*semver.Version, bool) {
	m := firmwareVersionRegexp.FindStringSubmatch(welcome)
	if m == nil {
		return nil, false
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	v, err := semver.NewVersion(fmt.Sprintf("%s.%s.%s", m[1], m[2], patch))
	if err != nil {
		return nil, false
	}
	return v, true
}
