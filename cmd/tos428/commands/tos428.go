// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/device"
	"github.com/toitlang/tos428/cmd/tos428/directory"
)

type ctxKey string

const (
	ctxKeyInfo ctxKey = "info"
)

type Info struct {
	Version string `mapstructure:"version" yaml:"version" json:"version"`
	Date    string `mapstructure:"date" yaml:"date" json:"date"`
}

func SetInfo(ctx context.Context, info Info) context.Context {
	return context.WithValue(ctx, ctxKeyInfo, info)
}

func GetInfo(ctx context.Context) Info {
	return ctx.Value(ctxKeyInfo).(Info)
}

func Tos428Cmd(info Info, isReleaseBuild bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tos428",
		Short: "Send a command to the TOS 428 controller",
		Long: "tos428 talks to the TOS GRS 428 switchable 4-to-8-way restrictor controller\n" +
			"over its USB serial port.\n\n" +
			"Every command opens the port, sends one command, prints the answer of the\n" +
			"controller and closes the port again. Changes made with the set* commands\n" +
			"and restorefactory only survive a power cycle after 'tos428 makepermanent'.",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolP(directory.DebugKey, "d", false, "print the device, command and response of every exchange")
	flags.String(directory.PortKey, directory.AutoPort, "serial device of the controller, 'auto' scans for it")
	flags.Int(directory.BaudKey, device.DefaultBaudRate, "baud rate of the serial port")
	flags.Duration(directory.TimeoutKey, device.DefaultTimeout, "how long to wait for the controller to answer")
	flags.Duration(directory.WriteTimeoutKey, device.DefaultTimeout, "how long to wait for a command to be written")
	flags.String(directory.ROMListKey, "", "file listing the 4-way ROMs, defaults to the built-in list")

	cmd.AddCommand(
		GetWelcomeCmd(),
		GetKeyListCmd(),
		GetVersionCmd(),
		GetMCUCmd(),
		GetWayCmd(),
		SetWayCmd(),
		GetStartupWayCmd(),
		SetStartupWayCmd(),
		GetAngleCmd(),
		SetAngleCmd(),
		GetColorCmd(),
		SetColorCmd(),
		GetSilentCmd(),
		SetSilentCmd(),
		SetupROMCmd(),
		SendCommandCmd(),
		RestoreFactoryCmd(),
		MakePermanentCmd(),
		DumpEEPROMCmd(),
		InfoCmd(),
		WatchCmd(),
		PortsCmd(),
		SetPortCmd(),
		ROMsCmd(),
		ConfigCmd(),
		VersionCmd(info, isReleaseBuild),
	)
	return cmd
}
