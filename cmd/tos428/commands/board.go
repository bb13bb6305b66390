// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/device"
	"github.com/toitlang/tos428/cmd/tos428/directory"
	"github.com/toitlang/tos428/cmd/tos428/roms"
)

// Replaced in tests.
var (
	findDevice = device.Find
	openPort   device.Opener
)

type boardFunc func(cmd *cobra.Command, args []string, board *device.Board) (string, error)

// runBoard opens the board, runs fn and prints the raw answer of the
// controller.
func runBoard(fn boardFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openBoard(cmd)
		if err != nil {
			return err
		}
		res, err := fn(cmd, args, s.Board)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		return nil
	}
}

// session is the board a command talks to, resolved from the effective
// settings.
type session struct {
	Board    *device.Board
	Channel  *device.Channel
	Settings *directory.Settings
}

func openBoard(cmd *cobra.Command) (*session, error) {
	settings, err := directory.LoadSettings(cmd.Flags())
	if err != nil {
		return nil, err
	}

	logf := func(string, ...interface{}) {}
	if settings.Debug {
		logf = debugLogger(cmd.ErrOrStderr())
	}

	path := settings.Port
	if path == directory.AutoPort {
		if path, err = findDevice(); err != nil {
			if errors.Is(err, device.ErrDeviceNotFound) {
				return nil, fmt.Errorf("%w, is it plugged in? Use --port to select the serial port", err)
			}
			return nil, err
		}
	}

	ch := device.NewChannel(path, device.Config{
		BaudRate:     settings.BaudRate,
		ReadTimeout:  settings.Timeout,
		WriteTimeout: settings.WriteTimeout,
		Open:         openPort,
		Logf:         logf,
	})
	board := device.NewBoard(ch)
	board.SetLogger(logf)
	return &session{
		Board:    board,
		Channel:  ch,
		Settings: settings,
	}, nil
}

func loadResolver(settings *directory.Settings) (*roms.Resolver, error) {
	if settings.ROMList == "" {
		return roms.Default(), nil
	}
	return roms.Load(settings.ROMList)
}

func debugLogger(w io.Writer) func(format string, args ...interface{}) {
	prefix := color.New(color.FgYellow, color.Bold).SprintFunc()
	return func(format string, args ...interface{}) {
		fmt.Fprintf(w, "%s %s\n", prefix("DBG:"), fmt.Sprintf(format, args...))
	}
}
