// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/device"
	"github.com/toitlang/tos428/cmd/tos428/directory"
)

const watchDebounce = 100 * time.Millisecond

func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Set the way whenever a new ROM name is written to <file>",
		Long: "Watch <file> and set the way of all ports each time it changes, like setuprom.\n" +
			"The first line of the file is taken as the ROM name. Point the game launcher of\n" +
			"your frontend at the file to switch the restrictors on every game start.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if stat, err := os.Stat(path); err == nil && stat.IsDir() {
				return fmt.Errorf("can't watch directory: '%s'", path)
			}

			settings, err := directory.LoadSettings(cmd.Flags())
			if err != nil {
				return err
			}
			resolver, err := loadResolver(settings)
			if err != nil {
				return err
			}
			s, err := openBoard(cmd)
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()

			// Watching the directory also catches launchers that replace the file.
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				return fmt.Errorf("failed to watch '%s': %w", path, err)
			}

			w := &romWatcher{
				path:     path,
				board:    s.Board,
				resolver: resolver,
				out:      cmd.OutOrStdout(),
				debounce: watchDebounce,
			}
			fmt.Fprintf(w.out, "Watching '%s' ...\n", path)
			if _, err := os.Stat(path); err == nil {
				w.apply()
			}
			return w.run(cmd.Context(), watcher.Events, watcher.Errors)
		},
	}
	return cmd
}

// romWatcher applies the ROM named in a file to the board. Changes are
// handled one at a time on the goroutine calling run.
type romWatcher struct {
	path     string
	board    *device.Board
	resolver device.WayResolver
	out      io.Writer
	debounce time.Duration
}

func (w *romWatcher) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.apply()
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			fmt.Fprintln(w.out, "Watch error:", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *romWatcher) apply() {
	rom, err := readROMName(w.path)
	if err != nil {
		fmt.Fprintln(w.out, "Error:", err)
		return
	}
	if rom == "" {
		return
	}
	res, err := w.board.SetupROM(w.resolver, rom)
	if err != nil {
		fmt.Fprintln(w.out, "Error:", err)
		return
	}
	fmt.Fprintf(w.out, "%s: %d-way: %s\n", rom, w.resolver.Resolve(rom), res)
}

func readROMName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	scanner := bufio.NewScanner(bytes.NewReader(b))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", scanner.Err()
}
