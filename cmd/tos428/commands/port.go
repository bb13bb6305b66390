// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/toitlang/tos428/cmd/tos428/device"
	"github.com/toitlang/tos428/cmd/tos428/directory"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"golang.org/x/term"
)

// Replaced in tests.
var (
	listPorts         = serial.GetPortsList
	listDetailedPorts = enumerator.GetDetailedPortsList
)

func PortsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List the serial ports and mark the TOS 428 controller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := cmd.Flags().GetBool("all")
			if err != nil {
				return err
			}

			ports, err := listDetailedPorts()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			found := 0
			for _, p := range ports {
				if !all && !p.IsUSB {
					continue
				}
				found++
				line := p.Name
				if p.IsUSB {
					line += fmt.Sprintf("\t%s:%s", strings.ToLower(p.VID), strings.ToLower(p.PID))
					if p.Product != "" {
						line += "\t" + p.Product
					}
				}
				if isBoard(p) {
					line += "\t(TOS 428)"
				}
				fmt.Fprintln(w, line)
			}
			if found == 0 {
				fmt.Fprintln(w, "No serial ports detected.")
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "if set, will also show non-USB ports")
	return cmd
}

func isBoard(p *enumerator.PortDetails) bool {
	return p.IsUSB && strings.EqualFold(p.VID, device.VendorID) && strings.EqualFold(p.PID, device.ProductID)
}

func SetPortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-port",
		Short: "Select the serial port you want to use",
		Long: "Select the serial port of the controller and store it in the user config.\n" +
			"Use 'tos428 config port clear' to go back to scanning for the controller.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := cmd.Flags().GetBool("all")
			if err != nil {
				return err
			}

			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("set-port needs an interactive terminal, use 'tos428 config port set <port>' instead")
			}

			port, err := pickPort(all)
			if err != nil {
				return err
			}
			if err := storePort(port); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Using serial port '%s'\n", port)
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "if set, will show all available ports")
	return cmd
}

func storePort(port string) error {
	cfg, err := directory.GetUserConfig()
	if err != nil {
		return err
	}
	cfg.Set(directory.PortKey, port)
	return directory.WriteConfig(cfg)
}

func pickPort(all bool) (string, error) {
	ports, err := listPorts()
	if err != nil {
		return "", err
	}
	if !all {
		ports = filterPorts(ports)
	}
	if len(ports) == 0 {
		return "", fmt.Errorf("no serial ports detected. Is the controller plugged in?")
	}

	prompt := promptui.Select{
		Label:     "Choose what serial port you want to use",
		Items:     ports,
		Templates: &promptui.SelectTemplates{},
	}

	i, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("you didn't select anything")
	}

	return ports[i], nil
}

func filterPorts(ports []string) []string {
	switch runtime.GOOS {
	case "darwin":
		return darwinFilterPaths(ports)
	case "linux":
		return linuxFilterPaths(ports)
	default:
		return ports
	}
}

func darwinFilterPaths(paths []string) []string {
	existing := map[string]struct{}{}
	for _, p := range paths {
		existing[p] = struct{}{}
	}
	var res []string
	for _, path := range paths {
		if strings.HasPrefix(path, "/dev/cu") && !strings.Contains(path, "Bluetooth") {
			res = append(res, path)
		} else if strings.HasPrefix(path, "/dev/tty") && !strings.Contains(path, "Bluetooth") {
			candidate := "/dev/cu" + strings.TrimPrefix(path, "/dev/tty")
			if _, exists := existing[candidate]; !exists {
				res = append(res, path)
			}
		}
	}
	return res
}

// linuxFilterPaths keeps the USB serial devices. The controller shows up as a
// CDC ACM device.
func linuxFilterPaths(paths []string) []string {
	res := []string(nil)
	for _, path := range paths {
		if strings.Contains(path, "tty") {
			if strings.Contains(path, "USB") || strings.Contains(path, "ACM") {
				res = append(res, path)
			}
		}
	}
	return res
}
