// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/toitlang/tos428/cmd/tos428/device"
)

// portValue is a pflag.Value restricted to the joystick ports 1-4.
type portValue device.Port

var _ pflag.Value = (*portValue)(nil)

func newPortValue(def device.Port) *portValue {
	v := portValue(def)
	return &v
}

func (p *portValue) String() string {
	return strconv.Itoa(int(*p))
}

func (p *portValue) Set(s string) error {
	port, err := parsePort(s)
	if err != nil {
		return err
	}
	*p = portValue(port)
	return nil
}

func (p *portValue) Type() string {
	return "{1,2,3,4}"
}

func (p *portValue) Port() device.Port {
	return device.Port(*p)
}

func parsePort(s string) (device.Port, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port '%s', must be one of 1, 2, 3 or 4", s)
	}
	port := device.Port(i)
	if err := port.Validate(); err != nil {
		return 0, err
	}
	return port, nil
}

func parseWay(s string) (device.Way, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid way '%s', must be 4 or 8", s)
	}
	way := device.Way(i)
	if err := way.Validate(); err != nil {
		return 0, err
	}
	return way, nil
}

func parseColorComponent(name string, s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s', must be a number", name, s)
	}
	if err := device.ValidateColorComponent(name, i); err != nil {
		return 0, err
	}
	return i, nil
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value '%s', must be on or off", s)
	}
}

// wayArg validates that positional argument i is a way.
func wayArg(i int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		_, err := parseWay(args[i])
		return err
	}
}

func intArg(name string, i int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if _, err := strconv.Atoi(args[i]); err != nil {
			return fmt.Errorf("invalid %s '%s', must be a number", name, args[i])
		}
		return nil
	}
}

func colorArgs(first int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		for i, name := range []string{"red", "green", "blue"} {
			if _, err := parseColorComponent(name, args[first+i]); err != nil {
				return err
			}
		}
		return nil
	}
}

func onOffArg(i int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		_, err := parseOnOff(args[i])
		return err
	}
}

func getPortFlag(cmd *cobra.Command) (device.Port, error) {
	f := cmd.Flags().Lookup("portnum")
	if f == nil {
		return device.MinPort, nil
	}
	v, ok := f.Value.(*portValue)
	if !ok {
		return 0, fmt.Errorf("flag 'portnum' has unexpected type %s", f.Value.Type())
	}
	return v.Port(), nil
}

func addPortFlag(cmd *cobra.Command) {
	cmd.Flags().VarP(newPortValue(device.MinPort), "portnum", "p", "joystick port to query")
}
