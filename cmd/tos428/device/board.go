// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package device

import (
	"fmt"
	"strconv"
)

// Way is the joystick restrictor mode.
type Way int

const (
	FourWay  Way = 4
	EightWay Way = 8
)

// Ways lists the valid restrictor modes.
var Ways = []Way{FourWay, EightWay}

func (w Way) Validate() error {
	if w != FourWay && w != EightWay {
		return &ValidationError{Arg: "way", Value: int(w), Allowed: "4 or 8"}
	}
	return nil
}

func (w Way) String() string {
	return strconv.Itoa(int(w))
}

// Port is one of the four joystick connectors on the board.
type Port int

const (
	MinPort Port = 1
	MaxPort Port = 4
)

func (p Port) Validate() error {
	if p < MinPort || p > MaxPort {
		return &ValidationError{Arg: "port", Value: int(p), Allowed: "one of 1, 2, 3 or 4"}
	}
	return nil
}

func (p Port) String() string {
	return strconv.Itoa(int(p))
}

// ValidateColorComponent checks that v fits in one byte.
func ValidateColorComponent(name string, v int) error {
	if v < 0 || v > 255 {
		return &ValidationError{Arg: name, Value: v, Allowed: "between 0 and 255"}
	}
	return nil
}

// Executor runs a single command against the board and returns its raw
// response. *Channel is the production implementation.
type Executor interface {
	Execute(command string) (string, error)
}

// WayResolver decides which way a ROM needs.
type WayResolver interface {
	Resolve(romName string) Way
}

// Board exposes the controller's command vocabulary. Responses are returned
// exactly as the firmware sends them, so "ok" and "err" markers are passed
// through for the caller to interpret.
type Board struct {
	exec Executor
	logf func(format string, args ...interface{})
}

func NewBoard(exec Executor) *Board {
	return &Board{
		exec: exec,
		logf: func(string, ...interface{}) {},
	}
}

// SetLogger sets the debug trace function.
func (b *Board) SetLogger(logf func(format string, args ...interface{})) {
	if logf != nil {
		b.logf = logf
	}
}

// Welcome returns the product name and firmware version.
func (b *Board) Welcome() (string, error) {
	return b.exec.Execute("getwelcome")
}

// KeyList returns the symbolic key names buttons can emulate when used as
// USB keyboard keys.
func (b *Board) KeyList() (string, error) {
	return b.exec.Execute("getkeylist")
}

// Way returns the current way of the given port.
func (b *Board) Way(port Port) (string, error) {
	if err := port.Validate(); err != nil {
		return "", err
	}
	return b.exec.Execute(fmt.Sprintf("getway,%d", port))
}

// SetWay sets the way of all ports.
func (b *Board) SetWay(way Way) (string, error) {
	if err := way.Validate(); err != nil {
		return "", err
	}
	return b.exec.Execute(fmt.Sprintf("setway,all,%d", way))
}

// StartupWay returns the way the restrictors move to on power up.
func (b *Board) StartupWay() (string, error) {
	return b.exec.Execute("getstartupway")
}

func (b *Board) SetStartupWay(way Way) (string, error) {
	if err := way.Validate(); err != nil {
		return "", err
	}
	return b.exec.Execute(fmt.Sprintf("setstartupway,%d", way))
}

// Angle returns the servo angle used for way on the given port.
func (b *Board) Angle(port Port, way Way) (string, error) {
	if err := port.Validate(); err != nil {
		return "", err
	}
	if err := way.Validate(); err != nil {
		return "", err
	}
	return b.exec.Execute(fmt.Sprintf("getangle,%d,%d", port, way))
}

// SetAngle sets the servo angle used for way on all ports.
func (b *Board) SetAngle(way Way, angle int) (string, error) {
	if err := way.Validate(); err != nil {
		return "", err
	}
	return b.exec.Execute(fmt.Sprintf("setangle,all,%d,%d", way, angle))
}

// Color returns the RGB color shown for way, e.g. "0,255,255".
func (b *Board) Color(way Way) (string, error) {
	if err := way.Validate(); err != nil {
		return "", err
	}
	return b.exec.Execute(fmt.Sprintf("getcolor,%d", way))
}

func (b *Board) SetColor(way Way, red, green, blue int) (string, error) {
	if err := way.Validate(); err != nil {
		return "", err
	}
	for _, c := range []struct {
		name  string
		value int
	}{{"red", red}, {"green", green}, {"blue", blue}} {
		if err := ValidateColorComponent(c.name, c.value); err != nil {
			return "", err
		}
	}
	return b.exec.Execute(fmt.Sprintf("setcolor,%d,%d,%d,%d", way, red, green, blue))
}

// Silent returns whether the servos are unpowered while not moving.
func (b *Board) Silent() (string, error) {
	return b.exec.Execute("getsilent")
}

func (b *Board) SetSilent(silent bool) (string, error) {
	s := "off"
	if silent {
		s = "on"
	}
	return b.exec.Execute("setsilent," + s)
}

func (b *Board) Version() (string, error) {
	return b.exec.Execute("getversion")
}

func (b *Board) MCU() (string, error) {
	return b.exec.Execute("getmcu")
}

// DumpEEPROM lists the static memory the permanent configuration lives in.
func (b *Board) DumpEEPROM() (string, error) {
	return b.exec.Execute("dumpeeprom")
}

// SetupROM sets the way of all ports to the one romName needs.
func (b *Board) SetupROM(resolver WayResolver, romName string) (string, error) {
	way := resolver.Resolve(romName)
	b.logf("setting ways to %d for '%s'", way, romName)
	return b.SetWay(way)
}

// SendCommand sends command verbatim.
func (b *Board) SendCommand(command string) (string, error) {
	return b.exec.Execute(command)
}

// RestoreFactory reverts to the factory settings until the board is power
// cycled, unless followed by MakePermanent.
func (b *Board) RestoreFactory() (string, error) {
	return b.exec.Execute("restorefactory")
}

// MakePermanent commits all pending set* and RestoreFactory changes.
func (b *Board) MakePermanent() (string, error) {
	return b.exec.Execute("makepermanent")
}
