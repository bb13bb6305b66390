// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

// Package roms decides whether an arcade ROM needs a 4-way or an 8-way
// joystick.
package roms

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/toitlang/tos428/cmd/tos428/device"
)

// FourWayList is the built-in list of ROM file names that need a 4-way
// joystick, one per line.
//
//go:embed roms4way.txt
var FourWayList []byte

// Resolver maps ROM file names to ways. ROMs on its list are 4-way, every
// other ROM is 8-way.
type Resolver struct {
	names map[string]struct{}
}

var _ device.WayResolver = (*Resolver)(nil)

// Default returns a Resolver backed by the built-in list.
func Default() *Resolver {
	r, err := Parse(bytes.NewReader(FourWayList))
	if err != nil {
		// The embedded list is always readable.
		panic(err)
	}
	return r
}

// Load reads a ROM list from the file at path.
func Load(path string) (*Resolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ROM list: %w", err)
	}
	defer f.Close()

	r, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM list '%s': %w", path, err)
	}
	return r, nil
}

// Parse reads a ROM list, one file name per line. Blank lines are ignored.
func Parse(r io.Reader) (*Resolver, error) {
	res := &Resolver{
		names: map[string]struct{}{},
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(name) == "" {
			continue
		}
		res.names[name] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Len returns the number of ROMs on the list.
func (r *Resolver) Len() int {
	return len(r.names)
}

// Contains reports whether the base name of romName is on the list. The
// comparison is exact and case sensitive.
func (r *Resolver) Contains(romName string) bool {
	_, ok := r.names[filepath.Base(romName)]
	return ok
}

// Resolve returns the way romName needs, which may include a directory.
func (r *Resolver) Resolve(romName string) device.Way {
	if r.Contains(romName) {
		return device.FourWay
	}
	return device.EightWay
}
