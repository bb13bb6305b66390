// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package device

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"

	"go.bug.st/serial/enumerator"
)

const (
	// VendorID and ProductID are the USB ids the board enumerates with.
	VendorID  = "2341"
	ProductID = "8036"

	// ProductSignature is the line the kernel writes to the uevent file of
	// the board's tty.
	ProductSignature = "PRODUCT=2341/8036/100"

	ueventGlob = "sys/class/tty/tty*/device/uevent"
	devDir     = "/dev"
)

var productRegexp = regexp.MustCompile("(?m)^" + regexp.QuoteMeta(ProductSignature) + "$")

// Uevent is the path and contents of one tty uevent file.
type Uevent struct {
	Path     string
	Contents string
}

// Find locates the board on the running host. It scans sysfs and, if the
// host has no sysfs tty entries at all, falls back to the USB details
// reported by the serial enumerator.
func Find() (string, error) {
	events, err := ReadUevents(os.DirFS("/"))
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return LocateDetailed(enumerator.GetDetailedPortsList)
	}
	return MatchUevents(events)
}

// Locate finds the board by scanning the uevent files in fsys, which must be
// rooted at the host's "/".
func Locate(fsys fs.FS) (string, error) {
	events, err := ReadUevents(fsys)
	if err != nil {
		return "", err
	}
	return MatchUevents(events)
}

// ReadUevents returns the tty uevent files in fsys in lexical path order.
func ReadUevents(fsys fs.FS) ([]Uevent, error) {
	paths, err := fs.Glob(fsys, ueventGlob)
	if err != nil {
		return nil, err
	}

	var res []Uevent
	for _, p := range paths {
		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read '%s': %w", p, err)
		}
		res = append(res, Uevent{Path: p, Contents: string(b)})
	}
	return res, nil
}

// MatchUevents returns the device path of the first entry whose contents
// hold the product signature line.
func MatchUevents(events []Uevent) (string, error) {
	for _, ev := range events {
		if !productRegexp.MatchString(ev.Contents) {
			continue
		}
		name, ok := ttyName(ev.Path)
		if !ok {
			continue
		}
		return path.Join(devDir, name), nil
	}
	return "", ErrDeviceNotFound
}

// ttyName extracts "ttyACM0" from ".../tty/ttyACM0/device/uevent".
func ttyName(p string) (string, bool) {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) < 3 {
		return "", false
	}
	name := parts[len(parts)-3]
	if !strings.HasPrefix(name, "tty") {
		return "", false
	}
	return name, true
}

// LocateDetailed finds the board among the ports returned by list by its USB
// vendor and product id.
func LocateDetailed(list func() ([]*enumerator.PortDetails, error)) (string, error) {
	ports, err := list()
	if err != nil {
		return "", err
	}
	for _, p := range ports {
		if p == nil || !p.IsUSB {
			continue
		}
		if strings.EqualFold(p.VID, VendorID) && strings.EqualFold(p.PID, ProductID) {
			return p.Name, nil
		}
	}
	return "", ErrDeviceNotFound
}
