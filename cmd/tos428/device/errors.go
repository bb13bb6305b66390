// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package device

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceNotFound is returned when no attached tty matches the TOS 428
	// USB signature.
	ErrDeviceNotFound = errors.New("could not find TOS 428 device")

	// ErrTimeout is returned when the board does not answer with a full line
	// in time. It is always wrapped in an *IOError.
	ErrTimeout = errors.New("timed out waiting for device")
)

// IOError is a failure to open, write to, read from or decode a response from
// the serial device.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ValidationError reports an argument outside its allowed set. It is raised
// before any I/O takes place.
type ValidationError struct {
	Arg     string
	Value   interface{}
	Allowed string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s '%v', must be %s", e.Arg, e.Value, e.Allowed)
}

// IsTimeout reports whether err is, or wraps, ErrTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
