// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package device

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.bug.st/serial"
)

const (
	DefaultBaudRate = 115200
	// DefaultTimeout is used for both reads and writes. Anything below a
	// second does not leave the restrictor servos enough time to turn when
	// the way changes.
	DefaultTimeout = time.Second
)

// SerialPort is the part of serial.Port the channel needs.
type SerialPort interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

var _ SerialPort = serial.Port(nil)

// Opener opens the serial device at path.
type Opener func(path string, mode *serial.Mode) (SerialPort, error)

// Config holds the settings of a Channel. Zero fields take their defaults.
type Config struct {
	BaudRate     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Open defaults to opening a real serial port.
	Open Opener
	// Logf, if set, receives a trace of every exchange.
	Logf func(format string, args ...interface{})
}

// Channel performs single command/response exchanges with the board. It
// holds no connection: every call to Execute opens the port and closes it
// again before returning.
type Channel struct {
	path         string
	baudRate     int
	readTimeout  time.Duration
	writeTimeout time.Duration
	open         Opener
	logf         func(format string, args ...interface{})
}

func NewChannel(path string, cfg Config) *Channel {
	c := &Channel{
		path:         path,
		baudRate:     cfg.BaudRate,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		open:         cfg.Open,
		logf:         cfg.Logf,
	}
	if c.baudRate == 0 {
		c.baudRate = DefaultBaudRate
	}
	if c.readTimeout == 0 {
		c.readTimeout = DefaultTimeout
	}
	if c.writeTimeout == 0 {
		c.writeTimeout = DefaultTimeout
	}
	if c.open == nil {
		c.open = openSerial
	}
	if c.logf == nil {
		c.logf = func(string, ...interface{}) {}
	}
	return c
}

func (c *Channel) Path() string {
	return c.path
}

func (c *Channel) BaudRate() int {
	return c.baudRate
}

func (c *Channel) ReadTimeout() time.Duration {
	return c.readTimeout
}

func (c *Channel) WriteTimeout() time.Duration {
	return c.writeTimeout
}

func (c *Channel) String() string {
	return fmt.Sprintf("%s (%d baud)", c.path, c.baudRate)
}

// Execute writes command to the board verbatim and returns the line it
// answers with, minus trailing line terminators.
func (c *Channel) Execute(command string) (string, error) {
	c.logf("device=%s", c.path)
	c.logf("command=%s", command)

	p, err := c.open(c.path, &serial.Mode{
		BaudRate: c.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		if isNotFound(err) {
			err = fmt.Errorf("the port '%s' was not found", c.path)
		}
		return "", &IOError{Op: "open", Path: c.path, Err: err}
	}
	port := &onceCloser{SerialPort: p}
	defer port.Close()

	if err := c.write(port, []byte(command)); err != nil {
		return "", &IOError{Op: "write", Path: c.path, Err: err}
	}

	line, err := c.readLine(port)
	if err != nil {
		return "", &IOError{Op: "read", Path: c.path, Err: err}
	}
	if !utf8.Valid(line) {
		return "", &IOError{Op: "decode", Path: c.path, Err: fmt.Errorf("response is not text: %q", line)}
	}

	res := strings.TrimRight(string(line), "\r\n")
	c.logf("retval=%s", res)
	return res, nil
}

// write gives up after the write timeout and closes the port, which releases
// the device even if the pending write never returns.
func (c *Channel) write(port SerialPort, b []byte) error {
	done := make(chan error, 1)
	go func() {
		_, err := port.Write(b)
		done <- err
	}()

	timer := time.NewTimer(c.writeTimeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		port.Close()
		return ErrTimeout
	}
}

// readLine reads up to and including the first '\n'. A read returning no data
// and no error means the port's read timeout expired.
func (c *Channel) readLine(port SerialPort) ([]byte, error) {
	deadline := time.Now().Add(c.readTimeout)
	buf := make([]byte, 128)
	var line []byte
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrTimeout
		}
		if err := port.SetReadTimeout(remaining); err != nil {
			return nil, err
		}

		n, err := port.Read(buf)
		line = append(line, buf[:n]...)
		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			return line[:i+1], nil
		}
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrTimeout
		}
	}
}

func isNotFound(err error) bool {
	var portErr *serial.PortError
	if errors.As(err, &portErr) {
		return portErr.Code() == serial.PortNotFound
	}
	return os.IsNotExist(err)
}

func openSerial(path string, mode *serial.Mode) (SerialPort, error) {
	p, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type onceCloser struct {
	SerialPort
	once sync.Once
	err  error
}

func (p *onceCloser) Close() error {
	p.once.Do(func() {
		p.err = p.SerialPort.Close()
	})
	return p.err
}
