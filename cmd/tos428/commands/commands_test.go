package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toitlang/tos428/cmd/tos428/device"
	"github.com/toitlang/tos428/cmd/tos428/directory"
	"go.bug.st/serial"
)

// simulatedBoard answers commands the way the controller firmware does.
type simulatedBoard struct {
	mu        sync.Mutex
	replies   map[string]string
	commands  []string
	openCount int
}

func newSimulatedBoard() *simulatedBoard {
	return &simulatedBoard{
		replies: map[string]string{
			"getwelcome":    "TOS GRS 428 v1.7\r\n",
			"getstartupway": "8\r\n",
			"getsilent":     "off\r\n",
			"getcolor,4":    "0,0,255\r\n",
			"getcolor,8":    "255,0,0\r\n",
		},
	}
}

func (b *simulatedBoard) open(path string, mode *serial.Mode) (device.SerialPort, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.openCount++
	return &simulatedPort{board: b}, nil
}

func (b *simulatedBoard) reply(command string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.commands = append(b.commands, command)
	if r, ok := b.replies[command]; ok {
		return r
	}
	return "ok\n"
}

func (b *simulatedBoard) Commands() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.commands...)
}

type simulatedPort struct {
	board   *simulatedBoard
	pending []byte
}

func (p *simulatedPort) Write(b []byte) (int, error) {
	p.pending = append(p.pending, p.board.reply(string(b))...)
	return len(b), nil
}

func (p *simulatedPort) Read(b []byte) (int, error) {
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

func (p *simulatedPort) SetReadTimeout(time.Duration) error { return nil }

func (p *simulatedPort) Close() error { return nil }

type result struct {
	out    string
	errOut string
	err    error
}

func setupTest(t *testing.T, board *simulatedBoard) {
	t.Setenv(directory.UserConfigPathEnv, filepath.Join(t.TempDir(), "config.yaml"))
	for _, env := range []string{"TOS428_PORT", "TOS428_DEBUG", "TOS428_ROMLIST", "TOS428_TIMEOUT"} {
		t.Setenv(env, "")
	}

	oldFind, oldOpen := findDevice, openPort
	findDevice = func() (string, error) { return "/dev/ttyACM0", nil }
	openPort = board.open
	t.Cleanup(func() {
		findDevice, openPort = oldFind, oldOpen
	})
}

func run(args ...string) result {
	cmd := Tos428Cmd(Info{Version: "test", Date: "today"}, true)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(SetInfo(context.Background(), Info{Version: "test"}))
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func Test_DeviceCommands(t *testing.T) {
	tests := []struct {
		args    []string
		command string
		out     string
	}{
		{args: []string{"getwelcome"}, command: "getwelcome", out: "TOS GRS 428 v1.7\n"},
		{args: []string{"getway"}, command: "getway,1", out: "ok\n"},
		{args: []string{"getway", "-p", "4"}, command: "getway,4", out: "ok\n"},
		{args: []string{"setway", "8"}, command: "setway,all,8", out: "ok\n"},
		{args: []string{"setway", "4"}, command: "setway,all,4", out: "ok\n"},
		{args: []string{"getstartupway"}, command: "getstartupway", out: "8\n"},
		{args: []string{"setstartupway", "4"}, command: "setstartupway,4", out: "ok\n"},
		{args: []string{"getangle", "8"}, command: "getangle,1,8", out: "ok\n"},
		{args: []string{"getangle", "--portnum", "3", "4"}, command: "getangle,3,4", out: "ok\n"},
		{args: []string{"setangle", "4", "45"}, command: "setangle,all,4,45", out: "ok\n"},
		{args: []string{"getcolor", "4"}, command: "getcolor,4", out: "0,0,255\n"},
		{args: []string{"setcolor", "8", "255", "0", "128"}, command: "setcolor,8,255,0,128", out: "ok\n"},
		{args: []string{"getsilent"}, command: "getsilent", out: "off\n"},
		{args: []string{"setsilent", "on"}, command: "setsilent,on", out: "ok\n"},
		{args: []string{"getkeylist"}, command: "getkeylist", out: "ok\n"},
		{args: []string{"getversion"}, command: "getversion", out: "ok\n"},
		{args: []string{"getmcu"}, command: "getmcu", out: "ok\n"},
		{args: []string{"dumpeeprom"}, command: "dumpeeprom", out: "ok\n"},
		{args: []string{"sendcommand", "getscope,1"}, command: "getscope,1", out: "ok\n"},
		{args: []string{"restorefactory"}, command: "restorefactory", out: "ok\n"},
		{args: []string{"makepermanent"}, command: "makepermanent", out: "ok\n"},
		{args: []string{"setuprom", "/home/pi/roms/arcade/pacman.zip"}, command: "setway,all,4", out: "ok\n"},
		{args: []string{"setuprom", "sf2.zip"}, command: "setway,all,8", out: "ok\n"},
	}

	for _, test := range tests {
		t.Run(strings.Join(test.args, " "), func(t *testing.T) {
			board := newSimulatedBoard()
			setupTest(t, board)

			res := run(test.args...)
			require.NoError(t, res.err)
			assert.Equal(t, test.out, res.out)
			assert.Equal(t, []string{test.command}, board.Commands())
		})
	}
}

func Test_InvalidArgumentsDoNotTouchDevice(t *testing.T) {
	tests := [][]string{
		{"setway", "5"},
		{"setway", "four"},
		{"setway"},
		{"setstartupway", "2"},
		{"getway", "-p", "5"},
		{"getway", "-p", "0"},
		{"getangle", "-p", "3", "6"},
		{"setangle", "8", "north"},
		{"getcolor", "3"},
		{"setcolor", "4", "256", "0", "0"},
		{"setcolor", "4", "0", "-1", "0"},
		{"setcolor", "4", "0", "0"},
		{"setsilent", "maybe"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			board := newSimulatedBoard()
			setupTest(t, board)

			res := run(args...)
			assert.Error(t, res.err)
			assert.Empty(t, board.Commands())
			assert.Equal(t, 0, board.openCount)
		})
	}
}

func Test_DeviceNotFound(t *testing.T) {
	board := newSimulatedBoard()
	setupTest(t, board)
	findDevice = func() (string, error) { return "", device.ErrDeviceNotFound }

	res := run("getwelcome")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, device.ErrDeviceNotFound))
	assert.Empty(t, board.Commands())
}

func Test_ExplicitPortSkipsDiscovery(t *testing.T) {
	board := newSimulatedBoard()
	setupTest(t, board)
	findDevice = func() (string, error) {
		t.Fatal("discovery should not run")
		return "", nil
	}

	res := run("--port", "/dev/ttyUSB7", "getwelcome")
	require.NoError(t, res.err)
	assert.Equal(t, "TOS GRS 428 v1.7\n", res.out)
}

func Test_Debug(t *testing.T) {
	board := newSimulatedBoard()
	setupTest(t, board)

	res := run("-d", "setuprom", "qbert.zip")
	require.NoError(t, res.err)
	assert.Equal(t, "ok\n", res.out)
	assert.Contains(t, res.errOut, "DBG:")
	assert.Contains(t, res.errOut, "device=/dev/ttyACM0")
	assert.Contains(t, res.errOut, "command=setway,all,4")
	assert.Contains(t, res.errOut, "setting ways to 4 for 'qbert.zip'")
}

func Test_SetupROMWithROMList(t *testing.T) {
	board := newSimulatedBoard()
	setupTest(t, board)

	list := filepath.Join(t.TempDir(), "roms.txt")
	require.NoError(t, os.WriteFile(list, []byte("sf2.zip\n"), 0644))

	res := run("--romlist", list, "setuprom", "/roms/sf2.zip")
	require.NoError(t, res.err)
	res = run("--romlist", list, "setuprom", "/roms/pacman.zip")
	require.NoError(t, res.err)
	assert.Equal(t, []string{"setway,all,4", "setway,all,8"}, board.Commands())
}

func Test_Info(t *testing.T) {
	board := newSimulatedBoard()
	setupTest(t, board)

	res := run("info", "-o", "json")
	require.NoError(t, res.err)

	var info BoardInfo
	require.NoError(t, json.Unmarshal([]byte(res.out), &info))
	assert.Equal(t, BoardInfo{
		Port:          "/dev/ttyACM0",
		Welcome:       "TOS GRS 428 v1.7",
		Firmware:      "1.7.0",
		StartupWay:    "8",
		Silent:        "off",
		FourWayColor:  "0,0,255",
		EightWayColor: "255,0,0",
	}, info)
	assert.Equal(t, []string{"getwelcome", "getstartupway", "getsilent", "getcolor,4", "getcolor,8"}, board.Commands())

	res = run("info")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Welcome:\tTOS GRS 428 v1.7\n")
	assert.Contains(t, res.out, "8-way color:\t255,0,0\n")

	res = run("info", "-o", "xml")
	assert.Error(t, res.err)
}

func Test_parseFirmwareVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "TOS GRS 428 v1.7", want: "1.7.0"},
		{in: "TOS428 firmware 2.0.3 (c) 2021", want: "2.0.3"},
		{in: "TOS GRS 428"},
		{in: ""},
	}

	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			v, ok := parseFirmwareVersion(test.in)
			if test.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, test.want, v.String())
		})
	}
}

func Test_ROMs(t *testing.T) {
	board := newSimulatedBoard()
	setupTest(t, board)

	res := run("roms", "check", "/roms/dkong.zip")
	require.NoError(t, res.err)
	assert.Equal(t, "4\n", res.out)

	res = run("roms", "check", "sf2.zip")
	require.NoError(t, res.err)
	assert.Equal(t, "8\n", res.out)

	path := filepath.Join(t.TempDir(), "export.txt")
	res = run("roms", "export", path)
	require.NoError(t, res.err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "pacman.zip\n")

	assert.Empty(t, board.Commands())
}

func Test_ConfigPort(t *testing.T) {
	board := newSimulatedBoard()
	setupTest(t, board)
	findDevice = func() (string, error) { return "", device.ErrDeviceNotFound }

	res := run("config", "port", "set", "/dev/ttyACM9")
	require.NoError(t, res.err)

	res = run("getwelcome")
	require.NoError(t, res.err)
	assert.Equal(t, "TOS GRS 428 v1.7\n", res.out)

	res = run("config", "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "port: /dev/ttyACM9")

	res = run("config", "port", "clear")
	require.NoError(t, res.err)
	res = run("getwelcome")
	assert.ErrorIs(t, res.err, device.ErrDeviceNotFound)
}

func Test_ConfigROMList(t *testing.T) {
	board := newSimulatedBoard()
	setupTest(t, board)

	list := filepath.Join(t.TempDir(), "roms.txt")
	require.NoError(t, os.WriteFile(list, []byte("sf2.zip\nmk.zip\n"), 0644))

	res := run("config", "romlist", "set", list)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Using 2 ROM names")

	res = run("setuprom", "sf2.zip")
	require.NoError(t, res.err)

	res = run("config", "romlist", "clear")
	require.NoError(t, res.err)
	res = run("setuprom", "sf2.zip")
	require.NoError(t, res.err)

	assert.Equal(t, []string{"setway,all,4", "setway,all,8"}, board.Commands())

	res = run("config", "romlist", "set", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, res.err)
}

func Test_Version(t *testing.T) {
	res := run("version")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "tos428 version:\ttest\n")
	assert.Contains(t, res.out, "Build date:\ttoday\n")
}

func Test_ConfigShow(t *testing.T) {
	board := newSimulatedBoard()
	setupTest(t, board)

	res := run("config", "show", "-o", "short")
	require.NoError(t, res.err)
	assert.Equal(t,
		"Port:\tauto\n"+
			"Baud rate:\t115200\n"+
			"Read timeout:\t1s\n"+
			"Write timeout:\t1s\n"+
			"ROM list:\tbuilt-in\n"+
			"Debug:\tfalse\n",
		res.out)

	res = run("--port", "/dev/ttyACM2", "config", "show", "-o", "json")
	require.NoError(t, res.err)
	var settings directory.Settings
	require.NoError(t, json.Unmarshal([]byte(res.out), &settings))
	assert.Equal(t, "/dev/ttyACM2", settings.Port)
	assert.Equal(t, 115200, settings.BaudRate)

	res = run("config", "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "port: auto\n")
	assert.Contains(t, res.out, "baud: 115200\n")
	assert.NotContains(t, res.out, "settings:")
}

func Test_BadROMListReportedBeforeDiscovery(t *testing.T) {
	board := newSimulatedBoard()
	setupTest(t, board)
	findDevice = func() (string, error) {
		t.Fatal("discovery should not run")
		return "", nil
	}

	missing := filepath.Join(t.TempDir(), "missing.txt")
	for _, args := range [][]string{
		{"--romlist", missing, "setuprom", "pacman.zip"},
		{"--romlist", missing, "watch", filepath.Join(t.TempDir(), "lastrom.txt")},
	} {
		res := run(args...)
		require.Error(t, res.err)
		assert.False(t, errors.Is(res.err, device.ErrDeviceNotFound))
		assert.Contains(t, res.err.Error(), "ROM list")
		assert.Contains(t, res.err.Error(), missing)
	}
	assert.Equal(t, 0, board.openCount)
}
