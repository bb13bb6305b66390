// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package directory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// UserConfigPathEnv if set, will load the user config from that path.
	UserConfigPathEnv = "TOS428_USER_CONFIG_PATH"
	// EnvPrefix prefixes the environment variables overriding config keys,
	// e.g. TOS428_PORT or TOS428_WRITE_TIMEOUT.
	EnvPrefix = "TOS428"

	PortKey         = "port"
	BaudKey         = "baud"
	TimeoutKey      = "timeout"
	WriteTimeoutKey = "write-timeout"
	ROMListKey      = "romlist"
	DebugKey        = "debug"

	// AutoPort makes the tool scan for the board.
	AutoPort = "auto"
)

// Settings are the effective tool settings after merging flags, environment
// and the user config file.
type Settings struct {
	Port         string        `mapstructure:"port" yaml:"port" json:"port"`
	BaudRate     int           `mapstructure:"baud" yaml:"baud" json:"baud"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout" yaml:"write-timeout" json:"write-timeout"`
	ROMList      string        `mapstructure:"romlist" yaml:"romlist" json:"romlist"`
	Debug        bool          `mapstructure:"debug" yaml:"debug" json:"debug"`
}

func GetUserConfigPath() (string, error) {
	if path, ok := os.LookupEnv(UserConfigPathEnv); ok {
		return path, nil
	}

	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homedir, ".config", "tos428", "config.yaml"), nil
}

// GetUserConfig returns the user config file only, for editing.
func GetUserConfig() (*viper.Viper, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config path: %w", err)
	}

	cfg := viper.New()
	cfg.SetConfigType("yaml")
	cfg.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := cfg.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read user config: %w", err)
		}
	}
	return cfg, nil
}

// LoadSettings merges, from highest to lowest priority, the flags that were
// set in flags, TOS428_* environment variables, the user config file and the
// flag defaults.
func LoadSettings(flags *pflag.FlagSet) (*Settings, error) {
	cfg, err := GetUserConfig()
	if err != nil {
		return nil, err
	}

	cfg.SetEnvPrefix(EnvPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(PortKey, AutoPort)
	cfg.SetDefault(BaudKey, 115200)
	cfg.SetDefault(TimeoutKey, time.Second)
	cfg.SetDefault(WriteTimeoutKey, time.Second)
	cfg.SetDefault(ROMListKey, "")
	cfg.SetDefault(DebugKey, false)

	if flags != nil {
		for _, key := range []string{PortKey, BaudKey, TimeoutKey, WriteTimeoutKey, ROMListKey, DebugKey} {
			if f := flags.Lookup(key); f != nil {
				if err := cfg.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var res Settings
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := cfg.Unmarshal(&res, hook); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if res.Port == "" {
		res.Port = AutoPort
	}
	return &res, nil
}

func WriteConfig(cfg *viper.Viper) error {
	file := cfg.ConfigFileUsed()
	dir := filepath.Dir(file)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmpFile := filepath.Join(filepath.Dir(file), ".config.tmp.yaml")
	if err := cfg.WriteConfigAs(tmpFile); err != nil {
		return err
	}
	defer os.Remove(tmpFile)

	return os.Rename(tmpFile, file)
}
