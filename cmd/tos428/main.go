// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/toitlang/tos428/cmd/tos428/commands"
)

var (
	version = "v0.1.0"
)

var buildDate = "unknown"
var buildMode = "development"

func main() {
	isReleaseBuild := buildMode == "release"

	info := commands.Info{
		Date:    buildDate,
		Version: version,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx = commands.SetInfo(ctx, info)
	cmd := commands.Tos428Cmd(info, isReleaseBuild)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
