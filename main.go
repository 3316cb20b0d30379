// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/projidx/internal/command"
	"github.com/staranto/projidx/internal/config"
	mylog "github.com/staranto/projidx/internal/log"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments splices a named argument set from the config file in after
// the subcommand. "@name" on the command line selects <cmd>.<name>; without
// one, <cmd>.defaults is used when it exists. Explicit args follow the set so
// they win.
func mangleArguments(args []string) []string {
	// Leave root-level flags such as --help and --version alone.
	if strings.HasPrefix(args[1], "-") {
		return args
	}

	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	set := "defaults"
	rest := make([]string, 0, len(args)-2)
	for _, a := range args[2:] {
		// The first @set wins; it never reaches the CLI parser.
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			if set == "defaults" {
				set = a[1:]
			}
			continue
		}
		rest = append(rest, a)
	}

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)

	working := preamble
	for _, arg := range setArgs {
		working = append(working, strings.Fields(arg)...)
	}
	working = append(working, rest...)

	log.Debugf("set=%s, args=%v", set, working)
	return working
}
