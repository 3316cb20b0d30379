// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/projidx/internal/config"
	"github.com/staranto/projidx/internal/meta"
	"github.com/staranto/projidx/internal/version"
)

// InitApp loads the config file for the subcommand named in args and builds
// the command tree. A missing config file is not an error; an unreadable one
// is.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// The arg[1] immediately following the binary (arg[0]) is the projidx
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, err := config.Load(ns)
	if err != nil {
		if !errors.Is(err, config.ErrNoConfig) {
			return nil, err
		}
		log.Debugf("%v, using defaults", err)
	}

	meta := meta.Meta{
		Args:      args,
		Config:    cfg,
		Context:   ctx,
		Namespace: ns,
	}

	app := &cli.Command{
		Name:    "projidx",
		Usage:   "Project index cache",
		Version: version.Version,
	}

	app.Commands = append(app.Commands,
		ListCommandBuilder(meta),
		FeaturedCommandBuilder(meta),
		ShowCommandBuilder(meta),
		FetchCommandBuilder(meta),
		InvalidateCommandBuilder(meta),
		DiffCommandBuilder(meta),
		StatusCommandBuilder(meta),
		ServeCommandBuilder(meta),
		CompletionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
