// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/projidx/internal/meta"
	"github.com/staranto/projidx/internal/server"
)

// ServeCommandAction is the action handler for the "serve" subcommand. It
// runs the JSON API until SIGINT or SIGTERM.
func ServeCommandAction(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, _, release, err := OpenCache(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	if cmd.Bool("warm") {
		if _, err := cache.FetchIndex(ctx); err != nil {
			log.WithError(err).Warn("failed to warm cache, continuing")
		}
	}

	return server.New(cmd.String("addr"), cache).ListenAndServe(ctx)
}

// ServeCommandBuilder constructs the cli.Command definition for the "serve"
// command.
func ServeCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "serve",
		Usage:     "serve the project index as a JSON API",
		UsageText: `projidx serve [options]`,
		Flags: []cli.Flag{
			NewAddrFlag(meta.Config.Source),
			&cli.BoolFlag{
				Name:        "warm",
				Usage:       "fetch the index before accepting requests",
				HideDefault: true,
			},
		},
		Action: ServeCommandAction,
		Meta:   meta,
	}).Build()
}
