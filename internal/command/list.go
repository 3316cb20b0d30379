// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/projidx/internal/index"
	"github.com/staranto/projidx/internal/meta"
	"github.com/staranto/projidx/internal/project"
)

// ListCommandAction is the action handler for the "list" subcommand. It emits
// the published projects, or every project with --all.
func ListCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner{
		DefaultAttrs: listAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command, cache *index.Cache) ([]project.Project, error) {
			// --all goes to the base layer so fetch failures surface.
			if cmd.Bool("all") {
				idx, err := cache.FetchIndex(ctx)
				if err != nil {
					return nil, err
				}
				return idx.Projects, nil
			}
			return cache.GetPublished(ctx), nil
		},
	}
	return runner.Run(ctx, cmd)
}

// ListCommandBuilder constructs the cli.Command definition for the "list"
// command.
func ListCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "list",
		Usage:     "list published projects",
		UsageText: `projidx list [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "include unpublished projects",
				HideDefault: true,
			},
		},
		Listing: true,
		Action:  ListCommandAction,
		Meta:    meta,
	}).Build()
}
