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

// FeaturedCommandAction is the action handler for the "featured" subcommand.
func FeaturedCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner{
		DefaultAttrs: listAttrs,
		FetchFn: func(ctx context.Context, _ *cli.Command, cache *index.Cache) ([]project.Project, error) {
			return cache.GetFeatured(ctx), nil
		},
	}
	return runner.Run(ctx, cmd)
}

// FeaturedCommandBuilder constructs the cli.Command definition for the
// "featured" command.
func FeaturedCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "featured",
		Usage:     "list published projects marked as featured",
		UsageText: `projidx featured [options]`,
		Listing:   true,
		Action:    FeaturedCommandAction,
		Meta:      meta,
	}).Build()
}
