// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/projidx/internal/index"
	"github.com/staranto/projidx/internal/meta"
	"github.com/staranto/projidx/internal/project"
)

var showAttrs = []string{
	"slug",
	"title",
	"label",
	"category",
	"description",
	"contributors",
	"startDate:started:d",
	"stars::h",
	"techStack:stack",
	"githubUrl:github",
}

// ShowCommandAction is the action handler for the "show" subcommand. It looks a
// single project up by slug.
func ShowCommandAction(ctx context.Context, cmd *cli.Command) error {
	slug := cmd.Args().First()
	if slug == "" {
		return errors.New("a project slug is required")
	}

	runner := &QueryActionRunner{
		DefaultAttrs: showAttrs,
		FetchFn: func(ctx context.Context, _ *cli.Command, cache *index.Cache) ([]project.Project, error) {
			p, ok := cache.GetBySlug(ctx, slug)
			if !ok {
				return nil, fmt.Errorf("project not found: %s", slug)
			}
			return []project.Project{p}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

// ShowCommandBuilder constructs the cli.Command definition for the "show"
// command.
func ShowCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "show",
		Usage:     "show one project",
		UsageText: `projidx show <slug> [options]`,
		Listing:   true,
		Action:    ShowCommandAction,
		Meta:      meta,
	}).Build()
}
