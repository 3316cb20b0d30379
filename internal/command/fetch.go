// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/projidx/internal/meta"
	"github.com/staranto/projidx/internal/output"
)

// FetchCommandAction is the action handler for the "fetch" subcommand. It
// runs the full read-through path, warming both cache tiers, and prints the
// index. --output=raw prints the whole document.
func FetchCommandAction(ctx context.Context, cmd *cli.Command) error {
	al, err := BuildAttrs(cmd, listAttrs...)
	if err != nil {
		return err
	}

	cache, _, release, err := OpenCache(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	fetch := cache.FetchIndex
	if cmd.Bool("refresh") {
		fetch = cache.Refresh
	}

	idx, err := fetch(ctx)
	if err != nil {
		return err
	}
	log.Debugf("fetched %d projects, last updated %s", len(idx.Projects), idx.LastUpdated)

	doc := struct {
		Projects    []record `json:"projects"`
		LastUpdated string   `json:"lastUpdated"`
	}{newRecords(idx.Projects), idx.LastUpdated}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	return output.SliceDiceSpit(raw, al, output.OptionsFromCommand(cmd), "projects", Writer(cmd))
}

// FetchCommandBuilder constructs the cli.Command definition for the "fetch"
// command.
func FetchCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "fetch",
		Usage:     "fetch the project index through the cache",
		UsageText: `projidx fetch [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "refresh",
				Aliases:     []string{"r"},
				Usage:       "invalidate the cache before fetching",
				HideDefault: true,
			},
		},
		Listing: true,
		Action:  FetchCommandAction,
		Meta:    meta,
	}).Build()
}
