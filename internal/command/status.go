// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/projidx/internal/kvstore"
	"github.com/staranto/projidx/internal/meta"
)

// statusRow is one setting/value pair reported by status.
type statusRow struct {
	Setting string `json:"setting"`
	Value   string `json:"value"`
}

// StatusCommandAction is the action handler for the "status" subcommand. It
// reports where the index comes from and what the persistent tier holds
// without fetching anything.
func StatusCommandAction(ctx context.Context, cmd *cli.Command) error {
	al, err := BuildAttrs(cmd, "setting", "value")
	if err != nil {
		return err
	}

	cache, store, release, err := OpenCache(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	backend := cmd.String("backend")
	if store == nil {
		backend = kvstore.BackendNone
	}

	rows := []statusRow{
		{"location", cache.Location()},
		{"backend", backend},
		{"key", cache.Key()},
		{"version", cache.Version()},
	}

	if fs, ok := store.(*kvstore.FileStore); ok {
		path, _ := fs.EntryPath(cache.Key())
		rows = append(rows, statusRow{"path", path})
	}

	env, ok := cache.Persisted(ctx)
	switch {
	case !ok:
		rows = append(rows, statusRow{"cached", "no"})
	case env.Version != cache.Version():
		rows = append(rows, statusRow{"cached", "stale (" + env.Version + ")"})
	default:
		rows = append(rows, statusRow{"cached", "yes"})
	}

	if ok && env.Data != nil {
		rows = append(rows, statusRow{"projects", strconv.Itoa(len(env.Data.Projects))})
		rows = append(rows, statusRow{"lastUpdated", lastUpdated(env.Data.LastUpdated)})
	}

	return EmitRows(rows, al, cmd)
}

// lastUpdated renders an RFC3339 stamp with its age, or as is when it does not
// parse.
func lastUpdated(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return s + " (" + humanize.Time(t) + ")"
}

// StatusCommandBuilder constructs the cli.Command definition for the "status"
// command.
func StatusCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "status",
		Usage:     "show cache configuration and contents",
		UsageText: `projidx status [options]`,
		Listing:   true,
		Action:    StatusCommandAction,
		Meta:      meta,
	}).Build()
}
