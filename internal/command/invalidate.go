// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/projidx/internal/kvstore"
	"github.com/staranto/projidx/internal/meta"
)

// InvalidateCommandAction is the action handler for the "invalidate"
// subcommand. It drops the persisted index. With --purge it also sweeps file
// cache entries older than the given age.
func InvalidateCommandAction(ctx context.Context, cmd *cli.Command) error {
	maxAge := cmd.Duration("purge")
	if maxAge > 0 && cmd.String("backend") != kvstore.BackendFile {
		return fmt.Errorf("--purge requires the %s backend", kvstore.BackendFile)
	}

	cache, store, release, err := OpenCache(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	// A disabled file tier (PROJIDX_CACHE=0) opens as no store at all.
	fs, isFile := store.(*kvstore.FileStore)
	if maxAge > 0 && !isFile {
		return fmt.Errorf("--purge requires the %s backend", kvstore.BackendFile)
	}

	cache.Invalidate(ctx)
	log.Infof("invalidated %s", cache.Key())

	if maxAge <= 0 {
		return nil
	}

	removed, err := fs.Purge(maxAge)
	if err != nil {
		return fmt.Errorf("failed to purge %s: %w", fs.Base(), err)
	}
	fmt.Fprintf(Writer(cmd), "purged %d entries from %s\n", removed, fs.Base())

	return nil
}

// InvalidateCommandBuilder constructs the cli.Command definition for the
// "invalidate" command.
func InvalidateCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "invalidate",
		Usage:     "drop the cached project index",
		UsageText: `projidx invalidate [options]`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "purge",
				Usage: "also remove file cache entries older than this age (e.g. 72h)",
			},
		},
		Action: InvalidateCommandAction,
		Meta:   meta,
	}).Build()
}
