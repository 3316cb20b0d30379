// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/staranto/projidx/internal/meta"
	"github.com/staranto/projidx/internal/project"
)

// DiffCommandAction is the action handler for the "diff" subcommand. It
// compares the persisted index with a fresh read of the remote document.
// Neither cache tier is modified.
func DiffCommandAction(ctx context.Context, cmd *cli.Command) error {
	cache, _, release, err := OpenCache(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	w := Writer(cmd)

	env, ok := cache.Persisted(ctx)
	if !ok {
		fmt.Fprintf(w, "no cached index under %s\n", cache.Key())
		return nil
	}

	remote, err := cache.FetchRemote(ctx)
	if err != nil {
		return err
	}

	if env.Version != cache.Version() {
		fmt.Fprintf(w, "cached index is version %s, current is %s\n", env.Version, cache.Version())
	}

	return writeIndexDiff(w, env.Data, remote, cmd.Bool("color"))
}

// writeIndexDiff renders the delta between two indexes in gojsondiff's ascii
// format.
func writeIndexDiff(w io.Writer, cached, remote *project.Index, color bool) error {
	left, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal cached index: %w", err)
	}
	right, err := json.Marshal(remote)
	if err != nil {
		return fmt.Errorf("failed to marshal remote index: %w", err)
	}

	d, err := gojsondiff.New().Compare(left, right)
	if err != nil {
		return fmt.Errorf("failed to compare indexes: %w", err)
	}

	if !d.Modified() {
		fmt.Fprintln(w, "cached index is up to date")
		return nil
	}

	var leftDoc map[string]interface{}
	if err := json.Unmarshal(left, &leftDoc); err != nil {
		return fmt.Errorf("failed to decode cached index: %w", err)
	}

	f := formatter.NewAsciiFormatter(leftDoc, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       color,
	})
	text, err := f.Format(d)
	if err != nil {
		return fmt.Errorf("failed to format diff: %w", err)
	}

	_, err = io.WriteString(w, text)
	return err
}

// DiffCommandBuilder constructs the cli.Command definition for the "diff"
// command.
func DiffCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "diff",
		Usage:     "compare the cached index with the remote document",
		UsageText: `projidx diff [options]`,
		Flags: []cli.Flag{
			NewColorFlag("diff", meta.Config.Source),
		},
		Action: DiffCommandAction,
		Meta:   meta,
	}).Build()
}
