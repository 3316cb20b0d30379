// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/projidx/internal/attrs"
	"github.com/staranto/projidx/internal/config"
	"github.com/staranto/projidx/internal/index"
	"github.com/staranto/projidx/internal/kvstore"
	"github.com/staranto/projidx/internal/meta"
	"github.com/staranto/projidx/internal/output"
	"github.com/staranto/projidx/internal/project"
)

// listAttrs are the default columns for commands that list projects. The
// hidden ones are there so --sort can reach them.
var listAttrs = []string{
	"slug",
	"title",
	"label",
	"category",
	"startDate:started:d",
	"stars::h",
	"!status",
	"!published",
	"!featured",
}

// record is a project as emitted by the CLI: the stored fields plus the
// derived status label.
type record struct {
	project.Project
	Label string `json:"label"`
}

func newRecords(projects []project.Project) []record {
	out := make([]record, 0, len(projects))
	for _, p := range projects {
		out = append(out, record{Project: p, Label: project.StatusMeta(p.Status).Label})
	}
	return out
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList, err error) {
	for _, d := range defaults {
		if err = al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err = al.Set(extras); err != nil {
			return nil, fmt.Errorf("invalid --attrs: %w", err)
		}
	}
	err = al.SetGlobalTransformSpec()
	return
}

// EmitProjects renders projects through the common output routine.
func EmitProjects(projects []project.Project, al attrs.AttrList, cmd *cli.Command) error {
	raw, err := json.Marshal(newRecords(projects))
	if err != nil {
		return fmt.Errorf("failed to marshal projects: %w", err)
	}
	return output.SliceDiceSpit(raw, al, output.OptionsFromCommand(cmd), "", Writer(cmd))
}

// EmitRows renders ad hoc rows (status and the like) through the common
// output routine.
func EmitRows(rows any, al attrs.AttrList, cmd *cli.Command) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}
	return output.SliceDiceSpit(raw, al, output.OptionsFromCommand(cmd), "", Writer(cmd))
}

// Writer is where a command prints. It follows the root command's Writer so
// tests can capture output.
func Writer(cmd *cli.Command) io.Writer {
	if cmd != nil {
		if root := cmd.Root(); root != nil && root.Writer != nil {
			return root.Writer
		}
	}
	return os.Stdout
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// StoreOptions collects the persistent tier settings from the flags and the
// config file.
func StoreOptions(cmd *cli.Command) kvstore.Options {
	opts := kvstore.Options{Backend: cmd.String("backend")}
	opts.Dir, _ = config.GetString("cache.dir", "")
	opts.SQLitePath, _ = config.GetString("cache.sqlite.path", "")
	opts.S3.Bucket, _ = config.GetString("cache.s3.bucket", "")
	opts.S3.Prefix, _ = config.GetString("cache.s3.prefix", "")
	opts.S3.Region, _ = config.GetString("cache.s3.region", "")
	opts.S3.Profile, _ = config.GetString("cache.s3.profile", "")
	opts.S3.Endpoint, _ = config.GetString("cache.s3.endpoint", "")
	return opts
}

// ResolveLocation works out where the index document lives. --location wins,
// then index.local, then the GitHub raw content coordinates.
func ResolveLocation(cmd *cli.Command) string {
	src := index.Source{URL: cmd.String("location")}
	src.Local, _ = config.GetString("index.local", "")
	src.Owner, _ = config.GetString("index.github.owner", "")
	src.Repo, _ = config.GetString("index.github.repo", "")
	src.Branch, _ = config.GetString("index.github.branch", "")
	src.Path, _ = config.GetString("index.github.path", "")
	return index.ResolveLocation(src)
}

// OpenCache builds the project index cache for cmd. The returned func
// releases the persistent tier and must be called when the command is done.
func OpenCache(ctx context.Context, cmd *cli.Command) (*index.Cache, kvstore.Store, func(), error) {
	store, err := kvstore.Open(ctx, StoreOptions(cmd))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open %s cache: %w", cmd.String("backend"), err)
	}

	cfg := index.Config{
		Location: ResolveLocation(cmd),
		Store:    store,
	}
	cfg.Version, _ = config.GetString("cache.version", index.DefaultVersion)
	cfg.Key, _ = config.GetString("cache.key", index.DefaultKey)
	cfg.Validate, _ = config.GetBool("index.validate", false)

	log.Debugf("index location: %s", cfg.Location)

	release := func() {
		if err := kvstore.Close(store); err != nil {
			log.WithError(err).Warn("failed to close cache")
		}
	}

	return index.New(cfg), store, release, nil
}

// QueryCommandBuilder constructs a cli.Command for a subcommand using a
// consistent pattern. Listing commands get the presentation flags; every
// command gets the cache flags.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Listing   bool
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	flags := append([]cli.Flag{}, qcb.Flags...)
	if qcb.Listing {
		flags = append(flags, NewGlobalFlags(qcb.Name, qcb.Meta.Config.Source)...)
	}
	flags = append(flags, NewCacheFlags(qcb.Name, qcb.Meta.Config.Source)...)

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}

// QueryActionRunner encapsulates the common listing action: build attrs,
// open the cache, fetch the projects and emit them.
type QueryActionRunner struct {
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command, *index.Cache) ([]project.Project, error)
}

// Run executes the listing action with the provided context and command.
func (qar *QueryActionRunner) Run(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	al, err := BuildAttrs(cmd, qar.DefaultAttrs...)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %v", al)

	cache, _, release, err := OpenCache(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	projects, err := qar.FetchFn(ctx, cmd, cache)
	if err != nil {
		return err
	}

	return EmitProjects(projects, al, cmd)
}
