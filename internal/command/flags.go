// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/projidx/internal/kvstore"
	"github.com/staranto/projidx/internal/server"
)

// NewGlobalFlags returns the presentation flags shared by the listing
// commands. ns is the command name and source the config file; both feed the
// yaml value sources so `<ns>.<flag>` beats `<flag>` in the config file.
func NewGlobalFlags(ns string, source string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		NewColorFlag(ns, source),
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml, raw)",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"output", altsrc.StringSourcer(source)),
				yaml.YAML("output", altsrc.StringSourcer(source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"titles", altsrc.StringSourcer(source)),
				yaml.YAML("titles", altsrc.StringSourcer(source)),
			),
			Value: false,
		},
	}

	return
}

// NewColorFlag builds --color. It defaults to on when stdout is a terminal.
func NewColorFlag(ns string, source string) *cli.BoolWithInverseFlag {
	return &cli.BoolWithInverseFlag{
		Name:    "color",
		Aliases: []string{"c"},
		Usage:   "enable colored text output",
		Sources: cli.NewValueSourceChain(
			yaml.YAML(ns+"."+"color", altsrc.StringSourcer(source)),
			yaml.YAML("color", altsrc.StringSourcer(source)),
		),
		Value: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// NewCacheFlags returns the flags that select the index location and the
// persistent cache backend.
func NewCacheFlags(ns string, source string) []cli.Flag {
	backend := &cli.StringFlag{
		Name:    "backend",
		Aliases: []string{"b"},
		Usage:   "persistent cache backend (none, memory, file, sqlite, s3)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("PROJIDX_BACKEND"),
		),
		Value: kvstore.BackendFile,
		Validator: func(value string) error {
			return FlagValidators(value, BackendValidator)
		},
	}

	location := &cli.StringFlag{
		Name:    "location",
		Aliases: []string{"l"},
		Usage:   "URL or path of the project index. Overrides index.local and index.github",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("PROJIDX_LOCATION"),
		),
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator)
		},
	}

	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(ns, source, "cache.backend", backend),
		NameSpacedValueChainFlagFromConfigFile(ns, source, "index.url", location),
	}
}

// NewAddrFlag builds the listen address flag for serve.
func NewAddrFlag(source string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "addr",
		Usage: "address for the HTTP API to listen on",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("PROJIDX_ADDR"),
		),
		Value: server.DefaultAddr,
	}
	return NameSpacedValueChainFlagFromConfigFile("", source, "serve.addr", flag)
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources for key to the given flag's Sources chain. Env vars already in the
// chain keep precedence.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, key string, flag *cli.StringFlag) *cli.StringFlag {
	if ns != "" {
		src := yaml.YAML(ns+"."+key, altsrc.StringSourcer(path))
		flag.Sources.Chain = append(flag.Sources.Chain, src)
	}

	src := yaml.YAML(key, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
