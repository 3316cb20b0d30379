// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package meta carries the invocation context shared by every command.
package meta

import (
	"context"

	"github.com/staranto/projidx/internal/config"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	// Namespace is the subcommand name and also the config key prefix used for
	// per-command defaults.
	Namespace string
}
