// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/projidx/internal/kvstore"
	"github.com/staranto/projidx/internal/output"
)

// GlobalFlagsValidator re-checks values that arrived from a value source.
// Flag validators only see values typed on the command line.
func GlobalFlagsValidator(_ context.Context, c *cli.Command) error {
	if c.IsSet("output") {
		if err := OutputValidator(c.String("output")); err != nil {
			return fmt.Errorf("--output: %w", err)
		}
	}
	if c.IsSet("backend") {
		if err := BackendValidator(c.String("backend")); err != nil {
			return fmt.Errorf("--backend: %w", err)
		}
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	if !slices.Contains(output.Formats, value.(string)) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

func BackendValidator(value any) error {
	if !slices.Contains(kvstore.Backends, value.(string)) {
		return fmt.Errorf("must be one of %v", kvstore.Backends)
	}
	return nil
}
