// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the project index accessors as a small JSON API
// for the static site.
package server
