// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package index serves the project index through a memory tier and an
// optional persistent tier in front of a single remote document.
package index
