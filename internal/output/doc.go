// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package output sorts, transforms and renders project record sets as text
// tables, json, yaml or the raw document.
package output
