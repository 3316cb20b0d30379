// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package project holds the project index data model and the small pure
// helpers used to present it (status labels, date formatting).
package project
