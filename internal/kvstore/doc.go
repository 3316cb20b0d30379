// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package kvstore provides the persistent key-value tier used by the project
// index cache: an in-memory map, md5-named files, a sqlite table or S3
// objects, all behind the same small Store interface.
package kvstore
