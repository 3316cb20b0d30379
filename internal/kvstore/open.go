// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"context"
	"fmt"

	"github.com/apex/log"
)

// Backend names accepted by Open.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendNone, BackendMemory, BackendFile, BackendSQLite, BackendS3}

// Options selects and configures a persistent tier.
type Options struct {
	Backend    string
	Dir        string
	SQLitePath string
	S3         S3Options
}

// Open builds the Store named by opts.Backend. It returns a nil Store (and no
// error) when the persistent tier is disabled, either by BackendNone or by
// PROJIDX_CACHE.
func Open(ctx context.Context, opts Options) (Store, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendFile
	}

	if backend == BackendNone || !Enabled() {
		log.Debug("persistent cache disabled")
		return nil, nil
	}

	log.Debugf("persistent cache backend: %s", backend)

	var (
		store Store
		err   error
	)

	// Assign only on success. A typed nil pointer would make store non-nil.
	switch backend {
	case BackendMemory:
		store = NewMemoryStore()
	case BackendFile:
		var fs *FileStore
		if fs, err = NewFileStore(opts.Dir); err == nil {
			store = fs
		}
	case BackendSQLite:
		var ss *SQLiteStore
		if ss, err = NewSQLiteStore(ctx, opts.SQLitePath); err == nil {
			store = ss
		}
	case BackendS3:
		var s3s *S3Store
		if s3s, err = NewS3Store(ctx, opts.S3); err == nil {
			store = s3s
		}
	default:
		err = fmt.Errorf("unknown cache backend %q, must be one of %v", backend, Backends)
	}

	if err != nil {
		return nil, err
	}
	return store, nil
}
