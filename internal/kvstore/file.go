// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/gofrs/flock"
)

// Dir resolves the base cache directory.
// Precedence:
//  1. PROJIDX_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/projidx
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("PROJIDX_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "projidx"), true
	}
	return "", false
}

// Enabled returns true unless PROJIDX_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("PROJIDX_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// FileStore keeps one file per key beneath a base directory. The file name is
// the hex MD5 of the clear-text key. Writers hold an exclusive flock on a
// sibling .lock file so two processes never interleave a write.
type FileStore struct {
	base string
}

// NewFileStore returns a FileStore rooted at base, creating it if needed. An
// empty base resolves through Dir.
func NewFileStore(base string) (*FileStore, error) {
	if base == "" {
		var ok bool
		if base, ok = Dir(); !ok {
			return nil, errors.New("cannot resolve a cache directory")
		}
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return &FileStore{base: base}, nil
}

// Base is the directory the store writes into.
func (s *FileStore) Base() string {
	return s.base
}

// EntryPath returns where the entry for key lives and whether it exists.
func (s *FileStore) EntryPath(key string) (string, bool) {
	p := filepath.Join(s.base, encodeKey(key))
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	p, ok := s.EntryPath(key)
	if !ok {
		return nil, false, nil
	}

	lock := flock.New(p + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, false, fmt.Errorf("failed to lock cache entry: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return bytes.TrimSpace(b), true, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	p := filepath.Join(s.base, encodeKey(key))

	lock := flock.New(p + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock cache entry: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	// Write next to the target and rename so readers never see a torn file.
	tmp, err := os.CreateTemp(s.base, ".entry-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil { //nolint:mnd
		log.WithError(err).Debug("chmod cache entry")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	p := filepath.Join(s.base, encodeKey(key))

	lock := flock.New(p + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock cache entry: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove cache entry: %w", err)
	}
	return nil
}

// Purge removes entries older than maxAge. Only files the store writes are
// considered: MD5-named entries and leftover .entry-* temp files. Anything
// else sharing the directory is left alone. A non-positive maxAge is a no-op.
func (s *FileStore) Purge(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		log.Debug("cache cleaning disabled")
		return 0, nil
	}

	entries, err := os.ReadDir(s.base)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}

	var removed int
	for _, d := range entries {
		if d.IsDir() || !isEntryName(d.Name()) {
			continue
		}
		info, err := d.Info()
		if err != nil || time.Since(info.ModTime()) <= maxAge {
			continue
		}
		path := filepath.Join(s.base, d.Name())
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
			continue
		}
		removed++
		log.Debugf("removed cache file %s", path)
	}
	return removed, nil
}

// isEntryName reports whether name is an entry or a temp file written by Set.
func isEntryName(name string) bool {
	if strings.HasPrefix(name, ".entry-") {
		return true
	}
	if len(name) != hex.EncodedLen(md5.Size) {
		return false
	}
	_, err := hex.DecodeString(name)
	return err == nil && strings.ToLower(name) == name
}

// encodeKey hashes k with MD5 and returns the hex string.
func encodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}
