// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/apex/log"

	"github.com/staranto/projidx/internal/kvstore"
	"github.com/staranto/projidx/internal/project"
)

const (
	// DefaultKey is the persistent tier key the envelope is stored under.
	DefaultKey = "projects-index-cache"
	// DefaultVersion is the envelope version tag this build reads and writes.
	DefaultVersion = "v1"
)

// Config is supplied once at construction. A nil Store means there is no
// persistent tier.
type Config struct {
	Location string
	Store    kvstore.Store
	Version  string
	Key      string
	Client   *http.Client
	// Validate rejects (as a ParseError) documents whose projects lack a slug
	// or carry an unknown status. Off by default.
	Validate bool
}

// Envelope is the versioned wrapper written to the persistent tier.
type Envelope struct {
	Version string         `json:"version"`
	Data    *project.Index `json:"data"`
}

// Cache is a two-tier read-through cache in front of the project index
// document. The zero snapshot is empty; it lives until Invalidate or until
// the Cache is dropped.
//
// Concurrent cold callers are not coalesced: each one misses, fetches and
// writes the envelope on its own.
type Cache struct {
	cfg Config

	mu       sync.RWMutex
	snapshot *project.Index
}

// New returns an empty Cache for cfg, filling in defaults.
func New(cfg Config) *Cache {
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	return &Cache{cfg: cfg}
}

// Location is where remote reads go.
func (c *Cache) Location() string { return c.cfg.Location }

// Version is the envelope version tag the cache accepts.
func (c *Cache) Version() string { return c.cfg.Version }

// Key is the persistent tier key.
func (c *Cache) Key() string { return c.cfg.Key }

// HasStore reports whether a persistent tier is configured.
func (c *Cache) HasStore() bool { return c.cfg.Store != nil }

// FetchIndex returns the index from memory, then from the persistent tier if
// its envelope carries the current version, and finally from the remote
// location, populating both tiers. Remote errors (*RemoteFetchError,
// *TransportError, *ParseError) are returned as is. Persistent tier failures
// are logged and treated as a miss.
func (c *Cache) FetchIndex(ctx context.Context) (*project.Index, error) {
	if idx := c.memory(); idx != nil {
		return idx, nil
	}

	if env, ok := c.Persisted(ctx); ok {
		if env.Version == c.cfg.Version && env.Data != nil {
			log.Debugf("cache hit: %s (%s)", c.cfg.Key, env.Version)
			c.setMemory(env.Data)
			return env.Data, nil
		}
		log.Debugf("ignoring cached index with version %q, want %q", env.Version, c.cfg.Version)
	}

	idx, err := c.FetchRemote(ctx)
	if err != nil {
		log.WithError(err).Error("failed to fetch projects index")
		return nil, err
	}

	c.setMemory(idx)
	c.writePersisted(ctx, idx)

	return idx, nil
}

// FetchRemote reads and decodes the index straight from its location without
// touching either tier.
func (c *Cache) FetchRemote(ctx context.Context) (*project.Index, error) {
	raw, err := fetchDocument(ctx, c.cfg.Client, c.cfg.Location)
	if err != nil {
		return nil, err
	}
	return decodeIndex(c.cfg.Location, raw, c.cfg.Validate)
}

// Persisted returns the envelope currently in the persistent tier, whatever
// its version. It never touches the memory tier.
func (c *Cache) Persisted(ctx context.Context) (*Envelope, bool) {
	if c.cfg.Store == nil {
		return nil, false
	}

	raw, ok, err := c.cfg.Store.Get(ctx, c.cfg.Key)
	if err != nil {
		log.WithError(&StorageError{Op: "read", Key: c.cfg.Key, Err: err}).Warn("failed to read cached projects index")
		return nil, false
	}
	if !ok || len(raw) == 0 {
		return nil, false
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.WithError(&StorageError{Op: "decode", Key: c.cfg.Key, Err: err}).Warn("failed to parse cached projects index")
		return nil, false
	}
	return &env, true
}

// Invalidate drops the memory snapshot and removes the persisted envelope.
// It is idempotent.
func (c *Cache) Invalidate(ctx context.Context) {
	c.setMemory(nil)

	if c.cfg.Store == nil {
		return
	}
	if err := c.cfg.Store.Remove(ctx, c.cfg.Key); err != nil {
		log.WithError(&StorageError{Op: "remove", Key: c.cfg.Key, Err: err}).Warn("failed to remove cached projects index")
	}
}

// Refresh invalidates both tiers and fetches the index again.
func (c *Cache) Refresh(ctx context.Context) (*project.Index, error) {
	c.Invalidate(ctx)
	return c.FetchIndex(ctx)
}

// GetBySlug returns the first project with the given slug. A failed fetch is
// logged and reported the same as a missing slug.
func (c *Cache) GetBySlug(ctx context.Context, slug string) (project.Project, bool) {
	idx, err := c.FetchIndex(ctx)
	if err != nil {
		log.WithError(err).Errorf("failed to get project by slug %q", slug)
		return project.Project{}, false
	}
	return idx.BySlug(slug)
}

// GetPublished returns published projects in index order, or an empty slice
// if the index could not be fetched.
func (c *Cache) GetPublished(ctx context.Context) []project.Project {
	idx, err := c.FetchIndex(ctx)
	if err != nil {
		log.WithError(err).Error("failed to get published projects")
		return []project.Project{}
	}
	return idx.Select(project.IsPublished)
}

// GetFeatured returns projects that are both published and featured, or an
// empty slice if the index could not be fetched.
func (c *Cache) GetFeatured(ctx context.Context) []project.Project {
	idx, err := c.FetchIndex(ctx)
	if err != nil {
		log.WithError(err).Error("failed to get featured projects")
		return []project.Project{}
	}
	return idx.Select(project.IsFeatured)
}

func (c *Cache) memory() *project.Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *Cache) setMemory(idx *project.Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = idx
}

func (c *Cache) writePersisted(ctx context.Context, idx *project.Index) {
	if c.cfg.Store == nil {
		return
	}

	raw, err := json.Marshal(Envelope{Version: c.cfg.Version, Data: idx})
	if err != nil {
		log.WithError(&StorageError{Op: "encode", Key: c.cfg.Key, Err: err}).Warn("failed to encode projects index")
		return
	}
	if err := c.cfg.Store.Set(ctx, c.cfg.Key, raw); err != nil {
		log.WithError(&StorageError{Op: "write", Key: c.cfg.Key, Err: err}).Warn("failed to write projects index to cache")
	}
}
