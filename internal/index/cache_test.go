// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package index

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/projidx/internal/kvstore"
	"github.com/staranto/projidx/internal/project"
)

// indexServer serves body with status and counts requests.
type indexServer struct {
	*httptest.Server
	hits   atomic.Int32
	status atomic.Int32
	body   atomic.Value
}

func newIndexServer(t *testing.T, body string) *indexServer {
	t.Helper()
	s := &indexServer{}
	s.status.Store(http.StatusOK)
	s.body.Store(body)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(s.status.Load()))
		_, _ = w.Write([]byte(s.body.Load().(string)))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *indexServer) location() string {
	return s.URL + "/" + IndexFile
}

func fixture(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", IndexFile))
	require.NoError(t, err)
	return string(b)
}

func slugs(projects []project.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Slug)
	}
	return out
}

func envelopeJSON(t *testing.T, version string, idx *project.Index) []byte {
	t.Helper()
	b, err := json.Marshal(Envelope{Version: version, Data: idx})
	require.NoError(t, err)
	return b
}

func storedEnvelope(t *testing.T, store kvstore.Store) (Envelope, bool) {
	t.Helper()
	raw, ok, err := store.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	if !ok {
		return Envelope{}, false
	}
	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env, true
}

// countingStore wraps a Store and counts Get calls.
type countingStore struct {
	kvstore.Store
	gets atomic.Int32
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.gets.Add(1)
	return s.Store.Get(ctx, key)
}

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}
func (brokenStore) Set(context.Context, string, []byte) error { return errors.New("disk on fire") }
func (brokenStore) Remove(context.Context, string) error      { return errors.New("disk on fire") }

func TestFetchIndex_MemoryTierShortCircuits(t *testing.T) {
	srv := newIndexServer(t, fixture(t))
	c := New(Config{Location: srv.location(), Store: kvstore.NewMemoryStore()})
	ctx := context.Background()

	first, err := c.FetchIndex(ctx)
	require.NoError(t, err)
	second, err := c.FetchIndex(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), srv.hits.Load())
	assert.Len(t, first.Projects, 3)
	assert.Equal(t, "2025-10-01T12:00:00Z", first.LastUpdated)
}

func TestFetchIndex_PopulatesPersistentTier(t *testing.T) {
	srv := newIndexServer(t, fixture(t))
	store := kvstore.NewMemoryStore()
	c := New(Config{Location: srv.location(), Store: store})

	_, err := c.FetchIndex(context.Background())
	require.NoError(t, err)

	env, ok := storedEnvelope(t, store)
	require.True(t, ok)
	assert.Equal(t, DefaultVersion, env.Version)
	require.NotNil(t, env.Data)
	assert.Len(t, env.Data.Projects, 3)
}

func TestFetchIndex_PersistentTierHit(t *testing.T) {
	srv := newIndexServer(t, fixture(t))
	store := kvstore.NewMemoryStore()
	cached := &project.Index{
		Projects:    []project.Project{{Slug: "from-cache", Published: true}},
		LastUpdated: "2025-01-01",
	}
	require.NoError(t, store.Set(context.Background(), DefaultKey, envelopeJSON(t, "v1", cached)))

	c := New(Config{Location: srv.location(), Store: store})
	idx, err := c.FetchIndex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(0), srv.hits.Load())
	assert.Equal(t, []string{"from-cache"}, slugs(idx.Projects))
}

func TestFetchIndex_VersionGating(t *testing.T) {
	srv := newIndexServer(t, fixture(t))
	store := kvstore.NewMemoryStore()
	stale := &project.Index{Projects: []project.Project{{Slug: "stale"}}}
	require.NoError(t, store.Set(context.Background(), DefaultKey, envelopeJSON(t, "v0", stale)))

	c := New(Config{Location: srv.location(), Store: store, Version: "v1"})
	idx, err := c.FetchIndex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), srv.hits.Load())
	assert.Equal(t, []string{"a", "b", "c"}, slugs(idx.Projects))

	env, ok := storedEnvelope(t, store)
	require.True(t, ok)
	assert.Equal(t, "v1", env.Version)
	assert.Equal(t, []string{"a", "b", "c"}, slugs(env.Data.Projects))
}

func TestFetchIndex_CorruptEnvelopeIsAMiss(t *testing.T) {
	srv := newIndexServer(t, fixture(t))
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), DefaultKey, []byte("{not json")))

	c := New(Config{Location: srv.location(), Store: store})
	_, err := c.FetchIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())

	env, ok := storedEnvelope(t, store)
	require.True(t, ok, "corrupt entry is overwritten")
	assert.Equal(t, DefaultVersion, env.Version)
}

func TestFetchIndex_StorageFailuresAreRecovered(t *testing.T) {
	srv := newIndexServer(t, fixture(t))
	c := New(Config{Location: srv.location(), Store: brokenStore{}})

	idx, err := c.FetchIndex(context.Background())
	require.NoError(t, err)
	assert.Len(t, idx.Projects, 3)

	c.Invalidate(context.Background())
}

func TestFetchIndex_NoPersistentTier(t *testing.T) {
	srv := newIndexServer(t, fixture(t))
	c := New(Config{Location: srv.location()})

	assert.False(t, c.HasStore())
	_, err := c.FetchIndex(context.Background())
	require.NoError(t, err)

	_, ok := c.Persisted(context.Background())
	assert.False(t, ok)
}

func TestFetchIndex_RemoteFailure(t *testing.T) {
	srv := newIndexServer(t, `{"error":"nope"}`)
	srv.status.Store(http.StatusInternalServerError)
	store := kvstore.NewMemoryStore()
	c := New(Config{Location: srv.location(), Store: store})
	ctx := context.Background()

	idx, err := c.FetchIndex(ctx)
	assert.Nil(t, idx)

	var rfe *RemoteFetchError
	require.ErrorAs(t, err, &rfe)
	assert.Equal(t, http.StatusInternalServerError, rfe.StatusCode)
	assert.Contains(t, err.Error(), "500 Internal Server Error")

	published := c.GetPublished(ctx)
	assert.NotNil(t, published)
	assert.Empty(t, published)
	assert.Empty(t, c.GetFeatured(ctx))

	_, ok := c.GetBySlug(ctx, "a")
	assert.False(t, ok)

	_, ok = storedEnvelope(t, store)
	assert.False(t, ok, "failures are not cached")
}

func TestFetchIndex_ParseError(t *testing.T) {
	srv := newIndexServer(t, "<html>not json</html>")
	store := kvstore.NewMemoryStore()
	c := New(Config{Location: srv.location(), Store: store})

	_, err := c.FetchIndex(context.Background())
	var pe *ParseError
	require.ErrorAs(t, err, &pe)

	_, ok := storedEnvelope(t, store)
	assert.False(t, ok)
}

func TestFetchIndex_DocumentShape(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  bool
		projects int
	}{
		{name: "top-level array", body: `[]`, wantErr: true},
		{name: "projects not a list", body: `{"projects":"x"}`, wantErr: true},
		{name: "empty object", body: `{}`},
		{name: "unknown status and extra fields", body: `{"projects":[{"slug":"a","status":"paused","extra":1}],"owner":"me"}`, projects: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newIndexServer(t, tt.body)
			store := kvstore.NewMemoryStore()
			c := New(Config{Location: srv.location(), Store: store})

			idx, err := c.FetchIndex(context.Background())
			_, cached := storedEnvelope(t, store)
			if tt.wantErr {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				assert.False(t, cached)
				return
			}
			require.NoError(t, err)
			assert.Len(t, idx.Projects, tt.projects)
			assert.True(t, cached)
		})
	}
}

func TestFetchIndex_TransportError(t *testing.T) {
	srv := newIndexServer(t, fixture(t))
	location := srv.location()
	srv.Close()

	c := New(Config{Location: location})
	_, err := c.FetchIndex(context.Background())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, location, te.URL)
}

func TestFetchIndex_Validate(t *testing.T) {
	body := `{"projects":[{"title":"no slug","status":"active"}],"lastUpdated":"2025-01-01"}`

	t.Run("off passes through", func(t *testing.T) {
		srv := newIndexServer(t, body)
		c := New(Config{Location: srv.location()})
		idx, err := c.FetchIndex(context.Background())
		require.NoError(t, err)
		assert.Len(t, idx.Projects, 1)
	})

	t.Run("on rejects", func(t *testing.T) {
		srv := newIndexServer(t, body)
		c := New(Config{Location: srv.location(), Validate: true})
		_, err := c.FetchIndex(context.Background())
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.ErrorIs(t, err, project.ErrInvalidIndex)
	})
}

func TestFetchIndex_LocalFile(t *testing.T) {
	c := New(Config{Location: ResolveLocation(Source{Local: "testdata"})})

	idx, err := c.FetchIndex(context.Background())
	require.NoError(t, err)
	assert.Len(t, idx.Projects, 3)

	missing := New(Config{Location: filepath.Join(t.TempDir(), IndexFile)})
	_, err = missing.FetchIndex(context.Background())
	var te *TransportError
	assert.ErrorAs(t, err, &te)
}

func TestAccessors(t *testing.T) {
	body := `{"projects":[
		{"slug":"a","published":true,"featured":true},
		{"slug":"b","published":true,"featured":false},
		{"slug":"c","published":false,"featured":true}
	],"lastUpdated":"2025-01-01"}`
	srv := newIndexServer(t, body)
	c := New(Config{Location: srv.location()})
	ctx := context.Background()

	assert.Equal(t, []string{"a", "b"}, slugs(c.GetPublished(ctx)))
	assert.Equal(t, []string{"a"}, slugs(c.GetFeatured(ctx)))

	p, ok := c.GetBySlug(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, "c", p.Slug)

	_, ok = c.GetBySlug(ctx, "zzz")
	assert.False(t, ok)

	assert.Equal(t, int32(1), srv.hits.Load(), "accessors share one fetch")
}

func TestInvalidate(t *testing.T) {
	srv := newIndexServer(t, fixture(t))
	store := &countingStore{Store: kvstore.NewMemoryStore()}
	c := New(Config{Location: srv.location(), Store: store})
	ctx := context.Background()

	before, err := c.FetchIndex(ctx)
	require.NoError(t, err)
	getsBefore := store.gets.Load()

	c.Invalidate(ctx)
	c.Invalidate(ctx)

	_, ok := storedEnvelope(t, store.Store)
	assert.False(t, ok)

	after, err := c.FetchIndex(ctx)
	require.NoError(t, err)

	assert.NotSame(t, before, after)
	assert.Equal(t, before, after, "same document, new snapshot")
	assert.Greater(t, store.gets.Load(), getsBefore, "persistent tier re-checked")
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestRefresh(t *testing.T) {
	srv := newIndexServer(t, `{"projects":[{"slug":"old"}],"lastUpdated":"1"}`)
	c := New(Config{Location: srv.location(), Store: kvstore.NewMemoryStore()})
	ctx := context.Background()

	_, err := c.FetchIndex(ctx)
	require.NoError(t, err)

	srv.body.Store(`{"projects":[{"slug":"new"}],"lastUpdated":"2"}`)
	idx, err := c.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, slugs(idx.Projects))
}

func TestFetchRemote_LeavesTiersAlone(t *testing.T) {
	srv := newIndexServer(t, fixture(t))
	store := kvstore.NewMemoryStore()
	c := New(Config{Location: srv.location(), Store: store})

	_, err := c.FetchRemote(context.Background())
	require.NoError(t, err)

	_, ok := storedEnvelope(t, store)
	assert.False(t, ok)
	assert.Nil(t, c.memory())
}

func TestFetchIndex_ConcurrentColdStart(t *testing.T) {
	srv := newIndexServer(t, fixture(t))
	c := New(Config{Location: srv.location(), Store: kvstore.NewMemoryStore()})

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*project.Index, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			idx, err := c.FetchIndex(context.Background())
			assert.NoError(t, err)
			results[i] = idx
		}(i)
	}
	wg.Wait()

	for _, idx := range results {
		require.NotNil(t, idx)
		assert.Len(t, idx.Projects, 3)
	}
	hits := srv.hits.Load()
	assert.GreaterOrEqual(t, hits, int32(1))
	assert.LessOrEqual(t, hits, int32(callers))
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{Location: "x"})
	assert.Equal(t, DefaultVersion, c.Version())
	assert.Equal(t, DefaultKey, c.Key())
	assert.Equal(t, "x", c.Location())
}
