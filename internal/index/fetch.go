// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/projidx/internal/project"
)

// fetchDocument reads the raw index document from location, over HTTP when it
// is a URL and from disk otherwise.
func fetchDocument(ctx context.Context, client *http.Client, location string) ([]byte, error) {
	if !IsRemote(location) {
		p := strings.TrimPrefix(location, "file://")
		log.Debugf("reading index from %s", p)
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, &TransportError{URL: location, Err: err}
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, &TransportError{URL: location, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	log.Debugf("fetching index from %s", location)
	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: location, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteFetchError{
			URL:        location,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, &TransportError{URL: location, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	return doc.Bytes(), nil
}

// decodeIndex parses a raw index document. A body that is valid JSON of the
// wrong shape for a field (e.g. "projects": "x") also fails here, since it
// cannot be represented as an Index.
func decodeIndex(location string, raw []byte, validate bool) (*project.Index, error) {
	var idx project.Index
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, &ParseError{URL: location, Err: err}
	}
	if validate {
		if err := idx.Validate(); err != nil {
			return nil, &ParseError{URL: location, Err: err}
		}
	}
	return &idx, nil
}
