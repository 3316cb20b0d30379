// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package index

import "fmt"

// RemoteFetchError is returned when the index location answers with a
// non-success status.
type RemoteFetchError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("failed to fetch projects index: %s", e.Status)
}

// TransportError is returned when the index location cannot be reached at all.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to reach projects index %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError is returned when the index body is not a usable document.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse projects index %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError describes a persistent tier failure. The cache never returns
// one from FetchIndex; it is logged and the tier is treated as a miss.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
