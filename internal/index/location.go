// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// IndexFile is the name of the index document inside its directory.
const IndexFile = "ProjectIndex.json"

// Defaults for the raw-content location of the index.
const (
	DefaultOwner  = "Master-IASD-2025"
	DefaultRepo   = "master-iasd-2025.github.io"
	DefaultBranch = "master"
	DefaultPath   = "src/lib/projects"

	rawContentBase = "https://raw.githubusercontent.com"
)

// Source describes where the index lives. URL wins over Local, and Local
// wins over the GitHub fields.
type Source struct {
	// URL is a complete http(s) URL or filesystem path to the index document.
	URL string
	// Local is a directory holding IndexFile, used against a local
	// development checkout.
	Local string

	Owner  string
	Repo   string
	Branch string
	Path   string
}

// ResolveLocation turns src into the single location FetchIndex reads.
func ResolveLocation(src Source) string {
	if src.URL != "" {
		return src.URL
	}
	if src.Local != "" {
		return filepath.Join(src.Local, IndexFile)
	}

	owner := orDefault(src.Owner, DefaultOwner)
	repo := orDefault(src.Repo, DefaultRepo)
	branch := orDefault(src.Branch, DefaultBranch)
	p := strings.Trim(orDefault(src.Path, DefaultPath), "/")

	return fmt.Sprintf("%s/%s", rawContentBase, path.Join(owner, repo, branch, p, IndexFile))
}

// IsRemote reports whether location is fetched over HTTP rather than read
// from disk.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func orDefault(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
