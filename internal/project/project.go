// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of a project.
type Status string

const (
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in-progress"
	StatusArchived   Status = "archived"
)

// Statuses lists the known statuses in display order.
var Statuses = []Status{
	StatusActive,
	StatusInProgress,
	StatusCompleted,
	StatusArchived,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusInProgress, StatusArchived:
		return true
	}
	return false
}

// Project describes a single entry in the project index. Values are treated
// as immutable once decoded.
type Project struct {
	Slug            string   `json:"slug"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription"`
	Category        string   `json:"category"`
	Status          Status   `json:"status"`
	Contributors    int      `json:"contributors"`
	Stars           int      `json:"stars"`
	Icon            string   `json:"icon"`
	Tags            []string `json:"tags"`
	TechStack       []string `json:"techStack"`
	GitHubURL       string   `json:"githubUrl"`
	Featured        bool     `json:"featured"`
	Published       bool     `json:"published"`
	StartDate       string   `json:"startDate"`
	Highlights      []string `json:"highlights"`
}

// Index is one snapshot of the full project catalog. Slugs are expected to be
// unique but nothing here enforces it.
type Index struct {
	Projects    []Project `json:"projects"`
	LastUpdated string    `json:"lastUpdated"`
}

// ErrInvalidIndex is wrapped by every error returned from Validate.
var ErrInvalidIndex = errors.New("invalid project index")

// Validate performs a shallow structural check of the index: every project
// must carry a slug and a known status.
func (idx *Index) Validate() error {
	if idx == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidIndex)
	}
	for i, p := range idx.Projects {
		if p.Slug == "" {
			return fmt.Errorf("%w: project %d has no slug", ErrInvalidIndex, i)
		}
		if !p.Status.Valid() {
			return fmt.Errorf("%w: project %q has unknown status %q", ErrInvalidIndex, p.Slug, p.Status)
		}
	}
	return nil
}

// BySlug returns the first project whose slug equals slug.
func (idx *Index) BySlug(slug string) (Project, bool) {
	if idx == nil {
		return Project{}, false
	}
	for _, p := range idx.Projects {
		if p.Slug == slug {
			return p, true
		}
	}
	return Project{}, false
}

// Select returns, in index order, the projects for which keep returns true.
// The result is never nil.
func (idx *Index) Select(keep func(Project) bool) []Project {
	result := []Project{}
	if idx == nil {
		return result
	}
	for _, p := range idx.Projects {
		if keep(p) {
			result = append(result, p)
		}
	}
	return result
}

// IsPublished selects projects visible on the site.
func IsPublished(p Project) bool {
	return p.Published
}

// IsFeatured selects published projects that are also featured.
func IsFeatured(p Project) bool {
	return p.Published && p.Featured
}
