// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Meta is the display label and style token for a status.
type Meta struct {
	Label string `json:"label"`
	Style string `json:"style"`
}

// DefaultStyle is used for archived projects and any unrecognized status.
const DefaultStyle = "muted-foreground"

// StatusMeta maps a status to its display metadata. It is total: unknown
// statuses get their raw value as the label and the default style.
func StatusMeta(status Status) Meta {
	switch status {
	case StatusActive:
		return Meta{Label: "Active", Style: "chart-2"}
	case StatusCompleted:
		return Meta{Label: "Completed", Style: "primary"}
	case StatusInProgress:
		return Meta{Label: "In Progress", Style: "chart-3"}
	case StatusArchived:
		return Meta{Label: "Archived", Style: DefaultStyle}
	default:
		return Meta{Label: string(status), Style: DefaultStyle}
	}
}

// InvalidDate is what renderers show when FormatDate fails.
const InvalidDate = "Invalid Date"

// ErrInvalidDate is wrapped by FormatDate when the input cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2006",
}

// FormatDate renders s as "January 2006". Month names are always English.
// Surrounding whitespace is ignored and the accepted layouts are:
//
//	2006-01-02T15:04:05Z07:00  RFC 3339
//	2006-01-02T15:04:05        no zone, read as UTC
//	2006-01-02
//	2006-01
//	2006
//	January 2, 2006
//	Jan 2, 2006
//	January 2006
//
// Anything else wraps ErrInvalidDate.
func FormatDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("January 2006"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// DisplayDate is FormatDate for renderers; failures become InvalidDate.
func DisplayDate(s string) string {
	out, err := FormatDate(s)
	if err != nil {
		return InvalidDate
	}
	return out
}
