// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/staranto/projidx/internal/attrs"
)

const projectsJSON = `[
	{"slug":"a","title":"Alpha","status":"active","stars":1520,"published":true,"featured":true,"tags":["ml","nlp"],"category":"research"},
	{"slug":"b","title":"Bravo","status":"completed","stars":12,"published":true,"featured":false,"tags":["cli"],"category":"tooling"},
	{"slug":"c","title":"Charlie","status":"in-progress","stars":0,"published":false,"featured":true,"tags":[],"category":"research"}
]`

func defaultAttrs(t *testing.T) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	assert.NoError(t, al.Set("slug,title,status,stars,!published,!tags,category:cat"))
	return al
}

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
	}{
		{
			name: "empty spec",
			spec: "",
		},
		{
			name: "single exact match filter",
			spec: "status=active",
			want: []Filter{{Key: "status", Operand: "=", Target: "active"}},
		},
		{
			name: "negated exact match",
			spec: "status!=archived",
			want: []Filter{{Key: "status", Operand: "=", Target: "archived", Negate: true}},
		},
		{
			name: "prefix and contains",
			spec: "slug^a,tags@ml",
			want: []Filter{
				{Key: "slug", Operand: "^", Target: "a"},
				{Key: "tags", Operand: "@", Target: "ml"},
			},
		},
		{
			name: "regex target containing operators",
			spec: "githubUrl/^https://github.com/",
			want: []Filter{{Key: "githubUrl", Operand: "/", Target: "^https://github.com/"}},
		},
		{
			name: "invalid filter skipped",
			spec: "status=active,nonsense,=x,stars>100",
			want: []Filter{
				{Key: "status", Operand: "=", Target: "active"},
				{Key: "stars", Operand: ">", Target: "100"},
			},
		},
		{
			name:      "custom delimiter",
			spec:      "title~alpha|stars<10",
			delimiter: "|",
			want: []Filter{
				{Key: "title", Operand: "~", Target: "alpha"},
				{Key: "stars", Operand: "<", Target: "10"},
			},
		},
		{
			name: "empty target",
			spec: "icon=",
			want: []Filter{{Key: "icon", Operand: "=", Target: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("PROJIDX_FILTER_DELIM", tt.delimiter)
			}

			got := BuildFilters(tt.spec)
			assert.Len(t, got, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want, got[i])
			}
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		filter Filter
		want   bool
	}{
		{"exact", "active", Filter{Operand: "=", Target: "active"}, true},
		{"exact negated", "active", Filter{Operand: "=", Target: "active", Negate: true}, false},
		{"fold", "Alpha", Filter{Operand: "~", Target: "ALPHA"}, true},
		{"prefix", "in-progress", Filter{Operand: "^", Target: "in-"}, true},
		{"prefix negated", "in-progress", Filter{Operand: "^", Target: "in-", Negate: true}, false},
		{"greater", "beta", Filter{Operand: ">", Target: "alpha"}, true},
		{"less", "beta", Filter{Operand: "<", Target: "alpha"}, false},
		{"contains", "research lab", Filter{Operand: "@", Target: "lab"}, true},
		{"regex", "2024-03-01", Filter{Operand: "/", Target: `^\d{4}-03`}, true},
		{"bad regex", "x", Filter{Operand: "/", Target: "("}, false},
		{"unknown operand", "x", Filter{Operand: "%", Target: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkStringOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		filter Filter
		want   bool
	}{
		{"equal", 12, Filter{Operand: "=", Target: "12"}, true},
		{"not equal", 12, Filter{Operand: "=", Target: "12", Negate: true}, false},
		{"greater", 1520, Filter{Operand: ">", Target: "1000"}, true},
		{"less", 0, Filter{Operand: "<", Target: " 1 "}, true},
		{"bad target", 1, Filter{Operand: "=", Target: "many"}, false},
		{"unsupported", 1, Filter{Operand: "^", Target: "1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkNumericOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckContainsOperand(t *testing.T) {
	tags := []any{"ml", "nlp"}
	assert.True(t, checkContainsOperand(tags, Filter{Operand: "@", Target: "ml"}))
	assert.False(t, checkContainsOperand(tags, Filter{Operand: "@", Target: "cli"}))
	assert.True(t, checkContainsOperand(tags, Filter{Operand: "@", Target: "cli", Negate: true}))

	m := map[string]any{"owner": "x"}
	assert.True(t, checkContainsOperand(m, Filter{Operand: "@", Target: "owner"}))
	assert.False(t, checkContainsOperand(m, Filter{Operand: "@", Target: "owner", Negate: true}))

	assert.False(t, checkContainsOperand(3.0, Filter{Operand: "@", Target: "3"}))
}

func TestToFloat64(t *testing.T) {
	for _, v := range []interface{}{1.5, 3, int64(7)} {
		_, ok := toFloat64(v)
		assert.True(t, ok, "%T", v)
	}
	_, ok := toFloat64("3")
	assert.False(t, ok)
}

func TestFilterDataset(t *testing.T) {
	candidates := gjson.Parse(projectsJSON)

	tests := []struct {
		name      string
		spec      string
		wantSlugs []string
	}{
		{name: "no filter", spec: "", wantSlugs: []string{"a", "b", "c"}},
		{name: "status", spec: "status=active", wantSlugs: []string{"a"}},
		{name: "negated status", spec: "status!=active", wantSlugs: []string{"b", "c"}},
		{name: "bool", spec: "published=true", wantSlugs: []string{"a", "b"}},
		{name: "numeric", spec: "stars>10", wantSlugs: []string{"a", "b"}},
		{name: "tag membership", spec: "tags@ml", wantSlugs: []string{"a"}},
		{name: "output key alias", spec: "cat=research", wantSlugs: []string{"a", "c"}},
		{name: "path not in attrs", spec: "featured=true", wantSlugs: []string{"a", "c"}},
		{name: "combined", spec: "cat=research,published=true", wantSlugs: []string{"a"}},
		{name: "missing key", spec: "owner=x", wantSlugs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDataset(candidates, defaultAttrs(t), tt.spec)

			var slugs []string
			for _, row := range got {
				slugs = append(slugs, row["slug"].(string))
			}
			assert.Equal(t, tt.wantSlugs, slugs)
		})
	}
}

func TestFilterDataset_RowShape(t *testing.T) {
	got := FilterDataset(gjson.Parse(projectsJSON), defaultAttrs(t), "slug=a")

	assert.Len(t, got, 1)
	row := got[0]
	assert.Equal(t, "Alpha", row["title"])
	assert.Equal(t, 1520.0, row["stars"])
	assert.Equal(t, "research", row["cat"])
	assert.Equal(t, true, row["published"], "hidden attrs are still carried")
	assert.Equal(t, []interface{}{"ml", "nlp"}, row["tags"])
}
