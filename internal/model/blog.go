// Package model defines core data structures and types for the blog application.
package model

import (
	"encoding/json"
	"strings"
	"time"
)

type BlogID string

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is one of the known post states.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// DefaultTitle is stored when a draft is saved without a title.
const DefaultTitle = "Untitled"

// Blog is a persisted post.
type Blog struct {
	ID BlogID `json:"id"`

	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    Tags   `json:"tags"`
	Status  Status `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Draft returns the form representation of the blog, as the editor would
// hydrate it.
func (b *Blog) Draft() Draft {
	return Draft{
		Title:   b.Title,
		Content: b.Content,
		Tags:    b.Tags.String(),
		Status:  b.Status,
	}
}

// Draft is the in-progress state held by the editing surface. Tags are kept
// in their comma-separated form until persisted.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
	Status  Status `json:"status"`
}

// IsBlank reports whether neither the title nor the content has any
// non-whitespace text.
func (d Draft) IsBlank() bool {
	return strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.Content) == ""
}

type Tags []string

// ParseTags splits a comma-separated tag list, trimming every item and
// dropping empty ones.
func ParseTags(s string) Tags {
	tags := Tags{}
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (t Tags) String() string {
	return strings.Join(t, ", ")
}

func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON accepts either a JSON array of strings or the comma-separated
// form sent by the editor.
func (t *Tags) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = ParseTags(strings.Join(list, ","))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &ValidationError{Field: "tags", Reason: "must be a string or an array of strings"}
	}
	*t = ParseTags(s)
	return nil
}

// Stats summarizes a blog list.
type Stats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
}

func ComputeStats(blogs []Blog) Stats {
	stats := Stats{Total: len(blogs)}
	for _, b := range blogs {
		switch b.Status {
		case StatusPublished:
			stats.Published++
		case StatusDraft:
			stats.Drafts++
		}
	}
	return stats
}
