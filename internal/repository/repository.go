// Package repository persists blogs behind a get/list/put/delete capability.
package repository

import (
	"context"
	"io"
	"slices"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/draftboard/internal/model"
)

type BlogRepository interface {
	// Get returns model.ErrNotFound when no blog has the id.
	Get(ctx context.Context, id model.BlogID) (*model.Blog, error)

	// List returns every blog, most recently updated first.
	List(ctx context.Context) ([]model.Blog, error)

	// Put inserts or replaces the blog with blog.ID.
	Put(ctx context.Context, blog *model.Blog) error

	// Delete returns model.ErrNotFound when no blog has the id.
	Delete(ctx context.Context, id model.BlogID) error
}

// Store is a repository that owns resources.
type Store interface {
	BlogRepository
	io.Closer
}

var repoLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

func sortByUpdated(blogs []model.Blog) {
	slices.SortStableFunc(blogs, func(a, b model.Blog) int {
		return -a.UpdatedAt.Compare(b.UpdatedAt)
	})
}

func cloneBlog(b *model.Blog) *model.Blog {
	c := *b
	c.Tags = slices.Clone(b.Tags)
	if c.Tags == nil {
		c.Tags = model.Tags{}
	}
	return &c
}
