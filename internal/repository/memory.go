package repository

import (
	"context"

	"github.com/pkg/errors"

	"github.com/debemdeboas/draftboard/internal/cache"
	"github.com/debemdeboas/draftboard/internal/model"
)

// MemoryBlogRepository keeps blogs in process memory. Stored values are
// copies, so callers can't mutate them through returned pointers.
type MemoryBlogRepository struct { // implements Store
	blogs *cache.Cache[model.BlogID, *model.Blog]
}

func NewMemoryBlogRepository() *MemoryBlogRepository {
	return &MemoryBlogRepository{
		blogs: cache.NewCache[model.BlogID, *model.Blog](),
	}
}

func (m *MemoryBlogRepository) Get(_ context.Context, id model.BlogID) (*model.Blog, error) {
	if blog, ok := m.blogs.Get(id); ok {
		return cloneBlog(blog), nil
	}
	return nil, errors.Wrapf(model.ErrNotFound, "blog %s", id)
}

func (m *MemoryBlogRepository) List(_ context.Context) ([]model.Blog, error) {
	stored := m.blogs.Values()
	blogs := make([]model.Blog, 0, len(stored))
	for _, b := range stored {
		blogs = append(blogs, *cloneBlog(b))
	}
	sortByUpdated(blogs)
	return blogs, nil
}

func (m *MemoryBlogRepository) Put(_ context.Context, blog *model.Blog) error {
	m.blogs.Set(blog.ID, cloneBlog(blog))
	return nil
}

func (m *MemoryBlogRepository) Delete(_ context.Context, id model.BlogID) error {
	if !m.blogs.Delete(id) {
		return errors.Wrapf(model.ErrNotFound, "blog %s", id)
	}
	return nil
}

func (m *MemoryBlogRepository) Close() error {
	return nil
}
