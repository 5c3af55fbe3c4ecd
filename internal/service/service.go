// Package service holds the blog operations shared by the REST handlers and
// the auto-save persister.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/draftboard/internal/config"
	"github.com/debemdeboas/draftboard/internal/model"
	"github.com/debemdeboas/draftboard/internal/repository"
)

type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

// Event describes a change to a stored blog.
type Event struct {
	Kind EventKind
	ID   model.BlogID
}

func (e Event) String() string {
	return string(e.Kind) + ":" + string(e.ID)
}

type Notifier func(Event)

var serviceLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	serviceLogger = l
}

type BlogService struct {
	repo repository.BlogRepository
	now  func() time.Time

	// Writes are read-modify-write against the repository.
	mu       sync.Mutex
	notifier Notifier
}

func NewBlogService(repo repository.BlogRepository) *BlogService {
	return &BlogService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// SetNotifier registers f to be called after every successful write.
func (s *BlogService) SetNotifier(f Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = f
}

func (s *BlogService) notify(kind EventKind, id model.BlogID) {
	if s.notifier != nil {
		s.notifier(Event{Kind: kind, ID: id})
	}
}

// List returns every blog, most recently updated first.
func (s *BlogService) List(ctx context.Context) ([]model.Blog, error) {
	return s.repo.List(ctx)
}

// ListByStatus filters List; an empty status matches every blog.
func (s *BlogService) ListByStatus(ctx context.Context, status model.Status) ([]model.Blog, error) {
	if status != "" && !status.Valid() {
		return nil, invalidStatus(status)
	}

	blogs, err := s.repo.List(ctx)
	if err != nil || status == "" {
		return blogs, err
	}

	filtered := make([]model.Blog, 0, len(blogs))
	for _, b := range blogs {
		if b.Status == status {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func (s *BlogService) Get(ctx context.Context, id model.BlogID) (*model.Blog, error) {
	return s.repo.Get(ctx, id)
}

func (s *BlogService) Stats(ctx context.Context) (model.Stats, error) {
	blogs, err := s.repo.List(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	return model.ComputeStats(blogs), nil
}

// SaveDraft updates the blog named by id, keeping its status, or creates a
// new draft when id is empty or unknown. A known id is reused for the new
// blog so repeated saves from one editor land on the same row.
func (s *BlogService) SaveDraft(ctx context.Context, d model.Draft, id model.BlogID) (*model.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blog, created, err := s.upsert(ctx, id, d, "")
	if err != nil {
		return nil, errors.Wrap(err, "save draft")
	}

	serviceLogger.Debug().
		Str("blog_id", string(blog.ID)).
		Bool("created", created).
		Msg("Draft saved")
	return blog, nil
}

// Publish is SaveDraft with status published. Title and content are
// required.
func (s *BlogService) Publish(ctx context.Context, d model.Draft, id model.BlogID) (*model.Blog, error) {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Content) == "" {
		return nil, &model.ValidationError{Reason: config.ErrTitleContentNeeded}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blog, created, err := s.upsert(ctx, id, d, model.StatusPublished)
	if err != nil {
		return nil, errors.Wrap(err, "publish")
	}

	serviceLogger.Info().
		Str("blog_id", string(blog.ID)).
		Bool("created", created).
		Msg("Blog published")
	return blog, nil
}

// Update replaces the stored fields of an existing blog. An empty status
// keeps the current one.
func (s *BlogService) Update(ctx context.Context, id model.BlogID, d model.Draft) (*model.Blog, error) {
	if d.Status != "" && !d.Status.Valid() {
		return nil, invalidStatus(d.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blog, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(blog, d)
	if d.Status != "" {
		blog.Status = d.Status
	}
	blog.UpdatedAt = s.now()

	if err := s.repo.Put(ctx, blog); err != nil {
		return nil, errors.Wrapf(err, "update blog %s", id)
	}
	s.notify(EventUpdated, blog.ID)
	return blog, nil
}

func (s *BlogService) Delete(ctx context.Context, id model.BlogID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(EventDeleted, id)

	serviceLogger.Info().Str("blog_id", string(id)).Msg("Blog deleted")
	return nil
}

// upsert must be called with s.mu held. An empty status leaves an existing
// blog's status alone and creates drafts.
func (s *BlogService) upsert(ctx context.Context, id model.BlogID, d model.Draft, status model.Status) (*model.Blog, bool, error) {
	now := s.now()

	var existing *model.Blog
	if id != "" {
		blog, err := s.repo.Get(ctx, id)
		switch {
		case err == nil:
			existing = blog
		case errors.Is(err, model.ErrNotFound):
		default:
			return nil, false, err
		}
	}

	created := existing == nil
	blog := existing
	if created {
		if id == "" {
			id = model.BlogID(uuid.NewString())
		}
		blog = &model.Blog{
			ID:        id,
			Status:    model.StatusDraft,
			CreatedAt: now,
		}
	}

	apply(blog, d)
	if status != "" {
		blog.Status = status
	}
	blog.UpdatedAt = now

	if err := s.repo.Put(ctx, blog); err != nil {
		return nil, false, err
	}

	if created {
		s.notify(EventCreated, blog.ID)
	} else {
		s.notify(EventUpdated, blog.ID)
	}
	return blog, created, nil
}

func apply(blog *model.Blog, d model.Draft) {
	blog.Title = strings.TrimSpace(d.Title)
	if blog.Title == "" {
		blog.Title = model.DefaultTitle
	}
	blog.Content = d.Content
	blog.Tags = model.ParseTags(d.Tags)
}

func invalidStatus(status model.Status) error {
	return &model.ValidationError{
		Field:  "status",
		Reason: fmt.Sprintf("must be %q or %q, got %q", model.StatusDraft, model.StatusPublished, status),
	}
}
