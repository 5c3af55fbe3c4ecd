// Package editor is the terminal editing surface: one form, auto-saved in
// the background while the author types.
package editor

import (
	"context"
	"sync"

	"github.com/debemdeboas/draftboard/internal/autosave"
	"github.com/debemdeboas/draftboard/internal/model"
)

// Backend persists drafts and publishes them.
type Backend interface {
	autosave.Persister
	Publish(ctx context.Context, d model.Draft, id model.BlogID) (*model.Blog, error)
}

type Session struct {
	backend Backend
	sched   *autosave.Scheduler

	mu    sync.Mutex
	draft model.Draft
}

// NewSession opens a form for blog, or an empty one when blog is nil.
// A loaded blog is primed as already saved, so opening it without edits
// never writes.
func NewSession(backend Backend, blog *model.Blog, opts ...autosave.Option) *Session {
	draft := model.Draft{Status: model.StatusDraft}
	if blog != nil {
		draft = blog.Draft()
		opts = append(opts, autosave.WithBlogID(blog.ID))
	}

	s := &Session{
		backend: backend,
		sched:   autosave.New(backend, opts...),
		draft:   draft,
	}
	if blog != nil {
		s.sched.Prime(draft)
	} else {
		s.sched.Update(draft)
	}
	return s
}

func (s *Session) Start(ctx context.Context) error {
	return s.sched.Start(ctx)
}

// Close stops auto-saving. A save already underway still completes.
func (s *Session) Close() {
	s.sched.Stop()
}

func (s *Session) edit(f func(d *model.Draft)) {
	s.mu.Lock()
	f(&s.draft)
	d := s.draft
	s.mu.Unlock()

	s.sched.Update(d)
}

func (s *Session) SetTitle(title string) {
	s.edit(func(d *model.Draft) { d.Title = title })
}

func (s *Session) SetContent(content string) {
	s.edit(func(d *model.Draft) { d.Content = content })
}

// AppendContent adds a line to the end of the content.
func (s *Session) AppendContent(line string) {
	s.edit(func(d *model.Draft) {
		if d.Content == "" {
			d.Content = line
			return
		}
		d.Content += "\n" + line
	})
}

func (s *Session) SetTags(tags string) {
	s.edit(func(d *model.Draft) { d.Tags = tags })
}

func (s *Session) SetStatus(status model.Status) error {
	if !status.Valid() {
		return &model.ValidationError{Field: "status", Reason: "must be draft or published"}
	}
	s.edit(func(d *model.Draft) { d.Status = status })
	return nil
}

func (s *Session) Draft() model.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Save runs the auto-save action now.
func (s *Session) Save(ctx context.Context) error {
	return s.sched.SaveNow(ctx)
}

// Publish sends the form as a published blog. On success the form is
// considered saved.
func (s *Session) Publish(ctx context.Context) (*model.Blog, error) {
	d := s.Draft()

	blog, err := s.backend.Publish(ctx, d, s.sched.BlogID())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.draft.Status = model.StatusPublished
	d = s.draft
	s.mu.Unlock()

	s.sched.Prime(d)
	return blog, nil
}

func (s *Session) BlogID() model.BlogID {
	return s.sched.BlogID()
}

func (s *Session) Status() autosave.Status {
	return s.sched.Status()
}

func (s *Session) Err() error {
	return s.sched.Err()
}

// Dirty reports whether the form has edits the auto-saver would write.
func (s *Session) Dirty() bool {
	return autosave.ShouldSave(s.Draft(), s.sched.Snapshot())
}
