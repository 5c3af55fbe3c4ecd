package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/debemdeboas/draftboard/internal/model"
	"github.com/debemdeboas/draftboard/internal/repository"
)

type failingRepo struct {
	repository.BlogRepository
	err error
}

func (f failingRepo) Get(context.Context, model.BlogID) (*model.Blog, error) { return nil, f.err }
func (f failingRepo) List(context.Context) ([]model.Blog, error)             { return nil, f.err }

func newTestService(t *testing.T) (*BlogService, *[]Event) {
	t.Helper()

	svc := NewBlogService(repository.NewMemoryBlogRepository())
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick time.Duration
	svc.now = func() time.Time {
		tick += time.Second
		return base.Add(tick)
	}

	var events []Event
	svc.SetNotifier(func(e Event) { events = append(events, e) })
	return svc, &events
}

func TestSaveDraftCreates(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	blog, err := svc.SaveDraft(ctx, model.Draft{Title: "  ", Content: "body", Tags: "go, ,web"}, "")
	if err != nil {
		t.Fatalf("SaveDraft() error: %v", err)
	}

	if blog.ID == "" {
		t.Error("Expected a generated id")
	}
	if blog.Title != model.DefaultTitle {
		t.Errorf("Title = %q, want %q", blog.Title, model.DefaultTitle)
	}
	if blog.Status != model.StatusDraft {
		t.Errorf("Status = %s, want draft", blog.Status)
	}
	if !reflect.DeepEqual(blog.Tags, model.Tags{"go", "web"}) {
		t.Errorf("Tags = %#v", blog.Tags)
	}
	if !blog.CreatedAt.Equal(blog.UpdatedAt) {
		t.Errorf("New blog timestamps differ: %s vs %s", blog.CreatedAt, blog.UpdatedAt)
	}
	if len(*events) != 1 || (*events)[0] != (Event{Kind: EventCreated, ID: blog.ID}) {
		t.Errorf("Events = %v", *events)
	}
}

func TestSaveDraftWithUnknownIDCreatesUnderThatID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id := model.BlogID("0b5b2c1e-5d8e-4c8e-9d4b-1b2b3c4d5e6f")
	first, err := svc.SaveDraft(ctx, model.Draft{Title: "One"}, id)
	if err != nil {
		t.Fatalf("SaveDraft() error: %v", err)
	}
	second, err := svc.SaveDraft(ctx, model.Draft{Title: "Two"}, id)
	if err != nil {
		t.Fatalf("SaveDraft() error: %v", err)
	}

	if first.ID != id || second.ID != id {
		t.Errorf("Expected both saves on %s, got %s and %s", id, first.ID, second.ID)
	}

	blogs, _ := svc.List(ctx)
	if len(blogs) != 1 {
		t.Fatalf("Expected a single stored blog, got %d", len(blogs))
	}
	if blogs[0].Title != "Two" {
		t.Errorf("Title = %q, want Two", blogs[0].Title)
	}
	if !blogs[0].CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on update")
	}
}

func TestSaveDraftKeepsStatus(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	published, err := svc.Publish(ctx, model.Draft{Title: "T", Content: "C"}, "")
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	updated, err := svc.SaveDraft(ctx, model.Draft{Title: "T2", Content: "C2"}, published.ID)
	if err != nil {
		t.Fatalf("SaveDraft() error: %v", err)
	}
	if updated.Status != model.StatusPublished {
		t.Errorf("Status = %s, want published to be kept", updated.Status)
	}
	if !updated.UpdatedAt.After(published.UpdatedAt) {
		t.Error("Expected updated_at to advance")
	}

	want := []Event{{EventCreated, published.ID}, {EventUpdated, published.ID}}
	if !reflect.DeepEqual(*events, want) {
		t.Errorf("Events = %v, want %v", *events, want)
	}
}

func TestPublish(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		draft   model.Draft
		wantErr bool
	}{
		{"missing title", model.Draft{Content: "C"}, true},
		{"missing content", model.Draft{Title: "T"}, true},
		{"blank content", model.Draft{Title: "T", Content: "  \n"}, true},
		{"complete", model.Draft{Title: "T", Content: "C", Tags: "a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blog, err := svc.Publish(ctx, tt.draft, "")
			if tt.wantErr {
				if !model.IsValidation(err) {
					t.Errorf("Expected a validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Publish() error: %v", err)
			}
			if blog.Status != model.StatusPublished {
				t.Errorf("Status = %s, want published", blog.Status)
			}
		})
	}
}

func TestPublishExistingDraft(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	draft, _ := svc.SaveDraft(ctx, model.Draft{Title: "T", Content: "C"}, "")
	published, err := svc.Publish(ctx, model.Draft{Title: "T", Content: "Final"}, draft.ID)
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if published.ID != draft.ID {
		t.Errorf("Publish created a new blog %s instead of %s", published.ID, draft.ID)
	}
	if published.Status != model.StatusPublished || published.Content != "Final" {
		t.Errorf("Unexpected blog: %+v", published)
	}
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	blog, _ := svc.SaveDraft(ctx, model.Draft{Title: "T", Content: "C", Tags: "a"}, "")

	t.Run("missing", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", model.Draft{Title: "X"})
		if !errors.Is(err, model.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.Update(ctx, blog.ID, model.Draft{Title: "X", Status: "archived"})
		if !model.IsValidation(err) {
			t.Errorf("Expected a validation error, got %v", err)
		}
	})

	t.Run("empty status keeps current", func(t *testing.T) {
		got, err := svc.Update(ctx, blog.ID, model.Draft{Title: "X", Content: "Y"})
		if err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if got.Status != model.StatusDraft {
			t.Errorf("Status = %s, want draft", got.Status)
		}
		if len(got.Tags) != 0 {
			t.Errorf("Tags = %#v, want cleared", got.Tags)
		}
	})

	t.Run("full replacement", func(t *testing.T) {
		got, err := svc.Update(ctx, blog.ID, model.Draft{Content: "Z", Tags: "b", Status: model.StatusPublished})
		if err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if got.Title != model.DefaultTitle || got.Content != "Z" || got.Status != model.StatusPublished {
			t.Errorf("Unexpected blog: %+v", got)
		}
	})
}

func TestDelete(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	blog, _ := svc.SaveDraft(ctx, model.Draft{Title: "T"}, "")
	if err := svc.Delete(ctx, blog.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := svc.Get(ctx, blog.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, blog.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}

	last := (*events)[len(*events)-1]
	if last != (Event{Kind: EventDeleted, ID: blog.ID}) {
		t.Errorf("Last event = %v", last)
	}
	if last.String() != "deleted:"+string(blog.ID) {
		t.Errorf("Event.String() = %s", last.String())
	}
}

func TestListOrderAndFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.SaveDraft(ctx, model.Draft{Title: "A"}, "")
	b, _ := svc.Publish(ctx, model.Draft{Title: "B", Content: "C"}, "")
	c, _ := svc.SaveDraft(ctx, model.Draft{Title: "C"}, "")

	blogs, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	var ids []model.BlogID
	for _, blog := range blogs {
		ids = append(ids, blog.ID)
	}
	if want := []model.BlogID{c.ID, b.ID, a.ID}; !reflect.DeepEqual(ids, want) {
		t.Errorf("List order = %v, want %v", ids, want)
	}

	drafts, err := svc.ListByStatus(ctx, model.StatusDraft)
	if err != nil {
		t.Fatalf("ListByStatus() error: %v", err)
	}
	if len(drafts) != 2 {
		t.Errorf("Expected 2 drafts, got %d", len(drafts))
	}

	if _, err := svc.ListByStatus(ctx, "archived"); !model.IsValidation(err) {
		t.Errorf("Expected a validation error for unknown status, got %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if stats != (model.Stats{Total: 3, Published: 1, Drafts: 2}) {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestRepositoryErrorsPropagate(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewBlogService(failingRepo{err: boom})
	ctx := context.Background()

	if _, err := svc.SaveDraft(ctx, model.Draft{Title: "T"}, "some-id"); !errors.Is(err, boom) {
		t.Errorf("SaveDraft() = %v, want wrapped %v", err, boom)
	}
	if _, err := svc.Stats(ctx); !errors.Is(err, boom) {
		t.Errorf("Stats() = %v, want %v", err, boom)
	}
}

func TestConcurrentSavesOnOneID(t *testing.T) {
	svc := NewBlogService(repository.NewMemoryBlogRepository())
	ctx := context.Background()
	id := model.BlogID("7d9f7f1a-3c52-4d8e-8f0e-2a4b6c8d0e1f")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.SaveDraft(ctx, model.Draft{Title: "T"}, id); err != nil {
				t.Errorf("SaveDraft() error: %v", err)
			}
		}()
	}
	wg.Wait()

	blogs, _ := svc.List(ctx)
	if len(blogs) != 1 {
		t.Errorf("Expected one blog, got %d", len(blogs))
	}
}
