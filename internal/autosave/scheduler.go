package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/draftboard/internal/config"
	"github.com/debemdeboas/draftboard/internal/model"
)

const (
	DefaultDebounce     = 5 * time.Second
	DefaultInterval     = 30 * time.Second
	DefaultSavedDisplay = 3 * time.Second
)

var (
	ErrStopped        = errors.New("autosave: scheduler stopped")
	ErrAlreadyStarted = errors.New("autosave: scheduler already started")
)

// Persister is the upsert-by-id call a save ends in.
type Persister interface {
	SaveDraft(ctx context.Context, draft model.Draft, id model.BlogID) (*model.Blog, error)
}

type PersisterFunc func(ctx context.Context, draft model.Draft, id model.BlogID) (*model.Blog, error)

func (f PersisterFunc) SaveDraft(ctx context.Context, draft model.Draft, id model.BlogID) (*model.Blog, error) {
	return f(ctx, draft, id)
}

type Option func(*Scheduler)

func WithDebounce(d time.Duration) Option {
	return func(s *Scheduler) { s.debounce = d }
}

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

func WithSavedDisplay(d time.Duration) Option {
	return func(s *Scheduler) { s.savedDisplay = d }
}

// WithTimings applies all three periods from configuration.
func WithTimings(cfg config.AutoSaveConfig) Option {
	return func(s *Scheduler) {
		s.debounce = cfg.Debounce
		s.interval = cfg.Interval
		s.savedDisplay = cfg.SavedDisplay
	}
}

func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithBlogID makes saves target an existing blog. Without it the scheduler
// picks a fresh id, so even the first save is an upsert.
func WithBlogID(id model.BlogID) Option {
	return func(s *Scheduler) { s.id = id }
}

// WithStatusListener registers f to be told about status changes. Calls are
// serialized and arrive in the order the changes happened; a change already
// superseded when its turn comes is skipped, so f always ends on the
// current status. f must not call back into the scheduler's lifecycle
// methods.
func WithStatusListener(f func(Status)) Option {
	return func(s *Scheduler) { s.listener = f }
}

// Scheduler owns the debounce and interval timers of one editing surface.
// Saves are not mutually exclusive: a timer may fire while another save is
// in flight. The mutex only guards the fields, it is never held across a
// persist call.
type Scheduler struct {
	persister Persister
	clock     Clock
	log       zerolog.Logger
	listener  func(Status)

	emitMu     sync.Mutex
	emittedSeq uint64

	debounce     time.Duration
	interval     time.Duration
	savedDisplay time.Duration

	mu  sync.Mutex
	ctx context.Context

	draft    model.Draft
	id       model.BlogID
	snapshot string
	status   Status
	lastErr  error

	// seq increments on every status change.
	seq uint64

	// attempt increments per started save; snapshotAttempt is the attempt
	// whose draft is in snapshot.
	attempt         uint64
	snapshotAttempt uint64

	started bool
	stopped bool

	debounceTimer Timer
	intervalTimer Timer
	revertTimer   Timer
}

func New(persister Persister, opts ...Option) *Scheduler {
	s := &Scheduler{
		persister:    persister,
		clock:        RealClock,
		log:          zerolog.Nop(),
		debounce:     DefaultDebounce,
		interval:     DefaultInterval,
		savedDisplay: DefaultSavedDisplay,
		status:       StatusIdle,
		ctx:          context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = model.BlogID(uuid.NewString())
	}
	s.log = s.log.With().Str("component", "autosave").Str("blog_id", string(s.id)).Logger()
	return s
}

// Start arms the interval timer. Saves issued by the timers run on a
// context that keeps ctx's values but never its cancellation: a save that
// has started always runs to completion.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return ErrAlreadyStarted
	}

	s.started = true
	s.ctx = context.WithoutCancel(ctx)
	s.intervalTimer = s.clock.AfterFunc(s.interval, s.onInterval)

	s.log.Debug().Dur("debounce", s.debounce).Dur("interval", s.interval).Msg("Auto-save started")
	return nil
}

// Stop cancels every pending timer. A save already in flight still
// completes. Stop is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true

	for _, t := range []Timer{s.debounceTimer, s.intervalTimer, s.revertTimer} {
		if t != nil {
			t.Stop()
		}
	}

	s.log.Debug().Msg("Auto-save stopped")
}

// Update records the current draft and restarts the quiet period.
func (s *Scheduler) Update(d model.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = d
	if !s.started || s.stopped {
		return
	}

	if s.debounceTimer == nil {
		s.debounceTimer = s.clock.AfterFunc(s.debounce, s.onDebounce)
	} else {
		s.debounceTimer.Reset(s.debounce)
	}
}

// Prime records d as both the current draft and the persisted snapshot, for
// a form just loaded from storage.
func (s *Scheduler) Prime(d model.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = d
	s.snapshot = Serialize(d)
}

// SaveNow runs the save action immediately on ctx. It returns nil without
// persisting when there is nothing new to save.
func (s *Scheduler) SaveNow(ctx context.Context) error {
	return s.save(ctx, "manual")
}

func (s *Scheduler) onDebounce() {
	s.mu.Lock()
	ctx := s.ctx
	stopped := s.stopped
	s.mu.Unlock()

	if stopped {
		return
	}
	_ = s.save(ctx, "debounce")
}

func (s *Scheduler) onInterval() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.intervalTimer.Reset(s.interval)
	ctx := s.ctx
	s.mu.Unlock()

	_ = s.save(ctx, "interval")
}

func (s *Scheduler) save(ctx context.Context, trigger string) error {
	s.mu.Lock()
	draft := s.draft
	if !ShouldSave(draft, s.snapshot) {
		s.mu.Unlock()
		return nil
	}

	serialized := Serialize(draft)
	id := s.id
	s.attempt++
	attempt := s.attempt
	seq := s.setStatus(StatusSaving)
	s.mu.Unlock()

	s.emit(StatusSaving, seq)
	start := time.Now()

	blog, err := s.persister.SaveDraft(ctx, draft, id)

	s.mu.Lock()
	latest := attempt == s.attempt

	if err != nil {
		if latest {
			s.lastErr = err
			seq = s.setStatus(StatusError)
		}
		s.mu.Unlock()

		s.log.Error().Err(err).
			Str("trigger", trigger).
			Str("kind", errorKind(err)).
			Msg("Auto-save failed")

		if latest {
			s.emit(StatusError, seq)
		}
		return err
	}

	if attempt > s.snapshotAttempt {
		s.snapshot = serialized
		s.snapshotAttempt = attempt
	}
	if blog != nil && blog.ID != "" {
		s.id = blog.ID
	}
	if latest {
		s.lastErr = nil
		seq = s.setStatus(StatusSaved)
		if s.revertTimer != nil {
			s.revertTimer.Stop()
		}
		if !s.stopped {
			s.revertTimer = s.clock.AfterFunc(s.savedDisplay, func() { s.revert(attempt) })
		}
	}
	s.mu.Unlock()

	s.log.Info().
		Str("trigger", trigger).
		Dur("took", time.Since(start)).
		Msg("Draft auto-saved")

	if latest {
		s.emit(StatusSaved, seq)
	}
	return nil
}

// revert moves saved back to idle unless a newer attempt has taken over.
func (s *Scheduler) revert(attempt uint64) {
	s.mu.Lock()
	if s.attempt != attempt || s.status != StatusSaved {
		s.mu.Unlock()
		return
	}
	seq := s.setStatus(StatusIdle)
	s.mu.Unlock()

	s.emit(StatusIdle, seq)
}

// setStatus must be called with mu held.
func (s *Scheduler) setStatus(status Status) uint64 {
	s.status = status
	s.seq++
	return s.seq
}

func (s *Scheduler) emit(status Status, seq uint64) {
	if s.listener == nil {
		return
	}

	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	if seq <= s.emittedSeq {
		return
	}
	s.emittedSeq = seq
	s.listener(status)
}

func errorKind(err error) string {
	switch {
	case model.IsValidation(err):
		return "validation"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	default:
		return "network"
	}
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the error of the newest save attempt when it failed. A save
// older than the newest attempt never changes it.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Scheduler) Snapshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

func (s *Scheduler) BlogID() model.BlogID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Scheduler) Draft() model.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}
