// Package editor implements the edit session behind the add and edit
// recipe screens.
//
// A Session owns a mutable draft, remembers the last persisted version of
// the recipe, and keeps one validation slot per field. Validation runs only
// on demand until the first Save; from then on every mutation re-validates
// the whole draft. Sessions opened for an existing recipe start in
// StateLoading and become ready once the recipe has been read.
package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"pkt.systems/pslog"

	"github.com/roach88/recipebox/internal/metrics"
	"github.com/roach88/recipebox/internal/model"
	"github.com/roach88/recipebox/internal/navigation"
	"github.com/roach88/recipebox/internal/stream"
	"github.com/roach88/recipebox/internal/validate"
)

var (
	// ErrNotReady is returned by mutators while the session is loading.
	ErrNotReady = errors.New("edit session not ready")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("edit session closed")
)

// Repository is what a Session needs from the recipe repository.
type Repository interface {
	CategoryList(ctx context.Context) ([]model.Category, error)
	CachedCategories() []model.Category
	RecipeByID(ctx context.Context, id model.RecipeID) (model.Recipe, bool, error)
	Upsert(ctx context.Context, rec model.Recipe) (model.RecipeID, error)
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	SessionID    string
	Mode         Mode
	State        State
	Draft        model.Recipe
	Saved        *model.Recipe // nil until the recipe has been persisted
	Errors       validate.Result
	AutoValidate bool
	LoadErr      error
}

// Dirty reports whether the draft differs from the saved recipe, or from
// the empty draft when nothing has been saved.
func (s Snapshot) Dirty() bool {
	base := model.Empty()
	if s.Saved != nil {
		base = *s.Saved
	}
	return !s.Draft.Equal(base)
}

// SaveResult reports the outcome of Save.
type SaveResult struct {
	ID     model.RecipeID
	Errors validate.Result
}

// Saved reports whether the draft passed validation and was persisted.
func (r SaveResult) Saved() bool {
	return r.ID != model.Unsaved
}

// Session is safe for concurrent use.
type Session struct {
	id      string
	mode    Mode
	repo    Repository
	nav     navigation.Navigator
	log     pslog.Logger
	metrics *metrics.Metrics
	gen     IDGenerator

	mu           sync.Mutex
	state        State
	draft        model.Recipe
	saved        *model.Recipe
	errs         validate.Result
	autoValidate bool
	loadErr      error

	ready   chan struct{}
	closed  chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	updates *stream.Value[Snapshot]
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger pslog.Logger) Option {
	return func(s *Session) {
		s.log = logger
	}
}

// WithMetrics counts validation failures on save.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithIDGenerator sets the session id source. Defaults to UUIDv7Generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Session) {
		s.gen = gen
	}
}

func newSession(ctx context.Context, mode Mode, repo Repository, nav navigation.Navigator, opts []Option) *Session {
	s := &Session{
		mode:    mode,
		repo:    repo,
		nav:     nav,
		draft:   model.Empty(),
		ready:   make(chan struct{}),
		closed:  make(chan struct{}),
		cancel:  func() {},
		updates: stream.NewValue[Snapshot](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = UUIDv7Generator{}
	}
	if s.log == nil {
		s.log = pslog.Ctx(ctx)
	}
	s.id = s.gen.Generate()
	s.log = s.log.With("session", s.id, "mode", mode.String())
	return s
}

// NewAdd opens a session for a new recipe. It starts ready with the empty
// draft and no saved recipe.
func NewAdd(repo Repository, nav navigation.Navigator, opts ...Option) *Session {
	s := newSession(context.Background(), ModeAdd, repo, nav, opts)
	s.state = StateReady
	close(s.ready)
	s.updates.Publish(s.snapshotLocked())
	s.log.Debug("session opened")
	return s
}

// NewEdit opens a session for recipe id and starts reading it. Until the
// read finishes the session is loading and mutators return ErrNotReady.
// An id that does not exist leaves the session ready with the empty draft.
// A read failure is kept in Snapshot.LoadErr.
func NewEdit(ctx context.Context, repo Repository, nav navigation.Navigator, id model.RecipeID, opts ...Option) *Session {
	s := newSession(ctx, ModeEdit, repo, nav, opts)
	s.log = s.log.With("recipe_id", int64(id))
	s.state = StateLoading
	s.updates.Publish(s.snapshotLocked())

	hctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.hydrate(hctx, id)
	}()
	s.log.Debug("session opened")
	return s
}

func (s *Session) hydrate(ctx context.Context, id model.RecipeID) {
	rec, found, err := s.repo.RecipeByID(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoading {
		return
	}
	switch {
	case err != nil && ctx.Err() != nil:
		return
	case err != nil:
		s.loadErr = err
		s.log.Error("recipe load failed", "err", err)
	case !found:
		s.log.Warn("recipe to edit does not exist")
	default:
		saved := rec.Clone()
		s.saved = &saved
		s.draft = rec.Clone()
	}
	if err := transition(&s.state, StateLoading, StateReady); err != nil {
		s.log.Error("hydrate", "err", err)
		return
	}
	close(s.ready)
	s.publishLocked()
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Mode returns how the session was opened.
func (s *Session) Mode() Mode {
	return s.mode
}

// WaitReady blocks until the session is ready. It returns ErrClosed if the
// session closes first.
func (s *Session) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-s.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Updates streams a snapshot after every change. It ends on Close.
func (s *Session) Updates() *stream.Subscription[Snapshot] {
	return s.updates.Subscribe()
}

// Dirty reports whether the draft has unsaved changes.
func (s *Session) Dirty() bool {
	return s.Snapshot().Dirty()
}

// SetImage sets the image reference.
func (s *Session) SetImage(image string) error {
	return s.mutate(func(d *model.Recipe) {
		d.Image = image
	})
}

// SetName sets the recipe name.
func (s *Session) SetName(name string) error {
	return s.mutate(func(d *model.Recipe) {
		d.Name = name
	})
}

// SetCategory assigns c and copies its display name into the draft.
func (s *Session) SetCategory(c model.Category) error {
	return s.mutate(func(d *model.Recipe) {
		d.CategoryID = c.ID
		d.CategoryName = c.Name
	})
}

// AddIngredient appends an ingredient.
func (s *Session) AddIngredient(ingredient string) error {
	return s.mutate(func(d *model.Recipe) {
		d.Ingredients = append(d.Ingredients, ingredient)
	})
}

// ReplaceIngredient replaces the ingredient at i. It panics with a
// *model.ProgrammerError when i is out of range.
func (s *Session) ReplaceIngredient(i int, ingredient string) error {
	return s.mutate(func(d *model.Recipe) {
		model.CheckIndex("replace ingredient", i, len(d.Ingredients))
		d.Ingredients[i] = ingredient
	})
}

// RemoveIngredient removes the ingredient at i. It panics with a
// *model.ProgrammerError when i is out of range.
func (s *Session) RemoveIngredient(i int) error {
	return s.mutate(func(d *model.Recipe) {
		model.CheckIndex("remove ingredient", i, len(d.Ingredients))
		d.Ingredients = slices.Delete(d.Ingredients, i, i+1)
	})
}

// AddStep appends a step.
func (s *Session) AddStep(step string) error {
	return s.mutate(func(d *model.Recipe) {
		d.Steps = append(d.Steps, step)
	})
}

// ReplaceStep replaces the step at i. It panics with a
// *model.ProgrammerError when i is out of range.
func (s *Session) ReplaceStep(i int, step string) error {
	return s.mutate(func(d *model.Recipe) {
		model.CheckIndex("replace step", i, len(d.Steps))
		d.Steps[i] = step
	})
}

// RemoveStep removes the step at i. It panics with a
// *model.ProgrammerError when i is out of range.
func (s *Session) RemoveStep(i int) error {
	return s.mutate(func(d *model.Recipe) {
		model.CheckIndex("remove step", i, len(d.Steps))
		d.Steps = slices.Delete(d.Steps, i, i+1)
	})
}

// mutate applies fn to a copy of the draft. A panic in fn leaves the draft
// untouched.
func (s *Session) mutate(fn func(*model.Recipe)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usableLocked(); err != nil {
		return err
	}
	next := s.draft.Clone()
	fn(&next)
	s.draft = next
	if s.autoValidate {
		s.errs = validate.Recipe(s.draft, s.repo.CachedCategories())
	}
	s.publishLocked()
	return nil
}

// Save validates the draft and, if every field passes, persists it and
// requests Back. The first call turns on validation after every mutation.
// A draft that fails validation is not persisted: the returned result
// carries the errors and the error return is nil. A storage failure is
// returned as an error and the session stays open.
func (s *Session) Save(ctx context.Context) (SaveResult, error) {
	s.mu.Lock()
	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()
		return SaveResult{}, err
	}
	s.autoValidate = true
	draft := s.draft.Clone()
	s.mu.Unlock()

	cats, err := s.repo.CategoryList(ctx)
	if err != nil {
		return SaveResult{}, fmt.Errorf("save: %w", err)
	}
	res := validate.Recipe(draft, cats)

	s.mu.Lock()
	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()
		return SaveResult{}, err
	}
	s.errs = res
	s.publishLocked()
	s.mu.Unlock()

	if !res.Valid() {
		for _, e := range res.Errors() {
			s.metrics.IncValidationFailure(string(e.Field))
		}
		s.log.Debug("save rejected", "errors", len(res.Errors()))
		return SaveResult{Errors: res}, nil
	}

	id, err := s.repo.Upsert(ctx, draft)
	if err != nil {
		s.log.Error("save failed", "err", err)
		return SaveResult{Errors: res}, err
	}

	s.mu.Lock()
	saved := draft.WithID(id)
	s.saved = &saved
	s.draft.ID = id
	s.publishLocked()
	s.mu.Unlock()

	s.log.Info("recipe saved", "recipe_id", int64(id))
	s.nav.Back()
	return SaveResult{ID: id, Errors: res}, nil
}

// RequestClose navigates Back right away when the draft is clean. When it
// is dirty nothing happens and ConfirmDiscard is returned.
func (s *Session) RequestClose() CloseDecision {
	if s.Dirty() {
		return ConfirmDiscard
	}
	s.nav.Back()
	return CloseNow
}

// Discard drops unsaved changes and navigates Back.
func (s *Session) Discard() {
	s.log.Debug("changes discarded")
	s.nav.Back()
}

// Close tears the session down and cancels a pending load. It is safe to
// call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	prev := s.state
	if err := transition(&s.state, prev, StateClosed); err != nil {
		s.mu.Unlock()
		return
	}
	close(s.closed)
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	s.publishLocked()
	s.mu.Unlock()
	s.updates.Close()
	s.log.Debug("session closed", "from", prev.String())
}

func (s *Session) usableLocked() error {
	switch s.state {
	case StateLoading:
		return ErrNotReady
	case StateClosed:
		return ErrClosed
	}
	return nil
}

func (s *Session) publishLocked() {
	s.updates.Publish(s.snapshotLocked())
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:    s.id,
		Mode:         s.mode,
		State:        s.state,
		Draft:        s.draft.Clone(),
		Errors:       s.errs,
		AutoValidate: s.autoValidate,
		LoadErr:      s.loadErr,
	}
	if s.saved != nil {
		saved := s.saved.Clone()
		snap.Saved = &saved
	}
	return snap
}
