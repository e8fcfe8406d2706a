// Package repository mediates between the recipe store and its consumers.
//
// A Repository exposes every query as a live subscription, performs upserts
// and deletes, and caches the category list. Categories are loaded once in
// the background when the repository is built; a failed load is logged and
// leaves an empty list so browsing is never blocked by a missing asset.
package repository

import (
	"context"
	"errors"
	"sync"

	"pkt.systems/pslog"

	"github.com/roach88/recipebox/internal/category"
	"github.com/roach88/recipebox/internal/metrics"
	"github.com/roach88/recipebox/internal/model"
	"github.com/roach88/recipebox/internal/store"
	"github.com/roach88/recipebox/internal/stream"
)

// Store is the persistence surface the repository needs.
type Store interface {
	UpsertRecipe(ctx context.Context, r model.Recipe) (model.RecipeID, error)
	DeleteRecipe(ctx context.Context, id model.RecipeID) error
	RecipeByID(ctx context.Context, id model.RecipeID) (model.Recipe, error)
	ListRecipes(ctx context.Context, q store.Query) ([]model.Recipe, error)
	WatchRecipes(ctx context.Context, q store.Query) *stream.Subscription[[]model.Recipe]
	WatchRecipe(ctx context.Context, id model.RecipeID) *stream.Subscription[*model.Recipe]
}

// Repository is safe for concurrent use.
type Repository struct {
	store   Store
	source  category.Source
	log     pslog.Logger
	metrics *metrics.Metrics

	categories *stream.Value[[]model.Category]
	loaded     chan struct{}
	loadOnce   sync.Once
	reloadMu   sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the repository logger.
func WithLogger(logger pslog.Logger) Option {
	return func(r *Repository) {
		r.log = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Repository) {
		r.metrics = m
	}
}

// New builds a repository over st and starts loading categories from src.
// The load runs in the background; Categories subscribers receive the list
// once it is available.
func New(ctx context.Context, st Store, src category.Source, opts ...Option) *Repository {
	r := &Repository{
		store:      st,
		source:     src,
		categories: stream.NewValue[[]model.Category](),
		loaded:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = pslog.Ctx(ctx)
	}
	r.log = r.log.With("component", "repository")
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.loadCategories(r.ctx)
	}()

	return r
}

// Close cancels background work and ends every subscription the
// repository created.
func (r *Repository) Close() {
	r.cancel()
	r.wg.Wait()
	r.categories.Close()
}

func (r *Repository) loadCategories(ctx context.Context) {
	cats, err := r.source.Load(ctx)
	if err != nil {
		r.log.Warn("category load failed, continuing with no categories", "err", err)
		r.metrics.ObserveCategoryLoad(metrics.OutcomeError, 0)
		cats = []model.Category{}
	} else {
		r.log.Debug("categories loaded", "count", len(cats))
		r.metrics.ObserveCategoryLoad(metrics.OutcomeOK, len(cats))
	}
	r.categories.Publish(cats)
	r.loadOnce.Do(func() { close(r.loaded) })
}

// Categories streams the category list in load order. The list is emitted
// once after the initial load and again only after ReloadCategories.
func (r *Repository) Categories() *stream.Subscription[[]model.Category] {
	return r.categories.Subscribe()
}

// CategoryList waits for the initial load and returns the cached list.
func (r *Repository) CategoryList(ctx context.Context) ([]model.Category, error) {
	select {
	case <-r.loaded:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return r.CachedCategories(), nil
}

// CachedCategories returns the cached list without waiting. It is empty
// until the initial load completes.
func (r *Repository) CachedCategories() []model.Category {
	cats, ok := r.categories.Latest()
	if !ok {
		return []model.Category{}
	}
	return append([]model.Category{}, cats...)
}

// ReloadCategories re-reads the category source. On failure the cached
// list is kept and the error returned.
func (r *Repository) ReloadCategories(ctx context.Context) ([]model.Category, error) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	if _, err := r.CategoryList(ctx); err != nil {
		return nil, err
	}
	cats, err := r.source.Load(ctx)
	if err != nil {
		r.log.Warn("category reload failed, keeping cached list", "err", err)
		r.metrics.ObserveCategoryLoad(metrics.OutcomeError, len(r.CachedCategories()))
		return nil, err
	}
	r.metrics.ObserveCategoryLoad(metrics.OutcomeOK, len(cats))
	r.categories.Publish(cats)
	return append([]model.Category{}, cats...), nil
}

// AllRecipes streams every recipe: the current snapshot on subscribe, then
// a fresh snapshot after every committed mutation.
func (r *Repository) AllRecipes(ctx context.Context) *stream.Subscription[[]model.Recipe] {
	ctx, cancel := r.scope(ctx)
	return track(r, cancel, r.store.WatchRecipes(ctx, store.AllRecipes()))
}

// RecipesByCategories streams the recipes whose category is in ids.
// An empty ids matches nothing; callers wanting "no filter" use AllRecipes.
func (r *Repository) RecipesByCategories(ctx context.Context, ids []model.CategoryID) *stream.Subscription[[]model.Recipe] {
	ctx, cancel := r.scope(ctx)
	return track(r, cancel, r.store.WatchRecipes(ctx, store.ByCategories(ids...)))
}

// Snapshot is a point read of the recipes in the given categories, or of
// every recipe when ids is empty.
func (r *Repository) Snapshot(ctx context.Context, ids []model.CategoryID) ([]model.Recipe, error) {
	q := store.AllRecipes()
	if len(ids) > 0 {
		q = store.ByCategories(ids...)
	}
	return r.store.ListRecipes(ctx, q)
}

// RecipeByID reads one recipe. found is false when it does not exist.
func (r *Repository) RecipeByID(ctx context.Context, id model.RecipeID) (rec model.Recipe, found bool, err error) {
	rec, err = r.store.RecipeByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Recipe{}, false, nil
	}
	if err != nil {
		return model.Recipe{}, false, err
	}
	return rec, true, nil
}

// RecipeByIDStream streams one recipe. A nil element means absent.
func (r *Repository) RecipeByIDStream(ctx context.Context, id model.RecipeID) *stream.Subscription[*model.Recipe] {
	ctx, cancel := r.scope(ctx)
	return track(r, cancel, r.store.WatchRecipe(ctx, id))
}

// Upsert inserts rec when it is unsaved and updates it otherwise. It does
// not validate. The write is durable when Upsert returns.
func (r *Repository) Upsert(ctx context.Context, rec model.Recipe) (model.RecipeID, error) {
	id, err := r.store.UpsertRecipe(ctx, rec)
	if err != nil {
		r.metrics.ObserveMutation("upsert", metrics.OutcomeError)
		r.log.Error("upsert failed", "recipe_id", int64(rec.ID), "err", err)
		return 0, err
	}
	r.metrics.ObserveMutation("upsert", metrics.OutcomeOK)
	return id, nil
}

// Delete removes rec by id. Deleting a recipe that does not exist returns
// an error wrapping model.ErrNotFound; callers that treat "already gone" as
// success check for it with errors.Is.
func (r *Repository) Delete(ctx context.Context, rec model.Recipe) error {
	err := r.store.DeleteRecipe(ctx, rec.ID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		r.metrics.ObserveMutation("delete", metrics.OutcomeNotFound)
		r.log.Debug("delete of absent recipe", "recipe_id", int64(rec.ID))
		return err
	case err != nil:
		r.metrics.ObserveMutation("delete", metrics.OutcomeError)
		r.log.Error("delete failed", "recipe_id", int64(rec.ID), "err", err)
		return err
	}
	r.metrics.ObserveMutation("delete", metrics.OutcomeOK)
	return nil
}

// scope derives a context that also ends when the repository closes.
func (r *Repository) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	scoped, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(r.ctx, cancel)
	return scoped, func() {
		stop()
		cancel()
	}
}

// track counts sub as an active watch until it ends, then releases its
// context.
func track[T any](r *Repository, cancel context.CancelFunc, sub *stream.Subscription[T]) *stream.Subscription[T] {
	r.metrics.WatchStarted()
	go func() {
		<-sub.Done()
		cancel()
		r.metrics.WatchStopped()
	}()
	return sub
}
