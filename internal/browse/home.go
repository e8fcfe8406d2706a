// Package browse drives the recipe list with its category filter.
//
// Home holds the applied filter and keeps exactly one recipe query alive:
// every recipe when the filter is empty, otherwise the recipes in the chosen
// categories. Changing the filter cancels the previous query before the new
// one starts, and results from a superseded query are discarded even if they
// arrive late.
package browse

import (
	"context"
	"errors"
	"slices"
	"sync"

	"pkt.systems/pslog"

	"github.com/roach88/recipebox/internal/model"
	"github.com/roach88/recipebox/internal/navigation"
	"github.com/roach88/recipebox/internal/stream"
)

// Source provides the queries Home switches between.
type Source interface {
	Categories() *stream.Subscription[[]model.Category]
	AllRecipes(ctx context.Context) *stream.Subscription[[]model.Recipe]
	RecipesByCategories(ctx context.Context, ids []model.CategoryID) *stream.Subscription[[]model.Recipe]
}

// Home is the browsing list model.
type Home struct {
	src Source
	nav navigation.Navigator
	log pslog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	filter    []model.CategoryID
	gen       uint64
	stopQuery func()
	err       error

	recipes *stream.Value[[]model.Recipe]
	filters *stream.Value[[]model.CategoryID]
	chooser *stream.Value[[]model.Selectable[model.Category]]
}

// Option configures Home.
type Option func(*Home)

// WithLogger sets the logger.
func WithLogger(logger pslog.Logger) Option {
	return func(h *Home) {
		h.log = logger
	}
}

// NewHome starts an unfiltered list.
func NewHome(ctx context.Context, src Source, nav navigation.Navigator, opts ...Option) *Home {
	h := &Home{
		src:     src,
		nav:     nav,
		filter:  []model.CategoryID{},
		recipes: stream.NewValue[[]model.Recipe](),
		filters: stream.NewValueWith([]model.CategoryID{}),
		chooser: stream.NewValue[[]model.Selectable[model.Category]](),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = pslog.Ctx(ctx)
	}
	h.log = h.log.With("component", "home")
	h.ctx, h.cancel = context.WithCancel(ctx)

	h.mu.Lock()
	h.switchQuery()
	h.mu.Unlock()

	h.wg.Add(1)
	go h.combineChooser()

	return h
}

// Recipes streams the list for the current filter.
func (h *Home) Recipes() *stream.Subscription[[]model.Recipe] {
	return h.recipes.Subscribe()
}

// FilterChooser streams one entry per known category, selected when the
// category is in the applied filter. It recomputes when either the
// categories or the filter change.
func (h *Home) FilterChooser() *stream.Subscription[[]model.Selectable[model.Category]] {
	return h.chooser.Subscribe()
}

// Filter returns the applied filter, sorted. Empty means no filter.
func (h *Home) Filter() []model.CategoryID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.filter)
}

// Err returns the error that ended the current query, if any.
func (h *Home) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// SetFilter applies ids as the filter. Setting the filter already applied
// is a no-op.
func (h *Home) SetFilter(ids []model.CategoryID) {
	next := normalize(ids)

	h.mu.Lock()
	defer h.mu.Unlock()

	if slices.Equal(next, h.filter) || h.ctx.Err() != nil {
		return
	}
	h.filter = next
	h.filters.Publish(slices.Clone(next))
	h.log.Debug("filter changed", "categories", len(next))
	h.switchQuery()
}

// ToggleCategory adds id to the filter, or removes it if present.
func (h *Home) ToggleCategory(id model.CategoryID) {
	cur := h.Filter()
	if i := slices.Index(cur, id); i >= 0 {
		cur = slices.Delete(cur, i, i+1)
	} else {
		cur = append(cur, id)
	}
	h.SetFilter(cur)
}

// ClearFilter removes every category from the filter.
func (h *Home) ClearFilter() {
	h.SetFilter(nil)
}

// OpenRecipe requests the detail screen for id.
func (h *Home) OpenRecipe(id model.RecipeID) {
	h.nav.Navigate(navigation.RecipeDetail(id))
}

// AddRecipe requests an empty editor.
func (h *Home) AddRecipe() {
	h.nav.Navigate(navigation.AddRecipe())
}

// Close stops the active query and ends every stream.
func (h *Home) Close() {
	h.mu.Lock()
	h.cancel()
	if h.stopQuery != nil {
		h.stopQuery()
		h.stopQuery = nil
	}
	h.mu.Unlock()

	h.wg.Wait()
	h.recipes.Close()
	h.filters.Close()
	h.chooser.Close()
}

// switchQuery cancels the running query and subscribes for h.filter.
// Caller holds h.mu.
func (h *Home) switchQuery() {
	if h.stopQuery != nil {
		h.stopQuery()
	}
	h.gen++
	h.err = nil
	gen := h.gen

	ctx, cancel := context.WithCancel(h.ctx)
	var sub *stream.Subscription[[]model.Recipe]
	if len(h.filter) == 0 {
		sub = h.src.AllRecipes(ctx)
	} else {
		sub = h.src.RecipesByCategories(ctx, slices.Clone(h.filter))
	}
	h.stopQuery = func() {
		cancel()
		sub.Cancel()
	}

	h.wg.Add(1)
	go h.forward(gen, sub)
}

// forward publishes snapshots of sub while gen is still current.
func (h *Home) forward(gen uint64, sub *stream.Subscription[[]model.Recipe]) {
	defer h.wg.Done()
	for v := range sub.C() {
		h.mu.Lock()
		if h.gen == gen {
			h.recipes.Publish(v)
		}
		h.mu.Unlock()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gen == gen && h.ctx.Err() == nil {
		if err := sub.Err(); err != nil && !errors.Is(err, stream.ErrClosed) {
			h.err = err
			h.log.Error("recipe query ended", "err", err)
		}
	}
}

// combineChooser joins the category list with the filter.
func (h *Home) combineChooser() {
	defer h.wg.Done()

	cats := h.src.Categories()
	defer cats.Cancel()
	filters := h.filters.Subscribe()
	defer filters.Cancel()

	var (
		list    []model.Category
		haveCat bool
		applied []model.CategoryID
	)
	for {
		select {
		case <-h.ctx.Done():
			return
		case c, ok := <-cats.C():
			if !ok {
				return
			}
			list, haveCat = c, true
		case f, ok := <-filters.C():
			if !ok {
				return
			}
			applied = f
		}
		if haveCat {
			h.chooser.Publish(model.SelectCategories(list, applied))
		}
	}
}

func normalize(ids []model.CategoryID) []model.CategoryID {
	out := slices.Clone(ids)
	if out == nil {
		out = []model.CategoryID{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
