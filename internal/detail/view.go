// Package detail backs the read-only recipe screen.
package detail

import (
	"context"
	"errors"
	"sync"

	"pkt.systems/pslog"

	"github.com/roach88/recipebox/internal/model"
	"github.com/roach88/recipebox/internal/navigation"
	"github.com/roach88/recipebox/internal/stream"
)

// Repository is what a View needs from the recipe repository.
type Repository interface {
	RecipeByIDStream(ctx context.Context, id model.RecipeID) *stream.Subscription[*model.Recipe]
	Delete(ctx context.Context, rec model.Recipe) error
}

// View follows one recipe and offers the detail screen actions.
type View struct {
	id   model.RecipeID
	repo Repository
	nav  navigation.Navigator
	log  pslog.Logger

	sub     *stream.Subscription[*model.Recipe]
	recipe  *stream.Value[*model.Recipe]
	wg      sync.WaitGroup
	closeMu sync.Once
}

// NewView subscribes to recipe id. The subscription ends with ctx or Close.
func NewView(ctx context.Context, repo Repository, nav navigation.Navigator, id model.RecipeID) *View {
	v := &View{
		id:     id,
		repo:   repo,
		nav:    nav,
		log:    pslog.Ctx(ctx).With("component", "detail", "recipe_id", int64(id)),
		recipe: stream.NewValue[*model.Recipe](),
	}
	v.sub = repo.RecipeByIDStream(ctx, id)

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		for r := range v.sub.C() {
			v.recipe.Publish(r)
		}
		if err := v.sub.Err(); err != nil && !errors.Is(err, stream.ErrClosed) && ctx.Err() == nil {
			v.log.Error("recipe stream ended", "err", err)
			v.recipe.CloseWithError(err)
			return
		}
		v.recipe.Close()
	}()
	return v
}

// ID returns the recipe id the view follows.
func (v *View) ID() model.RecipeID {
	return v.id
}

// Recipe streams the recipe. A nil element means it does not exist or has
// been deleted.
func (v *View) Recipe() *stream.Subscription[*model.Recipe] {
	return v.recipe.Subscribe()
}

// Current returns the latest known recipe.
func (v *View) Current() (model.Recipe, bool) {
	r, ok := v.recipe.Latest()
	if !ok || r == nil {
		return model.Recipe{}, false
	}
	return r.Clone(), true
}

// Edit requests the edit screen for this recipe.
func (v *View) Edit() {
	v.nav.Navigate(navigation.EditRecipe(v.id))
}

// Back requests the previous screen.
func (v *View) Back() {
	v.nav.Back()
}

// Delete removes the recipe and navigates Back. A recipe that is already
// gone counts as deleted.
func (v *View) Delete(ctx context.Context) error {
	rec, ok := v.Current()
	if !ok {
		rec = model.Recipe{ID: v.id}
	}
	err := v.repo.Delete(ctx, rec)
	if errors.Is(err, model.ErrNotFound) {
		v.log.Info("recipe already deleted")
		err = nil
	}
	if err != nil {
		return err
	}
	v.nav.Back()
	return nil
}

// Close ends the subscription.
func (v *View) Close() {
	v.closeMu.Do(func() {
		v.sub.Cancel()
		v.wg.Wait()
		v.recipe.Close()
	})
}
