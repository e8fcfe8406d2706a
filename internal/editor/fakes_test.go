package editor

import (
	"context"
	"slices"
	"sync"

	"github.com/roach88/recipebox/internal/model"
	"github.com/roach88/recipebox/internal/navigation"
)

var testCategories = []model.Category{
	{ID: 1, Name: "Breakfast"},
	{ID: 2, Name: "Dinner"},
}

// fakeRepo is an in-memory Repository. A non-nil block channel holds
// RecipeByID until it is closed or the context ends.
type fakeRepo struct {
	mu        sync.Mutex
	recipes   map[model.RecipeID]model.Recipe
	nextID    model.RecipeID
	upserts   []model.Recipe
	loadErr   error
	upsertErr error
	block     chan struct{}
}

func newFakeRepo(seed ...model.Recipe) *fakeRepo {
	f := &fakeRepo{recipes: make(map[model.RecipeID]model.Recipe), nextID: 100}
	for _, r := range seed {
		f.recipes[r.ID] = r.Clone()
	}
	return f
}

func (f *fakeRepo) CategoryList(ctx context.Context) ([]model.Category, error) {
	return slices.Clone(testCategories), nil
}

func (f *fakeRepo) CachedCategories() []model.Category {
	return slices.Clone(testCategories)
}

func (f *fakeRepo) RecipeByID(ctx context.Context, id model.RecipeID) (model.Recipe, bool, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return model.Recipe{}, false, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return model.Recipe{}, false, f.loadErr
	}
	r, ok := f.recipes[id]
	return r.Clone(), ok, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, rec model.Recipe) (model.RecipeID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	if rec.ID == model.Unsaved {
		rec = rec.WithID(f.nextID)
		f.nextID++
	}
	f.recipes[rec.ID] = rec.Clone()
	f.upserts = append(f.upserts, rec.Clone())
	return rec.ID, nil
}

func (f *fakeRepo) Upserts() []model.Recipe {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.upserts)
}

type recordingNavigator struct {
	mu     sync.Mutex
	events []navigation.Event
}

func (n *recordingNavigator) Navigate(e navigation.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNavigator) Back() {
	n.Navigate(navigation.Back())
}

func (n *recordingNavigator) Events() []navigation.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.events)
}

func pancakes() model.Recipe {
	return model.Recipe{
		ID:           7,
		Image:        "file://pancakes.jpg",
		Name:         "Pancakes",
		CategoryID:   1,
		CategoryName: "Breakfast",
		Ingredients:  []string{"flour", "milk"},
		Steps:        []string{"mix", "fry"},
	}
}
