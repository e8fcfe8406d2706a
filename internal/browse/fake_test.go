package browse

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/roach88/recipebox/internal/model"
	"github.com/roach88/recipebox/internal/navigation"
	"github.com/roach88/recipebox/internal/stream"
)

// fakeSource answers each query from a fixed table, optionally after a delay.
// A delayed answer is published even if the query was cancelled, like a
// backend that ignores cancellation.
type fakeSource struct {
	categories *stream.Value[[]model.Category]

	mu      sync.Mutex
	results map[string][]model.Recipe
	delays  map[string]time.Duration
	calls   []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		categories: stream.NewValue[[]model.Category](),
		results:    make(map[string][]model.Recipe),
		delays:     make(map[string]time.Duration),
	}
}

func key(ids []model.CategoryID) string {
	if len(ids) == 0 {
		return "all"
	}
	s := slices.Clone(ids)
	slices.Sort(s)
	out := ""
	for _, id := range s {
		out += string(rune('A' + int(id) - 1))
	}
	return out
}

func (f *fakeSource) set(k string, recipes []model.Recipe, delay time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[k] = recipes
	f.delays[k] = delay
}

func (f *fakeSource) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeSource) Categories() *stream.Subscription[[]model.Category] {
	return f.categories.Subscribe()
}

func (f *fakeSource) AllRecipes(ctx context.Context) *stream.Subscription[[]model.Recipe] {
	return f.query("all")
}

func (f *fakeSource) RecipesByCategories(ctx context.Context, ids []model.CategoryID) *stream.Subscription[[]model.Recipe] {
	return f.query(key(ids))
}

func (f *fakeSource) query(k string) *stream.Subscription[[]model.Recipe] {
	f.mu.Lock()
	f.calls = append(f.calls, k)
	result := f.results[k]
	delay := f.delays[k]
	f.mu.Unlock()

	v := stream.NewValue[[]model.Recipe]()
	sub := v.Subscribe()
	if delay == 0 {
		v.Publish(result)
		return sub
	}
	go func() {
		time.Sleep(delay)
		v.Publish(result)
	}()
	return sub
}

// recordingNavigator captures navigation intents.
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
