package navigation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recipebox/internal/model"
)

func TestBus_NavigateThenClear(t *testing.T) {
	b := NewBus()
	e1 := RecipeDetail(4)
	e2 := Back()

	b.Navigate(e1)
	b.Navigate(e2)

	assert.Equal(t, []Event{e1, e2}, b.ClearEvents())
	assert.Empty(t, b.Pending())
	assert.Empty(t, b.ClearEvents(), "drained events are never redelivered")
}

func TestBus_BackIsSugar(t *testing.T) {
	b := NewBus()
	b.Back()
	assert.Equal(t, []Event{{Kind: KindBack}}, b.Pending())
}

func TestBus_RapidIntentsDoNotClobber(t *testing.T) {
	b := NewBus()
	b.Navigate(AddRecipe())
	b.Navigate(EditRecipe(1))
	b.Navigate(Back())

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []Event{AddRecipe(), EditRecipe(1), Back()}, b.Pending())
}

func TestBus_PendingIsACopy(t *testing.T) {
	b := NewBus()
	b.Back()
	p := b.Pending()
	p[0] = AddRecipe()
	assert.Equal(t, Back(), b.Pending()[0])
}

func TestBus_ConcurrentNavigateAndClear(t *testing.T) {
	b := NewBus()

	const producers = 8
	const perProducer = 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				b.Navigate(EditRecipe(model.RecipeID(p*perProducer + i)))
			}
		}(p)
	}

	var (
		collected []Event
		done      = make(chan struct{})
	)
	go func() {
		defer close(done)
		for len(collected) < producers*perProducer {
			collected = append(collected, b.ClearEvents()...)
		}
	}()

	wg.Wait()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out collecting events")
	}

	require.Len(t, collected, producers*perProducer)

	seen := make(map[model.RecipeID]bool, len(collected))
	lastPerProducer := make(map[int]int)
	for _, e := range collected {
		require.False(t, seen[e.RecipeID], "duplicate event %v", e)
		seen[e.RecipeID] = true

		p := int(e.RecipeID) / perProducer
		i := int(e.RecipeID) % perProducer
		if last, ok := lastPerProducer[p]; ok {
			require.Greater(t, i, last, "per-producer order violated")
		}
		lastPerProducer[p] = i
	}
}

func TestBus_Run(t *testing.T) {
	b := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Event, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- b.Run(ctx, func(e Event) { got <- e })
	}()

	want := []Event{RecipeDetail(1), EditRecipe(1), Back(), Back()}
	for _, e := range want {
		b.Navigate(e)
	}

	for i, w := range want {
		select {
		case e := <-got:
			assert.Equal(t, w, e, "event %d", i)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
	assert.Equal(t, 0, b.Len())

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestBus_RunReturnsOnClose(t *testing.T) {
	b := NewBus()
	errc := make(chan error, 1)
	go func() {
		errc <- b.Run(context.Background(), func(Event) {})
	}()

	b.Close()
	b.Close()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}

	b.Navigate(Back())
	assert.Equal(t, 0, b.Len(), "events after close are dropped")
}

func TestBus_Updates(t *testing.T) {
	b := NewBus()
	sub := b.Updates()
	defer sub.Cancel()

	recv := func() []Event {
		select {
		case v := <-sub.C():
			return v
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for update")
		}
		return nil
	}

	assert.Empty(t, recv())
	b.Navigate(AddRecipe())
	assert.Equal(t, []Event{AddRecipe()}, recv())
	b.ClearEvents()
	assert.Empty(t, recv())
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "back", Back().String())
	assert.Equal(t, "add_recipe", AddRecipe().String())
	assert.Equal(t, "edit_recipe(3)", EditRecipe(3).String())
	assert.Equal(t, "recipe_detail(9)", RecipeDetail(9).String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
