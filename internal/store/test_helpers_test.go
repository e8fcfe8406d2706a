package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/recipebox/internal/model"
	"github.com/roach88/recipebox/internal/stream"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testRecipe creates an unsaved recipe with minimal required fields.
func testRecipe(name string, category model.CategoryID) model.Recipe {
	return model.Recipe{
		Image:        "file://" + name + ".png",
		Name:         name,
		CategoryID:   category,
		CategoryName: "cat",
		Steps:        []string{"step 1"},
		Ingredients:  []string{"ingredient 1"},
	}
}

// next receives one element or fails the test after a second.
func next[T any](t *testing.T, sub *stream.Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-sub.C():
		if !ok {
			t.Fatalf("subscription ended: %v", sub.Err())
		}
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	var zero T
	return zero
}

func names(recipes []model.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Name
	}
	return out
}
