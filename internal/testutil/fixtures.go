package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/recipebox/internal/category"
	"github.com/roach88/recipebox/internal/model"
	"github.com/roach88/recipebox/internal/repository"
	"github.com/roach88/recipebox/internal/store"
)

// Categories returns a small category list.
func Categories() []model.Category {
	return []model.Category{
		{ID: 1, Name: "Breakfast"},
		{ID: 2, Name: "Lunch"},
		{ID: 3, Name: "Dinner"},
	}
}

// Pancakes is a valid unsaved breakfast recipe.
func Pancakes() model.Recipe {
	return model.Recipe{
		Image:        "file://pancakes.jpg",
		Name:         "Pancakes",
		CategoryID:   1,
		CategoryName: "Breakfast",
		Ingredients:  []string{"flour", "milk", "egg"},
		Steps:        []string{"mix", "fry"},
	}
}

// Soup is a valid unsaved dinner recipe.
func Soup() model.Recipe {
	return model.Recipe{
		Image:        "file://soup.jpg",
		Name:         "Soup",
		CategoryID:   3,
		CategoryName: "Dinner",
		Ingredients:  []string{"water", "salt"},
		Steps:        []string{"boil"},
	}
}

// NewStore opens an in-memory store closed at the end of the test.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// NewRepository builds a repository over a fresh in-memory store with cats
// as the category source, and waits for the categories to load.
func NewRepository(t *testing.T, cats ...model.Category) *repository.Repository {
	t.Helper()
	repo := repository.New(context.Background(), NewStore(t), category.Static(cats...))
	t.Cleanup(repo.Close)
	_, err := repo.CategoryList(context.Background())
	require.NoError(t, err)
	return repo
}

// Seed upserts recipes in order and returns their ids.
func Seed(t *testing.T, repo *repository.Repository, recipes ...model.Recipe) []model.RecipeID {
	t.Helper()
	ids := make([]model.RecipeID, 0, len(recipes))
	for _, r := range recipes {
		id, err := repo.Upsert(context.Background(), r)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}
