package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecipe() Recipe {
	return Recipe{
		ID:           7,
		Image:        "file://pancakes.jpg",
		Name:         "Pancakes",
		CategoryID:   2,
		CategoryName: "Breakfast",
		Steps:        []string{"mix", "fry"},
		Ingredients:  []string{"flour", "milk", "egg"},
	}
}

func TestEmptyRecipe(t *testing.T) {
	r := Empty()
	assert.True(t, r.IsEmpty())
	assert.False(t, r.Saved())
	assert.Equal(t, Unsaved, r.ID)
}

func TestRecipeEqual(t *testing.T) {
	base := sampleRecipe()

	tests := []struct {
		name   string
		mutate func(*Recipe)
		equal  bool
	}{
		{"identical", func(*Recipe) {}, true},
		{"id differs", func(r *Recipe) { r.ID = 8 }, false},
		{"image differs", func(r *Recipe) { r.Image = "x" }, false},
		{"name differs", func(r *Recipe) { r.Name = "Waffles" }, false},
		{"category differs", func(r *Recipe) { r.CategoryID = 3 }, false},
		{"category name differs", func(r *Recipe) { r.CategoryName = "Brunch" }, false},
		{"step order differs", func(r *Recipe) { r.Steps = []string{"fry", "mix"} }, false},
		{"ingredient removed", func(r *Recipe) { r.Ingredients = r.Ingredients[:2] }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base.Clone()
			tt.mutate(&other)
			assert.Equal(t, tt.equal, base.Equal(other))
			assert.Equal(t, tt.equal, other.Equal(base))
		})
	}
}

func TestRecipeEqualNilAndEmptyLists(t *testing.T) {
	a := Recipe{Name: "x"}
	b := Recipe{Name: "x", Steps: []string{}, Ingredients: []string{}}
	assert.True(t, a.Equal(b))
	assert.True(t, Empty().Equal(Recipe{Steps: []string{}}))
}

func TestRecipeCloneIsDeep(t *testing.T) {
	orig := sampleRecipe()
	c := orig.Clone()
	require.True(t, orig.Equal(c))

	c.Steps[0] = "changed"
	c.Ingredients = append(c.Ingredients, "sugar")

	assert.Equal(t, "mix", orig.Steps[0])
	assert.Len(t, orig.Ingredients, 3)
}

func TestRecipeWithID(t *testing.T) {
	r := sampleRecipe()
	r.ID = Unsaved
	saved := r.WithID(42)
	assert.Equal(t, RecipeID(42), saved.ID)
	assert.Equal(t, Unsaved, r.ID)
	assert.True(t, saved.Saved())
}

func TestSelectCategories(t *testing.T) {
	cats := []Category{{ID: 3, Name: "Dinner"}, {ID: 1, Name: "Breakfast"}, {ID: 2, Name: "Lunch"}}

	got := SelectCategories(cats, []CategoryID{2, 99})
	require.Len(t, got, 3)
	assert.Equal(t, CategoryID(3), got[0].Value.ID, "load order kept")
	assert.False(t, got[0].Selected)
	assert.False(t, got[1].Selected)
	assert.True(t, got[2].Selected)

	none := SelectCategories(cats, nil)
	for _, s := range none {
		assert.False(t, s.Selected)
	}

	assert.Empty(t, SelectCategories(nil, []CategoryID{1}))
}

func TestFindCategory(t *testing.T) {
	cats := []Category{{ID: 1, Name: "Breakfast"}}

	c, ok := FindCategory(cats, 1)
	assert.True(t, ok)
	assert.Equal(t, "Breakfast", c.Name)

	_, ok = FindCategory(cats, NoCategory)
	assert.False(t, ok)

	_, ok = FindCategory(cats, 5)
	assert.False(t, ok)
}
