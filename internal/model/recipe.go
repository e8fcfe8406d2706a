package model

import (
	"fmt"
	"slices"
)

// RecipeID identifies a persisted recipe. Unsaved marks a draft.
type RecipeID int64

// CategoryID identifies a category. NoCategory means unset.
type CategoryID int64

const (
	// Unsaved is the id of a recipe that has not been persisted yet.
	Unsaved RecipeID = 0

	// NoCategory is the category id of a recipe without a category.
	NoCategory CategoryID = 0
)

// String implements fmt.Stringer.
func (id RecipeID) String() string {
	return fmt.Sprintf("%d", int64(id))
}

// Recipe is a single recipe in the collection.
type Recipe struct {
	ID           RecipeID
	Image        string
	Name         string
	CategoryID   CategoryID
	CategoryName string // copy of the category name at assignment time
	Steps        []string
	Ingredients  []string
}

// Empty returns the blank draft.
func Empty() Recipe {
	return Recipe{}
}

// IsEmpty reports whether r equals the blank draft.
func (r Recipe) IsEmpty() bool {
	return r.Equal(Empty())
}

// Saved reports whether r has been assigned a store id.
func (r Recipe) Saved() bool {
	return r.ID != Unsaved
}

// Equal reports full structural equality. Lists are compared element-wise
// and order matters; a nil list equals an empty one.
func (r Recipe) Equal(other Recipe) bool {
	return r.ID == other.ID &&
		r.Image == other.Image &&
		r.Name == other.Name &&
		r.CategoryID == other.CategoryID &&
		r.CategoryName == other.CategoryName &&
		slices.Equal(r.Steps, other.Steps) &&
		slices.Equal(r.Ingredients, other.Ingredients)
}

// Clone returns a deep copy of r. The copy never shares list storage with r.
func (r Recipe) Clone() Recipe {
	c := r
	c.Steps = cloneList(r.Steps)
	c.Ingredients = cloneList(r.Ingredients)
	return c
}

// WithID returns a copy of r carrying id.
func (r Recipe) WithID(id RecipeID) Recipe {
	c := r.Clone()
	c.ID = id
	return c
}

func cloneList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
