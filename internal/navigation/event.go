// Package navigation carries navigation intents from the core to the
// presentation layer.
//
// Intents are queued in order on a Bus and drained exactly once: a drained
// event is never delivered again, and concurrent Navigate and ClearEvents
// calls never lose or duplicate an event.
package navigation

import (
	"fmt"

	"github.com/roach88/recipebox/internal/model"
)

// Kind distinguishes navigation intents.
type Kind int

const (
	// KindBack leaves the current screen.
	KindBack Kind = iota + 1
	// KindAddRecipe opens an empty editor.
	KindAddRecipe
	// KindEditRecipe opens the editor for an existing recipe.
	KindEditRecipe
	// KindRecipeDetail opens the detail screen of a recipe.
	KindRecipeDetail
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindBack:
		return "back"
	case KindAddRecipe:
		return "add_recipe"
	case KindEditRecipe:
		return "edit_recipe"
	case KindRecipeDetail:
		return "recipe_detail"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one navigation intent. RecipeID is set for KindEditRecipe and
// KindRecipeDetail.
type Event struct {
	Kind     Kind
	RecipeID model.RecipeID
}

// Back returns the back intent.
func Back() Event { return Event{Kind: KindBack} }

// AddRecipe returns the add-recipe intent.
func AddRecipe() Event { return Event{Kind: KindAddRecipe} }

// EditRecipe returns the intent to edit recipe id.
func EditRecipe(id model.RecipeID) Event { return Event{Kind: KindEditRecipe, RecipeID: id} }

// RecipeDetail returns the intent to show recipe id.
func RecipeDetail(id model.RecipeID) Event { return Event{Kind: KindRecipeDetail, RecipeID: id} }

// String implements fmt.Stringer.
func (e Event) String() string {
	switch e.Kind {
	case KindEditRecipe, KindRecipeDetail:
		return fmt.Sprintf("%s(%d)", e.Kind, e.RecipeID)
	default:
		return e.Kind.String()
	}
}

// Navigator accepts navigation intents.
type Navigator interface {
	Navigate(e Event)
	Back()
}
