package validate

import "github.com/roach88/recipebox/internal/model"

// Result holds the outcome of every validator, one slot per field.
// A nil slot means the field passed.
type Result struct {
	Image       *Error
	Name        *Error
	Category    *Error
	Ingredients *Error
	Steps       *Error
}

// Recipe runs all five validators against r.
func Recipe(r model.Recipe, cats []model.Category) Result {
	return Result{
		Image:       Image(r.Image),
		Name:        Name(r.Name),
		Category:    Category(r.CategoryID, cats),
		Ingredients: Ingredients(r.Ingredients),
		Steps:       Steps(r.Steps),
	}
}

// Valid reports whether every slot is empty.
func (r Result) Valid() bool {
	return r.Image == nil && r.Name == nil && r.Category == nil &&
		r.Ingredients == nil && r.Steps == nil
}

// For returns the slot for field.
func (r Result) For(field Field) *Error {
	switch field {
	case FieldImage:
		return r.Image
	case FieldName:
		return r.Name
	case FieldCategory:
		return r.Category
	case FieldIngredients:
		return r.Ingredients
	case FieldSteps:
		return r.Steps
	default:
		return nil
	}
}

// Errors returns the failures in field display order.
func (r Result) Errors() []*Error {
	var out []*Error
	for _, f := range Fields {
		if e := r.For(f); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Codes returns the failing codes keyed by field.
func (r Result) Codes() map[Field]Code {
	out := make(map[Field]Code)
	for _, e := range r.Errors() {
		out[e.Field] = e.Code
	}
	return out
}
