package model

// Category is a user-facing classification label.
type Category struct {
	ID   CategoryID `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`
}

// FindCategory returns the category with the given id.
func FindCategory(cats []Category, id CategoryID) (Category, bool) {
	if id == NoCategory {
		return Category{}, false
	}
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Selectable pairs a value with a "currently chosen" flag for choosers.
type Selectable[T any] struct {
	Value    T
	Selected bool
}

// SelectCategories builds the filter chooser view: one entry per category
// in load order, selected when its id is in applied.
func SelectCategories(cats []Category, applied []CategoryID) []Selectable[Category] {
	set := make(map[CategoryID]struct{}, len(applied))
	for _, id := range applied {
		set[id] = struct{}{}
	}
	out := make([]Selectable[Category], 0, len(cats))
	for _, c := range cats {
		_, ok := set[c.ID]
		out = append(out, Selectable[Category]{Value: c, Selected: ok})
	}
	return out
}
