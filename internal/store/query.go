package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/recipebox/internal/model"
)

const selectRecipes = `SELECT id, image, name, category_id, category_name, steps, ingredients FROM recipes`

// Query selects a set of recipes.
//
// AllRecipes matches every row. ByCategories matches rows whose category is
// in the given set; a ByCategories query with an empty set matches nothing.
// Callers that treat "no categories chosen" as "no filter" must map that to
// AllRecipes themselves.
type Query struct {
	filtered   bool
	categories []model.CategoryID
}

// AllRecipes returns the unfiltered query.
func AllRecipes() Query {
	return Query{}
}

// ByCategories returns a query restricted to the given categories.
// Duplicate ids are ignored.
func ByCategories(ids ...model.CategoryID) Query {
	set := slices.Clone(ids)
	slices.Sort(set)
	return Query{filtered: true, categories: slices.Compact(set)}
}

// Filtered reports whether the query restricts categories.
func (q Query) Filtered() bool {
	return q.filtered
}

// Categories returns the sorted, de-duplicated category set.
func (q Query) Categories() []model.CategoryID {
	return slices.Clone(q.categories)
}

// String implements fmt.Stringer.
func (q Query) String() string {
	if !q.filtered {
		return "all"
	}
	parts := make([]string, len(q.categories))
	for i, id := range q.categories {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "categories[" + strings.Join(parts, ",") + "]"
}

// compile converts the query to parameterized SQL.
// Every query is ordered by id so snapshots are deterministic.
func (q Query) compile() (string, []any) {
	var b strings.Builder
	b.WriteString(selectRecipes)

	var params []any
	if q.filtered {
		if len(q.categories) == 0 {
			b.WriteString(" WHERE 0")
		} else {
			b.WriteString(" WHERE category_id IN (")
			for i, id := range q.categories {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString("?")
				params = append(params, int64(id))
			}
			b.WriteString(")")
		}
	}

	b.WriteString(" ORDER BY id ASC")
	return b.String(), params
}
