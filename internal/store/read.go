package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/recipebox/internal/model"
)

// RecipeByID returns the recipe with the given id.
// Returns an error wrapping model.ErrNotFound if it does not exist.
func (s *Store) RecipeByID(ctx context.Context, id model.RecipeID) (model.Recipe, error) {
	row := s.db.QueryRowContext(ctx, selectRecipes+` WHERE id = ?`, int64(id))
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Recipe{}, fmt.Errorf("recipe %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Recipe{}, &model.StorageError{Op: fmt.Sprintf("read recipe %d", id), Err: err}
	}
	return r, nil
}

// ListRecipes returns the recipes matched by q, ordered by id.
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRecipes(ctx context.Context, q Query) ([]model.Recipe, error) {
	query, params := q.compile()
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, &model.StorageError{Op: "query recipes", Err: err}
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, &model.StorageError{Op: "scan recipe", Err: err}
		}
		recipes = append(recipes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, &model.StorageError{Op: "iterate recipes", Err: err}
	}

	return recipes, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (model.Recipe, error) {
	var (
		id, categoryID     int64
		steps, ingredients string
		r                  model.Recipe
	)
	if err := row.Scan(&id, &r.Image, &r.Name, &categoryID, &r.CategoryName, &steps, &ingredients); err != nil {
		return model.Recipe{}, err
	}
	r.ID = model.RecipeID(id)
	r.CategoryID = model.CategoryID(categoryID)

	var err error
	if r.Steps, err = decodeList(steps); err != nil {
		return model.Recipe{}, err
	}
	if r.Ingredients, err = decodeList(ingredients); err != nil {
		return model.Recipe{}, err
	}
	return r, nil
}
