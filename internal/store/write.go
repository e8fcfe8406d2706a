package store

import (
	"context"
	"fmt"

	"github.com/roach88/recipebox/internal/model"
)

// UpsertRecipe persists r and returns its id.
//
// A recipe with ID == model.Unsaved is inserted and receives a fresh id.
// Any other id is inserted or, if the row exists, updated in place.
// UpsertRecipe never validates; callers validate first.
func (s *Store) UpsertRecipe(ctx context.Context, r model.Recipe) (model.RecipeID, error) {
	steps, err := encodeList(r.Steps)
	if err != nil {
		return 0, &model.StorageError{Op: "upsert recipe", Err: err}
	}
	ingredients, err := encodeList(r.Ingredients)
	if err != nil {
		return 0, &model.StorageError{Op: "upsert recipe", Err: err}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	id := r.ID
	if id == model.Unsaved {
		result, err := s.db.ExecContext(ctx, `
			INSERT INTO recipes (image, name, category_id, category_name, steps, ingredients)
			VALUES (?, ?, ?, ?, ?, ?)
		`, r.Image, r.Name, int64(r.CategoryID), r.CategoryName, steps, ingredients)
		if err != nil {
			return 0, &model.StorageError{Op: "insert recipe", Err: err}
		}
		lastID, err := result.LastInsertId()
		if err != nil {
			return 0, &model.StorageError{Op: "insert recipe: last insert id", Err: err}
		}
		id = model.RecipeID(lastID)
	} else {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO recipes (id, image, name, category_id, category_name, steps, ingredients)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				image = excluded.image,
				name = excluded.name,
				category_id = excluded.category_id,
				category_name = excluded.category_name,
				steps = excluded.steps,
				ingredients = excluded.ingredients
		`, int64(id), r.Image, r.Name, int64(r.CategoryID), r.CategoryName, steps, ingredients)
		if err != nil {
			return 0, &model.StorageError{Op: fmt.Sprintf("update recipe %d", id), Err: err}
		}
	}

	s.commit()
	s.log.Debug("recipe upserted", "recipe_id", int64(id), "version", s.version)
	return id, nil
}

// DeleteRecipe removes the recipe with the given id.
// Returns an error wrapping model.ErrNotFound if no such row exists; nothing
// is committed in that case.
func (s *Store) DeleteRecipe(ctx context.Context, id model.RecipeID) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, int64(id))
	if err != nil {
		return &model.StorageError{Op: fmt.Sprintf("delete recipe %d", id), Err: err}
	}
	n, err := result.RowsAffected()
	if err != nil {
		return &model.StorageError{Op: fmt.Sprintf("delete recipe %d: rows affected", id), Err: err}
	}
	if n == 0 {
		return fmt.Errorf("delete recipe %d: %w", id, model.ErrNotFound)
	}

	s.commit()
	s.log.Debug("recipe deleted", "recipe_id", int64(id), "version", s.version)
	return nil
}
