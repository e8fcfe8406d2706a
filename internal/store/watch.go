package store

import (
	"context"
	"errors"

	"github.com/roach88/recipebox/internal/model"
	"github.com/roach88/recipebox/internal/stream"
)

// WatchRecipes streams the recipes matched by q: the current snapshot first,
// then a fresh snapshot after every commit. The subscription ends when ctx
// is done, when it is cancelled, or when the store closes. A failed query
// ends it with a *model.StorageError available from Err.
func (s *Store) WatchRecipes(ctx context.Context, q Query) *stream.Subscription[[]model.Recipe] {
	return watch(ctx, s, "watch "+q.String(), func(ctx context.Context) ([]model.Recipe, error) {
		return s.ListRecipes(ctx, q)
	})
}

// WatchRecipe streams one recipe by id. A nil element means the recipe does
// not exist, either never stored or deleted after subscription.
func (s *Store) WatchRecipe(ctx context.Context, id model.RecipeID) *stream.Subscription[*model.Recipe] {
	return watch(ctx, s, "watch recipe "+id.String(), func(ctx context.Context) (*model.Recipe, error) {
		r, err := s.RecipeByID(ctx, id)
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &r, nil
	})
}

// Changes subscribes to the commit version.
func (s *Store) Changes() *stream.Subscription[int64] {
	return s.changes.Subscribe()
}

// watch re-runs load every time the commit version moves and publishes the
// result. Versions that arrive while a load runs are conflated into one
// reload, which reads the latest committed state.
func watch[T any](ctx context.Context, s *Store, op string, load func(context.Context) (T, error)) *stream.Subscription[T] {
	out := stream.NewValue[T]()
	sub := out.Subscribe()
	changes := s.changes.Subscribe()

	go func() {
		defer changes.Cancel()
		for {
			select {
			case <-ctx.Done():
				out.CloseWithError(ctx.Err())
				return
			case <-sub.Done():
				return
			case _, ok := <-changes.C():
				if !ok {
					out.Close()
					return
				}
				v, err := load(ctx)
				if err != nil {
					if ctx.Err() != nil {
						out.CloseWithError(ctx.Err())
						return
					}
					var se *model.StorageError
					if !errors.As(err, &se) {
						err = &model.StorageError{Op: op, Err: err}
					}
					s.log.Error("watch query failed", "op", op, "err", err)
					out.CloseWithError(err)
					return
				}
				out.Publish(v)
			}
		}
	}()

	return sub
}
