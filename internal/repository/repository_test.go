package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/roach88/recipebox/internal/category"
	"github.com/roach88/recipebox/internal/metrics"
	"github.com/roach88/recipebox/internal/model"
	"github.com/roach88/recipebox/internal/store"
	"github.com/roach88/recipebox/internal/stream"
)

var testCategories = []model.Category{
	{ID: 1, Name: "Breakfast"},
	{ID: 2, Name: "Dinner"},
}

// RepositorySuite exercises the repository over a real in-memory store.
type RepositorySuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.Store
	metrics *metrics.Metrics
	repo    *Repository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	st, err := store.Open(":memory:")
	s.Require().NoError(err)
	s.store = st
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.repo = New(s.ctx, st, category.Static(testCategories...), WithMetrics(s.metrics))
}

func (s *RepositorySuite) TearDownTest() {
	s.repo.Close()
	s.store.Close()
}

func (s *RepositorySuite) recipe(name string, cat model.CategoryID) model.Recipe {
	return model.Recipe{
		Image:        "img://" + name,
		Name:         name,
		CategoryID:   cat,
		CategoryName: "c",
		Steps:        []string{"step"},
		Ingredients:  []string{"", "a,b"},
	}
}

func next[T any](s *RepositorySuite, sub *stream.Subscription[T]) T {
	select {
	case v, ok := <-sub.C():
		s.Require().True(ok, "subscription ended: %v", sub.Err())
		return v
	case <-time.After(time.Second):
		s.FailNow("timed out waiting for element")
	}
	var zero T
	return zero
}

func (s *RepositorySuite) TestCategories() {
	s.Run("single emission after load", func() {
		sub := s.repo.Categories()
		defer sub.Cancel()
		s.Equal(testCategories, next(s, sub))

		select {
		case v := <-sub.C():
			s.Failf("unexpected second emission", "%v", v)
		case <-time.After(20 * time.Millisecond):
		}
	})

	s.Run("category list waits for load", func() {
		cats, err := s.repo.CategoryList(s.ctx)
		s.Require().NoError(err)
		s.Equal(testCategories, cats)
		s.Equal(testCategories, s.repo.CachedCategories())
	})

	s.Run("load metric recorded", func() {
		s.Equal(2.0, promtestutil.ToFloat64(s.metrics.CategoriesLoaded))
	})
}

func (s *RepositorySuite) TestCategoryLoadFailureYieldsEmpty() {
	repo := New(s.ctx, s.store, category.Failing(errors.New("asset missing")))
	defer repo.Close()

	cats, err := repo.CategoryList(s.ctx)
	s.Require().NoError(err)
	s.NotNil(cats)
	s.Empty(cats)

	sub := repo.Categories()
	defer sub.Cancel()
	s.Empty(next(s, sub))
}

func (s *RepositorySuite) TestReloadCategories() {
	src := &swappableSource{cats: testCategories}
	repo := New(s.ctx, s.store, src)
	defer repo.Close()

	sub := repo.Categories()
	defer sub.Cancel()
	s.Equal(testCategories, next(s, sub))

	s.Run("explicit reload emits again", func() {
		src.set([]model.Category{{ID: 7, Name: "Brunch"}}, nil)
		cats, err := repo.ReloadCategories(s.ctx)
		s.Require().NoError(err)
		s.Equal([]model.Category{{ID: 7, Name: "Brunch"}}, cats)
		s.Equal(cats, next(s, sub))
	})

	s.Run("failed reload keeps cache", func() {
		src.set(nil, errors.New("gone"))
		_, err := repo.ReloadCategories(s.ctx)
		s.Error(err)
		s.Equal([]model.Category{{ID: 7, Name: "Brunch"}}, repo.CachedCategories())
	})
}

func (s *RepositorySuite) TestUpsertAndRead() {
	r := s.recipe("Pancakes", 1)

	id, err := s.repo.Upsert(s.ctx, r)
	s.Require().NoError(err)
	s.NotEqual(model.Unsaved, id)

	got, found, err := s.repo.RecipeByID(s.ctx, id)
	s.Require().NoError(err)
	s.True(found)
	s.True(r.WithID(id).Equal(got), "round trip must preserve every field except id")

	_, found, err = s.repo.RecipeByID(s.ctx, id+100)
	s.NoError(err)
	s.False(found)

	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.Mutations.WithLabelValues("upsert", metrics.OutcomeOK)))
}

func (s *RepositorySuite) TestAllRecipesPushesOnCommit() {
	sub := s.repo.AllRecipes(s.ctx)
	defer sub.Cancel()
	s.Empty(next(s, sub))

	id, err := s.repo.Upsert(s.ctx, s.recipe("A", 1))
	s.Require().NoError(err)
	s.Len(next(s, sub), 1)

	s.Require().NoError(s.repo.Delete(s.ctx, model.Recipe{ID: id}))
	s.Empty(next(s, sub))
}

func (s *RepositorySuite) TestRecipesByCategories() {
	_, err := s.repo.Upsert(s.ctx, s.recipe("Eggs", 1))
	s.Require().NoError(err)
	_, err = s.repo.Upsert(s.ctx, s.recipe("Roast", 2))
	s.Require().NoError(err)

	s.Run("filtered", func() {
		sub := s.repo.RecipesByCategories(s.ctx, []model.CategoryID{2})
		defer sub.Cancel()
		got := next(s, sub)
		s.Require().Len(got, 1)
		s.Equal("Roast", got[0].Name)
	})

	s.Run("empty set matches nothing", func() {
		sub := s.repo.RecipesByCategories(s.ctx, nil)
		defer sub.Cancel()
		s.Empty(next(s, sub))
	})

	s.Run("snapshot", func() {
		all, err := s.repo.Snapshot(s.ctx, nil)
		s.Require().NoError(err)
		s.Len(all, 2)
		one, err := s.repo.Snapshot(s.ctx, []model.CategoryID{1})
		s.Require().NoError(err)
		s.Len(one, 1)
	})
}

func (s *RepositorySuite) TestRecipeByIDStream() {
	id, err := s.repo.Upsert(s.ctx, s.recipe("Soup", 2))
	s.Require().NoError(err)

	sub := s.repo.RecipeByIDStream(s.ctx, id)
	defer sub.Cancel()

	first := next(s, sub)
	s.Require().NotNil(first)
	s.Equal("Soup", first.Name)

	updated := first.Clone()
	updated.Name = "Better soup"
	_, err = s.repo.Upsert(s.ctx, updated)
	s.Require().NoError(err)
	s.Equal("Better soup", next(s, sub).Name)

	s.Require().NoError(s.repo.Delete(s.ctx, updated))
	s.Nil(next(s, sub))
}

func (s *RepositorySuite) TestDeleteAbsentIsRecoverable() {
	err := s.repo.Delete(s.ctx, model.Recipe{ID: 999})
	s.ErrorIs(err, model.ErrNotFound)
	s.False(model.IsStorageError(err))
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.Mutations.WithLabelValues("delete", metrics.OutcomeNotFound)))
}

func (s *RepositorySuite) TestStorageErrorsPropagate() {
	st, err := store.Open(":memory:")
	s.Require().NoError(err)
	repo := New(s.ctx, st, category.Static())
	defer repo.Close()
	s.Require().NoError(st.Close())

	_, err = repo.Upsert(s.ctx, s.recipe("x", 1))
	s.True(model.IsStorageError(err))

	err = repo.Delete(s.ctx, model.Recipe{ID: 1})
	s.True(model.IsStorageError(err))

	_, _, err = repo.RecipeByID(s.ctx, 1)
	s.True(model.IsStorageError(err))
}

func (s *RepositorySuite) TestCloseEndsSubscriptions() {
	st, err := store.Open(":memory:")
	s.Require().NoError(err)
	defer st.Close()

	m := metrics.New(prometheus.NewRegistry())
	repo := New(s.ctx, st, category.Static(), WithMetrics(m))
	sub := repo.AllRecipes(s.ctx)
	next(s, sub)
	s.Equal(1.0, promtestutil.ToFloat64(m.ActiveWatches))

	repo.Close()

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		s.FailNow("subscription survived repository close")
	}
	s.Eventually(func() bool {
		return promtestutil.ToFloat64(m.ActiveWatches) == 0
	}, time.Second, 5*time.Millisecond)
}
