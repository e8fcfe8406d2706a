package repository

import (
	"context"
	"sync"

	"github.com/roach88/recipebox/internal/model"
)

// swappableSource is a category source whose contents can change between
// loads.
type swappableSource struct {
	mu   sync.Mutex
	cats []model.Category
	err  error
}

func (f *swappableSource) set(cats []model.Category, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cats = cats
	f.err = err
}

func (f *swappableSource) Load(ctx context.Context) ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Category{}, f.cats...), nil
}
