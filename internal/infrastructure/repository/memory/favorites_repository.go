package memory

import (
	"context"
	"sort"
	"sync"
)

// FavoritesRepository keeps the favorite-team set in process memory. It
// is the default collaborator when no database is configured.
type FavoritesRepository struct {
	mu    sync.RWMutex
	items map[int64]struct{}
}

func NewFavoritesRepository() *FavoritesRepository {
	return &FavoritesRepository{
		items: make(map[int64]struct{}),
	}
}

func (r *FavoritesRepository) List(_ context.Context) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, 0, len(r.items))
	for id := range r.items {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *FavoritesRepository) Add(_ context.Context, teamID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[teamID] = struct{}{}
	return nil
}

func (r *FavoritesRepository) Remove(_ context.Context, teamID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, teamID)
	return nil
}
