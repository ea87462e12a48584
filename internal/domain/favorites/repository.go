package favorites

import "context"

// Repository persists the favorite-team set. Persistence is optional for
// the ranking engine; implementations may be purely in-memory.
type Repository interface {
	List(ctx context.Context) ([]int64, error)
	Add(ctx context.Context, teamID int64) error
	Remove(ctx context.Context, teamID int64) error
}
