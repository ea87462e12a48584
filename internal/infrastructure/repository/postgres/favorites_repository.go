package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// FavoritesRepository persists the favorite-team set. The table is a
// plain membership set keyed by the provider's team identifier, so Add
// and Remove are idempotent.
type FavoritesRepository struct {
	db *sqlx.DB
}

func NewFavoritesRepository(db *sqlx.DB) *FavoritesRepository {
	return &FavoritesRepository{db: db}
}

func (r *FavoritesRepository) List(ctx context.Context) ([]int64, error) {
	var rows []favoriteTeamTableModel
	query := `SELECT team_id, created_at FROM favorite_teams ORDER BY team_id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select favorite teams: %w", err)
	}

	out := make([]int64, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.TeamID)
	}
	return out, nil
}

func (r *FavoritesRepository) Add(ctx context.Context, teamID int64) error {
	query := `INSERT INTO favorite_teams (team_id) VALUES ($1) ON CONFLICT (team_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, teamID); err != nil {
		return fmt.Errorf("insert favorite team %d: %w", teamID, err)
	}
	return nil
}

func (r *FavoritesRepository) Remove(ctx context.Context, teamID int64) error {
	query := `DELETE FROM favorite_teams WHERE team_id = $1`
	if _, err := r.db.ExecContext(ctx, query, teamID); err != nil {
		return fmt.Errorf("delete favorite team %d: %w", teamID, err)
	}
	return nil
}
