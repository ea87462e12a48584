package postgres

import "time"

type favoriteTeamTableModel struct {
	TeamID    int64     `db:"team_id"`
	CreatedAt time.Time `db:"created_at"`
}
