package mlbstats

import (
	"context"

	"github.com/riskibarqy/mlb-standings/internal/domain/standings"
)

// StandingsProvider pairs the fetch client with the normalizer so the
// ranking engine only ever sees domain sections.
type StandingsProvider struct {
	client    *Client
	leagueIDs []int
}

// DefaultLeagueIDs are the provider identifiers for the American and
// National leagues.
var DefaultLeagueIDs = []int{103, 104}

func NewStandingsProvider(client *Client, leagueIDs []int) *StandingsProvider {
	if len(leagueIDs) == 0 {
		leagueIDs = DefaultLeagueIDs
	}
	return &StandingsProvider{
		client:    client,
		leagueIDs: leagueIDs,
	}
}

func (p *StandingsProvider) FetchSections(ctx context.Context, season int) ([]standings.Section, error) {
	resp, err := p.client.FetchStandings(ctx, season, p.leagueIDs)
	if err != nil {
		return nil, err
	}
	return Normalize(resp, season), nil
}
