package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/mlb-standings/internal/domain/favorites"
	"github.com/riskibarqy/mlb-standings/internal/domain/standings"
	"github.com/riskibarqy/mlb-standings/internal/platform/logging"
)

// SectionProvider is the fetch+normalize collaborator. One call returns
// the full normalized snapshot for a season.
type SectionProvider interface {
	FetchSections(ctx context.Context, season int) ([]standings.Section, error)
}

// FilterUpdate is a partial mutation of the engine's filter state. Nil
// fields are left unchanged; a DivisionID of zero clears the division
// selection.
type FilterUpdate struct {
	SearchText    *string
	League        *string
	DivisionID    *int64
	SortOption    *string
	FavoritesOnly *bool
}

// StandingsService owns the per-season snapshot and the reactive
// filter/sort/favorite pipeline over it. All state mutation is serialized
// behind one mutex; reads serve copies of the eagerly recomputed view.
type StandingsService struct {
	provider      SectionProvider
	favoritesRepo favorites.Repository
	logger        *logging.Logger

	mu                 sync.Mutex
	season             int
	fetchToken         uint64
	sections           []standings.Section
	view               []standings.Section
	searchText         string
	leagueFilter       standings.LeagueFilter
	selectedDivisionID *int64
	sortOption         standings.SortOption
	showFavoritesOnly  bool
	favorites          map[int64]struct{}
}

func NewStandingsService(provider SectionProvider, favoritesRepo favorites.Repository, season int, logger *logging.Logger) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StandingsService{
		provider:      provider,
		favoritesRepo: favoritesRepo,
		logger:        logger,
		season:        season,
		leagueFilter:  standings.LeagueAll,
		sortOption:    standings.SortByDivisionRank,
		favorites:     make(map[int64]struct{}),
	}
}

// RestoreFavorites seeds the favorite set from the repository. A load
// failure is tolerated: the engine starts with an empty set.
func (s *StandingsService) RestoreFavorites(ctx context.Context) {
	if s.favoritesRepo == nil {
		return
	}

	ids, err := s.favoritesRepo.List(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "restore favorites failed, starting empty", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.favorites[id] = struct{}{}
	}
	s.recomputeLocked()
}

// SetSeason switches the active season and refetches. The prior snapshot
// is discarded only when the fetch for the new season succeeds.
func (s *StandingsService) SetSeason(ctx context.Context, season int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.SetSeason")
	defer span.End()

	if season <= 0 {
		return fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	s.mu.Lock()
	s.season = season
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// Refresh refetches the active season. Last request wins: a completion
// whose token no longer matches the active one is discarded, so a slow
// fetch for a previous season can never clobber a newer snapshot. On
// failure the last-known-good sections are retained.
func (s *StandingsService) Refresh(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Refresh")
	defer span.End()

	s.mu.Lock()
	season := s.season
	s.fetchToken++
	token := s.fetchToken
	s.mu.Unlock()

	sections, err := s.provider.FetchSections(ctx, season)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.fetchToken {
		s.logger.InfoContext(ctx, "discarding stale standings fetch", "season", season)
		return nil
	}
	if err != nil {
		s.logger.WarnContext(ctx, "standings refresh failed, keeping last snapshot", "season", season, "error", err)
		return fmt.Errorf("%w: refresh standings for season %d: %v", ErrDependencyUnavailable, season, err)
	}

	s.sections = sections
	s.clearOrphanedDivisionLocked()
	s.recomputeLocked()
	s.logger.InfoContext(ctx, "standings snapshot replaced", "season", season, "sections", len(sections))
	return nil
}

// UpdateFilters applies a partial filter mutation and recomputes. A league
// change that leaves the selected division unreachable clears the division
// first; an impossible combination never persists.
func (s *StandingsService) UpdateFilters(ctx context.Context, update FilterUpdate) error {
	_, span := startUsecaseSpan(ctx, "usecase.StandingsService.UpdateFilters")
	defer span.End()

	var league *standings.LeagueFilter
	if update.League != nil {
		parsed, err := standings.ParseLeagueFilter(*update.League)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		league = &parsed
	}

	var sortOption *standings.SortOption
	if update.SortOption != nil {
		parsed, err := standings.ParseSortOption(*update.SortOption)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		sortOption = &parsed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if update.SearchText != nil {
		s.searchText = strings.TrimSpace(*update.SearchText)
	}
	if league != nil {
		s.leagueFilter = *league
	}
	if update.DivisionID != nil {
		if *update.DivisionID == 0 {
			s.selectedDivisionID = nil
		} else {
			id := *update.DivisionID
			s.selectedDivisionID = &id
		}
	}
	if sortOption != nil {
		s.sortOption = *sortOption
	}
	if update.FavoritesOnly != nil {
		s.showFavoritesOnly = *update.FavoritesOnly
	}

	s.clearOrphanedDivisionLocked()
	s.recomputeLocked()
	return nil
}

// ToggleFavorite flips membership for one team and reports the new state.
// Persistence is best effort: a repository failure is logged, never
// surfaced, and never blocks the in-memory toggle.
func (s *StandingsService) ToggleFavorite(ctx context.Context, teamID int64) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ToggleFavorite")
	defer span.End()

	if teamID <= 0 {
		return false, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}

	s.mu.Lock()
	_, wasFavorite := s.favorites[teamID]
	if wasFavorite {
		delete(s.favorites, teamID)
	} else {
		s.favorites[teamID] = struct{}{}
	}
	s.recomputeLocked()
	s.mu.Unlock()

	if s.favoritesRepo != nil {
		var err error
		if wasFavorite {
			err = s.favoritesRepo.Remove(ctx, teamID)
		} else {
			err = s.favoritesRepo.Add(ctx, teamID)
		}
		if err != nil {
			s.logger.WarnContext(ctx, "persist favorite toggle failed", "team_id", teamID, "error", err)
		}
	}

	return !wasFavorite, nil
}

// ListFilteredSections returns the current filtered, sorted,
// favorite-pinned view. Sections emptied by filtering are pruned from the
// view; the source snapshot is never pruned.
func (s *StandingsService) ListFilteredSections(ctx context.Context) []standings.Section {
	_, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListFilteredSections")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSections(s.view)
}

// Snapshot returns the unfiltered source sections and the active season.
func (s *StandingsService) Snapshot(ctx context.Context) ([]standings.Section, int) {
	_, span := startUsecaseSpan(ctx, "usecase.StandingsService.Snapshot")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSections(s.sections), s.season
}

// Aggregates answers the headline queries over the full unfiltered team
// set. Hottest streak compares raw streak magnitude without regard to
// win/loss direction; a long losing streak can register as hottest.
func (s *StandingsService) Aggregates(ctx context.Context) standings.Aggregates {
	_, span := startUsecaseSpan(ctx, "usecase.StandingsService.Aggregates")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var out standings.Aggregates
	for _, section := range s.sections {
		for i := range section.Teams {
			team := section.Teams[i]

			if out.BestRecord == nil || team.WinningPercentage > out.BestRecord.WinningPercentage {
				copied := team
				out.BestRecord = &copied
			}
			if out.HottestStreak == nil || team.StreakCount > out.HottestStreak.StreakCount {
				copied := team
				out.HottestStreak = &copied
			}
			if out.BestRunDifferential == nil || runDifferentialValue(team) > runDifferentialValue(*out.BestRunDifferential) {
				copied := team
				out.BestRunDifferential = &copied
			}
		}
	}
	return out
}

// IsFavorite reports current membership for one team.
func (s *StandingsService) IsFavorite(teamID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.favorites[teamID]
	return ok
}

// KnowsTeam reports whether the unfiltered snapshot contains the team.
// With no snapshot loaded yet nothing is known, and the report is false
// for every id.
func (s *StandingsService) KnowsTeam(teamID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, section := range s.sections {
		for i := range section.Teams {
			if section.Teams[i].TeamID == teamID {
				return true
			}
		}
	}
	return false
}

// HasSnapshot reports whether at least one fetch has populated sections.
func (s *StandingsService) HasSnapshot() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sections) > 0
}

// clearOrphanedDivisionLocked drops the division selection when no
// section under the active league filter carries it.
func (s *StandingsService) clearOrphanedDivisionLocked() {
	if s.selectedDivisionID == nil {
		return
	}
	for _, section := range s.sections {
		if !s.leagueFilter.Matches(section) {
			continue
		}
		if section.DivisionID == *s.selectedDivisionID {
			return
		}
	}
	s.selectedDivisionID = nil
}

// recomputeLocked rebuilds the filtered view: league filter, division
// filter, team filter (favorites, then search), sort, favorite pinning,
// and finally pruning of emptied sections.
func (s *StandingsService) recomputeLocked() {
	query := strings.ToLower(s.searchText)

	view := make([]standings.Section, 0, len(s.sections))
	for _, section := range s.sections {
		if !s.leagueFilter.Matches(section) {
			continue
		}
		if s.selectedDivisionID != nil && section.DivisionID != *s.selectedDivisionID {
			continue
		}

		filtered := section.Clone()
		filtered.Teams = s.filterTeamsLocked(filtered.Teams, query)
		if len(filtered.Teams) == 0 {
			continue
		}

		s.sortTeamsLocked(filtered.Teams)
		filtered.Teams = s.pinFavoritesLocked(filtered.Teams)
		view = append(view, filtered)
	}

	s.view = view
}

func (s *StandingsService) filterTeamsLocked(teams []standings.TeamStanding, query string) []standings.TeamStanding {
	out := make([]standings.TeamStanding, 0, len(teams))
	for _, team := range teams {
		if s.showFavoritesOnly {
			if _, ok := s.favorites[team.TeamID]; !ok {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(team.SearchBlob()), query) {
			continue
		}
		out = append(out, team)
	}
	return out
}

func (s *StandingsService) sortTeamsLocked(teams []standings.TeamStanding) {
	sort.SliceStable(teams, comparatorFor(s.sortOption, teams))
}

// comparatorFor builds the less function for one sort option. Every
// comparator that is not already rank-based breaks ties by ascending
// division rank, with an absent rank coerced to zero so it sorts first.
func comparatorFor(option standings.SortOption, teams []standings.TeamStanding) func(i, j int) bool {
	byRank := func(i, j int) bool {
		return divisionRankValue(teams[i]) < divisionRankValue(teams[j])
	}

	switch option {
	case standings.SortByWinningPercentage:
		return func(i, j int) bool {
			if teams[i].WinningPercentage != teams[j].WinningPercentage {
				return teams[i].WinningPercentage > teams[j].WinningPercentage
			}
			return byRank(i, j)
		}
	case standings.SortByRunDifferential:
		return func(i, j int) bool {
			left, right := runDifferentialValue(teams[i]), runDifferentialValue(teams[j])
			if left != right {
				return left > right
			}
			return byRank(i, j)
		}
	case standings.SortByStreak:
		return func(i, j int) bool {
			if teams[i].StreakCount != teams[j].StreakCount {
				return teams[i].StreakCount > teams[j].StreakCount
			}
			return byRank(i, j)
		}
	case standings.SortByLastTen:
		return func(i, j int) bool {
			if teams[i].LastTenWinRate != teams[j].LastTenWinRate {
				return teams[i].LastTenWinRate > teams[j].LastTenWinRate
			}
			return byRank(i, j)
		}
	case standings.SortByRunsScored:
		return func(i, j int) bool {
			left, right := runsScoredValue(teams[i]), runsScoredValue(teams[j])
			if left != right {
				return left > right
			}
			return byRank(i, j)
		}
	default:
		return byRank
	}
}

// pinFavoritesLocked stably partitions the sorted list so favorited teams
// precede non-favorited teams, preserving each group's internal order.
func (s *StandingsService) pinFavoritesLocked(teams []standings.TeamStanding) []standings.TeamStanding {
	if len(s.favorites) == 0 {
		return teams
	}

	pinned := make([]standings.TeamStanding, 0, len(teams))
	rest := make([]standings.TeamStanding, 0, len(teams))
	for _, team := range teams {
		if _, ok := s.favorites[team.TeamID]; ok {
			pinned = append(pinned, team)
		} else {
			rest = append(rest, team)
		}
	}
	return append(pinned, rest...)
}

func divisionRankValue(team standings.TeamStanding) int {
	if team.DivisionRank == nil {
		return 0
	}
	return *team.DivisionRank
}

const lowestRunValue = -1 << 31

func runDifferentialValue(team standings.TeamStanding) int {
	if team.RunDifferential == nil {
		return lowestRunValue
	}
	return *team.RunDifferential
}

func runsScoredValue(team standings.TeamStanding) int {
	if team.RunsScored == nil {
		return lowestRunValue
	}
	return *team.RunsScored
}

func cloneSections(sections []standings.Section) []standings.Section {
	out := make([]standings.Section, 0, len(sections))
	for _, section := range sections {
		out = append(out, section.Clone())
	}
	return out
}
