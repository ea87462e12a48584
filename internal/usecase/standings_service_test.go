package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/riskibarqy/mlb-standings/internal/domain/standings"
	"github.com/riskibarqy/mlb-standings/internal/platform/logging"
)

type stubSectionProvider struct {
	mu    sync.Mutex
	calls int
	fetch func(call int, season int) ([]standings.Section, error)
}

func (p *stubSectionProvider) FetchSections(ctx context.Context, season int) ([]standings.Section, error) {
	p.mu.Lock()
	p.calls++
	call := p.calls
	fetch := p.fetch
	p.mu.Unlock()
	return fetch(call, season)
}

func staticProvider(sections []standings.Section) *stubSectionProvider {
	return &stubSectionProvider{
		fetch: func(int, int) ([]standings.Section, error) {
			return cloneSections(sections), nil
		},
	}
}

type stubFavoritesRepository struct {
	mu      sync.Mutex
	ids     []int64
	listErr error
	addErr  error
	added   []int64
	removed []int64
}

func (r *stubFavoritesRepository) List(ctx context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]int64(nil), r.ids...), nil
}

func (r *stubFavoritesRepository) Add(ctx context.Context, teamID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addErr != nil {
		return r.addErr
	}
	r.added = append(r.added, teamID)
	return nil
}

func (r *stubFavoritesRepository) Remove(ctx context.Context, teamID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, teamID)
	return nil
}

func rankPtr(v int) *int     { return &v }
func runPtr(v int) *int      { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool   { return &v }
func int64Ptr(v int64) *int64 { return &v }

func team(id int64, name string, rank *int, pct float64) standings.TeamStanding {
	return standings.TeamStanding{
		TeamID:            id,
		Name:              name,
		ShortName:         name,
		DivisionRank:      rank,
		WinningPercentage: pct,
	}
}

// testSections builds one AL section and one NL section. Teams arrive in
// provider order, not rank order.
func testSections() []standings.Section {
	alEast := standings.Section{
		ID:                 201,
		DivisionID:         201,
		LeagueID:           103,
		LeagueName:         "American League",
		LeagueAbbreviation: "AL",
		Title:              "American League East",
		Season:             "2025",
		Teams: []standings.TeamStanding{
			team(111, "Boston Red Sox", rankPtr(2), 0.580),
			team(147, "New York Yankees", rankPtr(1), 0.652),
			team(141, "Toronto Blue Jays", rankPtr(3), 0.540),
		},
	}
	nlEast := standings.Section{
		ID:                 204,
		DivisionID:         204,
		LeagueID:           104,
		LeagueName:         "National League",
		LeagueAbbreviation: "NL",
		Title:              "National League East",
		Season:             "2025",
		Teams: []standings.TeamStanding{
			team(121, "New York Mets", rankPtr(2), 0.560),
			team(143, "Philadelphia Phillies", rankPtr(1), 0.610),
		},
	}
	return []standings.Section{alEast, nlEast}
}

func newTestService(t *testing.T, sections []standings.Section) *StandingsService {
	t.Helper()

	svc := NewStandingsService(staticProvider(sections), nil, 2025, logging.NewNop())
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}
	return svc
}

func teamIDs(section standings.Section) []int64 {
	out := make([]int64, 0, len(section.Teams))
	for _, team := range section.Teams {
		out = append(out, team.TeamID)
	}
	return out
}

func assertOrder(t *testing.T, section standings.Section, want ...int64) {
	t.Helper()

	got := teamIDs(section)
	if len(got) != len(want) {
		t.Fatalf("expected %d teams, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got=%v want=%v", got, want)
		}
	}
}

func TestStandingsService_DefaultViewSortsByDivisionRank(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSections())
	view := svc.ListFilteredSections(context.Background())

	if len(view) != 2 {
		t.Fatalf("expected both sections, got=%d", len(view))
	}
	assertOrder(t, view[0], 147, 111, 141)
	assertOrder(t, view[1], 143, 121)
}

func TestStandingsService_AbsentRankSortsFirst(t *testing.T) {
	t.Parallel()

	section := standings.Section{
		ID: 201, DivisionID: 201, LeagueAbbreviation: "AL",
		Teams: []standings.TeamStanding{
			team(1, "Ranked Second", rankPtr(2), 0.5),
			team(2, "Unranked", nil, 0.4),
			team(3, "Ranked First", rankPtr(1), 0.6),
		},
	}
	svc := newTestService(t, []standings.Section{section})

	view := svc.ListFilteredSections(context.Background())
	assertOrder(t, view[0], 2, 3, 1)
}

func TestStandingsService_SortIsStableForEqualKeys(t *testing.T) {
	t.Parallel()

	// Same rank everywhere: provider order must survive the sort.
	section := standings.Section{
		ID: 201, DivisionID: 201, LeagueAbbreviation: "AL",
		Teams: []standings.TeamStanding{
			team(10, "First In", rankPtr(1), 0.5),
			team(20, "Second In", rankPtr(1), 0.5),
			team(30, "Third In", rankPtr(1), 0.5),
		},
	}
	svc := newTestService(t, []standings.Section{section})

	view := svc.ListFilteredSections(context.Background())
	assertOrder(t, view[0], 10, 20, 30)
}

func TestStandingsService_SortByWinningPercentageWithRankTieBreak(t *testing.T) {
	t.Parallel()

	section := standings.Section{
		ID: 201, DivisionID: 201, LeagueAbbreviation: "AL",
		Teams: []standings.TeamStanding{
			team(1, "Low", rankPtr(3), 0.400),
			team(2, "Tied Worse Rank", rankPtr(2), 0.550),
			team(3, "Tied Better Rank", rankPtr(1), 0.550),
		},
	}
	svc := newTestService(t, []standings.Section{section})

	if err := svc.UpdateFilters(context.Background(), FilterUpdate{SortOption: strPtr("winningPercentage")}); err != nil {
		t.Fatalf("update filters: %v", err)
	}

	view := svc.ListFilteredSections(context.Background())
	assertOrder(t, view[0], 3, 2, 1)
}

func TestStandingsService_SortByRunDifferentialTreatsAbsentAsLowest(t *testing.T) {
	t.Parallel()

	withRuns := func(id int64, rank int, diff *int) standings.TeamStanding {
		out := team(id, fmt.Sprintf("team-%d", id), rankPtr(rank), 0.5)
		out.RunDifferential = diff
		return out
	}
	section := standings.Section{
		ID: 201, DivisionID: 201, LeagueAbbreviation: "AL",
		Teams: []standings.TeamStanding{
			withRuns(1, 1, nil),
			withRuns(2, 2, runPtr(-40)),
			withRuns(3, 3, runPtr(85)),
		},
	}
	svc := newTestService(t, []standings.Section{section})

	if err := svc.UpdateFilters(context.Background(), FilterUpdate{SortOption: strPtr("runDifferential")}); err != nil {
		t.Fatalf("update filters: %v", err)
	}

	view := svc.ListFilteredSections(context.Background())
	assertOrder(t, view[0], 3, 2, 1)
}

func TestStandingsService_SortByStreakAndLastTen(t *testing.T) {
	t.Parallel()

	withForm := func(id int64, rank, streak int, lastTen float64) standings.TeamStanding {
		out := team(id, fmt.Sprintf("team-%d", id), rankPtr(rank), 0.5)
		out.StreakCount = streak
		out.LastTenWinRate = lastTen
		return out
	}
	section := standings.Section{
		ID: 201, DivisionID: 201, LeagueAbbreviation: "AL",
		Teams: []standings.TeamStanding{
			withForm(1, 1, 2, 0.3),
			withForm(2, 2, 6, 0.8),
			withForm(3, 3, 4, 0.5),
		},
	}
	svc := newTestService(t, []standings.Section{section})

	if err := svc.UpdateFilters(context.Background(), FilterUpdate{SortOption: strPtr("streak")}); err != nil {
		t.Fatalf("update filters: %v", err)
	}
	assertOrder(t, svc.ListFilteredSections(context.Background())[0], 2, 3, 1)

	if err := svc.UpdateFilters(context.Background(), FilterUpdate{SortOption: strPtr("lastTen")}); err != nil {
		t.Fatalf("update filters: %v", err)
	}
	assertOrder(t, svc.ListFilteredSections(context.Background())[0], 2, 3, 1)
}

func TestStandingsService_LeagueFilterNarrowsSections(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSections())
	if err := svc.UpdateFilters(context.Background(), FilterUpdate{League: strPtr("NL")}); err != nil {
		t.Fatalf("update filters: %v", err)
	}

	view := svc.ListFilteredSections(context.Background())
	if len(view) != 1 {
		t.Fatalf("expected one section, got=%d", len(view))
	}
	if view[0].LeagueAbbreviation != "NL" {
		t.Fatalf("unexpected league: %q", view[0].LeagueAbbreviation)
	}
}

func TestStandingsService_InvalidFilterValuesAreRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSections())

	if err := svc.UpdateFilters(context.Background(), FilterUpdate{League: strPtr("XFL")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown league, got %v", err)
	}
	if err := svc.UpdateFilters(context.Background(), FilterUpdate{SortOption: strPtr("alphabetical")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown sort, got %v", err)
	}

	// A rejected update must not change the view.
	view := svc.ListFilteredSections(context.Background())
	if len(view) != 2 {
		t.Fatalf("rejected update changed the view: %d sections", len(view))
	}
}

func TestStandingsService_DivisionSelectionAndClear(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSections())
	ctx := context.Background()

	if err := svc.UpdateFilters(ctx, FilterUpdate{DivisionID: int64Ptr(204)}); err != nil {
		t.Fatalf("select division: %v", err)
	}
	view := svc.ListFilteredSections(ctx)
	if len(view) != 1 || view[0].DivisionID != 204 {
		t.Fatalf("expected only division 204, got %+v", view)
	}

	if err := svc.UpdateFilters(ctx, FilterUpdate{DivisionID: int64Ptr(0)}); err != nil {
		t.Fatalf("clear division: %v", err)
	}
	if len(svc.ListFilteredSections(ctx)) != 2 {
		t.Fatalf("expected full view after clearing division")
	}
}

func TestStandingsService_LeagueChangeClearsOrphanedDivision(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSections())
	ctx := context.Background()

	if err := svc.UpdateFilters(ctx, FilterUpdate{DivisionID: int64Ptr(204)}); err != nil {
		t.Fatalf("select division: %v", err)
	}
	// Division 204 is an NL division; switching to AL orphans it.
	if err := svc.UpdateFilters(ctx, FilterUpdate{League: strPtr("AL")}); err != nil {
		t.Fatalf("switch league: %v", err)
	}

	view := svc.ListFilteredSections(ctx)
	if len(view) != 1 || view[0].DivisionID != 201 {
		t.Fatalf("expected AL section after orphaned division cleared, got %+v", view)
	}
}

func TestStandingsService_SearchFiltersAndPrunesEmptySections(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSections())
	ctx := context.Background()

	if err := svc.UpdateFilters(ctx, FilterUpdate{SearchText: strPtr("yankees")}); err != nil {
		t.Fatalf("update search: %v", err)
	}

	view := svc.ListFilteredSections(ctx)
	if len(view) != 1 {
		t.Fatalf("expected the NL section to be pruned, got %d sections", len(view))
	}
	assertOrder(t, view[0], 147)

	// The source snapshot is never pruned.
	snapshot, _ := svc.Snapshot(ctx)
	if len(snapshot) != 2 {
		t.Fatalf("snapshot must stay unfiltered, got %d sections", len(snapshot))
	}
}

func TestStandingsService_SearchIsCaseInsensitiveAndTrimmed(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSections())
	ctx := context.Background()

	if err := svc.UpdateFilters(ctx, FilterUpdate{SearchText: strPtr("  PHIL  ")}); err != nil {
		t.Fatalf("update search: %v", err)
	}
	view := svc.ListFilteredSections(ctx)
	if len(view) != 1 {
		t.Fatalf("expected one section, got %d", len(view))
	}
	assertOrder(t, view[0], 143)
}

func TestStandingsService_FavoritePinningKeepsGroupOrder(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSections())
	ctx := context.Background()

	if _, err := svc.ToggleFavorite(ctx, 141); err != nil {
		t.Fatalf("toggle favorite: %v", err)
	}

	// Toronto (rank 3) pins to the top; the rest stay rank-ordered.
	view := svc.ListFilteredSections(ctx)
	assertOrder(t, view[0], 141, 147, 111)

	// Pinning holds under other sort options too.
	if err := svc.UpdateFilters(ctx, FilterUpdate{SortOption: strPtr("winningPercentage")}); err != nil {
		t.Fatalf("update filters: %v", err)
	}
	assertOrder(t, svc.ListFilteredSections(ctx)[0], 141, 147, 111)
}

func TestStandingsService_FavoritesOnlyFilter(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSections())
	ctx := context.Background()

	if _, err := svc.ToggleFavorite(ctx, 121); err != nil {
		t.Fatalf("toggle favorite: %v", err)
	}
	if err := svc.UpdateFilters(ctx, FilterUpdate{FavoritesOnly: boolPtr(true)}); err != nil {
		t.Fatalf("update filters: %v", err)
	}

	view := svc.ListFilteredSections(ctx)
	if len(view) != 1 {
		t.Fatalf("expected only the section holding the favorite, got %d", len(view))
	}
	assertOrder(t, view[0], 121)
}

func TestStandingsService_ToggleFavoriteReportsStateAndPersists(t *testing.T) {
	t.Parallel()

	repo := &stubFavoritesRepository{}
	svc := NewStandingsService(staticProvider(testSections()), repo, 2025, logging.NewNop())
	ctx := context.Background()

	on, err := svc.ToggleFavorite(ctx, 147)
	if err != nil || !on {
		t.Fatalf("expected first toggle to favorite, got on=%v err=%v", on, err)
	}
	if !svc.IsFavorite(147) {
		t.Fatalf("expected team 147 to be a favorite")
	}

	off, err := svc.ToggleFavorite(ctx, 147)
	if err != nil || off {
		t.Fatalf("expected second toggle to unfavorite, got on=%v err=%v", off, err)
	}

	if len(repo.added) != 1 || repo.added[0] != 147 {
		t.Fatalf("unexpected persisted adds: %v", repo.added)
	}
	if len(repo.removed) != 1 || repo.removed[0] != 147 {
		t.Fatalf("unexpected persisted removes: %v", repo.removed)
	}
}

func TestStandingsService_ToggleFavoritePersistFailureIsTolerated(t *testing.T) {
	t.Parallel()

	repo := &stubFavoritesRepository{addErr: errors.New("db down")}
	svc := NewStandingsService(staticProvider(testSections()), repo, 2025, logging.NewNop())

	on, err := svc.ToggleFavorite(context.Background(), 147)
	if err != nil {
		t.Fatalf("persist failure must not surface: %v", err)
	}
	if !on || !svc.IsFavorite(147) {
		t.Fatalf("in-memory toggle must survive a persist failure")
	}
}

func TestStandingsService_ToggleFavoriteValidatesTeamID(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSections())
	if _, err := svc.ToggleFavorite(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStandingsService_RestoreFavoritesSeedsFromRepository(t *testing.T) {
	t.Parallel()

	repo := &stubFavoritesRepository{ids: []int64{141}}
	svc := NewStandingsService(staticProvider(testSections()), repo, 2025, logging.NewNop())
	ctx := context.Background()

	svc.RestoreFavorites(ctx)
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if !svc.IsFavorite(141) {
		t.Fatalf("expected restored favorite")
	}
	assertOrder(t, svc.ListFilteredSections(ctx)[0], 141, 147, 111)
}

func TestStandingsService_RestoreFavoritesFailureStartsEmpty(t *testing.T) {
	t.Parallel()

	repo := &stubFavoritesRepository{listErr: errors.New("db down")}
	svc := NewStandingsService(staticProvider(testSections()), repo, 2025, logging.NewNop())

	svc.RestoreFavorites(context.Background())
	if svc.IsFavorite(141) {
		t.Fatalf("expected empty favorite set after load failure")
	}
}

func TestStandingsService_RefreshFailureKeepsLastSnapshot(t *testing.T) {
	t.Parallel()

	provider := &stubSectionProvider{}
	provider.fetch = func(call, season int) ([]standings.Section, error) {
		if call == 1 {
			return testSections(), nil
		}
		return nil, errors.New("provider down")
	}

	svc := NewStandingsService(provider, nil, 2025, logging.NewNop())
	ctx := context.Background()
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}

	err := svc.Refresh(ctx)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}

	snapshot, season := svc.Snapshot(ctx)
	if season != 2025 || len(snapshot) != 2 {
		t.Fatalf("expected last-known-good snapshot, got %d sections", len(snapshot))
	}
	if len(svc.ListFilteredSections(ctx)) != 2 {
		t.Fatalf("expected view to keep serving the stale snapshot")
	}
}

func TestStandingsService_StaleFetchCompletionIsDiscarded(t *testing.T) {
	t.Parallel()

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	staleSection := standings.Section{
		ID: 999, DivisionID: 999, LeagueAbbreviation: "AL", Title: "Stale",
		Teams: []standings.TeamStanding{team(999, "Stale Team", rankPtr(1), 0.5)},
	}

	provider := &stubSectionProvider{}
	provider.fetch = func(call, season int) ([]standings.Section, error) {
		if call == 1 {
			close(firstStarted)
			<-releaseFirst
			return []standings.Section{staleSection}, nil
		}
		return testSections(), nil
	}

	svc := NewStandingsService(provider, nil, 2024, logging.NewNop())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- svc.Refresh(ctx) }()
	<-firstStarted

	// The newer request lands first; the slow one finishes afterwards.
	if err := svc.SetSeason(ctx, 2025); err != nil {
		t.Fatalf("set season: %v", err)
	}
	close(releaseFirst)
	if err := <-done; err != nil {
		t.Fatalf("discarded stale refresh must not error: %v", err)
	}

	snapshot, season := svc.Snapshot(ctx)
	if season != 2025 {
		t.Fatalf("unexpected season: %d", season)
	}
	if len(snapshot) != 2 || snapshot[0].DivisionID == 999 {
		t.Fatalf("stale fetch clobbered the newer snapshot: %+v", snapshot)
	}
}

func TestStandingsService_SetSeasonValidatesInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSections())
	if err := svc.SetSeason(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStandingsService_AggregatesOverUnfilteredSet(t *testing.T) {
	t.Parallel()

	withStats := func(id int64, pct float64, streak int, isWin bool, diff *int) standings.TeamStanding {
		out := team(id, fmt.Sprintf("team-%d", id), rankPtr(1), pct)
		out.StreakCount = streak
		out.StreakIsWin = isWin
		out.RunDifferential = diff
		return out
	}
	sections := []standings.Section{
		{
			ID: 201, DivisionID: 201, LeagueAbbreviation: "AL",
			Teams: []standings.TeamStanding{
				withStats(1, 0.652, 4, true, runPtr(101)),
				withStats(2, 0.540, 9, false, runPtr(-20)),
			},
		},
		{
			ID: 204, DivisionID: 204, LeagueAbbreviation: "NL",
			Teams: []standings.TeamStanding{
				withStats(3, 0.610, 5, true, runPtr(88)),
				withStats(4, 0.480, 1, true, nil),
			},
		},
	}
	svc := newTestService(t, sections)
	ctx := context.Background()

	// Aggregates ignore the active filters.
	if err := svc.UpdateFilters(ctx, FilterUpdate{League: strPtr("NL")}); err != nil {
		t.Fatalf("update filters: %v", err)
	}

	agg := svc.Aggregates(ctx)
	if agg.BestRecord == nil || agg.BestRecord.TeamID != 1 {
		t.Fatalf("unexpected best record: %+v", agg.BestRecord)
	}
	// Streak magnitude wins regardless of direction: a 9-game losing
	// streak beats a 5-game winning streak.
	if agg.HottestStreak == nil || agg.HottestStreak.TeamID != 2 {
		t.Fatalf("unexpected hottest streak: %+v", agg.HottestStreak)
	}
	if agg.BestRunDifferential == nil || agg.BestRunDifferential.TeamID != 1 {
		t.Fatalf("unexpected best run differential: %+v", agg.BestRunDifferential)
	}
}

func TestStandingsService_AggregatesOnEmptySnapshot(t *testing.T) {
	t.Parallel()

	svc := NewStandingsService(staticProvider(nil), nil, 2025, logging.NewNop())
	agg := svc.Aggregates(context.Background())
	if agg.BestRecord != nil || agg.HottestStreak != nil || agg.BestRunDifferential != nil {
		t.Fatalf("expected empty aggregates, got %+v", agg)
	}
}

func TestStandingsService_ViewIsACopy(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSections())
	ctx := context.Background()

	view := svc.ListFilteredSections(ctx)
	view[0].Teams[0].Name = "mutated"

	again := svc.ListFilteredSections(ctx)
	if again[0].Teams[0].Name == "mutated" {
		t.Fatalf("callers must not be able to mutate the engine's view")
	}
}
