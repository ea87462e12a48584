package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/mlb-standings/internal/domain/standings"
	"github.com/riskibarqy/mlb-standings/internal/usecase"
)

type recordSplitDTO struct {
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Percentage float64 `json:"percentage"`
}

type teamStandingDTO struct {
	TeamID                int64           `json:"team_id"`
	Name                  string          `json:"name"`
	ShortName             string          `json:"short_name,omitempty"`
	LocationName          string          `json:"location_name,omitempty"`
	Abbreviation          string          `json:"abbreviation,omitempty"`
	Wins                  int             `json:"wins"`
	Losses                int             `json:"losses"`
	WinningPercentage     float64         `json:"winning_percentage"`
	WinningPercentageText string          `json:"winning_percentage_text,omitempty"`
	GamesBack             *float64        `json:"games_back,omitempty"`
	GamesBackDisplay      string          `json:"games_back_display"`
	RunsScored            *int            `json:"runs_scored,omitempty"`
	RunsAllowed           *int            `json:"runs_allowed,omitempty"`
	RunDifferential       *int            `json:"run_differential,omitempty"`
	DivisionRank          *int            `json:"division_rank,omitempty"`
	LeagueRank            *int            `json:"league_rank,omitempty"`
	WildCardRank          *int            `json:"wild_card_rank,omitempty"`
	StreakCode            string          `json:"streak_code,omitempty"`
	StreakCount           int             `json:"streak_count"`
	StreakIsWin           bool            `json:"streak_is_win"`
	LastTenRecord         string          `json:"last_ten_record,omitempty"`
	LastTenWinRate        float64         `json:"last_ten_win_rate"`
	Clinched              bool            `json:"clinched"`
	Favorite              bool            `json:"favorite"`
	HomeRecord            *recordSplitDTO `json:"home_record,omitempty"`
	AwayRecord            *recordSplitDTO `json:"away_record,omitempty"`
	ExtraInningsRecord    *recordSplitDTO `json:"extra_innings_record,omitempty"`
	OneRunRecord          *recordSplitDTO `json:"one_run_record,omitempty"`
}

type sectionDTO struct {
	ID                 int64             `json:"id"`
	DivisionID         int64             `json:"division_id"`
	LeagueID           int64             `json:"league_id"`
	LeagueName         string            `json:"league_name,omitempty"`
	LeagueAbbreviation string            `json:"league_abbreviation,omitempty"`
	Title              string            `json:"title"`
	Subtitle           string            `json:"subtitle,omitempty"`
	Season             string            `json:"season,omitempty"`
	Teams              []teamStandingDTO `json:"teams"`
}

type snapshotDTO struct {
	Season   int          `json:"season"`
	Sections []sectionDTO `json:"sections"`
}

type aggregatesDTO struct {
	BestRecord          *teamStandingDTO `json:"best_record,omitempty"`
	HottestStreak       *teamStandingDTO `json:"hottest_streak,omitempty"`
	BestRunDifferential *teamStandingDTO `json:"best_run_differential,omitempty"`
}

type toggleFavoriteResponse struct {
	TeamID   int64 `json:"team_id"`
	Favorite bool  `json:"favorite"`
}

type updateFiltersRequest struct {
	SearchText    *string `json:"search_text"`
	League        *string `json:"league" validate:"omitempty,oneof=all AL NL al nl american national American National"`
	DivisionID    *int64  `json:"division_id" validate:"omitempty,gte=0"`
	SortOption    *string `json:"sort_option" validate:"omitempty,oneof=divisionRank winningPercentage runDifferential streak lastTen runsScored"`
	FavoritesOnly *bool   `json:"favorites_only"`
}

type setSeasonRequest struct {
	Season int `json:"season" validate:"required,gte=1876,lte=2100"`
}

func splitToDTO(split *standings.RecordSplit) *recordSplitDTO {
	if split == nil {
		return nil
	}
	return &recordSplitDTO{
		Wins:       split.Wins,
		Losses:     split.Losses,
		Percentage: split.Percentage,
	}
}

func (h *Handler) teamToDTO(team standings.TeamStanding) teamStandingDTO {
	return teamStandingDTO{
		TeamID:                team.TeamID,
		Name:                  team.Name,
		ShortName:             team.ShortName,
		LocationName:          team.LocationName,
		Abbreviation:          team.Abbreviation,
		Wins:                  team.Wins,
		Losses:                team.Losses,
		WinningPercentage:     team.WinningPercentage,
		WinningPercentageText: team.WinningPercentageText,
		GamesBack:             team.GamesBack,
		GamesBackDisplay:      team.GamesBackDisplay,
		RunsScored:            team.RunsScored,
		RunsAllowed:           team.RunsAllowed,
		RunDifferential:       team.RunDifferential,
		DivisionRank:          team.DivisionRank,
		LeagueRank:            team.LeagueRank,
		WildCardRank:          team.WildCardRank,
		StreakCode:            team.StreakCode,
		StreakCount:           team.StreakCount,
		StreakIsWin:           team.StreakIsWin,
		LastTenRecord:         team.LastTenRecord,
		LastTenWinRate:        team.LastTenWinRate,
		Clinched:              team.Clinched,
		Favorite:              h.standingsService.IsFavorite(team.TeamID),
		HomeRecord:            splitToDTO(team.HomeRecord),
		AwayRecord:            splitToDTO(team.AwayRecord),
		ExtraInningsRecord:    splitToDTO(team.ExtraInningsRecord),
		OneRunRecord:          splitToDTO(team.OneRunRecord),
	}
}

func (h *Handler) sectionToDTO(section standings.Section) sectionDTO {
	teams := make([]teamStandingDTO, 0, len(section.Teams))
	for _, team := range section.Teams {
		teams = append(teams, h.teamToDTO(team))
	}

	return sectionDTO{
		ID:                 section.ID,
		DivisionID:         section.DivisionID,
		LeagueID:           section.LeagueID,
		LeagueName:         section.LeagueName,
		LeagueAbbreviation: section.LeagueAbbreviation,
		Title:              section.Title,
		Subtitle:           section.Subtitle,
		Season:             section.Season,
		Teams:              teams,
	}
}

func (h *Handler) sectionsToDTO(sections []standings.Section) []sectionDTO {
	items := make([]sectionDTO, 0, len(sections))
	for _, section := range sections {
		items = append(items, h.sectionToDTO(section))
	}
	return items
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	sections := h.standingsService.ListFilteredSections(ctx)
	writeSuccess(ctx, w, http.StatusOK, h.sectionsToDTO(sections))
}

func (h *Handler) ListAllStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAllStandings")
	defer span.End()

	sections, season := h.standingsService.Snapshot(ctx)
	writeSuccess(ctx, w, http.StatusOK, snapshotDTO{
		Season:   season,
		Sections: h.sectionsToDTO(sections),
	})
}

func (h *Handler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateFilters")
	defer span.End()

	var req updateFiltersRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	update := usecase.FilterUpdate{
		SearchText:    req.SearchText,
		League:        req.League,
		DivisionID:    req.DivisionID,
		SortOption:    req.SortOption,
		FavoritesOnly: req.FavoritesOnly,
	}
	if err := h.standingsService.UpdateFilters(ctx, update); err != nil {
		h.logger.WarnContext(ctx, "update filters failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.sectionsToDTO(h.standingsService.ListFilteredSections(ctx)))
}

func (h *Handler) SetSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetSeason")
	defer span.End()

	var req setSeasonRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.standingsService.SetSeason(ctx, req.Season); err != nil {
		h.logger.WarnContext(ctx, "set season failed", "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	sections, season := h.standingsService.Snapshot(ctx)
	writeSuccess(ctx, w, http.StatusOK, snapshotDTO{
		Season:   season,
		Sections: h.sectionsToDTO(sections),
	})
}

func (h *Handler) RefreshStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshStandings")
	defer span.End()

	if err := h.standingsService.Refresh(ctx); err != nil {
		h.logger.WarnContext(ctx, "refresh standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.sectionsToDTO(h.standingsService.ListFilteredSections(ctx)))
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleFavorite")
	defer span.End()

	teamID, err := strconv.ParseInt(r.PathValue("teamID"), 10, 64)
	if err != nil || teamID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: team id must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	// Reject ids that are not in the loaded snapshot. Before the first
	// successful fetch there is nothing to check against, so the toggle
	// is allowed through; restored favorites work the same way.
	if h.standingsService.HasSnapshot() && !h.standingsService.KnowsTeam(teamID) {
		writeError(ctx, w, fmt.Errorf("%w: team %d is not part of the current standings", usecase.ErrNotFound, teamID))
		return
	}

	favorite, err := h.standingsService.ToggleFavorite(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "toggle favorite failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toggleFavoriteResponse{
		TeamID:   teamID,
		Favorite: favorite,
	})
}

func (h *Handler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAggregates")
	defer span.End()

	agg := h.standingsService.Aggregates(ctx)

	out := aggregatesDTO{}
	if agg.BestRecord != nil {
		dto := h.teamToDTO(*agg.BestRecord)
		out.BestRecord = &dto
	}
	if agg.HottestStreak != nil {
		dto := h.teamToDTO(*agg.HottestStreak)
		out.HottestStreak = &dto
	}
	if agg.BestRunDifferential != nil {
		dto := h.teamToDTO(*agg.BestRunDifferential)
		out.BestRunDifferential = &dto
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
