package mlbstats

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/mlb-standings/internal/domain/standings"
)

const genericLeagueAbbreviation = "MLB"

// Normalize maps one raw standings response into the domain model. The
// mapping is total: a malformed field degrades to absent for that field
// only and never discards the surrounding team record or section.
func Normalize(resp StandingsResponse, season int) []standings.Section {
	out := make([]standings.Section, 0, len(resp.Records))
	for _, record := range resp.Records {
		out = append(out, normalizeSection(record, season))
	}
	return out
}

func normalizeSection(record DivisionRecord, season int) standings.Section {
	var leagueID int64
	var leagueName string
	leagueAbbreviation := ""
	if record.League != nil {
		leagueID = record.League.ID
		leagueName = strings.TrimSpace(record.League.Name)
		leagueAbbreviation = strings.TrimSpace(record.League.Abbreviation)
	}
	if leagueAbbreviation == "" {
		leagueAbbreviation = inferLeagueAbbreviation(leagueName)
	}

	divisionID := int64(0)
	title := ""
	if record.Division != nil {
		divisionID = record.Division.ID
		title = firstNonEmpty(record.Division.Name, record.Division.NameShort, record.Division.ShortName)
	}
	if divisionID == 0 {
		// No division descriptor: synthesize a stable per-league id and
		// fall back to the league name as the section title.
		divisionID = leagueID*100 + 1
		if title == "" {
			title = leagueName
		}
	}

	seasonText := strings.TrimSpace(record.Season)
	if seasonText == "" {
		seasonText = strconv.Itoa(season)
	}

	teams := make([]standings.TeamStanding, 0, len(record.TeamRecords))
	for _, teamRecord := range record.TeamRecords {
		teams = append(teams, normalizeTeam(teamRecord))
	}

	return standings.Section{
		ID:                 divisionID,
		DivisionID:         divisionID,
		LeagueID:           leagueID,
		LeagueName:         leagueName,
		LeagueAbbreviation: leagueAbbreviation,
		Title:              title,
		Subtitle:           leagueName,
		Season:             seasonText,
		Teams:              teams,
	}
}

func normalizeTeam(record TeamRecord) standings.TeamStanding {
	out := standings.TeamStanding{
		TeamID:                record.Team.ID,
		Name:                  strings.TrimSpace(record.Team.Name),
		ShortName:             firstNonEmpty(record.Team.ShortName, record.Team.TeamName, record.Team.ClubName),
		LocationName:          strings.TrimSpace(record.Team.LocationName),
		Abbreviation:          strings.TrimSpace(record.Team.Abbreviation),
		Wins:                  maxInt(record.Wins, 0),
		Losses:                maxInt(record.Losses, 0),
		WinningPercentageText: record.WinningPercentage,
		Clinched:              record.Clinched,
		RunsScored:            record.RunsScored,
		RunsAllowed:           record.RunsAllowed,
		RunDifferential:       record.RunDifferential,
		DivisionRank:          parseOptionalInt(record.DivisionRank),
		LeagueRank:            parseOptionalInt(record.LeagueRank),
		WildCardRank:          parseOptionalInt(record.WildCardRank),
	}

	if pct := parseOptionalFloat(record.WinningPercentage); pct != nil {
		out.WinningPercentage = *pct
	}

	out.GamesBack = parseOptionalFloat(record.GamesBack)
	out.GamesBackDisplay = gamesBackDisplay(record.GamesBack, out.GamesBack)

	out.StreakCode, out.StreakCount, out.StreakIsWin = normalizeStreak(record.Streak)

	out.LastTenRecord = strings.TrimSpace(record.LastTen)
	out.LastTenWinRate = lastTenWinRate(record.LastTen)

	out.HomeRecord = normalizeSplit(record.Home)
	out.AwayRecord = normalizeSplit(record.Away)
	out.ExtraInningsRecord = normalizeSplit(record.ExtraInnings)
	out.OneRunRecord = normalizeSplit(record.OneRun)

	return out
}

// gamesBackDisplay renders zero and absence as the em-dash sentinel: both
// denote the division leader, distinct from a real trailing value.
func gamesBackDisplay(raw string, parsed *float64) string {
	if parsed == nil || *parsed == 0 {
		return standings.GamesBackLeader
	}
	return strings.TrimSpace(raw) + " GB"
}

// normalizeStreak prefers the explicit count and type fields; when those
// are missing it derives direction and length from the code itself.
func normalizeStreak(streak *StreakRef) (code string, count int, isWin bool) {
	if streak == nil {
		return "", 0, false
	}

	code = strings.TrimSpace(streak.StreakCode)
	streakType := strings.ToLower(strings.TrimSpace(streak.StreakType))
	if streak.StreakNumber != nil && streakType != "" {
		count = maxInt(*streak.StreakNumber, 0)
		isWin = strings.HasPrefix(streakType, "win")
		return code, count, isWin
	}

	if derivedCount, derivedIsWin, ok := splitStreakCode(code); ok {
		return code, derivedCount, derivedIsWin
	}
	return code, 0, false
}

func lastTenWinRate(raw string) float64 {
	wins, losses, ok := parseWinLossPair(raw)
	if !ok {
		return 0
	}
	total := wins + losses
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

// normalizeSplit builds a record split only when both counts are present.
func normalizeSplit(split *SplitRecord) *standings.RecordSplit {
	if split == nil || split.Wins == nil || split.Losses == nil {
		return nil
	}

	out := &standings.RecordSplit{
		Wins:   *split.Wins,
		Losses: *split.Losses,
	}
	if pct := parseOptionalFloat(split.Pct); pct != nil {
		out.Percentage = *pct
	} else if total := out.Wins + out.Losses; total > 0 {
		out.Percentage = float64(out.Wins) / float64(total)
	}
	return out
}

func inferLeagueAbbreviation(leagueName string) string {
	name := strings.ToLower(leagueName)
	switch {
	case strings.Contains(name, "american"):
		return "AL"
	case strings.Contains(name, "national"):
		return "NL"
	default:
		return genericLeagueAbbreviation
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
