package standings

import (
	"fmt"
	"strings"
)

// LeagueFilter narrows the visible sections to one league.
type LeagueFilter string

const (
	LeagueAll      LeagueFilter = "all"
	LeagueAmerican LeagueFilter = "AL"
	LeagueNational LeagueFilter = "NL"
)

func ParseLeagueFilter(raw string) (LeagueFilter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return LeagueAll, nil
	case "al", "american":
		return LeagueAmerican, nil
	case "nl", "national":
		return LeagueNational, nil
	default:
		return "", fmt.Errorf("unknown league filter %q", raw)
	}
}

// Matches reports whether a section belongs to the filtered league.
func (f LeagueFilter) Matches(section Section) bool {
	if f == LeagueAll || f == "" {
		return true
	}
	return strings.EqualFold(section.LeagueAbbreviation, string(f))
}

// SortOption selects the comparator used to order teams inside a section.
type SortOption string

const (
	SortByDivisionRank      SortOption = "divisionRank"
	SortByWinningPercentage SortOption = "winningPercentage"
	SortByRunDifferential   SortOption = "runDifferential"
	SortByStreak            SortOption = "streak"
	SortByLastTen           SortOption = "lastTen"
	SortByRunsScored        SortOption = "runsScored"
)

func ParseSortOption(raw string) (SortOption, error) {
	switch strings.TrimSpace(raw) {
	case "", string(SortByDivisionRank):
		return SortByDivisionRank, nil
	case string(SortByWinningPercentage):
		return SortByWinningPercentage, nil
	case string(SortByRunDifferential):
		return SortByRunDifferential, nil
	case string(SortByStreak):
		return SortByStreak, nil
	case string(SortByLastTen):
		return SortByLastTen, nil
	case string(SortByRunsScored):
		return SortByRunsScored, nil
	default:
		return "", fmt.Errorf("unknown sort option %q", raw)
	}
}
