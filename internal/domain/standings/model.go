package standings

// GamesBackLeader is the display sentinel for a team that is not trailing:
// a games-back of exactly zero and a missing games-back both render as the
// em-dash, distinct from a real trailing value such as "4.0 GB".
const GamesBackLeader = "—"

// Section is the set of teams belonging to one division within one league
// for one season. Sections held by the ranking engine are the source of
// truth and are never pruned; filtered views drop sections that end up
// empty after team filtering.
type Section struct {
	ID                 int64
	DivisionID         int64
	LeagueID           int64
	LeagueName         string
	LeagueAbbreviation string
	Title              string
	Subtitle           string
	Season             string
	Teams              []TeamStanding
}

// Clone returns a deep copy so that filtered views can be re-ordered
// without disturbing the source snapshot.
func (s Section) Clone() Section {
	out := s
	out.Teams = make([]TeamStanding, len(s.Teams))
	copy(out.Teams, s.Teams)
	return out
}

// TeamStanding is the normalized, display-ready record for one team.
// Pointer fields are optional in the provider feed; absence is expected
// and is never an error.
type TeamStanding struct {
	TeamID       int64
	Name         string
	ShortName    string
	LocationName string
	Abbreviation string

	Wins   int
	Losses int

	// WinningPercentage is the parsed value in [0,1]; the provider's
	// display text is preserved verbatim alongside it.
	WinningPercentage     float64
	WinningPercentageText string

	GamesBack        *float64
	GamesBackDisplay string

	RunDifferential *int
	RunsScored      *int
	RunsAllowed     *int

	DivisionRank *int
	LeagueRank   *int
	WildCardRank *int

	StreakCode  string
	StreakCount int
	StreakIsWin bool

	LastTenRecord  string
	LastTenWinRate float64

	Clinched bool

	HomeRecord         *RecordSplit
	AwayRecord         *RecordSplit
	ExtraInningsRecord *RecordSplit
	OneRunRecord       *RecordSplit
}

// RecordSplit is a wins/losses/percentage triple for a situational subset
// of games. It is constructed only when both counts are present.
type RecordSplit struct {
	Wins       int
	Losses     int
	Percentage float64
}

// SearchBlob is the haystack the team search filter matches against:
// name, short name, location, and abbreviation concatenated. Callers
// case-fold it themselves.
func (t TeamStanding) SearchBlob() string {
	return t.Name + " " + t.ShortName + " " + t.LocationName + " " + t.Abbreviation
}

// Aggregates are the headline queries computed over the full unfiltered
// team set, never over a filtered view.
type Aggregates struct {
	BestRecord          *TeamStanding
	HottestStreak       *TeamStanding
	BestRunDifferential *TeamStanding
}
