package mlbstats

// Raw shapes returned by the standings endpoint. The provider omits most
// optional fields outright and serializes several numeric values as
// strings, so everything below the top-level records container is decoded
// leniently and resolved by the normalizer.

type StandingsResponse struct {
	Records []DivisionRecord `json:"records"`
}

type DivisionRecord struct {
	TeamRecords []TeamRecord `json:"teamRecords"`
	Division    *DivisionRef `json:"division,omitempty"`
	League      *LeagueRef   `json:"league,omitempty"`
	Season      string       `json:"season,omitempty"`
}

type LeagueRef struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

type DivisionRef struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	NameShort    string `json:"nameShort,omitempty"`
	ShortName    string `json:"shortName,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

type TeamRecord struct {
	Team              TeamRef      `json:"team"`
	Streak            *StreakRef   `json:"streak,omitempty"`
	DivisionRank      string       `json:"divisionRank,omitempty"`
	LeagueRank        string       `json:"leagueRank,omitempty"`
	WildCardRank      string       `json:"wildCardRank,omitempty"`
	Clinched          bool         `json:"clinched,omitempty"`
	Wins              int          `json:"wins"`
	Losses            int          `json:"losses"`
	WinningPercentage string       `json:"winningPercentage"`
	GamesBack         string       `json:"gamesBack,omitempty"`
	RunsScored        *int         `json:"runsScored,omitempty"`
	RunsAllowed       *int         `json:"runsAllowed,omitempty"`
	RunDifferential   *int         `json:"runDifferential,omitempty"`
	LastTen           string       `json:"lastTen,omitempty"`
	Home              *SplitRecord `json:"home,omitempty"`
	Away              *SplitRecord `json:"away,omitempty"`
	ExtraInnings      *SplitRecord `json:"extraInnings,omitempty"`
	OneRun            *SplitRecord `json:"oneRun,omitempty"`
}

type TeamRef struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TeamName     string `json:"teamName,omitempty"`
	ShortName    string `json:"shortName,omitempty"`
	ClubName     string `json:"clubName,omitempty"`
	LocationName string `json:"locationName,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty"`
	FileCode     string `json:"fileCode,omitempty"`
}

type StreakRef struct {
	StreakCode   string `json:"streakCode,omitempty"`
	StreakNumber *int   `json:"streakNumber,omitempty"`
	StreakType   string `json:"streakType,omitempty"`
}

type SplitRecord struct {
	Wins   *int   `json:"wins,omitempty"`
	Losses *int   `json:"losses,omitempty"`
	Pct    string `json:"pct,omitempty"`
}
