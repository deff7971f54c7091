package bref

import "time"

// BoxScore is everything parsed from one box score page.
type BoxScore struct {
	GameID    string
	GameDate  time.Time
	Season    int
	Home      TeamBox
	Away      TeamBox
	Officials []Official
}

// TeamBox is one side of a box score.
type TeamBox struct {
	Team    string // basketball-reference abbreviation
	Score   int
	Players []PlayerLine
	Totals  TeamTotals
}

// PlayerLine is one player's row, basic columns merged with the matching
// advanced-table row when one exists.
type PlayerLine struct {
	Name      string
	Slug      string // empty when the page doesn't link the player
	MP        string
	FG        int
	FGA       int
	FGPct     float64
	FG3       int
	FG3A      int
	FG3Pct    float64
	FT        int
	FTA       int
	FTPct     float64
	ORB       int
	DRB       int
	TRB       int
	AST       int
	STL       int
	BLK       int
	TOV       int
	PF        int
	PTS       int
	PlusMinus int

	// Advanced columns; nil when the page has no advanced table.
	TSPct  *float64
	EFGPct *float64
	USGPct *float64
	OffRtg *float64
	DefRtg *float64
	BPM    *float64
}

// TeamTotals is the "Team Totals" row of a box score table.
type TeamTotals struct {
	FG     int
	FGA    int
	FGPct  float64
	FG3    int
	FG3A   int
	FG3Pct float64
	FT     int
	FTA    int
	FTPct  float64
	ORB    int
	DRB    int
	TRB    int
	AST    int
	STL    int
	BLK    int
	TOV    int
	PF     int
	PTS    int

	TSPct  *float64
	EFGPct *float64
	TOVPct *float64
	ORBPct *float64
	DRBPct *float64
	OffRtg *float64
	DefRtg *float64
}

// Official is one referee listed on a box score page.
type Official struct {
	Name string
	URL  string
}

// ScheduleGame is one row discovered on a monthly schedule page.
type ScheduleGame struct {
	GameID string
	Path   string // box score path, e.g. "/boxscores/202306010DEN.html"
}

// RosterEntry is one player on a team roster page.
type RosterEntry struct {
	Name      string
	Slug      string
	Position  string
	Height    string
	Weight    int
	BirthDate time.Time
}
