package store

import (
	"database/sql"
	"time"
)

// Team represents an NBA franchise, keyed by its basketball-reference
// abbreviation (e.g. "BOS", "LAL").
type Team struct {
	ID           int            `json:"id" db:"id"`
	Abbreviation string         `json:"abbreviation" db:"abbreviation"`
	Name         string         `json:"name" db:"name"`
	Conference   sql.NullString `json:"conference,omitempty" db:"conference"`
	Division     sql.NullString `json:"division,omitempty" db:"division"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Player represents a player. Slug is the basketball-reference player ID
// (e.g. "jamesle01") and is the preferred identity key; name is the fallback
// for rows scraped from pages that don't link the player.
type Player struct {
	ID        int            `json:"id" db:"id"`
	Slug      sql.NullString `json:"slug,omitempty" db:"slug"`
	Name      string         `json:"name" db:"name"`
	Position  sql.NullString `json:"position,omitempty" db:"position"`
	Height    sql.NullString `json:"height,omitempty" db:"height"`
	Weight    sql.NullInt32  `json:"weight,omitempty" db:"weight"`
	BirthDate sql.NullTime   `json:"birth_date,omitempty" db:"birth_date"`
	TeamAbbr  sql.NullString `json:"team_abbr,omitempty" db:"team_abbr"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// Game represents a single NBA game. GameID is the basketball-reference
// box score identifier (YYYYMMDD0HOM). Season is the ending year of the
// season the game belongs to (2023-24 -> 2024).
type Game struct {
	ID        int       `json:"id" db:"id"`
	GameID    string    `json:"game_id" db:"game_id"`
	GameDate  time.Time `json:"game_date" db:"game_date"`
	Season    int       `json:"season" db:"season"`
	HomeTeam  string    `json:"home_team" db:"home_team"`
	AwayTeam  string    `json:"away_team" db:"away_team"`
	HomeScore int       `json:"home_score" db:"home_score"`
	AwayScore int       `json:"away_score" db:"away_score"`
	HomeWon   bool      `json:"home_won" db:"home_won"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PlayerGameStats is a single player's box score line. Rows are append-only.
type PlayerGameStats struct {
	ID         int             `json:"id" db:"id"`
	GameID     string          `json:"game_id" db:"game_id"`
	Team       string          `json:"team" db:"team"`
	PlayerName string          `json:"player_name" db:"player_name"`
	PlayerSlug sql.NullString  `json:"player_slug,omitempty" db:"player_slug"`
	MP         string          `json:"mp" db:"mp"`
	FG         int             `json:"fg" db:"fg"`
	FGA        int             `json:"fga" db:"fga"`
	FGPct      float64         `json:"fg_pct" db:"fg_pct"`
	FG3        int             `json:"fg3" db:"fg3"`
	FG3A       int             `json:"fg3a" db:"fg3a"`
	FG3Pct     float64         `json:"fg3_pct" db:"fg3_pct"`
	FT         int             `json:"ft" db:"ft"`
	FTA        int             `json:"fta" db:"fta"`
	FTPct      float64         `json:"ft_pct" db:"ft_pct"`
	ORB        int             `json:"orb" db:"orb"`
	DRB        int             `json:"drb" db:"drb"`
	TRB        int             `json:"trb" db:"trb"`
	AST        int             `json:"ast" db:"ast"`
	STL        int             `json:"stl" db:"stl"`
	BLK        int             `json:"blk" db:"blk"`
	TOV        int             `json:"tov" db:"tov"`
	PF         int             `json:"pf" db:"pf"`
	PTS        int             `json:"pts" db:"pts"`
	PlusMinus  int             `json:"plus_minus" db:"plus_minus"`
	TSPct      sql.NullFloat64 `json:"ts_pct,omitempty" db:"ts_pct"`
	EFGPct     sql.NullFloat64 `json:"efg_pct,omitempty" db:"efg_pct"`
	USGPct     sql.NullFloat64 `json:"usg_pct,omitempty" db:"usg_pct"`
	OffRtg     sql.NullFloat64 `json:"off_rtg,omitempty" db:"off_rtg"`
	DefRtg     sql.NullFloat64 `json:"def_rtg,omitempty" db:"def_rtg"`
	BPM        sql.NullFloat64 `json:"bpm,omitempty" db:"bpm"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// TeamGameStats is a team's box score totals for one game.
type TeamGameStats struct {
	ID        int             `json:"id" db:"id"`
	GameID    string          `json:"game_id" db:"game_id"`
	Team      string          `json:"team" db:"team"`
	IsHome    bool            `json:"is_home" db:"is_home"`
	FG        int             `json:"fg" db:"fg"`
	FGA       int             `json:"fga" db:"fga"`
	FGPct     float64         `json:"fg_pct" db:"fg_pct"`
	FG3       int             `json:"fg3" db:"fg3"`
	FG3A      int             `json:"fg3a" db:"fg3a"`
	FG3Pct    float64         `json:"fg3_pct" db:"fg3_pct"`
	FT        int             `json:"ft" db:"ft"`
	FTA       int             `json:"fta" db:"fta"`
	FTPct     float64         `json:"ft_pct" db:"ft_pct"`
	ORB       int             `json:"orb" db:"orb"`
	DRB       int             `json:"drb" db:"drb"`
	TRB       int             `json:"trb" db:"trb"`
	AST       int             `json:"ast" db:"ast"`
	STL       int             `json:"stl" db:"stl"`
	BLK       int             `json:"blk" db:"blk"`
	TOV       int             `json:"tov" db:"tov"`
	PF        int             `json:"pf" db:"pf"`
	PTS       int             `json:"pts" db:"pts"`
	TSPct     sql.NullFloat64 `json:"ts_pct,omitempty" db:"ts_pct"`
	EFGPct    sql.NullFloat64 `json:"efg_pct,omitempty" db:"efg_pct"`
	TOVPct    sql.NullFloat64 `json:"tov_pct,omitempty" db:"tov_pct"`
	ORBPct    sql.NullFloat64 `json:"orb_pct,omitempty" db:"orb_pct"`
	DRBPct    sql.NullFloat64 `json:"drb_pct,omitempty" db:"drb_pct"`
	OffRtg    sql.NullFloat64 `json:"off_rtg,omitempty" db:"off_rtg"`
	DefRtg    sql.NullFloat64 `json:"def_rtg,omitempty" db:"def_rtg"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// GameOfficial is one of up to three referees assigned to a game.
type GameOfficial struct {
	ID           int            `json:"id" db:"id"`
	GameID       string         `json:"game_id" db:"game_id"`
	OfficialName string         `json:"official_name" db:"official_name"`
	OfficialURL  sql.NullString `json:"official_url,omitempty" db:"official_url"`
	Position     int            `json:"position" db:"position"`
}

// Standing is a team's aggregate record for one season, recomputed from games.
type Standing struct {
	ID            int       `json:"id" db:"id"`
	Team          string    `json:"team" db:"team"`
	Season        int       `json:"season" db:"season"`
	Wins          int       `json:"wins" db:"wins"`
	Losses        int       `json:"losses" db:"losses"`
	WinPct        float64   `json:"win_pct" db:"win_pct"`
	PointsFor     int       `json:"points_for" db:"points_for"`
	PointsAgainst int       `json:"points_against" db:"points_against"`
	PointDiff     int       `json:"point_diff" db:"point_diff"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Checkpoint marks the last successfully processed work item for a job key,
// enabling resumable runs.
type Checkpoint struct {
	JobKey        string    `json:"job_key" db:"job_key"`
	LastCompleted string    `json:"last_completed" db:"last_completed"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
