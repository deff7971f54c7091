package bref

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// gameIDPattern matches basketball-reference box score identifiers,
// e.g. "202306010DEN" in "/boxscores/202306010DEN.html".
var gameIDPattern = regexp.MustCompile(`(\d{9}[A-Z]{3})\.html`)

// playerSlugPattern extracts the slug from a player link,
// e.g. "jamesle01" in "/players/j/jamesle01.html".
var playerSlugPattern = regexp.MustCompile(`/players/[a-z]/([a-z0-9]+)\.html`)

// teamAbbrPattern extracts the abbreviation from a team link,
// e.g. "DEN" in "/teams/DEN/2024.html".
var teamAbbrPattern = regexp.MustCompile(`/teams/([A-Z]{3})/`)

// commentStripper exposes tables that basketball-reference ships inside
// HTML comments so goquery can see them.
var commentStripper = strings.NewReplacer("<!--", "", "-->", "")

// GameIDFromURL extracts the game identifier from a box score URL or path.
func GameIDFromURL(url string) (string, error) {
	m := gameIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: no game ID in %q", ErrPermanent, url)
	}
	return m[1], nil
}

// DateFromGameID derives the game date from the identifier's leading
// YYYYMMDD digits.
func DateFromGameID(gameID string) (time.Time, error) {
	if len(gameID) < 8 {
		return time.Time{}, fmt.Errorf("game ID too short: %q", gameID)
	}
	date, err := time.Parse("20060102", gameID[:8])
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date from game ID %q: %w", gameID, err)
	}
	return date, nil
}

// SeasonFromDate maps a game date to the ending year of its season.
// Games from July onward belong to the season that ends the following year.
func SeasonFromDate(date time.Time) int {
	if date.Month() >= time.July {
		return date.Year() + 1
	}
	return date.Year()
}

// ParseBoxScore parses a full box score page. The game date and season are
// derived from the game ID. Returns ErrLayoutChanged when the expected
// markup is missing.
func ParseBoxScore(html, gameID string) (*BoxScore, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(commentStripper.Replace(html)))
	if err != nil {
		return nil, fmt.Errorf("parsing box score HTML: %w", err)
	}

	date, err := DateFromGameID(gameID)
	if err != nil {
		return nil, err
	}

	box := &BoxScore{
		GameID:   gameID,
		GameDate: date,
		Season:   SeasonFromDate(date),
	}

	awayAbbr, homeAbbr, awayScore, homeScore, err := parseLineScore(doc)
	if err != nil {
		return nil, err
	}
	box.Away.Team = awayAbbr
	box.Away.Score = awayScore
	box.Home.Team = homeAbbr
	box.Home.Score = homeScore

	for _, side := range []*TeamBox{&box.Away, &box.Home} {
		if err := parseTeamBox(doc, side); err != nil {
			return nil, err
		}
	}

	box.Officials = parseOfficials(doc)

	return box, nil
}

// parseLineScore reads the scoring summary table. The away team is always
// listed first.
func parseLineScore(doc *goquery.Document) (awayAbbr, homeAbbr string, awayScore, homeScore int, err error) {
	table := doc.Find("table#line_score")
	if table.Length() == 0 {
		return "", "", 0, 0, fmt.Errorf("%w: line score table missing", ErrLayoutChanged)
	}

	type line struct {
		abbr  string
		score int
	}
	var lines []line

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		href, ok := row.Find("th a").First().Attr("href")
		if !ok {
			return
		}
		m := teamAbbrPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}

		total := row.Find(`td[data-stat="T"]`)
		if total.Length() == 0 {
			total = row.Find("td").Last()
		}

		lines = append(lines, line{
			abbr:  m[1],
			score: atoi(total.Text()),
		})
	})

	if len(lines) != 2 {
		return "", "", 0, 0, fmt.Errorf("%w: expected 2 line score rows, got %d", ErrLayoutChanged, len(lines))
	}

	return lines[0].abbr, lines[1].abbr, lines[0].score, lines[1].score, nil
}

// parseTeamBox fills in a team's player lines and totals from its basic
// table, then merges the advanced table when present.
func parseTeamBox(doc *goquery.Document, box *TeamBox) error {
	basic := doc.Find(fmt.Sprintf("table#box-%s-game-basic", box.Team))
	if basic.Length() == 0 {
		return fmt.Errorf("%w: basic box table missing for %s", ErrLayoutChanged, box.Team)
	}

	basic.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if row.HasClass("thead") || row.HasClass("over_header") {
			return
		}

		name := strings.TrimSpace(row.Find(`th[data-stat="player"]`).Text())
		if name == "" {
			return
		}

		// Players who didn't play have a single reason cell instead of stats.
		if row.Find(`td[data-stat="reason"]`).Length() > 0 {
			return
		}

		p := PlayerLine{
			Name:      name,
			MP:        strings.TrimSpace(stat(row, "mp")),
			FG:        atoi(stat(row, "fg")),
			FGA:       atoi(stat(row, "fga")),
			FGPct:     atof(stat(row, "fg_pct")),
			FG3:       atoi(stat(row, "fg3")),
			FG3A:      atoi(stat(row, "fg3a")),
			FG3Pct:    atof(stat(row, "fg3_pct")),
			FT:        atoi(stat(row, "ft")),
			FTA:       atoi(stat(row, "fta")),
			FTPct:     atof(stat(row, "ft_pct")),
			ORB:       atoi(stat(row, "orb")),
			DRB:       atoi(stat(row, "drb")),
			TRB:       atoi(stat(row, "trb")),
			AST:       atoi(stat(row, "ast")),
			STL:       atoi(stat(row, "stl")),
			BLK:       atoi(stat(row, "blk")),
			TOV:       atoi(stat(row, "tov")),
			PF:        atoi(stat(row, "pf")),
			PTS:       atoi(stat(row, "pts")),
			PlusMinus: atoi(stat(row, "plus_minus")),
		}

		if href, ok := row.Find(`th[data-stat="player"] a`).Attr("href"); ok {
			if m := playerSlugPattern.FindStringSubmatch(href); m != nil {
				p.Slug = m[1]
			}
		}

		box.Players = append(box.Players, p)
	})

	if len(box.Players) == 0 {
		return fmt.Errorf("%w: no player rows for %s", ErrLayoutChanged, box.Team)
	}

	totals := basic.Find("tfoot tr").First()
	box.Totals = TeamTotals{
		FG:     atoi(stat(totals, "fg")),
		FGA:    atoi(stat(totals, "fga")),
		FGPct:  atof(stat(totals, "fg_pct")),
		FG3:    atoi(stat(totals, "fg3")),
		FG3A:   atoi(stat(totals, "fg3a")),
		FG3Pct: atof(stat(totals, "fg3_pct")),
		FT:     atoi(stat(totals, "ft")),
		FTA:    atoi(stat(totals, "fta")),
		FTPct:  atof(stat(totals, "ft_pct")),
		ORB:    atoi(stat(totals, "orb")),
		DRB:    atoi(stat(totals, "drb")),
		TRB:    atoi(stat(totals, "trb")),
		AST:    atoi(stat(totals, "ast")),
		STL:    atoi(stat(totals, "stl")),
		BLK:    atoi(stat(totals, "blk")),
		TOV:    atoi(stat(totals, "tov")),
		PF:     atoi(stat(totals, "pf")),
		PTS:    atoi(stat(totals, "pts")),
	}

	mergeAdvanced(doc, box)

	return nil
}

// mergeAdvanced folds the advanced table into player lines and totals.
// Older pages lack the table entirely; that's fine.
func mergeAdvanced(doc *goquery.Document, box *TeamBox) {
	advanced := doc.Find(fmt.Sprintf("table#box-%s-game-advanced", box.Team))
	if advanced.Length() == 0 {
		return
	}

	byName := make(map[string]*PlayerLine, len(box.Players))
	for i := range box.Players {
		byName[box.Players[i].Name] = &box.Players[i]
	}

	advanced.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if row.HasClass("thead") || row.HasClass("over_header") {
			return
		}
		name := strings.TrimSpace(row.Find(`th[data-stat="player"]`).Text())
		p, ok := byName[name]
		if !ok {
			return
		}
		p.TSPct = atofp(stat(row, "ts_pct"))
		p.EFGPct = atofp(stat(row, "efg_pct"))
		p.USGPct = atofp(stat(row, "usg_pct"))
		p.OffRtg = atofp(stat(row, "off_rtg"))
		p.DefRtg = atofp(stat(row, "def_rtg"))
		p.BPM = atofp(stat(row, "bpm"))
	})

	totals := advanced.Find("tfoot tr").First()
	box.Totals.TSPct = atofp(stat(totals, "ts_pct"))
	box.Totals.EFGPct = atofp(stat(totals, "efg_pct"))
	box.Totals.TOVPct = atofp(stat(totals, "tov_pct"))
	box.Totals.ORBPct = atofp(stat(totals, "orb_pct"))
	box.Totals.DRBPct = atofp(stat(totals, "drb_pct"))
	box.Totals.OffRtg = atofp(stat(totals, "off_rtg"))
	box.Totals.DefRtg = atofp(stat(totals, "def_rtg"))
}

// parseOfficials finds the referee links in the "Officials:" block.
// Pages without the block yield an empty slice.
func parseOfficials(doc *goquery.Document) []Official {
	var officials []Official

	doc.Find("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		if !strings.Contains(div.Text(), "Officials:") {
			return true
		}
		// Take the innermost div mentioning officials to avoid ancestors.
		if div.Find("div").FilterFunction(func(_ int, d *goquery.Selection) bool {
			return strings.Contains(d.Text(), "Officials:")
		}).Length() > 0 {
			return true
		}

		div.Find("a").Each(func(_ int, link *goquery.Selection) {
			if len(officials) >= 3 {
				return
			}
			href, _ := link.Attr("href")
			if !strings.HasPrefix(href, "/referees/") {
				return
			}
			officials = append(officials, Official{
				Name: strings.TrimSpace(link.Text()),
				URL:  BaseURL + href,
			})
		})
		return false
	})

	return officials
}

// ParseSchedule extracts box score links from a monthly schedule page.
// Rows without a link (future games) are skipped.
func ParseSchedule(html string) ([]ScheduleGame, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(commentStripper.Replace(html)))
	if err != nil {
		return nil, fmt.Errorf("parsing schedule HTML: %w", err)
	}

	table := doc.Find("table#schedule")
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: schedule table missing", ErrLayoutChanged)
	}

	var games []ScheduleGame
	table.Find(`tbody td[data-stat="box_score_text"] a`).Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		m := gameIDPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		games = append(games, ScheduleGame{GameID: m[1], Path: href})
	})

	return games, nil
}

// SchedulePaths returns the monthly schedule page paths for a season,
// in chronological order.
func SchedulePaths(season int) []string {
	months := []string{
		"october", "november", "december",
		"january", "february", "march", "april", "may", "june",
	}
	paths := make([]string, 0, len(months))
	for _, month := range months {
		paths = append(paths, fmt.Sprintf("/leagues/NBA_%d_games-%s.html", season, month))
	}
	return paths
}

// ParseRoster extracts players from a team roster page.
func ParseRoster(html string) ([]RosterEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(commentStripper.Replace(html)))
	if err != nil {
		return nil, fmt.Errorf("parsing roster HTML: %w", err)
	}

	table := doc.Find("table#roster")
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: roster table missing", ErrLayoutChanged)
	}

	var entries []RosterEntry
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		nameCell := row.Find(`td[data-stat="player"]`)
		name := strings.TrimSpace(nameCell.Text())
		if name == "" {
			return
		}

		entry := RosterEntry{
			Name:     name,
			Position: strings.TrimSpace(stat(row, "pos")),
			Height:   strings.TrimSpace(stat(row, "height")),
			Weight:   atoi(stat(row, "weight")),
		}

		if href, ok := nameCell.Find("a").Attr("href"); ok {
			if m := playerSlugPattern.FindStringSubmatch(href); m != nil {
				entry.Slug = m[1]
			}
		}

		if birth := strings.TrimSpace(stat(row, "birth_date")); birth != "" {
			if d, err := time.Parse("January 2, 2006", birth); err == nil {
				entry.BirthDate = d
			}
		}

		entries = append(entries, entry)
	})

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no roster rows", ErrLayoutChanged)
	}

	return entries, nil
}

func stat(row *goquery.Selection, name string) string {
	return row.Find(fmt.Sprintf(`td[data-stat=%q]`, name)).Text()
}

// atoi parses an int, treating empty and malformed cells as zero.
func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(s, "+")))
	return n
}

// atof parses a float, treating empty and malformed cells as zero.
func atof(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// atofp parses a float, returning nil for empty cells.
func atofp(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
