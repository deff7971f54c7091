package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
)

// StandingsService derives season standings from stored game results.
// Standings are never scraped; they are recomputed from games so they
// always agree with the box scores on hand.
type StandingsService struct {
	games     *repository.GameRepository
	standings *repository.StandingRepository
}

// NewStandingsService creates a standings service
func NewStandingsService(db *store.Database) *StandingsService {
	return &StandingsService{
		games:     repository.NewGameRepository(db),
		standings: repository.NewStandingRepository(db),
	}
}

// Recompute rebuilds a season's standings from its games and persists them.
// Returns the standings ordered best record first.
func (s *StandingsService) Recompute(ctx context.Context, season int) ([]*store.Standing, error) {
	games, err := s.games.GetBySeason(ctx, season)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("no games stored for season %d", season)
	}

	byTeam := make(map[string]*store.Standing)
	record := func(team string) *store.Standing {
		st, ok := byTeam[team]
		if !ok {
			st = &store.Standing{Team: team, Season: season}
			byTeam[team] = st
		}
		return st
	}

	for _, g := range games {
		home := record(g.HomeTeam)
		away := record(g.AwayTeam)

		home.PointsFor += g.HomeScore
		home.PointsAgainst += g.AwayScore
		away.PointsFor += g.AwayScore
		away.PointsAgainst += g.HomeScore

		if g.HomeWon {
			home.Wins++
			away.Losses++
		} else {
			away.Wins++
			home.Losses++
		}
	}

	standings := make([]*store.Standing, 0, len(byTeam))
	for _, st := range byTeam {
		if played := st.Wins + st.Losses; played > 0 {
			st.WinPct = float64(st.Wins) / float64(played)
		}
		st.PointDiff = st.PointsFor - st.PointsAgainst
		standings = append(standings, st)
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		if standings[i].PointDiff != standings[j].PointDiff {
			return standings[i].PointDiff > standings[j].PointDiff
		}
		return standings[i].Team < standings[j].Team
	})

	for _, st := range standings {
		if err := s.standings.Upsert(ctx, st); err != nil {
			return nil, err
		}
	}

	return standings, nil
}

// Get returns a season's stored standings without recomputing
func (s *StandingsService) Get(ctx context.Context, season int) ([]*store.Standing, error) {
	return s.standings.GetBySeason(ctx, season)
}
