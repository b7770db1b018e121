package ranking

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/players"
	"github.com/mcoot/tourney/internal/storage"
)

// Service aggregates match results into a win ranking
type Service struct {
	storage storage.Storage
	players *players.Service
	logger  zerolog.Logger
}

// New creates a new ranking service
func New(storage storage.Storage, players *players.Service, logger zerolog.Logger) *Service {
	return &Service{
		storage: storage,
		players: players,
		logger:  logger.With().Str("component", "ranking").Logger(),
	}
}

// Rank counts wins per winner code over every recorded match. Standings are
// ordered by wins descending, then code ascending, and numbered from 1.
// Players without a win do not appear. Winners that have since been deleted
// are shown with model.DeletedPlayerName.
func (s *Service) Rank(ctx context.Context) ([]model.Standing, error) {
	matches, err := s.storage.QueryMatches(ctx, storage.All())
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}

	wins := make(map[string]int)
	for _, m := range matches {
		wins[m.WinnerCode]++
	}

	standings := make([]model.Standing, 0, len(wins))
	if len(wins) == 0 {
		return standings, nil
	}

	names, err := s.players.Names(ctx)
	if err != nil {
		return nil, err
	}

	for code, n := range wins {
		standings = append(standings, model.Standing{
			Code: code,
			Name: names.Lookup(code),
			Wins: n,
		})
	}

	slices.SortFunc(standings, func(a, b model.Standing) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}

	s.logger.Debug().Int("matches", len(matches)).Int("standings", len(standings)).Msg("ranking computed")
	return standings, nil
}
