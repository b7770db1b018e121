package swiss

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/matches"
	"github.com/mcoot/tourney/internal/services/players"
	"github.com/mcoot/tourney/internal/storage"
)

// Service generates swiss pairings and runs them through the match ledger.
//
// Generate and Execute are separate steps. A pairing is a snapshot: players
// edited or deleted between the two calls are resolved against the rows that
// exist at execution time.
type Service struct {
	players *players.Service
	matches *matches.Service
	logger  zerolog.Logger
}

// New creates a new swiss pairing service
func New(players *players.Service, matches *matches.Service, logger zerolog.Logger) *Service {
	return &Service{
		players: players,
		matches: matches,
		logger:  logger.With().Str("component", "swiss").Logger(),
	}
}

// Generate pairs every registered player. Players are ordered by id; with an
// odd count the highest id sits out as the bye. The rest are paired first
// against last, second against second to last, and so on.
func (s *Service) Generate(ctx context.Context) (*model.Pairing, error) {
	pool, err := s.players.List(ctx, storage.All())
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, &model.EmptyPoolError{}
	}

	pairing := &model.Pairing{Pairs: []model.Pair{}}
	if len(pool)%2 == 1 {
		bye := *pool[len(pool)-1]
		pairing.Bye = &bye
		pool = pool[:len(pool)-1]
	}

	ascending := pool
	descending := slices.Clone(pool)
	slices.Reverse(descending)

	for i := 0; i < len(pool)/2; i++ {
		pairing.Pairs = append(pairing.Pairs, model.Pair{
			A: *ascending[i],
			B: *descending[i],
		})
	}

	event := s.logger.Debug().Int("pairs", len(pairing.Pairs))
	if pairing.HasBye() {
		event = event.Int64("bye_player_id", int64(pairing.Bye.ID))
	}
	event.Msg("pairing generated")

	return pairing, nil
}

// Execute resolves each pair in order, numbering rounds from 1. The bye player
// is never played. A failing round is recorded and skipped; rounds are
// committed independently. The returned error joins every round failure and
// is nil when all rounds succeeded.
func (s *Service) Execute(ctx context.Context, pairing *model.Pairing) ([]model.RoundResult, error) {
	results := make([]model.RoundResult, 0, len(pairing.Pairs))
	var errs []error

	for i, pair := range pairing.Pairs {
		round := i + 1
		result := model.RoundResult{Round: round, Pair: pair}

		winner, err := s.matches.Resolve(ctx, pair.A.ID, pair.B.ID)
		if err != nil {
			s.logger.Warn().Err(err).Int("round", round).Msg("swiss round failed")
			result.Err = err
			errs = append(errs, fmt.Errorf("round %d: %w", round, err))
		} else {
			result.WinnerCode = winner
		}
		results = append(results, result)
	}

	s.logger.Info().
		Int("rounds", len(results)).
		Int("failed", len(errs)).
		Msg("swiss pairing executed")

	return results, errors.Join(errs...)
}
