package matches

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mcoot/tourney/internal/dependencies/clock"
	"github.com/mcoot/tourney/internal/dependencies/random"
	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/audit"
	"github.com/mcoot/tourney/internal/services/players"
	"github.com/mcoot/tourney/internal/storage"
)

// Service is the match ledger
type Service struct {
	storage storage.Storage
	players *players.Service
	audit   *audit.Service
	clock   clock.Clock
	random  random.Random
	logger  zerolog.Logger
}

// New creates a new match ledger
func New(
	storage storage.Storage,
	players *players.Service,
	audit *audit.Service,
	clock clock.Clock,
	random random.Random,
	logger zerolog.Logger,
) *Service {
	return &Service{
		storage: storage,
		players: players,
		audit:   audit,
		clock:   clock,
		random:  random,
		logger:  logger.With().Str("component", "matches").Logger(),
	}
}

// Resolve plays a match between two players, picks a winner at random and
// records it. It returns the winner's code.
func (s *Service) Resolve(ctx context.Context, player1, player2 model.PlayerID) (string, error) {
	match, err := s.ResolveMatch(ctx, player1, player2)
	if err != nil {
		return "", err
	}
	return match.WinnerCode, nil
}

// ResolveMatch is Resolve returning the stored match row
func (s *Service) ResolveMatch(ctx context.Context, player1, player2 model.PlayerID) (*model.Match, error) {
	if player1 <= 0 {
		return nil, model.NewValidationError("player 1 id", "player_id", "must be a positive whole number")
	}
	if player2 <= 0 {
		return nil, model.NewValidationError("player 2 id", "player_id", "must be a positive whole number")
	}
	if player1 == player2 {
		return nil, model.NewValidationError("player ids", "player_distinct", "a player cannot play against themselves")
	}

	p1, err := s.players.Get(ctx, player1)
	if err != nil {
		return nil, err
	}
	p2, err := s.players.Get(ctx, player2)
	if err != nil {
		return nil, err
	}

	winner := p1
	if s.random.Intn(2) == 1 {
		winner = p2
	}

	match := &model.Match{
		Player1ID:  p1.ID,
		Player2ID:  p2.ID,
		WinnerCode: winner.Code,
		PlayedAt:   s.clock.Now(),
	}

	id, err := s.storage.InsertMatch(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("insert match: %w", err)
	}
	match.ID = id

	s.logger.Info().
		Int64("match_id", int64(id)).
		Int64("player_1_id", int64(p1.ID)).
		Int64("player_2_id", int64(p2.ID)).
		Str("winner_code", winner.Code).
		Msg("match resolved")

	entry := fmt.Sprintf("Match %d: %s vs %s, winner %s (%s)", id, p1.Name, p2.Name, winner.Name, winner.Code)
	if err := s.audit.Append(ctx, entry, model.ActionMatchCreate, int64(id)); err != nil {
		return match, err
	}
	return match, nil
}

// Delete removes a match record
func (s *Service) Delete(ctx context.Context, id model.MatchID) error {
	if err := s.storage.DeleteMatch(ctx, id); err != nil {
		if errors.Is(err, model.ErrMatchNotFound) {
			return model.MatchNotFound(id)
		}
		return fmt.Errorf("delete match: %w", err)
	}

	s.logger.Info().Int64("match_id", int64(id)).Msg("match deleted")

	entry := fmt.Sprintf("Deleted match %d", id)
	return s.audit.Append(ctx, entry, model.ActionMatchDelete, int64(id))
}

// List returns the matches selected by c in id order, each joined with the
// winner's current name. ByCode selects matches won by that code.
func (s *Service) List(ctx context.Context, c storage.Criterion) ([]model.MatchView, error) {
	matches, err := s.storage.QueryMatches(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}

	views := make([]model.MatchView, 0, len(matches))
	if len(matches) == 0 {
		return views, nil
	}

	names, err := s.players.Names(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		views = append(views, model.MatchView{
			Match:      *m,
			WinnerName: names.Lookup(m.WinnerCode),
		})
	}
	return views, nil
}

// Lookup returns one match by id
func (s *Service) Lookup(ctx context.Context, id model.MatchID) (model.MatchView, error) {
	views, err := s.List(ctx, storage.ByID(int64(id)))
	if err != nil {
		return model.MatchView{}, err
	}
	if len(views) == 0 {
		return model.MatchView{}, model.MatchNotFound(id)
	}
	return views[0], nil
}

// Latest returns the most recently recorded match
func (s *Service) Latest(ctx context.Context) (model.MatchView, error) {
	views, err := s.List(ctx, storage.MostRecent(1))
	if err != nil {
		return model.MatchView{}, err
	}
	if len(views) == 0 {
		return model.MatchView{}, &model.NotFoundError{Kind: "match", Key: "latest", Err: model.ErrMatchNotFound}
	}
	return views[0], nil
}
