package players

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mcoot/tourney/internal/dependencies/clock"
	"github.com/mcoot/tourney/internal/dependencies/random"
	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/audit"
	"github.com/mcoot/tourney/internal/storage"
)

const (
	// MaxCodeAttempts bounds how many codes Register tries before giving up
	MaxCodeAttempts = 10
	// CodePrefixLength is how many runes of the lower-cased name start a code
	CodePrefixLength = 4
	// CodeSuffixMin and CodeSuffixMax bound the random code suffix [min, max)
	CodeSuffixMin = 1000001
	CodeSuffixMax = 9999999
)

// ErrCodesExhausted is returned when every generated code was already taken
var ErrCodesExhausted = errors.New("could not generate a unique player code")

// Service is the player registry
type Service struct {
	storage storage.Storage
	audit   *audit.Service
	clock   clock.Clock
	random  random.Random
	logger  zerolog.Logger
}

// New creates a new player registry
func New(
	storage storage.Storage,
	audit *audit.Service,
	clock clock.Clock,
	random random.Random,
	logger zerolog.Logger,
) *Service {
	return &Service{
		storage: storage,
		audit:   audit,
		clock:   clock,
		random:  random,
		logger:  logger.With().Str("component", "players").Logger(),
	}
}

// Register validates and stores a new player and returns its id.
// The player's code is generated here and never changes.
func (s *Service) Register(ctx context.Context, name, country string) (model.PlayerID, error) {
	if err := ValidateName(name); err != nil {
		return 0, err
	}
	if err := ValidateCountry(country); err != nil {
		return 0, err
	}

	for attempt := 1; attempt <= MaxCodeAttempts; attempt++ {
		player := &model.Player{
			Name:    name,
			Country: country,
			Code:    s.generateCode(name),
			Created: s.clock.Now(),
		}

		id, err := s.storage.InsertPlayer(ctx, player)
		if errors.Is(err, storage.ErrDuplicateCode) {
			s.logger.Debug().Str("code", player.Code).Int("attempt", attempt).Msg("player code taken, retrying")
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("insert player: %w", err)
		}

		s.logger.Info().
			Int64("player_id", int64(id)).
			Str("code", player.Code).
			Msg("player registered")

		entry := fmt.Sprintf("Created player %s from %s with code %s", name, country, player.Code)
		if err := s.audit.Append(ctx, entry, model.ActionPlayerCreate, int64(id)); err != nil {
			return id, err
		}
		return id, nil
	}

	s.logger.Error().Str("name", name).Int("attempts", MaxCodeAttempts).Msg("player code space exhausted")
	return 0, ErrCodesExhausted
}

// generateCode builds a code from the first runes of the lower-cased name and
// a random seven digit suffix
func (s *Service) generateCode(name string) string {
	prefix := []rune(strings.ToLower(name))
	if len(prefix) > CodePrefixLength {
		prefix = prefix[:CodePrefixLength]
	}
	suffix := s.random.IntRange(CodeSuffixMin, CodeSuffixMax)
	return string(prefix) + strconv.Itoa(suffix)
}

// Edit overwrites a player's name and country. The code is kept.
func (s *Service) Edit(ctx context.Context, id model.PlayerID, newName, newCountry string) error {
	if err := ValidateName(newName); err != nil {
		return err
	}
	if err := ValidateCountry(newCountry); err != nil {
		return err
	}

	if err := s.storage.UpdatePlayer(ctx, id, newName, newCountry); err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return model.PlayerNotFound(id)
		}
		return fmt.Errorf("update player: %w", err)
	}

	s.logger.Info().Int64("player_id", int64(id)).Msg("player edited")

	entry := fmt.Sprintf("Updated player %d to %s from %s", id, newName, newCountry)
	return s.audit.Append(ctx, entry, model.ActionPlayerEdit, int64(id))
}

// Delete removes a player. Matches that reference the player are kept.
func (s *Service) Delete(ctx context.Context, id model.PlayerID) error {
	if err := s.storage.DeletePlayer(ctx, id); err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return model.PlayerNotFound(id)
		}
		return fmt.Errorf("delete player: %w", err)
	}

	s.logger.Info().Int64("player_id", int64(id)).Msg("player deleted")

	entry := fmt.Sprintf("Deleted player %d", id)
	return s.audit.Append(ctx, entry, model.ActionPlayerDelete, int64(id))
}

// List returns the players selected by c in id order. No match is an empty
// slice, not an error.
func (s *Service) List(ctx context.Context, c storage.Criterion) ([]*model.Player, error) {
	players, err := s.storage.QueryPlayers(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	return players, nil
}

// Get returns one player by id
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	players, err := s.List(ctx, storage.ByID(int64(id)))
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, model.PlayerNotFound(id)
	}
	return players[0], nil
}

// GetByCode returns one player by code
func (s *Service) GetByCode(ctx context.Context, code string) (*model.Player, error) {
	players, err := s.List(ctx, storage.ByCode(code))
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, model.PlayerNotFound(code)
	}
	return players[0], nil
}

// NameForCode returns the current name of the player holding code, or
// model.DeletedPlayerName if no player holds it
func (s *Service) NameForCode(ctx context.Context, code string) (string, error) {
	player, err := s.GetByCode(ctx, code)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return model.DeletedPlayerName, nil
	}
	if err != nil {
		return "", err
	}
	return player.Name, nil
}

// Names maps every current code to its player's name. Lookups of codes
// missing from the map should fall back to model.DeletedPlayerName.
func (s *Service) Names(ctx context.Context) (Names, error) {
	players, err := s.List(ctx, storage.All())
	if err != nil {
		return nil, err
	}
	names := make(Names, len(players))
	for _, p := range players {
		names[p.Code] = p.Name
	}
	return names, nil
}

// Names is a snapshot of code to name
type Names map[string]string

// Lookup returns the name for code or the deleted sentinel
func (n Names) Lookup(code string) string {
	if name, ok := n[code]; ok {
		return name
	}
	return model.DeletedPlayerName
}
