package memory

import (
	"context"
	"sync"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

// Storage is an in-memory implementation of the storage interface. Rows are
// kept in insertion order, which is also ascending id order.
type Storage struct {
	mu sync.RWMutex

	players []*model.Player
	matches []*model.Match
	audit   []*model.AuditEntry

	lastPlayerID model.PlayerID
	lastMatchID  model.MatchID
	lastAuditID  model.AuditEntryID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close is a no-op; the data lives as long as the Storage value
func (s *Storage) Close() error {
	return nil
}

// Player operations

func (s *Storage) InsertPlayer(ctx context.Context, player *model.Player) (model.PlayerID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.players {
		if p.Code == player.Code {
			return 0, storage.ErrDuplicateCode
		}
	}

	s.lastPlayerID++
	row := *player
	row.ID = s.lastPlayerID
	s.players = append(s.players, &row)
	return row.ID, nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, name, country string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		if p.ID == id {
			p.Name = name
			p.Country = country
			return nil
		}
	}
	return model.ErrPlayerNotFound
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.players {
		if p.ID == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return nil
		}
	}
	return model.ErrPlayerNotFound
}

func (s *Storage) QueryPlayers(ctx context.Context, c storage.Criterion) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := storage.Select(s.players, c,
		func(p *model.Player) int64 { return int64(p.ID) },
		func(p *model.Player) string { return p.Code },
	)
	if err != nil {
		return nil, err
	}
	return clonePlayers(rows), nil
}

// Match operations

func (s *Storage) InsertMatch(ctx context.Context, match *model.Match) (model.MatchID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastMatchID++
	row := *match
	row.ID = s.lastMatchID
	s.matches = append(s.matches, &row)
	return row.ID, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.matches {
		if m.ID == id {
			s.matches = append(s.matches[:i], s.matches[i+1:]...)
			return nil
		}
	}
	return model.ErrMatchNotFound
}

func (s *Storage) QueryMatches(ctx context.Context, c storage.Criterion) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := storage.Select(s.matches, c,
		func(m *model.Match) int64 { return int64(m.ID) },
		func(m *model.Match) string { return m.WinnerCode },
	)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Match, len(rows))
	for i, m := range rows {
		row := *m
		out[i] = &row
	}
	return out, nil
}

// Audit log operations

func (s *Storage) AppendAuditEntry(ctx context.Context, entry *model.AuditEntry) (model.AuditEntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAuditID++
	row := *entry
	row.ID = s.lastAuditID
	s.audit = append(s.audit, &row)
	return row.ID, nil
}

func (s *Storage) QueryAuditLog(ctx context.Context, c storage.Criterion) ([]*model.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := storage.Select(s.audit, c,
		func(e *model.AuditEntry) int64 { return int64(e.ID) },
		nil,
	)
	if err != nil {
		return nil, err
	}
	out := make([]*model.AuditEntry, len(rows))
	for i, e := range rows {
		row := *e
		out[i] = &row
	}
	return out, nil
}

func clonePlayers(rows []*model.Player) []*model.Player {
	out := make([]*model.Player, len(rows))
	for i, p := range rows {
		row := *p
		out[i] = &row
	}
	return out
}
