package storage

import (
	"context"
	"errors"

	"github.com/mcoot/tourney/internal/model"
)

// Storage is the contract the tournament engine needs from a backend.
//
// Every call is one atomic unit against the backend; no call spans entities.
// Query results are always in ascending id order (see Criterion). Updates and
// deletes of unknown ids return model.ErrPlayerNotFound or
// model.ErrMatchNotFound.
type Storage interface {
	// Player operations
	InsertPlayer(ctx context.Context, player *model.Player) (model.PlayerID, error)
	UpdatePlayer(ctx context.Context, id model.PlayerID, name, country string) error
	DeletePlayer(ctx context.Context, id model.PlayerID) error
	QueryPlayers(ctx context.Context, c Criterion) ([]*model.Player, error)

	// Match operations. ByCode selects matches won by that code.
	InsertMatch(ctx context.Context, match *model.Match) (model.MatchID, error)
	DeleteMatch(ctx context.Context, id model.MatchID) error
	QueryMatches(ctx context.Context, c Criterion) ([]*model.Match, error)

	// Audit log operations. The log has no update or delete.
	AppendAuditEntry(ctx context.Context, entry *model.AuditEntry) (model.AuditEntryID, error)
	QueryAuditLog(ctx context.Context, c Criterion) ([]*model.AuditEntry, error)

	Close() error
}

// ErrDuplicateCode is returned by InsertPlayer when another player already
// holds the code
var ErrDuplicateCode = errors.New("player code already in use")
