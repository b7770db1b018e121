package audit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mcoot/tourney/internal/dependencies/clock"
	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

// Unbounded passed as a List limit returns the whole log
const Unbounded = 0

// Service appends to and reads the audit log
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  zerolog.Logger
}

// New creates a new audit service
func New(storage storage.Storage, clock clock.Clock, logger zerolog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With().Str("component", "audit").Logger(),
	}
}

// Append records one mutation. Entries are not validated.
func (s *Service) Append(ctx context.Context, entry string, action model.AuditAction, uniqueID int64) error {
	id, err := s.storage.AppendAuditEntry(ctx, &model.AuditEntry{
		Entry:     entry,
		Action:    action,
		UniqueID:  uniqueID,
		Timestamp: s.clock.Now(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("action", string(action)).Msg("failed to append audit entry")
		return fmt.Errorf("append audit entry: %w", err)
	}

	s.logger.Debug().
		Int64("audit_id", int64(id)).
		Str("action", string(action)).
		Int64("unique_id", uniqueID).
		Msg("audit entry appended")
	return nil
}

// List returns up to limit of the most recent entries, oldest first. A limit
// of Unbounded (or any non-positive value) returns the whole log.
func (s *Service) List(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	c := storage.All()
	if limit > 0 {
		c = storage.MostRecent(limit)
	}

	entries, err := s.storage.QueryAuditLog(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	return entries, nil
}

// Count returns the number of entries in the log
func (s *Service) Count(ctx context.Context) (int, error) {
	entries, err := s.List(ctx, Unbounded)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
