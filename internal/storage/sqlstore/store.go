package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// Storage is a database/sql implementation of the storage interface
type Storage struct {
	db      *sql.DB
	dialect Dialect
	logger  zerolog.Logger
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB
func (s *Storage) DB() *sql.DB {
	return s.db
}

// table describes how a criterion maps onto one table
type table struct {
	name       string
	columns    string
	codeColumn string // empty if the table cannot be queried by code
}

var (
	playersTable = table{
		name:       "players",
		columns:    "id, name, country, code, created_at",
		codeColumn: "code",
	}
	matchesTable = table{
		name:       "matches",
		columns:    "id, player_1_id, player_2_id, winner_code, played_at",
		codeColumn: "winner_code",
	}
	auditTable = table{
		name:    "audit_log",
		columns: "id, entry, action, unique_id, created_at",
	}
)

// Player operations

func (s *Storage) InsertPlayer(ctx context.Context, player *model.Player) (model.PlayerID, error) {
	id, err := s.insert(ctx,
		`INSERT INTO players (name, country, code, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		player.Name, player.Country, player.Code, player.Created.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, storage.ErrDuplicateCode
		}
		return 0, fmt.Errorf("failed to insert player: %w", err)
	}
	return model.PlayerID(id), nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, name, country string) error {
	n, err := s.exec(ctx, `UPDATE players SET name = ?, country = ? WHERE id = ?`, name, country, int64(id))
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	n, err := s.exec(ctx, `DELETE FROM players WHERE id = ?`, int64(id))
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

func (s *Storage) QueryPlayers(ctx context.Context, c storage.Criterion) ([]*model.Player, error) {
	rows, err := s.query(ctx, playersTable, c)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Player{}
	for rows.Next() {
		var p model.Player
		var id int64
		if err := rows.Scan(&id, &p.Name, &p.Country, &p.Code, &p.Created); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		p.ID = model.PlayerID(id)
		p.Created = p.Created.UTC()
		out = append(out, &p)
	}
	return ascending(out, c), rows.Err()
}

// Match operations

func (s *Storage) InsertMatch(ctx context.Context, match *model.Match) (model.MatchID, error) {
	id, err := s.insert(ctx,
		`INSERT INTO matches (player_1_id, player_2_id, winner_code, played_at) VALUES (?, ?, ?, ?) RETURNING id`,
		int64(match.Player1ID), int64(match.Player2ID), match.WinnerCode, match.PlayedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert match: %w", err)
	}
	return model.MatchID(id), nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	n, err := s.exec(ctx, `DELETE FROM matches WHERE id = ?`, int64(id))
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	if n == 0 {
		return model.ErrMatchNotFound
	}
	return nil
}

func (s *Storage) QueryMatches(ctx context.Context, c storage.Criterion) ([]*model.Match, error) {
	rows, err := s.query(ctx, matchesTable, c)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Match{}
	for rows.Next() {
		var m model.Match
		var id, p1, p2 int64
		if err := rows.Scan(&id, &p1, &p2, &m.WinnerCode, &m.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		m.ID = model.MatchID(id)
		m.Player1ID = model.PlayerID(p1)
		m.Player2ID = model.PlayerID(p2)
		m.PlayedAt = m.PlayedAt.UTC()
		out = append(out, &m)
	}
	return ascending(out, c), rows.Err()
}

// Audit log operations

func (s *Storage) AppendAuditEntry(ctx context.Context, entry *model.AuditEntry) (model.AuditEntryID, error) {
	id, err := s.insert(ctx,
		`INSERT INTO audit_log (entry, action, unique_id, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		entry.Entry, string(entry.Action), entry.UniqueID, entry.Timestamp.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append audit entry: %w", err)
	}
	return model.AuditEntryID(id), nil
}

func (s *Storage) QueryAuditLog(ctx context.Context, c storage.Criterion) ([]*model.AuditEntry, error) {
	rows, err := s.query(ctx, auditTable, c)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.AuditEntry{}
	for rows.Next() {
		var e model.AuditEntry
		var id int64
		var action string
		var ts time.Time
		if err := rows.Scan(&id, &e.Entry, &action, &e.UniqueID, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.ID = model.AuditEntryID(id)
		e.Action = model.AuditAction(action)
		e.Timestamp = ts.UTC()
		out = append(out, &e)
	}
	return ascending(out, c), rows.Err()
}

// Helpers

func (s *Storage) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, s.rebind(query), args...).Scan(&id)
	return id, err
}

func (s *Storage) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Storage) query(ctx context.Context, t table, c storage.Criterion) (*sql.Rows, error) {
	query, args, err := buildQuery(t, c)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("table", t.name).Stringer("criterion", c).Msg("query")

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.name, err)
	}
	return rows, nil
}

// buildQuery renders a criterion as a SELECT ordered by id
func buildQuery(t table, c storage.Criterion) (string, []any, error) {
	if err := c.Validate(); err != nil {
		return "", nil, err
	}

	base := fmt.Sprintf("SELECT %s FROM %s", t.columns, t.name)
	switch c.Kind {
	case storage.KindAll:
		return base + " ORDER BY id", nil, nil
	case storage.KindByID:
		return base + " WHERE id = ?", []any{c.ID}, nil
	case storage.KindByCode:
		if t.codeColumn == "" {
			return "", nil, fmt.Errorf("%w: %s has no code column", storage.ErrUnsupportedCriterion, t.name)
		}
		return fmt.Sprintf("%s WHERE %s = ? ORDER BY id", base, t.codeColumn), []any{c.Code}, nil
	case storage.KindLimit:
		return base + " ORDER BY id LIMIT ?", []any{c.N}, nil
	case storage.KindMostRecent:
		// Callers reverse the rows back into ascending order
		return base + " ORDER BY id DESC LIMIT ?", []any{c.N}, nil
	}
	return "", nil, fmt.Errorf("%w: %s", storage.ErrUnsupportedCriterion, c.Kind)
}

// ascending restores id order for MostRecent results, which are fetched newest first
func ascending[T any](rows []T, c storage.Criterion) []T {
	if c.Kind == storage.KindMostRecent {
		slices.Reverse(rows)
	}
	return rows
}

// rebind rewrites ? placeholders to $n for PostgreSQL. Queries here never
// contain a literal question mark.
func (s *Storage) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
