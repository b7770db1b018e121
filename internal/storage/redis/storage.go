package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
//
// Each row is a JSON string under rowKey. A per-table ZSET scored by id keeps
// rows in id order so range criteria map onto ZRANGE. Player codes are kept
// unique through a code -> id index guarded by WATCH.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) InsertPlayer(ctx context.Context, player *model.Player) (model.PlayerID, error) {
	var id int64
	txf := func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, codeIndexKey(player.Code)).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return storage.ErrDuplicateCode
		}

		id, err = tx.Incr(ctx, sequenceKey(tablePlayers)).Result()
		if err != nil {
			return err
		}

		row := *player
		row.ID = model.PlayerID(id)
		data, err := json.Marshal(&row)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, rowKey(tablePlayers, id), data, 0)
			pipe.Set(ctx, codeIndexKey(player.Code), id, 0)
			pipe.ZAdd(ctx, idIndexKey(tablePlayers), redis.Z{Score: float64(id), Member: id})
			return nil
		})
		return err
	}

	if err := s.watch(ctx, txf, codeIndexKey(player.Code)); err != nil {
		return 0, err
	}
	return model.PlayerID(id), nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, name, country string) error {
	key := rowKey(tablePlayers, id)
	txf := func(tx *redis.Tx) error {
		player, err := getRow[model.Player](ctx, tx, key)
		if err != nil {
			return err
		}
		if player == nil {
			return model.ErrPlayerNotFound
		}

		player.Name = name
		player.Country = country
		data, err := json.Marshal(player)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}
	return s.watch(ctx, txf, key)
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	key := rowKey(tablePlayers, id)
	txf := func(tx *redis.Tx) error {
		player, err := getRow[model.Player](ctx, tx, key)
		if err != nil {
			return err
		}
		if player == nil {
			return model.ErrPlayerNotFound
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key, codeIndexKey(player.Code))
			pipe.ZRem(ctx, idIndexKey(tablePlayers), int64(id))
			return nil
		})
		return err
	}
	return s.watch(ctx, txf, key)
}

func (s *Storage) QueryPlayers(ctx context.Context, c storage.Criterion) ([]*model.Player, error) {
	if c.Kind == storage.KindByCode {
		id, err := s.client.Get(ctx, codeIndexKey(c.Code)).Int64()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return []*model.Player{}, nil
			}
			return nil, err
		}
		c = storage.ByID(id)
	}
	return queryRows[model.Player](ctx, s.client, tablePlayers, c)
}

// Match operations

func (s *Storage) InsertMatch(ctx context.Context, match *model.Match) (model.MatchID, error) {
	id, err := s.client.Incr(ctx, sequenceKey(tableMatches)).Result()
	if err != nil {
		return 0, err
	}

	row := *match
	row.ID = model.MatchID(id)
	if err := s.insertRow(ctx, tableMatches, id, &row); err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	var deleted *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, rowKey(tableMatches, id))
		pipe.ZRem(ctx, idIndexKey(tableMatches), int64(id))
		return nil
	})
	if err != nil {
		return err
	}
	if deleted.Val() == 0 {
		return model.ErrMatchNotFound
	}
	return nil
}

func (s *Storage) QueryMatches(ctx context.Context, c storage.Criterion) ([]*model.Match, error) {
	if c.Kind != storage.KindByCode {
		return queryRows[model.Match](ctx, s.client, tableMatches, c)
	}

	// There is no winner index; filter the full table
	all, err := queryRows[model.Match](ctx, s.client, tableMatches, storage.All())
	if err != nil {
		return nil, err
	}
	return storage.Select(all, c,
		func(m *model.Match) int64 { return int64(m.ID) },
		func(m *model.Match) string { return m.WinnerCode },
	)
}

// Audit log operations

func (s *Storage) AppendAuditEntry(ctx context.Context, entry *model.AuditEntry) (model.AuditEntryID, error) {
	id, err := s.client.Incr(ctx, sequenceKey(tableAudit)).Result()
	if err != nil {
		return 0, err
	}

	row := *entry
	row.ID = model.AuditEntryID(id)
	if err := s.insertRow(ctx, tableAudit, id, &row); err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *Storage) QueryAuditLog(ctx context.Context, c storage.Criterion) ([]*model.AuditEntry, error) {
	if c.Kind == storage.KindByCode {
		return nil, fmt.Errorf("%w: audit log has no code column", storage.ErrUnsupportedCriterion)
	}
	return queryRows[model.AuditEntry](ctx, s.client, tableAudit, c)
}

// Helpers

// watch runs txf under WATCH on keys, retrying when a watched key changes
func (s *Storage) watch(ctx context.Context, txf func(*redis.Tx) error, keys ...string) error {
	attempts := max(s.cfg.MaxTxRetries, 1)
	for iter := 0; iter < attempts; iter++ {
		err := s.client.Watch(ctx, txf, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return redis.TxFailedErr
}

// insertRow writes a row and its id index entry in one MULTI block
func (s *Storage) insertRow(ctx context.Context, table string, id int64, row any) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, rowKey(table, id), data, 0)
		pipe.ZAdd(ctx, idIndexKey(table), redis.Z{Score: float64(id), Member: id})
		return nil
	})
	return err
}

// getter is the read side shared by *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// getRow loads one JSON row, returning nil if the key does not exist
func getRow[T any](ctx context.Context, c getter, key string) (*T, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var row T
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// queryRows resolves an id-based criterion against a table's ZSET index and
// loads the matching rows with MGET
func queryRows[T any](ctx context.Context, c redis.Cmdable, table string, crit storage.Criterion) ([]*T, error) {
	if err := crit.Validate(); err != nil {
		return nil, err
	}

	var ids []string
	switch crit.Kind {
	case storage.KindByID:
		ids = []string{strconv.FormatInt(crit.ID, 10)}
	case storage.KindAll, storage.KindMostRecent, storage.KindLimit:
		start, stop := int64(0), int64(-1)
		if crit.Kind == storage.KindLimit {
			stop = int64(crit.N) - 1
		} else if crit.Kind == storage.KindMostRecent {
			start = -int64(crit.N)
		}

		var err error
		ids, err = c.ZRange(ctx, idIndexKey(table), start, stop).Result()
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s on %s", storage.ErrUnsupportedCriterion, crit.Kind, table)
	}

	rows := make([]*T, 0, len(ids))
	if len(ids) == 0 {
		return rows, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = rowKey(table, id)
	}

	values, err := c.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		data, ok := v.(string)
		if !ok {
			// Missing key
			continue
		}
		var row T
		if err := json.Unmarshal([]byte(data), &row); err != nil {
			return nil, err
		}
		rows = append(rows, &row)
	}
	return rows, nil
}
