package redis

import "fmt"

// Key prefix for all tournament data
const keyPrefix = "tourney"

// Table names used in row, sequence and index keys
const (
	tablePlayers = "player"
	tableMatches = "match"
	tableAudit   = "audit"
)

// rowKey returns the Redis key holding the JSON encoding of one row
func rowKey(table string, id any) string {
	return fmt.Sprintf("%s:%s:%v", keyPrefix, table, id)
}

// sequenceKey returns the Redis key of the INCR counter that assigns ids for a table
func sequenceKey(table string) string {
	return fmt.Sprintf("%s:seq:%s", keyPrefix, table)
}

// idIndexKey returns the Redis key for the ZSET of row ids in a table, scored by id
func idIndexKey(table string) string {
	return fmt.Sprintf("%s:idx:%s", keyPrefix, table)
}

// codeIndexKey returns the Redis key for the player code -> player id index
func codeIndexKey(code string) string {
	return fmt.Sprintf("%s:idx:code:%s", keyPrefix, code)
}
