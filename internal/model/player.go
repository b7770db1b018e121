package model

import (
	"strconv"
	"strings"
	"time"
)

// PlayerID is the backend-assigned identifier of a player. IDs are positive
// and increase monotonically with insertion.
type PlayerID int64

// Player is a registered tournament participant
type Player struct {
	ID      PlayerID  `json:"id"`
	Name    string    `json:"name"`
	Country string    `json:"country"`
	Code    string    `json:"code"` // durable cross-reference key used by matches
	Created time.Time `json:"created_at"`
}

// DeletedPlayerName is displayed in place of a name when a code no longer
// resolves to a player
const DeletedPlayerName = "[PLAYER DELETED]"

// ParseID parses an operator-supplied id. Anything that is not a positive
// base-10 integer is rejected with a ValidationError.
func ParseID(field, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 || strings.HasPrefix(raw, "+") {
		return 0, NewValidationError(field, "id_format", "must be a positive whole number, got "+strconv.Quote(raw))
	}
	return id, nil
}

// ParsePlayerID parses a player id argument
func ParsePlayerID(raw string) (PlayerID, error) {
	id, err := ParseID("player id", raw)
	return PlayerID(id), err
}
