package model

import "time"

// MatchID is the backend-assigned identifier of a match
type MatchID int64

// Match is the immutable record of one resolved one-on-one match
type Match struct {
	ID         MatchID   `json:"id"`
	Player1ID  PlayerID  `json:"player_1_id"`
	Player2ID  PlayerID  `json:"player_2_id"`
	WinnerCode string    `json:"winner_code"`
	PlayedAt   time.Time `json:"played_at"`
}

// MatchView is a match joined with the winner's current display name
type MatchView struct {
	Match
	WinnerName string `json:"winner_name"`
}

// WinnerDeleted reports whether the winner no longer exists
func (v MatchView) WinnerDeleted() bool {
	return v.WinnerName == DeletedPlayerName
}

// ParseMatchID parses a match id argument
func ParseMatchID(raw string) (MatchID, error) {
	id, err := ParseID("match id", raw)
	return MatchID(id), err
}

// Standing is one row of the win ranking
type Standing struct {
	Rank int    `json:"rank"`
	Code string `json:"code"`
	Name string `json:"name"`
	Wins int    `json:"wins"`
}
