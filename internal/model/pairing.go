package model

// Pair is two players matched against each other in one swiss round
type Pair struct {
	A Player `json:"a"`
	B Player `json:"b"`
}

// Pairing is the output of swiss pairing generation. It is a snapshot of the
// player set at generation time; rows may change before it is executed.
type Pairing struct {
	Pairs []Pair  `json:"pairs"`
	Bye   *Player `json:"bye,omitempty"`
}

// HasBye returns true if a player sits out this pairing
func (p *Pairing) HasBye() bool {
	return p.Bye != nil
}

// RoundResult is the outcome of executing one pair of a pairing
type RoundResult struct {
	Round      int    `json:"round"`
	Pair       Pair   `json:"pair"`
	WinnerCode string `json:"winner_code,omitempty"`
	Err        error  `json:"-"`
}

// Succeeded returns true if the round produced a match
func (r RoundResult) Succeeded() bool {
	return r.Err == nil
}
