package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	valid := map[string]int64{"1": 1, "42": 42, " 7 ": 7, "9223372036854775807": 9223372036854775807}
	for raw, want := range valid {
		got, err := ParseID("player id", raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	for _, raw := range []string{"", "0", "-1", "+3", "1.5", "abc", "1e3", "9223372036854775808"} {
		_, err := ParseID("player id", raw)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, raw)
		assert.Equal(t, "id_format", verr.Rule)
		assert.Equal(t, "player id", verr.Field)
	}
}

func TestParseTypedIDs(t *testing.T) {
	pid, err := ParsePlayerID("3")
	require.NoError(t, err)
	assert.Equal(t, PlayerID(3), pid)

	mid, err := ParseMatchID("12")
	require.NoError(t, err)
	assert.Equal(t, MatchID(12), mid)

	_, err = ParseMatchID("x")
	assert.ErrorContains(t, err, "invalid match id")
}

func TestErrorCategories(t *testing.T) {
	verr := fmt.Errorf("wrapped: %w", NewValidationError("name", "name_digits", "name must not contain numbers"))
	assert.ErrorIs(t, verr, ErrValidation)
	assert.NotErrorIs(t, verr, ErrNotFound)
	assert.EqualError(t, verr, "wrapped: invalid name: name must not contain numbers")

	pnf := PlayerNotFound("ada 1000001")
	assert.ErrorIs(t, pnf, ErrNotFound)
	assert.ErrorIs(t, pnf, ErrPlayerNotFound)
	assert.NotErrorIs(t, pnf, ErrMatchNotFound)
	assert.EqualError(t, pnf, "player ada 1000001 not found")

	mnf := MatchNotFound(4)
	assert.ErrorIs(t, mnf, ErrMatchNotFound)
	assert.EqualError(t, mnf, "match 4 not found")

	var empty error = &EmptyPoolError{}
	assert.ErrorIs(t, empty, ErrEmptyPool)
	assert.False(t, errors.Is(empty, ErrValidation))
}

func TestMatchViewWinnerDeleted(t *testing.T) {
	assert.True(t, MatchView{WinnerName: DeletedPlayerName}.WinnerDeleted())
	assert.False(t, MatchView{WinnerName: "Ada Lovelace"}.WinnerDeleted())
}

func TestPairingHasBye(t *testing.T) {
	assert.False(t, (&Pairing{}).HasBye())
	assert.True(t, (&Pairing{Bye: &Player{ID: 3}}).HasBye())
	assert.True(t, RoundResult{}.Succeeded())
	assert.False(t, RoundResult{Err: errors.New("x")}.Succeeded())
}
