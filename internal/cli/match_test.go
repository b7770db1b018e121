package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

func TestMatchReport(t *testing.T) {
	h := newHarness(t)
	h.register("Ada Lovelace", "UK", 1000001)
	h.register("Alan Turing", "UK", 1000002)
	h.app.MockRandom.QueueIntn(1)

	require.Equal(t, ExitSuccess, h.run("match", "report", "1", "2"), h.stderr.String())
	assert.Equal(t, "Match 1: winner is Alan Turing (alan1000002)\n", h.stdout.String())
}

func TestMatchReportJSON(t *testing.T) {
	h := newHarness(t)
	h.register("Ada Lovelace", "UK", 1000001)
	h.register("Alan Turing", "UK", 1000002)

	require.Equal(t, ExitSuccess, h.run("--format", "json", "match", "report", "2", "1"))

	var resp struct {
		Status string          `json:"status"`
		Data   model.MatchView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, model.PlayerID(2), resp.Data.Player1ID)
	assert.Equal(t, "alan1000002", resp.Data.WinnerCode)
	assert.Equal(t, "Alan Turing", resp.Data.WinnerName)
}

func TestMatchReportErrors(t *testing.T) {
	h := newHarness(t)
	h.register("Ada Lovelace", "UK", 1000001)

	assert.Equal(t, ExitFailure, h.run("match", "report", "1", "1"))
	assert.Contains(t, h.stderr.String(), "cannot play against themselves")

	assert.Equal(t, ExitFailure, h.run("match", "report", "1", "5"))
	assert.Equal(t, "Error: player 5 not found\n", h.stderr.String())

	assert.Equal(t, ExitFailure, h.run("match", "report", "1", "two"))
	assert.Equal(t, ExitCommandError, h.run("match", "report", "1"))

	matches, err := h.app.Matches.List(context.Background(), storage.All())
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatchListAndLookup(t *testing.T) {
	h := newHarness(t)
	ada := h.register("Ada Lovelace", "UK", 1000001)
	alan := h.register("Alan Turing", "UK", 1000002)
	h.play(ada, alan, 0)
	h.play(ada, alan, 1)
	h.play(ada, alan, 0)

	matchIDs := func(args ...string) []model.MatchID {
		t.Helper()
		require.Equal(t, ExitSuccess, h.run(append([]string{"--format", "json", "match"}, args...)...), h.stderr.String())
		var resp struct {
			Data []model.MatchView `json:"data"`
		}
		require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &resp))
		ids := make([]model.MatchID, len(resp.Data))
		for i, v := range resp.Data {
			ids[i] = v.ID
		}
		return ids
	}

	assert.Equal(t, []model.MatchID{1, 2, 3}, matchIDs("list"))
	assert.Equal(t, []model.MatchID{2, 3}, matchIDs("list", "--latest", "2"))
	assert.Equal(t, []model.MatchID{1, 3}, matchIDs("list", "--winner", "ada 1000001"))

	require.Equal(t, ExitSuccess, h.run("match", "lookup", "2"))
	assert.Contains(t, h.stdout.String(), "Alan Turing")
	assert.Contains(t, h.stdout.String(), "2024-01-01 12:00:")

	require.Equal(t, ExitSuccess, h.run("--format", "json", "match", "latest"))
	assert.Contains(t, h.stdout.String(), `"id": 3`)

	assert.Equal(t, ExitFailure, h.run("match", "lookup", "9"))
	assert.Equal(t, ExitFailure, h.run("match", "list", "--latest", "0"))
}

func TestMatchListShowsDeletedWinner(t *testing.T) {
	h := newHarness(t)
	ada := h.register("Ada Lovelace", "UK", 1000001)
	alan := h.register("Alan Turing", "UK", 1000002)
	h.play(ada, alan, 0)
	require.NoError(t, h.app.Players.Delete(context.Background(), ada))

	require.Equal(t, ExitSuccess, h.run("match", "list"))
	assert.Contains(t, h.stdout.String(), model.DeletedPlayerName)
	assert.Contains(t, h.stdout.String(), "ada 1000001")
	assert.Contains(t, h.stdout.String(), "Returned 1 results in 0.00 seconds")
}

func TestMatchDelete(t *testing.T) {
	h := newHarness(t)
	ada := h.register("Ada Lovelace", "UK", 1000001)
	alan := h.register("Alan Turing", "UK", 1000002)
	h.play(ada, alan, 0)

	require.Equal(t, ExitSuccess, h.run("match", "delete", "1"))
	assert.Equal(t, "Deleted match 1\n", h.stdout.String())

	assert.Equal(t, ExitFailure, h.run("--format", "json", "match", "delete", "1"))
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error.Code)
	assert.Equal(t, "match 1 not found", resp.Error.Message)
}

func TestMatchLatestEmpty(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ExitFailure, h.run("match", "latest"))
}
