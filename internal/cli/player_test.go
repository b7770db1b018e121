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

func TestPlayerRegisterJSON(t *testing.T) {
	h := newHarness(t)
	h.app.MockRandom.QueueIntRange(1000001)

	code := h.run("--format", "json", "player", "register", "Ada Lovelace", "--country", "UK")
	require.Equal(t, ExitSuccess, code, h.stderr.String())
	h.assertGolden("player_register")
}

func TestPlayerRegisterPromptsForCountry(t *testing.T) {
	h := newHarness(t)
	h.stdin = "Norway\n"

	code := h.run("player", "register", "Ada Lovelace")
	require.Equal(t, ExitSuccess, code, h.stderr.String())
	assert.Contains(t, h.stderr.String(), "Country of Origin: ")
	assert.Contains(t, h.stdout.String(), "Registered Ada Lovelace from Norway as player 1")

	p, err := h.app.Players.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Norway", p.Country)
}

func TestPlayerRegisterInvalidNameSkipsPrompt(t *testing.T) {
	h := newHarness(t)
	h.stdin = "Norway\n"

	code := h.run("--format", "json", "player", "register", "Ada 99 Lovelace")
	assert.Equal(t, ExitFailure, code)
	assert.NotContains(t, h.stderr.String(), "Country of Origin")
	h.assertGolden("player_register_invalid")
}

func TestPlayerRegisterEmptyCountry(t *testing.T) {
	h := newHarness(t)
	h.stdin = "\n"

	code := h.run("--format", "json", "player", "register", "Ada Lovelace")
	assert.Equal(t, ExitFailure, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "country_required", resp.Error.Rule)
}

func TestPlayerEdit(t *testing.T) {
	h := newHarness(t)
	id := h.register("Ada Lovelace", "UK", 1000001)

	code := h.run("player", "edit", "1", "--name", "Ada King", "--country", "England")
	require.Equal(t, ExitSuccess, code, h.stderr.String())
	assert.Equal(t, "Updated player 1: Ada King from England\n", h.stdout.String())

	p, err := h.app.Players.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "ada 1000001", p.Code)
}

func TestPlayerEditUnknown(t *testing.T) {
	h := newHarness(t)

	code := h.run("player", "edit", "9", "--name", "Ada King", "--country", "England")
	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, "Error: player 9 not found\n", h.stderr.String())
}

func TestPlayerDelete(t *testing.T) {
	h := newHarness(t)
	h.register("Ada Lovelace", "UK", 1000001)

	require.Equal(t, ExitSuccess, h.run("player", "delete", "1"))
	assert.Equal(t, "Deleted player 1\n", h.stdout.String())

	assert.Equal(t, ExitFailure, h.run("player", "delete", "1"))
}

func TestPlayerIDArguments(t *testing.T) {
	h := newHarness(t)

	for _, raw := range []string{"abc", "0", "-4", "1.5"} {
		t.Run(raw, func(t *testing.T) {
			code := h.run("--format", "json", "player", "delete", "--", raw)
			assert.Equal(t, ExitFailure, code)

			var resp CLIResponse
			require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &resp))
			assert.Equal(t, "id_format", resp.Error.Rule)
		})
	}
}

func TestPlayerListText(t *testing.T) {
	h := newHarness(t)
	h.register("Ada Lovelace", "UK", 1000001)
	h.register("Alan Turing", "UK", 1000002)

	require.Equal(t, ExitSuccess, h.run("player", "list"))
	h.assertGolden("player_list")
}

func TestPlayerListCriteria(t *testing.T) {
	h := newHarness(t)
	h.register("Ada Lovelace", "UK", 1000001)
	h.register("Alan Turing", "UK", 1000002)
	h.register("Grace Hopper", "US", 1000003)

	tests := []struct {
		name string
		args []string
		want []model.PlayerID
	}{
		{"all", nil, []model.PlayerID{1, 2, 3}},
		{"by id", []string{"--id", "2"}, []model.PlayerID{2}},
		{"by code", []string{"--code", "grac1000003"}, []model.PlayerID{3}},
		{"limit", []string{"--limit", "2"}, []model.PlayerID{1, 2}},
		{"unknown code", []string{"--code", "nope1234567"}, []model.PlayerID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--format", "json", "player", "list"}, tt.args...)
			require.Equal(t, ExitSuccess, h.run(args...), h.stderr.String())

			var resp struct {
				Data []model.Player `json:"data"`
			}
			require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &resp))
			ids := make([]model.PlayerID, len(resp.Data))
			for i, p := range resp.Data {
				ids[i] = p.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestPlayerListRejectsBadLimit(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ExitFailure, h.run("player", "list", "--limit", "0"))
	assert.Equal(t, ExitCommandError, h.run("player", "list", "--id", "1", "--code", "x"))
}

func TestPlayerListEmptyText(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, ExitSuccess, h.run("player", "list"))
	assert.Contains(t, h.stdout.String(), "Returned 0 results in 0.00 seconds\n")

	players, err := h.app.Players.List(context.Background(), storage.All())
	require.NoError(t, err)
	assert.Empty(t, players)
}
