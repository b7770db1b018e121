// Package storagetest holds the conformance suite every storage backend runs.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

// Suite exercises the storage contract. Backends embed it in their own test
// and supply NewStorage, which must return an empty store.
type Suite struct {
	suite.Suite
	NewStorage func(t *testing.T) storage.Storage

	store storage.Storage
	ctx   context.Context
	now   time.Time
}

func (s *Suite) SetupTest() {
	s.store = s.NewStorage(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// Store returns the store under test
func (s *Suite) Store() storage.Storage {
	return s.store
}

func (s *Suite) insertPlayer(name, code string) model.PlayerID {
	id, err := s.store.InsertPlayer(s.ctx, &model.Player{
		Name:    name,
		Country: "Nowhere",
		Code:    code,
		Created: s.now,
	})
	s.Require().NoError(err)
	return id
}

func (s *Suite) insertMatch(p1, p2 model.PlayerID, winner string) model.MatchID {
	id, err := s.store.InsertMatch(s.ctx, &model.Match{
		Player1ID:  p1,
		Player2ID:  p2,
		WinnerCode: winner,
		PlayedAt:   s.now,
	})
	s.Require().NoError(err)
	return id
}

func (s *Suite) appendAudit(entry string, uniqueID int64) model.AuditEntryID {
	id, err := s.store.AppendAuditEntry(s.ctx, &model.AuditEntry{
		Entry:     entry,
		Action:    model.ActionPlayerCreate,
		UniqueID:  uniqueID,
		Timestamp: s.now,
	})
	s.Require().NoError(err)
	return id
}

// Player tests

func (s *Suite) TestInsertPlayerAssignsIncreasingIDs() {
	first := s.insertPlayer("Ada Lovelace", "ada 1000001")
	second := s.insertPlayer("Alan Turing", "alan1000002")

	s.Positive(int64(first))
	s.Greater(int64(second), int64(first))
}

func (s *Suite) TestQueryPlayersAllInIDOrder() {
	s.insertPlayer("Ada Lovelace", "ada 1000001")
	s.insertPlayer("Alan Turing", "alan1000002")
	s.insertPlayer("Grace Hopper", "grac1000003")

	players, err := s.store.QueryPlayers(s.ctx, storage.All())
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("Ada Lovelace", players[0].Name)
	s.Equal("Alan Turing", players[1].Name)
	s.Equal("Grace Hopper", players[2].Name)
	s.Equal("Nowhere", players[0].Country)
	s.True(s.now.Equal(players[0].Created), "created_at should round-trip")
}

func (s *Suite) TestQueryPlayerByIDAndCode() {
	s.insertPlayer("Ada Lovelace", "ada 1000001")
	id := s.insertPlayer("Alan Turing", "alan1000002")

	byID, err := s.store.QueryPlayers(s.ctx, storage.ByID(int64(id)))
	s.Require().NoError(err)
	s.Require().Len(byID, 1)
	s.Equal("alan1000002", byID[0].Code)

	byCode, err := s.store.QueryPlayers(s.ctx, storage.ByCode("alan1000002"))
	s.Require().NoError(err)
	s.Require().Len(byCode, 1)
	s.Equal(id, byCode[0].ID)
}

func (s *Suite) TestQueryPlayersNoMatchIsEmpty() {
	s.insertPlayer("Ada Lovelace", "ada 1000001")

	players, err := s.store.QueryPlayers(s.ctx, storage.ByID(999))
	s.Require().NoError(err)
	s.Empty(players)

	players, err = s.store.QueryPlayers(s.ctx, storage.ByCode("nobody"))
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *Suite) TestQueryPlayersLimit() {
	s.insertPlayer("Ada Lovelace", "ada 1000001")
	s.insertPlayer("Alan Turing", "alan1000002")
	s.insertPlayer("Grace Hopper", "grac1000003")

	players, err := s.store.QueryPlayers(s.ctx, storage.Limit(2))
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal("Ada Lovelace", players[0].Name)
	s.Equal("Alan Turing", players[1].Name)
}

func (s *Suite) TestInsertPlayerDuplicateCode() {
	s.insertPlayer("Ada Lovelace", "ada 1000001")

	_, err := s.store.InsertPlayer(s.ctx, &model.Player{
		Name: "Ada Byron", Country: "UK", Code: "ada 1000001", Created: s.now,
	})
	s.ErrorIs(err, storage.ErrDuplicateCode)
}

func (s *Suite) TestUpdatePlayer() {
	id := s.insertPlayer("Ada Lovelace", "ada 1000001")

	err := s.store.UpdatePlayer(s.ctx, id, "Ada Byron", "England")
	s.Require().NoError(err)

	players, err := s.store.QueryPlayers(s.ctx, storage.ByID(int64(id)))
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal("Ada Byron", players[0].Name)
	s.Equal("England", players[0].Country)
	s.Equal("ada 1000001", players[0].Code)
}

func (s *Suite) TestUpdatePlayerNotFound() {
	err := s.store.UpdatePlayer(s.ctx, 42, "Nobody Here", "Nowhere")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestDeletePlayer() {
	id := s.insertPlayer("Ada Lovelace", "ada 1000001")

	s.Require().NoError(s.store.DeletePlayer(s.ctx, id))

	players, err := s.store.QueryPlayers(s.ctx, storage.All())
	s.Require().NoError(err)
	s.Empty(players)

	byCode, err := s.store.QueryPlayers(s.ctx, storage.ByCode("ada 1000001"))
	s.Require().NoError(err)
	s.Empty(byCode)
}

func (s *Suite) TestDeletePlayerNotFound() {
	err := s.store.DeletePlayer(s.ctx, 42)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestPlayerIDsAreNotReused() {
	id := s.insertPlayer("Ada Lovelace", "ada 1000001")
	s.Require().NoError(s.store.DeletePlayer(s.ctx, id))

	next := s.insertPlayer("Alan Turing", "alan1000002")
	s.Greater(int64(next), int64(id))
}

// Match tests

func (s *Suite) TestInsertAndQueryMatch() {
	id := s.insertMatch(1, 2, "ada 1000001")

	matches, err := s.store.QueryMatches(s.ctx, storage.ByID(int64(id)))
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(model.PlayerID(1), matches[0].Player1ID)
	s.Equal(model.PlayerID(2), matches[0].Player2ID)
	s.Equal("ada 1000001", matches[0].WinnerCode)
	s.True(s.now.Equal(matches[0].PlayedAt), "played_at should round-trip")
}

func (s *Suite) TestQueryMatchesMostRecent() {
	s.insertMatch(1, 2, "a")
	second := s.insertMatch(1, 3, "b")
	third := s.insertMatch(2, 3, "c")

	matches, err := s.store.QueryMatches(s.ctx, storage.MostRecent(2))
	s.Require().NoError(err)
	s.Require().Len(matches, 2)
	s.Equal(second, matches[0].ID)
	s.Equal(third, matches[1].ID)

	latest, err := s.store.QueryMatches(s.ctx, storage.MostRecent(1))
	s.Require().NoError(err)
	s.Require().Len(latest, 1)
	s.Equal(third, latest[0].ID)
}

func (s *Suite) TestQueryMatchesByWinnerCode() {
	s.insertMatch(1, 2, "a")
	s.insertMatch(1, 3, "b")
	s.insertMatch(2, 1, "a")

	matches, err := s.store.QueryMatches(s.ctx, storage.ByCode("a"))
	s.Require().NoError(err)
	s.Len(matches, 2)
	for _, m := range matches {
		s.Equal("a", m.WinnerCode)
	}
}

func (s *Suite) TestDeleteMatch() {
	id := s.insertMatch(1, 2, "a")
	s.Require().NoError(s.store.DeleteMatch(s.ctx, id))

	matches, err := s.store.QueryMatches(s.ctx, storage.All())
	s.Require().NoError(err)
	s.Empty(matches)
}

func (s *Suite) TestDeleteMatchNotFound() {
	err := s.store.DeleteMatch(s.ctx, 42)
	s.ErrorIs(err, model.ErrMatchNotFound)
}

// Audit log tests

func (s *Suite) TestAuditLogKeepsInsertionOrder() {
	s.appendAudit("first", 1)
	s.appendAudit("second", 2)
	s.appendAudit("third", 3)

	entries, err := s.store.QueryAuditLog(s.ctx, storage.All())
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("first", entries[0].Entry)
	s.Equal("third", entries[2].Entry)
	s.Equal(model.ActionPlayerCreate, entries[0].Action)
	s.Equal(int64(2), entries[1].UniqueID)
	s.True(s.now.Equal(entries[0].Timestamp), "timestamp should round-trip")
}

func (s *Suite) TestAuditLogMostRecentIsOldestFirst() {
	s.appendAudit("first", 1)
	s.appendAudit("second", 2)
	s.appendAudit("third", 3)

	entries, err := s.store.QueryAuditLog(s.ctx, storage.MostRecent(2))
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("second", entries[0].Entry)
	s.Equal("third", entries[1].Entry)
}

func (s *Suite) TestAuditLogLimit() {
	s.appendAudit("first", 1)
	s.appendAudit("second", 2)

	entries, err := s.store.QueryAuditLog(s.ctx, storage.Limit(1))
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("first", entries[0].Entry)
}

func (s *Suite) TestAuditLogByCodeUnsupported() {
	_, err := s.store.QueryAuditLog(s.ctx, storage.ByCode("x"))
	s.ErrorIs(err, storage.ErrUnsupportedCriterion)
}

func (s *Suite) TestNonPositiveCountRejected() {
	_, err := s.store.QueryMatches(s.ctx, storage.MostRecent(0))
	s.ErrorIs(err, storage.ErrUnsupportedCriterion)

	_, err = s.store.QueryPlayers(s.ctx, storage.Limit(-1))
	s.ErrorIs(err, storage.ErrUnsupportedCriterion)
}
