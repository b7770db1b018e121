package ranking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tourney/internal/dependencies/mocks"
	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/audit"
	"github.com/mcoot/tourney/internal/services/matches"
	"github.com/mcoot/tourney/internal/services/players"
	"github.com/mcoot/tourney/internal/storage/memory"
	"github.com/mcoot/tourney/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	players *players.Service
	matches *matches.Service
	service *Service
	ctx     context.Context

	ada, alan, grace model.PlayerID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	logger := testutil.NopLogger()
	auditService := audit.New(store, clk, logger)
	s.players = players.New(store, auditService, clk, s.random, logger)
	s.matches = matches.New(store, s.players, auditService, clk, s.random, logger)
	s.service = New(store, s.players, logger)
	s.ctx = context.Background()

	s.random.QueueIntRange(1000001, 1000002, 1000003)
	s.ada, _ = s.players.Register(s.ctx, "Ada Lovelace", "UK")
	s.alan, _ = s.players.Register(s.ctx, "Alan Turing", "UK")
	s.grace, _ = s.players.Register(s.ctx, "Grace Hopper", "USA")
}

// play resolves a match where player a wins
func (s *ServiceSuite) play(a, b model.PlayerID) {
	s.random.QueueIntn(0)
	_, err := s.matches.Resolve(s.ctx, a, b)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestRankNoMatches() {
	standings, err := s.service.Rank(s.ctx)
	s.Require().NoError(err)
	s.Empty(standings)
}

func (s *ServiceSuite) TestRankOrdersByWins() {
	s.play(s.grace, s.ada)
	s.play(s.grace, s.alan)
	s.play(s.ada, s.alan)

	standings, err := s.service.Rank(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.Standing{
		{Rank: 1, Code: "grac1000003", Name: "Grace Hopper", Wins: 2},
		{Rank: 2, Code: "ada 1000001", Name: "Ada Lovelace", Wins: 1},
	}, standings)
}

func (s *ServiceSuite) TestRankBreaksTiesByCode() {
	s.play(s.grace, s.ada)
	s.play(s.alan, s.ada)
	s.play(s.ada, s.grace)

	standings, err := s.service.Rank(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(standings, 3)
	s.Equal("ada 1000001", standings[0].Code)
	s.Equal("alan1000002", standings[1].Code)
	s.Equal("grac1000003", standings[2].Code)
	for i, st := range standings {
		s.Equal(i+1, st.Rank)
		s.Equal(1, st.Wins)
	}
}

func (s *ServiceSuite) TestRankKeepsDeletedWinners() {
	s.play(s.alan, s.ada)
	s.Require().NoError(s.players.Delete(s.ctx, s.alan))

	standings, err := s.service.Rank(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(standings, 1)
	s.Equal("alan1000002", standings[0].Code)
	s.Equal(model.DeletedPlayerName, standings[0].Name)
}

func (s *ServiceSuite) TestRankIsStable() {
	s.play(s.grace, s.ada)
	s.play(s.alan, s.ada)

	first, err := s.service.Rank(s.ctx)
	s.Require().NoError(err)
	for iter := 0; iter < 5; iter++ {
		again, err := s.service.Rank(s.ctx)
		s.Require().NoError(err)
		s.Equal(first, again)
	}
}
