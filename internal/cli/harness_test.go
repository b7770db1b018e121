package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sebdah/goldie/v2"

	"github.com/mcoot/tourney/internal/dependencies/mocks"
	"github.com/mcoot/tourney/internal/factory"
	"github.com/mcoot/tourney/internal/model"
)

// cliHarness runs commands against one in-memory app so state carries across
// invocations
type cliHarness struct {
	t      *testing.T
	app    *factory.TestApp
	clock  *mocks.MockClock
	stdin  string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *cliHarness {
	t.Helper()
	return &cliHarness{
		t:     t,
		app:   factory.NewTestApp(),
		clock: mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
	}
}

// run executes one command and returns its exit code. Output from earlier
// runs is discarded.
func (h *cliHarness) run(args ...string) int {
	h.t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()

	return Run(context.Background(), args, Options{
		In:  strings.NewReader(h.stdin),
		Out: &h.stdout,
		Err: &h.stderr,
		NewApp: func(ctx context.Context, opts *RootOptions, logger zerolog.Logger) (*factory.App, error) {
			return h.app.App, nil
		},
		Clock: h.clock,
	})
}

// register adds a player directly through the registry
func (h *cliHarness) register(name, country string, suffix int) model.PlayerID {
	h.t.Helper()
	h.app.MockRandom.QueueIntRange(suffix)
	id, err := h.app.Players.Register(context.Background(), name, country)
	if err != nil {
		h.t.Fatalf("register %s: %v", name, err)
	}
	return id
}

// play records a match with a fixed outcome; winner is 0 for p1 and 1 for p2
func (h *cliHarness) play(p1, p2 model.PlayerID, winner int) {
	h.t.Helper()
	h.app.MockRandom.QueueIntn(winner)
	if _, err := h.app.Matches.Resolve(context.Background(), p1, p2); err != nil {
		h.t.Fatalf("resolve match: %v", err)
	}
}

func (h *cliHarness) assertGolden(name string) {
	h.t.Helper()
	g := goldie.New(h.t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(h.t, name, h.stdout.Bytes())
}
