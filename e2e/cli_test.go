package e2e_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// cliRunner manages tourney binary execution against one SQLite file
type cliRunner struct {
	binaryPath string
	dbPath     string
	workDir    string
}

func newCLIRunner(t *testing.T) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "tourney-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/tourney")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	workDir := t.TempDir()
	return &cliRunner{
		binaryPath: binaryPath,
		dbPath:     filepath.Join(workDir, "tourney.db"),
		workDir:    workDir,
	}
}

type result struct {
	stdout   string
	stderr   string
	exitCode int
}

func (r *cliRunner) runWithInput(stdin string, args ...string) result {
	fullArgs := append([]string{
		"--storage", "sqlite",
		"--db", r.dbPath,
		"--format", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	// Run outside the project so no .env is picked up
	cmd.Dir = r.workDir
	cmd.Env = append(os.Environ(), "TOURNEY_LOG_LEVEL=warn")
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code := 0
	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			panic(err)
		}
		code = exitErr.ExitCode()
	}
	return result{stdout: stdout.String(), stderr: stderr.String(), exitCode: code}
}

func (r *cliRunner) run(args ...string) result {
	return r.runWithInput("", args...)
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// envelope is the JSON response shape printed by every command
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Rule    string `json:"rule"`
	} `json:"error"`
}

func decode(t *testing.T, res result) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &env), "stdout: %s\nstderr: %s", res.stdout, res.stderr)
	return env
}

type player struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type CLISuite struct {
	suite.Suite
	cli *cliRunner
}

func TestCLISuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.cli = newCLIRunner(s.T())
}

func (s *CLISuite) register(name, country string) player {
	res := s.cli.run("player", "register", name, "--country", country)
	s.Require().Equal(0, res.exitCode, res.stderr)

	var p player
	s.Require().NoError(json.Unmarshal(decode(s.T(), res).Data, &p))
	return p
}

// Test: state persists across separate process invocations
func (s *CLISuite) TestTournamentAcrossProcesses() {
	ada := s.register("Ada Lovelace", "UK")
	alan := s.register("Alan Turing", "UK")
	grace := s.register("Grace Hopper", "US")

	s.Equal(int64(1), ada.ID)
	s.True(strings.HasPrefix(ada.Code, "ada "))
	s.Len(ada.Code, 11)

	// Swiss round: Grace gets the bye, Ada plays Alan
	res := s.cli.run("swiss", "--yes")
	s.Require().Equal(0, res.exitCode, res.stderr)

	var swiss struct {
		Pairing struct {
			Bye *player `json:"bye"`
		} `json:"pairing"`
		Rounds []struct {
			WinnerCode string `json:"winner_code"`
		} `json:"rounds"`
	}
	s.Require().NoError(json.Unmarshal(decode(s.T(), res).Data, &swiss))
	s.Require().NotNil(swiss.Pairing.Bye)
	s.Equal(grace.ID, swiss.Pairing.Bye.ID)
	s.Require().Len(swiss.Rounds, 1)
	s.Contains([]string{ada.Code, alan.Code}, swiss.Rounds[0].WinnerCode)

	// Rank shows the single winner
	res = s.cli.run("rank")
	s.Require().Equal(0, res.exitCode, res.stderr)
	var standings []struct {
		Rank int    `json:"rank"`
		Code string `json:"code"`
		Wins int    `json:"wins"`
	}
	s.Require().NoError(json.Unmarshal(decode(s.T(), res).Data, &standings))
	s.Require().Len(standings, 1)
	s.Equal(swiss.Rounds[0].WinnerCode, standings[0].Code)
	s.Equal(1, standings[0].Wins)

	// Audit log has three registrations and one match
	res = s.cli.run("audit", "--all")
	s.Require().Equal(0, res.exitCode, res.stderr)
	var entries []struct {
		Action string `json:"action"`
	}
	s.Require().NoError(json.Unmarshal(decode(s.T(), res).Data, &entries))
	s.Len(entries, 4)
	s.Equal("match.create", entries[3].Action)
}

func (s *CLISuite) TestExitCodes() {
	res := s.cli.run("player", "register", "Ada99", "--country", "UK")
	s.Equal(1, res.exitCode)
	env := decode(s.T(), res)
	s.Equal("error", env.Status)
	s.Equal("validation_error", env.Error.Code)

	res = s.cli.run("match", "lookup", "7")
	s.Equal(1, res.exitCode)
	s.Equal("not_found", decode(s.T(), res).Error.Code)

	res = s.cli.run("swiss", "--yes")
	s.Equal(1, res.exitCode)
	s.Equal("empty_pool", decode(s.T(), res).Error.Code)

	res = s.cli.run("player", "list", "--nope")
	s.Equal(2, res.exitCode)
}

func (s *CLISuite) TestSwissPromptReadsStdin() {
	s.register("Ada Lovelace", "UK")
	s.register("Alan Turing", "UK")

	res := s.cli.runWithInput("n\n", "swiss")
	s.Require().Equal(0, res.exitCode, res.stderr)
	s.Contains(res.stderr, "[Y/n]")

	res = s.cli.run("match", "list")
	var matches []json.RawMessage
	s.Require().NoError(json.Unmarshal(decode(s.T(), res).Data, &matches))
	s.Empty(matches)
}

func TestTextOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	cli := newCLIRunner(t)

	res := cli.run("player", "register", "Ada Lovelace", "--country", "UK")
	require.Equal(t, 0, res.exitCode, res.stderr)

	cmd := exec.Command(cli.binaryPath, "--storage", "sqlite", "--db", cli.dbPath, "player", "list")
	cmd.Dir = cli.workDir
	out, err := cmd.Output()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "#  ID  NAME"))
	assert.Contains(t, lines[1], "Ada Lovelace")
	assert.Regexp(t, `^Returned 1 results in \d+\.\d{2} seconds$`, lines[2])
}
