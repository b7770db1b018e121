package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mcoot/tourney/internal/model"
)

// swissRound is the JSON shape of one executed round
type swissRound struct {
	Round      int        `json:"round"`
	Pair       model.Pair `json:"pair"`
	WinnerCode string     `json:"winner_code,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// swissResult is the JSON payload of the swiss command
type swissResult struct {
	Pairing  *model.Pairing `json:"pairing"`
	Executed bool           `json:"executed"`
	Rounds   []swissRound   `json:"rounds,omitempty"`
}

func newSwissCmd(rt *runtime) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "swiss",
		Short: "Pair every player and play one round",
		Long: `Generate a swiss pairing over all registered players and, once confirmed,
play every pair through the match ledger. With an odd number of players the
highest id sits out. A round that fails is reported and the rest still run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pairing, err := rt.app.Swiss.Generate(cmd.Context())
			if err != nil {
				return err
			}

			if !rt.out.JSON() {
				printPairing(rt.out.Writer, pairing)
			}

			if !yes {
				ok, err := rt.confirm("Run these matches?")
				if err != nil {
					return err
				}
				if !ok {
					rt.logger.Debug().Msg("swiss pairing not confirmed")
					return rt.out.Success(swissResult{Pairing: pairing}, func(w io.Writer) {
						fmt.Fprintln(w, "Aborted")
					})
				}
			}

			results, execErr := rt.app.Swiss.Execute(cmd.Context(), pairing)
			payload := swissResult{Pairing: pairing, Executed: true, Rounds: swissRounds(results)}

			if execErr != nil {
				if !rt.out.JSON() {
					printRounds(rt.out.Writer, results)
				}
				return &ExitError{
					Code:    ExitFailure,
					Message: "swiss round failed",
					Err:     execErr,
					Details: payload,
				}
			}

			return rt.out.Success(payload, func(w io.Writer) {
				printRounds(w, results)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Run the pairing without asking")

	return cmd
}

func swissRounds(results []model.RoundResult) []swissRound {
	rounds := make([]swissRound, len(results))
	for i, r := range results {
		rounds[i] = swissRound{Round: r.Round, Pair: r.Pair, WinnerCode: r.WinnerCode}
		if r.Err != nil {
			rounds[i].Error = r.Err.Error()
		}
	}
	return rounds
}

func printPairing(w io.Writer, pairing *model.Pairing) {
	t := NewTable(w, "ROUND", "PLAYER", "", "OPPONENT")
	for i, p := range pairing.Pairs {
		t.Row(i+1, fmt.Sprintf("%s (%d)", p.A.Name, p.A.ID), "vs", fmt.Sprintf("%s (%d)", p.B.Name, p.B.ID))
	}
	t.Flush()
	if pairing.HasBye() {
		fmt.Fprintf(w, "Bye: %s (%d)\n", pairing.Bye.Name, pairing.Bye.ID)
	}
}

func printRounds(w io.Writer, results []model.RoundResult) {
	t := NewTable(w, "ROUND", "RESULT")
	for _, r := range results {
		if r.Succeeded() {
			t.Row(r.Round, "winner "+r.WinnerCode)
		} else {
			t.Row(r.Round, "failed: "+r.Err.Error())
		}
	}
	t.Flush()
}
