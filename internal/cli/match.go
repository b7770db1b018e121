package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

func newMatchCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match ledger commands",
	}

	cmd.AddCommand(newMatchReportCmd(rt))
	cmd.AddCommand(newMatchDeleteCmd(rt))
	cmd.AddCommand(newMatchListCmd(rt))
	cmd.AddCommand(newMatchLookupCmd(rt))
	cmd.AddCommand(newMatchLatestCmd(rt))

	return cmd
}

func newMatchReportCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "report PLAYER1_ID PLAYER2_ID",
		Short: "Play a match between two players; the winner is chosen at random",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p1, err := model.ParsePlayerID(args[0])
			if err != nil {
				return err
			}
			p2, err := model.ParsePlayerID(args[1])
			if err != nil {
				return err
			}

			match, err := rt.app.Matches.ResolveMatch(cmd.Context(), p1, p2)
			if err != nil {
				return err
			}
			view, err := rt.app.Matches.Lookup(cmd.Context(), match.ID)
			if err != nil {
				return err
			}

			return rt.out.Message(view, "Match %d: winner is %s (%s)", view.ID, view.WinnerName, view.WinnerCode)
		},
	}
}

func newMatchDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a match record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParseMatchID(args[0])
			if err != nil {
				return err
			}

			if err := rt.app.Matches.Delete(cmd.Context(), id); err != nil {
				return err
			}

			return rt.out.Message(map[string]int64{"deleted": int64(id)}, "Deleted match %d", id)
		},
	}
}

func newMatchListCmd(rt *runtime) *cobra.Command {
	var latest int
	var winner string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List matches with the winner's current name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criterion := storage.All()
			switch {
			case winner != "":
				criterion = storage.ByCode(winner)
			case cmd.Flags().Changed("latest"):
				if latest <= 0 {
					return model.NewValidationError("latest", "limit_positive", "must be a positive whole number")
				}
				criterion = storage.MostRecent(latest)
			}

			start := rt.clock.Now()
			views, err := rt.app.Matches.List(cmd.Context(), criterion)
			if err != nil {
				return err
			}
			elapsed := rt.clock.Since(start)

			return rt.out.Success(views, func(w io.Writer) {
				printMatches(w, views)
				printFooter(w, len(views), elapsed)
			})
		},
	}

	cmd.Flags().IntVar(&latest, "latest", 0, "Show only the N most recent matches")
	cmd.Flags().StringVar(&winner, "winner", "", "Show only matches won by this player code")
	cmd.MarkFlagsMutuallyExclusive("latest", "winner")

	return cmd
}

func newMatchLookupCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup ID",
		Short: "Show one match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParseMatchID(args[0])
			if err != nil {
				return err
			}

			view, err := rt.app.Matches.Lookup(cmd.Context(), id)
			if err != nil {
				return err
			}

			return rt.out.Success(view, func(w io.Writer) {
				printMatches(w, []model.MatchView{view})
			})
		},
	}
}

func newMatchLatestCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the most recently recorded match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := rt.app.Matches.Latest(cmd.Context())
			if err != nil {
				return err
			}

			return rt.out.Success(view, func(w io.Writer) {
				printMatches(w, []model.MatchView{view})
			})
		},
	}
}

func printMatches(w io.Writer, views []model.MatchView) {
	t := NewTable(w, "ID", "PLAYED", "PLAYER 1", "PLAYER 2", "WINNER", "WINNER CODE")
	for _, v := range views {
		t.Row(v.ID, formatTime(v.PlayedAt), v.Player1ID, v.Player2ID, v.WinnerName, v.WinnerCode)
	}
	t.Flush()
}
