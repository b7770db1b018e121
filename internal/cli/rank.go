package cli

import (
	"io"

	"github.com/spf13/cobra"
)

func newRankCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "rank",
		Short: "Rank players by match wins",
		Long: `Rank every player code that has won at least one match, most wins first.
Players that have been deleted keep their wins and show as [PLAYER DELETED].`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := rt.clock.Now()
			standings, err := rt.app.Ranking.Rank(cmd.Context())
			if err != nil {
				return err
			}
			elapsed := rt.clock.Since(start)

			return rt.out.Success(standings, func(w io.Writer) {
				t := NewTable(w, "RANK", "CODE", "NAME", "WINS")
				for _, st := range standings {
					t.Row(st.Rank, st.Code, st.Name, st.Wins)
				}
				t.Flush()
				printFooter(w, len(standings), elapsed)
			})
		},
	}
}
