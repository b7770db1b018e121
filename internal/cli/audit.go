package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/audit"
)

// DefaultAuditLimit is how many entries audit shows without --limit or --all
const DefaultAuditLimit = 25

func newAuditCmd(rt *runtime) *cobra.Command {
	var limit int
	var all bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log, oldest entry first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return model.NewValidationError("limit", "limit_positive", "must be a positive whole number")
			}
			if all {
				limit = audit.Unbounded
			}

			start := rt.clock.Now()
			entries, err := rt.app.Audit.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			elapsed := rt.clock.Since(start)

			total, err := rt.app.Audit.Count(cmd.Context())
			if err != nil {
				return err
			}

			return rt.out.Success(entries, func(w io.Writer) {
				t := NewTable(w, "ID", "TIME", "ACTION", "UNIQUE_ID", "ENTRY")
				for _, e := range entries {
					t.Row(e.ID, formatTime(e.Timestamp), e.Action, e.UniqueID, e.Entry)
				}
				t.Flush()
				printFooter(w, len(entries), elapsed)
				if hidden := total - len(entries); hidden > 0 {
					fmt.Fprintf(w, "%d older entries not shown, use --all to see them\n", hidden)
				}
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultAuditLimit, "Show the N most recent entries")
	cmd.Flags().BoolVar(&all, "all", false, "Show every entry")
	cmd.MarkFlagsMutuallyExclusive("limit", "all")

	return cmd
}
