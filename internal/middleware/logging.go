package middleware

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mcoot/tourney/internal/dependencies/clock"
)

// Logging creates middleware that logs each command with its duration and
// outcome
func Logging(logger func() zerolog.Logger, clk clock.Clock) Middleware {
	return func(next RunE) RunE {
		return func(cmd *cobra.Command, args []string) error {
			start := clk.Now()

			err := next(cmd, args)

			l := logger()
			l.Debug().
				Err(err).
				Str("command", cmd.CommandPath()).
				Int("args", len(args)).
				Dur("duration", clk.Since(start)).
				Bool("ok", err == nil).
				Msg("command finished")

			return err
		}
	}
}
