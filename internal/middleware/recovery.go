package middleware

import (
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// PanicHandler turns a recovered panic into the command's error
type PanicHandler func(cmd *cobra.Command, recovered any) error

// Recovery creates panic recovery middleware with a custom panic handler.
// logger is called at recovery time, after the command has configured it.
func Recovery(logger func() zerolog.Logger, handler PanicHandler) Middleware {
	return func(next RunE) RunE {
		return func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					l := logger()
					l.Error().
						Interface("error", rec).
						Str("stack", string(debug.Stack())).
						Str("command", cmd.CommandPath()).
						Msg("panic recovered")

					err = handler(cmd, rec)
				}
			}()

			return next(cmd, args)
		}
	}
}
