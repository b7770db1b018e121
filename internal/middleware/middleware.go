package middleware

import "github.com/spf13/cobra"

// RunE is the body of a cobra command
type RunE func(cmd *cobra.Command, args []string) error

// Middleware wraps a command body
type Middleware func(next RunE) RunE

// Apply wraps the RunE of cmd and every command below it. The first
// middleware is the outermost.
func Apply(cmd *cobra.Command, mws ...Middleware) {
	if cmd.RunE != nil {
		next := RunE(cmd.RunE)
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		cmd.RunE = next
	}
	for _, sub := range cmd.Commands() {
		Apply(sub, mws...)
	}
}
