package history

import (
	"time"

	"github.com/stega-cli/stega/pkg/command"
)

// Middleware records one Entry per dispatch into store — timing the rest
// of the chain and capturing its outcome — realizing spec §3 Ownership's
// "the History Store owns its in-memory journal" for the non-interactive
// dispatch path; the REPL records into its own, separate Store instance
// instead (see pkg/repl's evaluate.go). The returned value's underlying
// type matches dispatch.Middleware structurally, so no import of
// pkg/dispatch is needed here.
func Middleware(store *Store) func(ctx *command.Context, args *command.Args, next func() error) error {
	return func(ctx *command.Context, args *command.Args, next func() error) error {
		start := time.Now()
		runErr := next()
		duration := time.Since(start)

		root := ""
		if len(args.Command) > 0 {
			root = args.Command[0]
		}

		entry := Entry{
			Command:   root,
			Args:      args.Flags,
			Timestamp: start.UnixMilli(),
			Success:   runErr == nil,
			Duration:  float64(duration.Microseconds()) / 1000.0,
		}
		if runErr != nil {
			entry.Error = runErr.Error()
		}

		if err := store.AddEntry(entry); err != nil && ctx.Logger != nil {
			ctx.Logger.Warn("failed to persist history entry", "error", err)
		}
		return runErr
	}
}
