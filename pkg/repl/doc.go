// Package repl implements the interactive line-editing shell: raw-mode
// key handling, tab completion, history navigation, multiline
// aggregation, and the small set of built-in commands every session
// carries regardless of what the host registers.
//
// Raw-mode terminal handling is grounded on the teacher's
// golang.org/x/term usage in pkg/plugin/sdk/v1/interactive.go; prompt
// coloring follows pkg/prompt's use of github.com/fatih/color.
//
//	r := repl.New(registry, dispatcher, cliCtx, store, repl.Options{})
//	r.OnError(func(err error) { errors.Print(err) })
//	err := r.Run(context.Background())
package repl
