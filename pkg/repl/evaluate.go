package repl

import (
	"context"
	"fmt"
	"strings"
	"time"

	cliErrors "github.com/stega-cli/stega/pkg/errors"
	"github.com/stega-cli/stega/pkg/history"
	"github.com/stega-cli/stega/pkg/pipeline"
)

// evaluate runs one submitted, non-empty line: built-ins shadow registry
// commands of the same name (per spec §4.7); everything else goes
// through the Dispatcher. A HistoryEntry is recorded for non-built-in
// lines, timed and keyed exactly as spec §4.7 "Evaluation" describes.
//
// A line containing a top-level `|` is a pipeline (spec §4.6) rather
// than a single command, and is routed through evaluatePipeline instead.
func (r *REPL) evaluate(ctx context.Context, line string) {
	if pipeline.HasPipe(line) {
		r.evaluatePipeline(ctx, line)
		return
	}

	r.callbacks.fireLine(line)

	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return
	}
	name, rest := tokens[0], tokens[1:]

	if isBuiltin(name) {
		exit, err := r.runBuiltin(name, rest)
		if err != nil {
			r.callbacks.fireError(err)
		}
		if exit {
			r.exitRequested = true
		}
		return
	}

	r.lines = append([]string{line}, r.lines...)

	start := time.Now()
	runErr := r.dispatcher.RunCommand(r.cliCtx, tokens)
	duration := time.Since(start)

	entry := history.Entry{
		Command:   name,
		Args:      parseArgsForHistory(rest),
		Timestamp: start.UnixMilli(),
		Success:   runErr == nil,
		Duration:  float64(duration.Microseconds()) / 1000.0,
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}

	if r.history != nil {
		if err := r.history.AddEntry(entry); err != nil {
			r.callbacks.fireError(err)
		}
	}
	if runErr != nil {
		h := &cliErrors.Handler{Writer: r.opts.Out, Debug: r.debug, NoColor: r.opts.NoColor}
		h.Handle(runErr)
		r.callbacks.fireError(runErr)
	}
}

// evaluatePipeline parses line as a Pipeline (spec §4.6) and runs its
// stages left-to-right: a `.`-prefixed stage is one of the fixed string
// operators, and every other stage is dispatched through
// runPipelineStage, which threads its captured stdout into the next
// stage's input exactly as spec §4.6's Evaluator describes. The whole
// pipeline is recorded as a single HistoryEntry, keyed by its first
// stage's command, matching how a plain (non-pipeline) line is recorded.
func (r *REPL) evaluatePipeline(ctx context.Context, line string) {
	r.callbacks.fireLine(line)

	p, err := pipeline.Parse(line)
	if err != nil {
		r.reportPipelineFailure(err)
		return
	}

	r.lines = append([]string{line}, r.lines...)

	start := time.Now()
	result := pipeline.Evaluate(p, r.runPipelineStage)
	duration := time.Since(start)

	if result.Output != "" {
		fmt.Fprintln(r.opts.Out, result.Output)
	}

	entry := history.Entry{
		Command:   p.Stages[0].Command,
		Args:      map[string]any{"pipeline": line},
		Timestamp: start.UnixMilli(),
		Success:   result.Success,
		Duration:  float64(duration.Microseconds()) / 1000.0,
	}
	if !result.Success && result.Error != nil {
		entry.Error = result.Error.Error()
	}

	if r.history != nil {
		if err := r.history.AddEntry(entry); err != nil {
			r.callbacks.fireError(err)
		}
	}
	if !result.Success {
		r.reportPipelineFailure(result.Error)
	}
}

// runPipelineStage is the pipeline.CommandRunner a non-`.`-prefixed
// stage runs through: it dispatches command+args against the REPL's own
// Dispatcher/Context pair via RunCommandCapture, which points the
// Action's Context.Writer at an in-memory buffer instead of the real
// terminal and hands it input as Context.Input, so the stage's real
// stdout (not its exit status) becomes the next stage's input.
func (r *REPL) runPipelineStage(command string, args []string, input string) (string, error) {
	tokens := append([]string{command}, args...)
	return r.dispatcher.RunCommandCapture(r.cliCtx, tokens, input)
}

func (r *REPL) reportPipelineFailure(err error) {
	if err == nil {
		return
	}
	h := &cliErrors.Handler{Writer: r.opts.Out, Debug: r.debug, NoColor: r.opts.NoColor}
	h.Handle(err)
	r.callbacks.fireError(err)
}

// parseArgsForHistory builds a best-effort args map: `key=value` tokens
// become keyed, bare tokens become arg1, arg2, …, per spec §4.7.
func parseArgsForHistory(tokens []string) map[string]any {
	if len(tokens) == 0 {
		return nil
	}
	args := make(map[string]any, len(tokens))
	positional := 0
	for _, t := range tokens {
		if idx := strings.Index(t, "="); idx > 0 {
			args[t[:idx]] = t[idx+1:]
			continue
		}
		positional++
		args[fmt.Sprintf("arg%d", positional)] = t
	}
	return args
}

// historyUp walks backwards through the in-session line
// history, saving the live line to tempLine on the first step, per
// spec §4.7 "History navigation". It navigates the raw lines this
// session has submitted rather than re-deriving text from the
// structured HistoryEntry the Store persists.
func (r *REPL) historyUp() {
	if len(r.lines) == 0 {
		return
	}
	if r.historyIndex == -1 {
		r.tempLine = r.editor.String()
	}
	if r.historyIndex+1 >= len(r.lines) {
		return
	}
	r.historyIndex++
	r.editor.replaceLine(r.lines[r.historyIndex])
}

// historyDown walks forward, restoring tempLine once it passes the most
// recent entry (index -1).
func (r *REPL) historyDown() {
	if r.historyIndex == -1 {
		return
	}
	r.historyIndex--
	if r.historyIndex == -1 {
		r.editor.replaceLine(r.tempLine)
		return
	}
	r.editor.replaceLine(r.lines[r.historyIndex])
}
