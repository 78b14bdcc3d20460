package pipeline

import "strings"

// CommandRunner executes one non-operator stage, threading input as the
// stage's stdin and returning its captured stdout.
type CommandRunner func(command string, args []string, input string) (output string, err error)

// Result is the outcome of evaluating a Pipeline, per spec §4.6.
type Result struct {
	Success bool
	Output  string
	Error   error
}

// Evaluate runs p's stages strictly left-to-right, threading each stage's
// output into the next stage's input. A stage whose command starts with
// `.` is a string operator; otherwise run executes it. On any stage
// failure, evaluation aborts with the partially-accumulated output.
func Evaluate(p *Pipeline, run CommandRunner) Result {
	var input string

	for _, stage := range p.Stages {
		var output string
		var err error

		if strings.HasPrefix(stage.Command, ".") {
			output, err = applyOperator(stage.Command[1:], stage.Args, input)
		} else {
			output, err = run(stage.Command, stage.Args, input)
		}

		if err != nil {
			return Result{Success: false, Output: input, Error: err}
		}
		input = output
	}

	return Result{Success: true, Output: input}
}
