package dispatch

import (
	"github.com/stega-cli/stega/pkg/command"
	cliErrors "github.com/stega-cli/stega/pkg/errors"
)

// resolve implements spec §4.3 step 2: the first positional is the root
// command; findSubcommand walks the rest greedily to the deepest
// resolved command. The returned Args.Command is the matched path
// (root first) followed by any unconsumed trailing positionals, per the
// "command (ordered sequence of tokens identifying the resolved command
// path, root first)" definition in spec §3.
func resolve(registry *command.Registry, tokens []string) (*command.Command, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, cliErrors.NewCommandNotFound("")
	}

	root, ok := registry.Find(tokens[0])
	if !ok {
		return nil, nil, cliErrors.NewCommandNotFound(tokens[0])
	}

	path := []string{root.Name}
	deepest := root
	rest := tokens[1:]

	idx := 0
	for idx < len(rest) {
		var next *command.Command
		for _, child := range deepest.Subcommands {
			if child.Matches(rest[idx]) {
				next = child
				break
			}
		}
		if next == nil {
			break
		}
		deepest = next
		path = append(path, next.Name)
		idx++
	}

	resolvedCommand := append(path, rest[idx:]...)
	return deepest, resolvedCommand, nil
}
