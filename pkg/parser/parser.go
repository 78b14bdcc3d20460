package parser

import (
	"strings"

	"github.com/stega-cli/stega/pkg/command"
	cliErrors "github.com/stega-cli/stega/pkg/errors"
)

// Parse tokenises argv into a command.Args against registry, per the
// grammar of spec §4.2. It does not resolve the command path against the
// registry's tree beyond looking up flag types — that split between
// "command path" and "trailing positionals" is the Dispatcher's job
// (spec §4.3 step 2).
func Parse(argv []string, registry *command.Registry) (*command.Args, error) {
	args := &command.Args{Flags: make(map[string]any)}

	i := 0
	for i < len(argv) {
		token := argv[i]

		switch {
		case token == "-" || token == "--":
			args.Command = append(args.Command, token)
			i++

		case strings.HasPrefix(token, "--"):
			next, err := parseLong(registry, args, argv, i)
			if err != nil {
				return nil, err
			}
			i = next

		case strings.HasPrefix(token, "-"):
			next, err := parseShortGroup(registry, args, argv, i)
			if err != nil {
				return nil, err
			}
			i = next

		default:
			args.Command = append(args.Command, token)
			i++
		}
	}

	return args, nil
}

func looksLikeFlag(token string) bool {
	return strings.HasPrefix(token, "-") && token != "-" && token != "--"
}

// parseLong handles --key=value, --key value, and bare --key at argv[i],
// returning the index of the next unconsumed token.
func parseLong(registry *command.Registry, args *command.Args, argv []string, i int) (int, error) {
	rest := argv[i][2:]

	if eq := strings.IndexByte(rest, '='); eq >= 0 {
		key, raw := rest[:eq], rest[eq+1:]
		valueType := command.LookupOptionType(registry, key)
		value, err := coerce(key, valueType, raw)
		if err != nil {
			return 0, err
		}
		args.Flags[key] = value
		return i + 1, nil
	}

	key := rest
	valueType := command.LookupOptionType(registry, key)

	if i+1 < len(argv) && !looksLikeFlag(argv[i+1]) {
		value, err := coerce(key, valueType, argv[i+1])
		if err != nil {
			return 0, err
		}
		args.Flags[key] = value
		return i + 2, nil
	}

	// No adjacent value: boolean flags become true; non-boolean flags fall
	// back to true as well (spec §9 Design Note: this spec preserves the
	// source's boolean-fallback behaviour for backward compatibility).
	args.Flags[key] = true
	return i + 1, nil
}

// parseShortGroup handles -k and grouped -abc at argv[i].
func parseShortGroup(registry *command.Registry, args *command.Args, argv []string, i int) (int, error) {
	letters := argv[i][1:]
	next := i + 1

	for idx := 0; idx < len(letters); idx++ {
		letter := string(letters[idx])
		valueType := command.LookupOptionType(registry, letter)

		if valueType == command.TypeBoolean {
			args.Flags[letter] = true
			continue
		}

		isLast := idx == len(letters)-1
		if !isLast {
			return 0, cliErrors.NewMissingFlag(letter, string(valueType))
		}
		if next >= len(argv) {
			return 0, cliErrors.NewMissingFlag(letter, string(valueType))
		}

		value, err := coerce(letter, valueType, argv[next])
		if err != nil {
			return 0, err
		}
		args.Flags[letter] = value
		next++
	}

	return next, nil
}
