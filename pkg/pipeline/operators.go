package pipeline

import (
	"regexp"
	"strings"

	cliErrors "github.com/stega-cli/stega/pkg/errors"
)

// applyOperator resolves a `.`-prefixed stage against the fixed string
// operator set of spec §4.6.
func applyOperator(name string, args []string, input string) (string, error) {
	switch name {
	case "uppercase":
		return strings.ToUpper(input), nil

	case "lowercase":
		return strings.ToLower(input), nil

	case "trim":
		return strings.TrimSpace(input), nil

	case "replace":
		if len(args) != 2 {
			return "", cliErrors.NewInvalidPipeline(".replace requires exactly 2 args")
		}
		re, err := regexp.Compile(args[0])
		if err != nil {
			return "", cliErrors.NewInvalidPipeline(".replace: invalid pattern: " + err.Error())
		}
		return re.ReplaceAllString(input, args[1]), nil

	case "split":
		if len(args) != 1 {
			return "", cliErrors.NewInvalidPipeline(".split requires exactly 1 arg")
		}
		return strings.Join(strings.Split(input, args[0]), "\n"), nil

	case "join":
		if len(args) != 1 {
			return "", cliErrors.NewInvalidPipeline(".join requires exactly 1 arg")
		}
		return strings.Join(strings.Split(input, "\n"), args[0]), nil

	case "grep":
		if len(args) != 1 {
			return "", cliErrors.NewInvalidPipeline(".grep requires exactly 1 arg")
		}
		re, err := regexp.Compile(args[0])
		if err != nil {
			return "", cliErrors.NewInvalidPipeline(".grep: invalid pattern: " + err.Error())
		}
		var kept []string
		for _, line := range strings.Split(input, "\n") {
			if re.MatchString(line) {
				kept = append(kept, line)
			}
		}
		return strings.Join(kept, "\n"), nil

	default:
		return "", cliErrors.NewUnknownOperator(name)
	}
}
