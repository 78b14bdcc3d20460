package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/stega-cli/stega/pkg/command"
	cliErrors "github.com/stega-cli/stega/pkg/errors"
)

var truthyBooleans = map[string]bool{
	"true": true, "1": true, "yes": true, "y": true,
	"false": false, "0": false, "no": false, "n": false,
}

// coerce converts rawValue into the Go representation of valueType, per
// spec §4.2's "Value coercion" rules.
func coerce(flag string, valueType command.ValueType, rawValue string) (any, error) {
	switch valueType {
	case command.TypeNumber:
		n, err := strconv.ParseFloat(rawValue, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, cliErrors.NewInvalidFlagValue(flag, string(valueType), rawValue)
		}
		return n, nil

	case command.TypeBoolean:
		truthy, ok := truthyBooleans[strings.ToLower(rawValue)]
		if !ok {
			return nil, cliErrors.NewInvalidFlagValue(flag, string(valueType), rawValue)
		}
		return truthy, nil

	case command.TypeArray:
		return strings.Split(rawValue, ","), nil

	default: // command.TypeString and anything unrecognized
		return rawValue, nil
	}
}
