package fill

import (
	"errors"
	"fmt"
)

// MissingValueStrategy decides what a placeholder renders to when no
// value can be resolved for it.
type MissingValueStrategy string

const (
	// StrategyKeep re-emits the literal {{name}} placeholder.
	StrategyKeep MissingValueStrategy = "keep"
	// StrategyEmpty emits an empty string.
	StrategyEmpty MissingValueStrategy = "empty"
	// StrategyDefault emits the default value.
	StrategyDefault MissingValueStrategy = "default"
)

const defaultValue = "N/A"

var ErrInvalidStrategy = errors.New("invalid missing value strategy")

// ParseStrategy validates a strategy string. The empty string selects
// the default (keep); anything else outside the three known strategies
// is a configuration error, raised here and never during a render call.
func ParseStrategy(s string) (MissingValueStrategy, error) {
	switch MissingValueStrategy(s) {
	case "":
		return StrategyKeep, nil
	case StrategyKeep, StrategyEmpty, StrategyDefault:
		return MissingValueStrategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q, must be one of: keep, empty, default", ErrInvalidStrategy, s)
	}
}
