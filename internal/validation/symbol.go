package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidSymbol = errors.New("invalid ticker symbol")

// Letters and digits, optionally with class or exchange suffixes such as
// BRK.B, BF-B or ^GSPC.
var symbolRegex = regexp.MustCompile(`^\^?[A-Z0-9]{1,10}([.\-=][A-Z0-9]{1,4})?$`)

// ValidateSymbol trims and upper-cases a ticker and checks its shape.
func ValidateSymbol(input string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(input))
	if symbol == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSymbol)
	}
	if !symbolRegex.MatchString(symbol) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, input)
	}
	return symbol, nil
}
