package store

import (
	"fmt"
	"regexp"
)

// identifierPattern accepts ASCII letters, digits and underscores, not
// starting with a digit. Anything matching it is safe to interpolate into
// a statement as a table or column name.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SafeIdentifier returns name unchanged when it is a safe SQL identifier.
// Only identifiers go through this path; values are always bound
// parameters, never concatenated.
func SafeIdentifier(name string) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return name, nil
}
