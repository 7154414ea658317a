package registry

import (
	"fmt"
	"regexp"
)

var nameRe = regexp.MustCompile(`^[A-Z][A-Z0-9_]+[A-Z0-9]$`)

// ValidateName checks that name is an upper case identifier of at least three
// characters that does not end with an underscore.
func ValidateName(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("%w: %q must match %s", ErrInvalidName, name, nameRe)
	}

	return nil
}
