package schema

import (
	"fmt"
	"regexp"

	"github.com/leengari/primitive-db/internal/domain/errors"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier checks a table or column name. Names become file
// paths and JSON keys, so only letters, digits and underscores are allowed
// and the first character may not be a digit.
func ValidateIdentifier(kind, name string) error {
	if name == "" {
		return errors.NewValidation("", "", nil, fmt.Sprintf("%s name cannot be empty", kind))
	}
	if !identifierPattern.MatchString(name) {
		return errors.NewValidation("", "", name,
			fmt.Sprintf("invalid %s name '%s': use letters, digits and underscores, not starting with a digit", kind, name))
	}
	return nil
}
