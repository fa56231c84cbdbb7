// Package structure defines the core domain model for protein structures:
// PDB identifiers, scraped structure metadata, and preparation jobs.
package structure

import (
	"strings"

	"github.com/turtacn/dockprep/pkg/errors"
)

// ID is a validated 4-character PDB identifier such as "6LU7" or "1abc".
// IDs are stored upper-cased; the PDB treats identifiers case-insensitively.
type ID string

// ParseID validates raw as a PDB identifier and returns the canonical
// upper-case form. A valid identifier is exactly 4 alphanumeric ASCII
// characters. The empty string and anything longer, shorter, or containing
// other characters is rejected before any network access happens.
func ParseID(raw string) (ID, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) != 4 {
		return "", errors.Newf(errors.CodePDBInvalidID,
			"invalid PDB identifier %q: must be exactly 4 characters", raw)
	}
	for _, r := range trimmed {
		if !isAlphaNumeric(r) {
			return "", errors.Newf(errors.CodePDBInvalidID,
				"invalid PDB identifier %q: contains non-alphanumeric character %q", raw, r)
		}
	}
	return ID(strings.ToUpper(trimmed)), nil
}

// MustParseID is like ParseID but panics on invalid input. Intended for
// tests and compile-time-known identifiers.
func MustParseID(raw string) ID {
	id, err := ParseID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical identifier text.
func (id ID) String() string { return string(id) }

// Filename returns the conventional raw structure filename, e.g. "6LU7.pdb".
func (id ID) Filename() string { return string(id) + ".pdb" }

func isAlphaNumeric(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
