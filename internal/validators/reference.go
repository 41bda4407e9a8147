package validators

import (
	"regexp"
	"strings"
)

const MinReferenceLength = 3

var referencePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-]*$`)

// NormalizeReference applies the storage convention for reference numbers:
// trimmed and upper-cased. Lookups go through this too, which is what makes
// uniqueness case-insensitive.
func NormalizeReference(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}

func IsValidReference(ref string) bool {
	ref = NormalizeReference(ref)
	if len(ref) < MinReferenceLength {
		return false
	}
	return referencePattern.MatchString(ref)
}
