package reconcile

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold normalizes s to NFC and folds its case. Accents are kept, so
// "Rótulos" and "RÓTULOS" compare equal but "rotulos" does not.
func fold(s string) string {
	// cases.Caser is stateful; build a fresh chain per call.
	t := transform.Chain(norm.NFC, cases.Fold())
	result, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return result
}

// containsAll reports whether the folded label holds every folded needle.
func containsAll(label string, needles []string) bool {
	folded := fold(label)
	for _, n := range needles {
		if !strings.Contains(folded, fold(n)) {
			return false
		}
	}
	return true
}

// containsAny reports whether the folded label holds at least one folded needle.
func containsAny(label string, needles []string) bool {
	folded := fold(label)
	for _, n := range needles {
		if strings.Contains(folded, fold(n)) {
			return true
		}
	}
	return false
}
