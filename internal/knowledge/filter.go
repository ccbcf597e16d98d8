package knowledge

import (
	"regexp"
	"strings"
)

// Heading rejection and rule preference heuristics. These bias the
// corpus toward actionable policy sentences over leftover headings,
// bullets, and fragments from the extraction step.

// titleCasePattern matches lines where every word is capitalised,
// the usual shape of a section heading.
var titleCasePattern = regexp.MustCompile(`^(?:[A-Z][a-zA-Z0-9'&/-]*\s+)*[A-Z][a-zA-Z0-9'&/-]*[:.]?$`)

// bulletPattern matches bare bullet or heading markers with no content.
var bulletPattern = regexp.MustCompile(`^[-•*#>\s]+$`)

// ruleKeywords are terms that mark a fragment as likely stating an
// actionable policy. Includes imperatives/modals, domain terms, and
// market/size literals.
var ruleKeywords = []string{
	"must", "should", "required", "avoid", "use", "set", "add",
	"dimensions", "tax",
	"ae", "jo", "sa", "uae", "jordan", "saudi",
	"pixel", "px", "km", "radius",
}

// isHeadingLike reports whether a fragment looks like a leftover
// heading rather than policy content.
func isHeadingLike(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 35 {
		return true
	}
	if len(strings.Fields(trimmed)) <= 4 {
		return true
	}
	if titleCasePattern.MatchString(trimmed) {
		return true
	}
	return bulletPattern.MatchString(trimmed)
}

// isRuleLike reports whether a fragment likely states an actionable
// policy: long enough, terminally punctuated, and carrying at least
// one imperative, modal, or domain keyword.
func isRuleLike(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 40 {
		return false
	}
	if !strings.ContainsAny(trimmed[len(trimmed)-1:], ".!?") {
		return false
	}

	lower := strings.ToLower(trimmed)
	tokens := make(map[string]bool)
	for _, tok := range tokenPattern.FindAllString(lower, -1) {
		tokens[tok] = true
	}
	for _, kw := range ruleKeywords {
		if tokens[kw] {
			return true
		}
	}
	return false
}

// tokenPattern matches alphanumeric runs.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)
