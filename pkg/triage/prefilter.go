// Package triage decides whether free-form messages describe actionable
// tasks and extracts structured task records from the ones that do.
package triage

import (
	"strings"
	"unicode/utf8"
)

// stopWords are exact lower-case matches that mark a message as obvious
// noise: greetings, filler interjections, acknowledgements.
var stopWords = map[string]struct{}{
	"лол":     {},
	"кек":     {},
	"хех":     {},
	"ха":      {},
	"ху":      {},
	"охе":     {},
	"охуе":    {},
	"чебурек": {},
	"привет":  {},
	"привтии": {},
	"hello":   {},
	"hi":      {},
	"yo":      {},
	"дай":     {},
	"кур":     {},
	"бля":     {},
	"пошел":   {},
	"ладно":   {},
	"окей":    {},
	"ок":      {},
}

// profanityPrefix flags a family of exclamations that never start a task.
const profanityPrefix = "охуе"

// ObviousNonTask is a cheap local check that flags input which is
// overwhelmingly likely to be noise, so no model call is spent on it.
// It is deliberately conservative: a true result only means "ask the user",
// never a silent rejection.
func ObviousNonTask(text string) bool {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < 2 {
		return true
	}

	if len(strings.Fields(trimmed)) == 1 {
		return true
	}

	lower := strings.ToLower(trimmed)
	if _, ok := stopWords[lower]; ok {
		return true
	}

	return strings.HasPrefix(lower, profanityPrefix)
}
