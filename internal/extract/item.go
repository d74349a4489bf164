package extract

import (
	"regexp"
	"strings"
)

// itemKeyPattern matches an issue key as typed, e.g. PROJ-123, ending at the
// end of the searched prefix.
var itemKeyPattern = regexp.MustCompile(`[A-Za-z]+-[0-9]+$`)

var itemRules = RuleSet{
	Field: "task",
	Rules: []Rule{
		{Name: "issue_key", Pattern: itemKeyPattern, Scan: scanItemKeys},
	},
	Err: ErrAmbiguousTask,
}

// FindItemKey returns the single issue key in the tag stream. Keys are
// searched from the end of the stream, since the task is by convention the
// last tag and earlier tags may only look like one.
func FindItemKey(stream string) (string, error) {
	m, err := itemRules.Apply(stream)
	if err != nil {
		return "", err
	}
	return m.Value, nil
}

// ProjectKey is the project part of an issue key: PROJ for PROJ-123.
func ProjectKey(itemKey string) string {
	project, _, _ := strings.Cut(itemKey, "-")
	return strings.ToUpper(project)
}

func scanItemKeys(re *regexp.Regexp, stream string) []string {
	return scanRightmost(re, stream, standaloneKey)
}

// standaloneKey rejects keys glued to a longer word, such as the PROJ-1 in
// SUB-PROJ-1.
func standaloneKey(s string, start int) bool {
	if start == 0 {
		return true
	}
	prev := s[start-1]
	if isLetter(prev) {
		return false
	}
	if prev == '-' && start >= 2 && isLetter(s[start-2]) {
		return false
	}
	return true
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
