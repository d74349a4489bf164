package extract

import (
	"regexp"
	"strings"
)

// Scanner enumerates the non-overlapping matches of a pattern in a tag stream.
type Scanner func(re *regexp.Regexp, stream string) []string

// Rule is one pattern family tried by a RuleSet.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Scan    Scanner
}

// Match is the value a RuleSet settled on.
type Match struct {
	Value     string
	Rule      string // empty when Defaulted
	Defaulted bool
}

// RuleSet applies its rules in priority order. The first rule that matches
// anything decides the result; later rules are never consulted.
//
// More than one match from the deciding rule is always Err. Zero matches
// fall back to Default, or return Err when Default is empty.
type RuleSet struct {
	Field   string
	Rules   []Rule
	Default string
	Err     error
}

// Apply runs the rule set against a tag stream.
func (rs RuleSet) Apply(stream string) (Match, error) {
	for _, r := range rs.Rules {
		matches := r.Scan(r.Pattern, stream)
		switch {
		case len(matches) == 0:
			continue
		case len(matches) > 1:
			return Match{}, rs.Err
		default:
			return Match{Value: matches[0], Rule: r.Name}, nil
		}
	}
	if rs.Default == "" {
		return Match{}, rs.Err
	}
	return Match{Value: rs.Default, Defaulted: true}, nil
}

// ScanTags returns every whole-tag match of re: a match must start at the
// beginning of the stream or after a space, and end at the end of the stream
// or before a space. re must be anchored with ^ so it is tried at tag starts
// only. Matches are collected left to right without overlap.
func ScanTags(re *regexp.Regexp, stream string) []string {
	var out []string
	next := 0
	for start := 0; start <= len(stream); start++ {
		if start < next || (start > 0 && stream[start-1] != ' ') {
			continue
		}
		loc := re.FindStringIndex(stream[start:])
		if loc == nil {
			continue
		}
		m := strings.TrimSuffix(stream[start:start+loc[1]], " ")
		if m == "" {
			continue
		}
		out = append(out, m)
		next = start + len(m)
	}
	return out
}

// ScanRightmost returns the non-overlapping matches of re found by scanning
// from the end of the stream, nearest the end first. For every end offset
// the longest match ending there is taken, then scanning resumes before it.
// re must be anchored with $.
func ScanRightmost(re *regexp.Regexp, stream string) []string {
	return scanRightmost(re, stream, nil)
}

func scanRightmost(re *regexp.Regexp, stream string, accept func(s string, start int) bool) []string {
	var out []string
	for end := len(stream); end > 0; end-- {
		loc := re.FindStringIndex(stream[:end])
		if loc == nil {
			continue
		}
		if accept != nil && !accept(stream, loc[0]) {
			continue
		}
		out = append(out, stream[loc[0]:loc[1]])
		end = loc[0] + 1
	}
	return out
}

// tagPattern anchors an alternation so ScanTags can require a tag boundary
// on the right.
func tagPattern(expr string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + expr + `)(?: |$)`)
}
