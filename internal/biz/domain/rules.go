package domain

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// ResponseSeparator splits an auto-reply line into pattern and response
const ResponseSeparator = "==="

// BlockRules is an ordered set of case-insensitive block patterns
type BlockRules []*regexp.Regexp

// ResponseRule pairs a pattern with an automatic reply
type ResponseRule struct {
	Pattern  *regexp.Regexp
	Response string
}

// ResponseRules is an ordered set of auto-reply rules; the first match wins
type ResponseRules []ResponseRule

// CompileBlockRules compiles newline-separated block patterns.
// Malformed patterns are skipped with a warning.
func CompileBlockRules(text string) BlockRules {
	var rules BlockRules
	for _, line := range ruleLines(text) {
		re, err := compilePattern(line)
		if err != nil {
			logrus.WithError(err).WithField("pattern", line).Warn("Skipping malformed block keyword")
			continue
		}
		rules = append(rules, re)
	}
	return rules
}

// CompileResponseRules compiles `pattern===response` lines.
// Lines that do not split into exactly two non-empty fields are skipped.
func CompileResponseRules(text string) ResponseRules {
	var rules ResponseRules
	for _, line := range ruleLines(text) {
		parts := strings.Split(line, ResponseSeparator)
		if len(parts) != 2 {
			continue
		}
		pattern := strings.TrimSpace(parts[0])
		response := strings.TrimSpace(parts[1])
		if pattern == "" || response == "" {
			continue
		}
		re, err := compilePattern(pattern)
		if err != nil {
			logrus.WithError(err).WithField("pattern", pattern).Warn("Skipping malformed auto-reply rule")
			continue
		}
		rules = append(rules, ResponseRule{Pattern: re, Response: response})
	}
	return rules
}

// Match reports whether any block pattern matches text
func (r BlockRules) Match(text string) bool {
	if text == "" {
		return false
	}
	for _, re := range r {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Match returns the response of the first matching rule
func (r ResponseRules) Match(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, rule := range r {
		if rule.Pattern.MatchString(text) {
			return rule.Response, true
		}
	}
	return "", false
}

func ruleLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}
