// Package ocr cleans paginated-document noise out of OCR-derived text and
// slices one large flat corpus into independently cleaned logical sections.
//
// Cleanup is an ordered list of pattern-substitution rules, each targeting
// one structural artifact (running headers, page-of-total footers, copyright
// boilerplate, version stamps, continuation headers). The order is fixed:
// the final blank-line collapse depends on the line removals having already
// happened.
package ocr

import (
	"fmt"
	"regexp"
	"strings"
)

// rule is one pattern-substitution cleanup step.
type rule struct {
	re   *regexp.Regexp
	repl string
}

// builtinRules remove artifacts common to every paginated OCR source.
// Corpus-specific patterns (running headers, logo tokens) come from the
// manifest and run before these.
var builtinRules = []rule{
	// Running footer with a page-of-total marker: "Brand Guide | 12 of 340".
	{regexp.MustCompile(`(?m)^\|?[^\S\n]*\S[^\n|]*\|[^\S\n]*\d+[^\S\n]+of[^\S\n]+\d+[^\S\n]*$`), ""},
	// Copyright boilerplate lines.
	{regexp.MustCompile(`(?m)^Copyright © \d{4}[^\n]*All Rights Reserved\.?[^\S\n]*$`), ""},
	// Version stamps such as "2.1-14b".
	{regexp.MustCompile(`(?m)^\d+\.\d+-\d+\w*[^\S\n]*$`), ""},
	// Section continuation headers: "Some Heading, continued".
	{regexp.MustCompile(`(?m)^[^\n,]{1,80}, continued[^\S\n]*$`), ""},
}

// blankRunRe matches runs of four or more consecutive blank lines.
var blankRunRe = regexp.MustCompile(`\n{4,}`)

// Cleaner applies an ordered artifact rule set.
type Cleaner struct {
	rules []rule
}

// NewCleaner builds a Cleaner from corpus-specific artifact patterns plus
// the builtin rules. Every pattern must compile; matches are deleted.
func NewCleaner(patterns []string) (*Cleaner, error) {
	rules := make([]rule, 0, len(patterns)+len(builtinRules))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("ocr: artifact pattern %q: %w", p, err)
		}
		rules = append(rules, rule{re: re, repl: ""})
	}
	rules = append(rules, builtinRules...)
	return &Cleaner{rules: rules}, nil
}

// Clean applies the rule set in order, collapses runs of four or more blank
// lines to at most two, and trims. Clean is idempotent:
// Clean(Clean(x)) == Clean(x).
func (c *Cleaner) Clean(text string) string {
	for _, r := range c.rules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	text = blankRunRe.ReplaceAllString(text, "\n\n\n")
	return strings.TrimSpace(text)
}
