// Copyright 2026 The scie Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package grammar

import (
	"fmt"

	"github.com/isgasho/scie/regex"
)

// RuleID identifies a rule within a compiled grammar. IDs start at 1.
//
type RuleID int

// Kind is the kind of a compiled rule.
//
type Kind uint8

// Rule kinds.
//
const (
	KindMatch       Kind = iota + 1 // single pattern
	KindBeginEnd                    // region closed by an end pattern
	KindBeginWhile                  // region continued while a pattern matches at line start
	KindCapture                     // scope for a capture group
	KindIncludeOnly                 // list of patterns
)

var kindNames = [...]string{
	KindMatch:       "match",
	KindBeginEnd:    "begin/end",
	KindBeginWhile:  "begin/while",
	KindCapture:     "capture",
	KindIncludeOnly: "include-only",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// A Rule is a node of a compiled grammar. Includes have been replaced by
// the rules they refer to, so the rule graph may contain cycles. Rules are
// immutable once Compile returns.
//
type Rule struct {
	id              RuleID
	kind            Kind
	name            string
	contentName     string
	nameRefs        bool // name refers to captures
	contentNameRefs bool

	match *regex.Pattern
	begin *regex.Pattern

	// end or while condition; cond is nil if condSrc has back references.
	cond     *regex.Pattern
	condSrc  string
	condRefs bool

	captures            []*Rule
	beginCaptures       []*Rule
	condCaptures        []*Rule
	patterns            []*Rule
	applyEndPatternLast bool

	candidates *CandidateSet
}

// ID returns the rule's ID.
//
func (r *Rule) ID() RuleID {
	return r.id
}

// Kind returns the kind of rule.
//
func (r *Rule) Kind() Kind {
	return r.kind
}

func (r *Rule) String() string {
	if r.name != "" {
		return fmt.Sprintf("%s#%d(%s)", r.kind, r.id, r.name)
	}
	return fmt.Sprintf("%s#%d", r.kind, r.id)
}

// Name returns the scope name of the rule with capture references resolved
// against caps, the captures of the match that triggered the rule. With nil
// caps, the name is returned as written.
//
func (r *Rule) Name(text []rune, caps []regex.Range) string {
	if !r.nameRefs || caps == nil {
		return r.name
	}
	return resolveName(r.name, text, caps)
}

// ContentName is like Name for the scope applied between the begin and end
// delimiters.
//
func (r *Rule) ContentName(text []rune, caps []regex.Range) string {
	if !r.contentNameRefs || caps == nil {
		return r.contentName
	}
	return resolveName(r.contentName, text, caps)
}

// Patterns returns the nested rules.
//
func (r *Rule) Patterns() []*Rule {
	return r.patterns
}

// HasPatterns returns true if the rule has nested rules. For a capture rule,
// this means that the captured text is tokenized again with these rules.
//
func (r *Rule) HasPatterns() bool {
	return len(r.patterns) > 0
}

// Captures returns the capture rules of a match rule, indexed by group
// number. Entries may be nil.
//
func (r *Rule) Captures() []*Rule {
	return r.captures
}

// BeginCaptures returns the capture rules applied to the begin match.
//
func (r *Rule) BeginCaptures() []*Rule {
	return r.beginCaptures
}

// ConditionCaptures returns the capture rules applied to the end match of a
// begin/end rule or to the while match of a begin/while rule.
//
func (r *Rule) ConditionCaptures() []*Rule {
	return r.condCaptures
}

// Condition returns the compiled end (begin/end rules) or while (begin/while
// rules) pattern. It is nil if the pattern refers to captures of the begin
// match, in which case it must be compiled for every match from
// ConditionSource.
//
func (r *Rule) Condition() *regex.Pattern {
	return r.cond
}

// ConditionSource returns the source of the end or while pattern.
//
func (r *Rule) ConditionSource() string {
	return r.condSrc
}

// ConditionHasBackReferences returns true if the end or while pattern refers
// to captures of the begin match.
//
func (r *Rule) ConditionHasBackReferences() bool {
	return r.condRefs
}

// ApplyEndPatternLast returns true if nested patterns win over the end
// pattern when both match at the same offset.
//
func (r *Rule) ApplyEndPatternLast() bool {
	return r.applyEndPatternLast
}

// Candidates returns the patterns to search for while r is the innermost
// active rule. It is nil for rules that never become active.
//
func (r *Rule) Candidates() *CandidateSet {
	return r.candidates
}

// A CandidateSet is the ordered list of patterns that may match while a rule
// is active: the begin or match patterns of its nested rules, expanded
// through include-only rules, and the end pattern of a begin/end rule.
//
type CandidateSet struct {
	patterns []*regex.Pattern
	rules    []*Rule
	end      int
	scanner  *regex.Scanner
}

// Len returns the number of candidates.
//
func (c *CandidateSet) Len() int {
	return len(c.patterns)
}

// Rule returns the rule that owns the i-th candidate.
//
func (c *CandidateSet) Rule(i int) *Rule {
	return c.rules[i]
}

// End returns the index of the end pattern, or -1.
//
func (c *CandidateSet) End() int {
	return c.end
}

// Scanner returns a scanner over all candidates.
//
func (c *CandidateSet) Scanner() *regex.Scanner {
	return c.scanner
}

// ScannerWithEnd returns a scanner over all candidates, using end as the end
// pattern.
//
func (c *CandidateSet) ScannerWithEnd(end *regex.Pattern) *regex.Scanner {
	if c.end < 0 {
		return c.scanner
	}
	ps := make([]*regex.Pattern, len(c.patterns))
	copy(ps, c.patterns)
	ps[c.end] = end
	return regex.NewScanner(ps...)
}

func (c *CandidateSet) add(p *regex.Pattern, r *Rule) {
	c.patterns = append(c.patterns, p)
	c.rules = append(c.rules, r)
}

// collect adds the match or begin patterns reachable from r. expanded
// holds the containers already walked and added the rules already present.
func (c *CandidateSet) collect(r *Rule, expanded, added map[*Rule]bool) {
	switch r.kind {
	case KindMatch, KindBeginEnd, KindBeginWhile:
		if added[r] {
			return
		}
		added[r] = true
		if r.kind == KindMatch {
			c.add(r.match, r)
		} else {
			c.add(r.begin, r)
		}
	case KindIncludeOnly, KindCapture:
		if expanded[r] {
			return
		}
		expanded[r] = true
		for _, p := range r.patterns {
			c.collect(p, expanded, added)
		}
	}
}

func newCandidateSet(r *Rule) *CandidateSet {
	c := &CandidateSet{end: -1}
	expanded := map[*Rule]bool{r: true}
	added := make(map[*Rule]bool)
	for _, p := range r.patterns {
		c.collect(p, expanded, added)
	}
	if r.kind == KindBeginEnd {
		if r.applyEndPatternLast {
			c.add(r.cond, r)
			c.end = len(c.patterns) - 1
		} else {
			c.patterns = append([]*regex.Pattern{r.cond}, c.patterns...)
			c.rules = append([]*Rule{r}, c.rules...)
			c.end = 0
		}
	}
	c.scanner = regex.NewScanner(c.patterns...)
	return c
}

// active returns true for rules that can be the innermost rule of a stack.
func (r *Rule) active() bool {
	switch r.kind {
	case KindBeginEnd, KindBeginWhile, KindIncludeOnly:
		return true
	case KindCapture:
		return len(r.patterns) > 0
	}
	return false
}
