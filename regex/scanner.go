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

package regex

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// Range is a half-open span of rune offsets. Start is -1 for a capture group
// that did not participate in the match.
//
type Range struct {
	Start, End int
}

// Len returns the length of the range.
//
func (r Range) Len() int {
	return r.End - r.Start
}

// Matched returns true if the capture group participated in the match.
//
func (r Range) Matched() bool {
	return r.Start >= 0
}

// A Match is the result of a successful search.
//
type Match struct {
	// Index of the winning pattern in the scanner.
	Index int
	// Captures holds the span of every capture group, the whole match at
	// index 0.
	Captures []Range
}

// MatchError reports a pattern whose search did not complete, typically
// because it ran past its match timeout.
//
type MatchError struct {
	Index   int
	Pattern *Pattern
	Err     error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("pattern %d %q: %v", e.Index, e.Pattern, e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}

// A Scanner searches an ordered list of patterns.
//
type Scanner struct {
	patterns []*Pattern
}

// NewScanner returns a scanner for the given patterns. Nil patterns are
// allowed and never match.
//
func NewScanner(patterns ...*Pattern) *Scanner {
	return &Scanner{patterns: patterns}
}

// Len returns the number of patterns in the scanner.
//
func (s *Scanner) Len() int {
	return len(s.patterns)
}

// Pattern returns the i-th pattern.
//
func (s *Scanner) Pattern(i int) *Pattern {
	return s.patterns[i]
}

// FindNextMatch searches text starting at offset from and returns the match
// with the smallest start offset. Ties go to the pattern that comes first.
//
// allowA and allowG tell whether the \A and \G anchors may match. \G
// matches at from.
//
// A non-nil error is a *MatchError for the first pattern that failed to run.
// The other patterns are still searched and m is the best of their matches,
// if any.
//
func (s *Scanner) FindNextMatch(text []rune, from int, allowA, allowG bool) (m *Match, err error) {
	if from < 0 || from > len(text) {
		return nil, nil
	}
	var (
		best *regexp2.Match
		idx  = -1
	)
	for i, p := range s.patterns {
		if p == nil {
			continue
		}
		rm, e := p.regexp(allowA, allowG).FindRunesMatchStartingAt(text, from)
		if e != nil {
			if err == nil {
				err = &MatchError{Index: i, Pattern: p, Err: e}
			}
			continue
		}
		if rm == nil {
			continue
		}
		if best == nil || rm.Index < best.Index {
			best, idx = rm, i
			if rm.Index == from {
				// nothing can start earlier
				break
			}
		}
	}
	if best == nil {
		return nil, err
	}
	return &Match{Index: idx, Captures: captures(best)}, err
}

func captures(m *regexp2.Match) []Range {
	groups := m.Groups()
	caps := make([]Range, len(groups))
	for i := range groups {
		g := &groups[i]
		if len(g.Captures) == 0 {
			caps[i] = Range{-1, -1}
			continue
		}
		caps[i] = Range{g.Index, g.Index + g.Length}
	}
	return caps
}
