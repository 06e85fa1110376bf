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
	"strconv"

	"github.com/dlclark/regexp2"
)

var backReference = regexp2.MustCompile(`\\([0-9]+)`, regexp2.None)

// HasBackReferences returns true if src refers to capture groups of another
// match with \1, \2, ...
//
func HasBackReferences(src string) bool {
	ok, _ := backReference.MatchString(src)
	return ok
}

// ResolveBackReferences replaces every \N in src with the escaped text of
// groups[N]. References to groups that do not exist resolve to the empty
// string.
//
func ResolveBackReferences(src string, groups []string) string {
	out, err := backReference.ReplaceFunc(src, func(m regexp2.Match) string {
		n, err := strconv.Atoi(m.GroupByNumber(1).String())
		if err != nil || n >= len(groups) {
			return ""
		}
		return regexp2.Escape(groups[n])
	}, -1, -1)
	if err != nil {
		return src
	}
	return out
}

// CaptureTexts returns the text of each capture in caps. Groups that did
// not participate in the match yield the empty string.
//
func CaptureTexts(text []rune, caps []Range) []string {
	groups := make([]string, len(caps))
	for i, c := range caps {
		if c.Matched() && c.End <= len(text) {
			groups[i] = string(text[c.Start:c.End])
		}
	}
	return groups
}
