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

package scie

import (
	"fmt"
	"slices"
	"strings"
)

// A Token is a span of a line together with the scopes that apply to it.
// Start and End are rune offsets.
//
type Token struct {
	Start, End int
	Scopes     []string
}

// Len returns the length of the token in runes.
//
func (t Token) Len() int {
	return t.End - t.Start
}

func (t Token) String() string {
	return fmt.Sprintf("[%d,%d) %s", t.Start, t.End, strings.Join(t.Scopes, " "))
}

// LineResult is the result of tokenizing a single line. Stack is the state
// to pass when tokenizing the next line.
//
type LineResult struct {
	Tokens []Token
	Stack  *StateStack
}

// Compact merges adjacent tokens that have the same scopes. The input slice
// is left untouched.
//
func Compact(tokens []Token) []Token {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]Token, 0, len(tokens))
	out = append(out, tokens[0])
	for _, t := range tokens[1:] {
		last := &out[len(out)-1]
		if last.End == t.Start && slices.Equal(last.Scopes, t.Scopes) {
			last.End = t.End
			continue
		}
		out = append(out, t)
	}
	return out
}
