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
	"strconv"
	"strings"

	"github.com/isgasho/scie/grammar"
)

// A StateStack is the tokenizer state carried from one line to the next: a
// persistent stack of active rules. Stacks are never modified once returned
// by TokenizeLine, so callers may keep as many of them as they like (one per
// line of a document, for instance) at the cost of a pointer each.
//
type StateStack struct {
	parent *StateStack
	depth  int
	rule   *grammar.Rule

	// Anchor of the enclosing context when the frame was pushed. Only
	// meaningful on the line where the frame was pushed.
	anchorPos        int
	beginCapturedEOL bool

	// resolved end or while pattern source if it refers to begin captures
	endRule string

	nameScopes    *ScopeList
	contentScopes *ScopeList
}

// Initial is the state of the tokenizer before the first line of a
// document.
//
var Initial = &StateStack{}

func rootStack(g *grammar.Grammar) *StateStack {
	scopes := (*ScopeList)(nil).Push(g.ScopeName())
	return &StateStack{
		depth:         1,
		rule:          g.Root(),
		anchorPos:     0,
		nameScopes:    scopes,
		contentScopes: scopes,
	}
}

func (s *StateStack) push(rule *grammar.Rule, anchorPos int, capturedEOL bool, nameScopes, contentScopes *ScopeList) *StateStack {
	return &StateStack{
		parent:           s,
		depth:            s.depth + 1,
		rule:             rule,
		anchorPos:        anchorPos,
		beginCapturedEOL: capturedEOL,
		nameScopes:       nameScopes,
		contentScopes:    contentScopes,
	}
}

func (s *StateStack) withContentScopes(scopes *ScopeList) *StateStack {
	if s.contentScopes == scopes {
		return s
	}
	c := *s
	c.contentScopes = scopes
	return &c
}

func (s *StateStack) withEndRule(endRule string) *StateStack {
	if s.endRule == endRule {
		return s
	}
	c := *s
	c.endRule = endRule
	return &c
}

// Depth returns the number of frames in the stack. The stack of a document
// that has no open region has depth 1. Initial has depth 0.
//
func (s *StateStack) Depth() int {
	return s.depth
}

// Parent returns the stack without its innermost frame, or nil.
//
func (s *StateStack) Parent() *StateStack {
	return s.parent
}

// RuleID returns the ID of the innermost active rule, or 0 for Initial.
//
func (s *StateStack) RuleID() grammar.RuleID {
	if s.rule == nil {
		return 0
	}
	return s.rule.ID()
}

// EndRule returns the end or while pattern of the innermost frame with
// references to the begin captures resolved. It is empty unless the
// pattern has back references.
//
func (s *StateStack) EndRule() string {
	return s.endRule
}

// Scopes returns the scopes that apply to text inside the innermost frame.
//
func (s *StateStack) Scopes() []string {
	return s.contentScopes.Scopes()
}

// Equals returns true if s and o describe the same tokenizer state. Two
// lines that end in equal states tokenize the following line identically.
//
func (s *StateStack) Equals(o *StateStack) bool {
	if s == nil || o == nil {
		return s == o
	}
	for ; s != o; s, o = s.parent, o.parent {
		if s.depth != o.depth || s.RuleID() != o.RuleID() || s.endRule != o.endRule ||
			s.beginCapturedEOL != o.beginCapturedEOL ||
			!s.nameScopes.Equals(o.nameScopes) || !s.contentScopes.Equals(o.contentScopes) {
			return false
		}
	}
	return true
}

// Key returns a string that is identical for equal stacks. It is suitable
// as a map key.
//
func (s *StateStack) Key() string {
	frames := make([]*StateStack, 0, s.depth)
	for ; s != nil && s.depth > 0; s = s.parent {
		frames = append(frames, s)
	}
	var b strings.Builder
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		b.WriteString(strconv.Itoa(int(f.RuleID())))
		if f.beginCapturedEOL {
			b.WriteByte('$')
		}
		b.WriteByte('|')
		b.WriteString(strconv.Quote(f.endRule))
		b.WriteByte('|')
		b.WriteString(strconv.Quote(f.nameScopes.String()))
		b.WriteByte('|')
		b.WriteString(strconv.Quote(f.contentScopes.String()))
		b.WriteByte(';')
	}
	return b.String()
}

func (s *StateStack) String() string {
	var parts []string
	for ; s != nil && s.depth > 0; s = s.parent {
		parts = append(parts, s.rule.String())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "[" + strings.Join(parts, " ") + "]"
}
