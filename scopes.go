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

import "strings"

// A ScopeList is a persistent list of scope names, outermost first. Lists
// share their prefix: Push returns a new list and never modifies the
// receiver. The nil *ScopeList is the empty list.
//
type ScopeList struct {
	parent *ScopeList
	scope  string
	size   int
}

// Push returns the list with the space separated scopes in name appended.
// Pushing the empty name returns l.
//
func (l *ScopeList) Push(name string) *ScopeList {
	if name == "" {
		return l
	}
	if strings.IndexByte(name, ' ') < 0 {
		return &ScopeList{parent: l, scope: name, size: l.Len() + 1}
	}
	for _, s := range strings.Fields(name) {
		l = &ScopeList{parent: l, scope: s, size: l.Len() + 1}
	}
	return l
}

// Len returns the number of scopes in l.
//
func (l *ScopeList) Len() int {
	if l == nil {
		return 0
	}
	return l.size
}

// Scopes returns the scope names in l, outermost first.
//
func (l *ScopeList) Scopes() []string {
	scopes := make([]string, l.Len())
	for i := len(scopes) - 1; l != nil; l, i = l.parent, i-1 {
		scopes[i] = l.scope
	}
	return scopes
}

// Equals returns true if l and o hold the same scope names.
//
func (l *ScopeList) Equals(o *ScopeList) bool {
	if l.Len() != o.Len() {
		return false
	}
	for ; l != o; l, o = l.parent, o.parent {
		if l.scope != o.scope {
			return false
		}
	}
	return true
}

func (l *ScopeList) String() string {
	return strings.Join(l.Scopes(), " ")
}
