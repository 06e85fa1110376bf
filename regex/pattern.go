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

// Package regex adapts a backtracking regular expression engine to the needs
// of grammar-driven tokenizers.
//
// Patterns are written in Oniguruma syntax, the dialect used by TextMate
// grammars. Compile translates the few constructs the engine does not know
// about (\h, \x{...}, POSIX bracket classes, possessive quantifiers) and
// prepares one compiled program per combination of the \A and \G anchors so
// that callers can decide at search time whether those anchors may match.
//
// A Scanner searches an ordered list of patterns and reports the one that
// matches first.
//
package regex

import (
	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// A Pattern is a compiled regular expression. Patterns are immutable and
// safe for concurrent use.
//
type Pattern struct {
	src      string
	anchored bool
	re       [4]*regexp2.Regexp // indexed by variant
}

// Compile compiles an Oniguruma regular expression.
//
func Compile(src string, opts ...Option) (*Pattern, error) {
	o := defOptions()
	for _, opt := range opts {
		opt(&o)
	}

	expr, anchored := translate(src, true, true)
	re, err := o.compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %q", src)
	}
	p := &Pattern{src: src, anchored: anchored}
	if !anchored {
		p.re = [4]*regexp2.Regexp{re, re, re, re}
		return p, nil
	}
	p.re[variant(true, true)] = re
	for _, v := range [...]struct{ a, g bool }{{false, false}, {false, true}, {true, false}} {
		expr, _ := translate(src, v.a, v.g)
		re, err := o.compile(expr)
		if err != nil {
			return nil, errors.Wrapf(err, "compiling %q", src)
		}
		p.re[variant(v.a, v.g)] = re
	}
	return p, nil
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
//
func MustCompile(src string, opts ...Option) *Pattern {
	p, err := Compile(src, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func (o *options) compile(expr string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(expr, o.flags)
	if err != nil {
		return nil, err
	}
	if o.timeout > 0 {
		re.MatchTimeout = o.timeout
	}
	return re, nil
}

func variant(allowA, allowG bool) int {
	var i int
	if allowA {
		i |= 2
	}
	if allowG {
		i |= 1
	}
	return i
}

// String returns the source text of the pattern.
//
func (p *Pattern) String() string {
	return p.src
}

// Anchored returns true if the pattern uses the \A or \G anchors.
//
func (p *Pattern) Anchored() bool {
	return p.anchored
}

func (p *Pattern) regexp(allowA, allowG bool) *regexp2.Regexp {
	return p.re[variant(allowA, allowG)]
}
