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

/*
Package scie tokenizes source code one line at a time using TextMate
grammars, the format used by most syntax highlighting editors.

A grammar is a set of rules. Each rule either matches a single regular
expression (a match rule) or opens a region with a begin pattern that
extends until an end pattern matches (a begin/end rule), possibly over
several lines. Begin/while rules instead continue for as long as each new
line starts with a match of their while pattern. Every rule contributes a
scope name such as "string.quoted.double" to the text it covers.

Grammars are decoded and compiled by package grammar:

	raw, err := grammar.Parse(data)
	if err != nil {
		// handle error
	}
	g, err := grammar.Compile(raw)

TokenizeLine then turns a line into tokens. Each token is a span of the
line with the list of scopes that apply to it, outermost first:

	stack := scie.Initial
	for _, line := range lines {
		res := scie.TokenizeLine(g, line, stack)
		for _, t := range res.Tokens {
			fmt.Println(t.Start, t.End, t.Scopes)
		}
		stack = res.Stack
	}

State

The state carried from one line to the next is a StateStack: the stack of
regions open at the end of the line. Stacks are immutable and share their
common frames, so an editor can keep the stack of every line and restart
tokenization at any line after an edit. When the stack returned for an
edited line equals the one that was stored for it, the following lines do
not need to be tokenized again. Package linecache builds on this to cache
results by line text and stack.

Offsets

Token offsets count runes, not bytes. Lines are matched with a line
terminator appended, as grammars expect, but tokens never extend past the
end of the line.

Errors

Compilation reports every problem in a grammar as a *grammar.GrammarError.
Tokenization itself never fails: an end pattern that does not compile once
back references to the begin match are substituted is logged as a
*PatternError and never matches, and a search that runs past the match
timeout set with grammar.WithMatchTimeout is logged and treated as no match.
Both are counted with Prometheus counters.

Grammars that include other grammars by scope name are best loaded through
a Registry, which compiles each grammar once and resolves includes through
its Loader.
*/
package scie
