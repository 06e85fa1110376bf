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
	"log/slog"
	"time"

	"github.com/isgasho/scie/regex"
)

// A Grammar is a compiled grammar, ready for tokenization. Grammars are
// immutable and safe for concurrent use.
//
type Grammar struct {
	scopeName string
	name      string
	fileTypes []string
	firstLine *regex.Pattern
	root      *Rule
	rules     []*Rule
	log       *slog.Logger
	timeout   time.Duration
}

// ScopeName returns the root scope name of the grammar, e.g. "source.go".
//
func (g *Grammar) ScopeName() string {
	return g.scopeName
}

// Name returns the human readable name of the grammar.
//
func (g *Grammar) Name() string {
	return g.name
}

// FileTypes returns the file extensions the grammar applies to.
//
func (g *Grammar) FileTypes() []string {
	return g.fileTypes
}

// Root returns the rule active at the start of a document.
//
func (g *Grammar) Root() *Rule {
	return g.root
}

// Rule returns the rule with the given id, or nil.
//
func (g *Grammar) Rule(id RuleID) *Rule {
	if id < 1 || int(id) > len(g.rules) {
		return nil
	}
	return g.rules[id-1]
}

// RuleCount returns the number of compiled rules.
//
func (g *Grammar) RuleCount() int {
	return len(g.rules)
}

// Logger returns the logger configured with WithLogger.
//
func (g *Grammar) Logger() *slog.Logger {
	return g.log
}

// CompilePattern compiles src with the grammar's regex settings. Tokenizers
// use it for end and while patterns that refer to captures of the begin
// match.
//
func (g *Grammar) CompilePattern(src string) (*regex.Pattern, error) {
	return compilePattern(src, g.timeout)
}

// MatchesFirstLine reports whether line matches the grammar's
// firstLineMatch pattern.
//
func (g *Grammar) MatchesFirstLine(line string) bool {
	if g.firstLine == nil {
		return false
	}
	m, _ := regex.NewScanner(g.firstLine).FindNextMatch([]rune(line), 0, true, true)
	return m != nil
}

func compilePattern(src string, timeout time.Duration) (*regex.Pattern, error) {
	if timeout > 0 {
		return regex.Compile(src, regex.MatchTimeout(timeout))
	}
	return regex.Compile(src)
}
