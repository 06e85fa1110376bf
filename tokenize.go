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
	"log/slog"

	"github.com/isgasho/scie/grammar"
	"github.com/isgasho/scie/regex"
)

// TokenizeLine tokenizes line with grammar g. stack is the state returned
// for the previous line, or Initial (or nil) for the first line of a
// document. line must not contain line terminators.
//
// The returned tokens cover the whole line without gaps or overlaps, in
// order. An empty line yields a single empty token. TokenizeLine never
// fails: patterns that cannot be searched are logged and treated as not
// matching.
//
func TokenizeLine(g *grammar.Grammar, line string, stack *StateStack) LineResult {
	isFirstLine := stack == nil || stack.depth == 0
	if isFirstLine {
		stack = rootStack(g)
	}
	t := newLineTokenizer(g)
	// grammars rely on matching the line terminator
	text := []rune(line + "\n")
	stack = t.scan(text, isFirstLine, 0, stack, true)
	metricLinesTotal.WithLabelValues(g.ScopeName()).Inc()
	return LineResult{Tokens: t.result(len(text)-1, stack), Stack: stack}
}

// TokenizeLines tokenizes consecutive lines of a document, starting from
// stack. It returns one result per line.
//
func TokenizeLines(g *grammar.Grammar, lines []string, stack *StateStack) []LineResult {
	res := make([]LineResult, len(lines))
	for i, l := range lines {
		res[i] = TokenizeLine(g, l, stack)
		stack = res[i].Stack
	}
	return res
}

type lineTokenizer struct {
	g       *grammar.Grammar
	log     *slog.Logger
	tokens  []Token
	lastEnd int

	// frames pushed while tokenizing this line
	fresh map[*StateStack]bool

	// end and while patterns with resolved back references
	dynamic  map[string]*regex.Pattern
	scanners map[scannerKey]*regex.Scanner
}

type scannerKey struct {
	rule grammar.RuleID
	end  string
}

func newLineTokenizer(g *grammar.Grammar) *lineTokenizer {
	return &lineTokenizer{
		g:        g,
		log:      g.Logger(),
		fresh:    make(map[*StateStack]bool),
		dynamic:  make(map[string]*regex.Pattern),
		scanners: make(map[scannerKey]*regex.Scanner),
	}
}

// produce emits a token from the end of the last token up to end.
func (t *lineTokenizer) produce(scopes *ScopeList, end int) {
	if t.lastEnd >= end {
		return
	}
	t.tokens = append(t.tokens, Token{Start: t.lastEnd, End: end, Scopes: scopes.Scopes()})
	t.lastEnd = end
}

// result drops the token for the appended line terminator and clips the
// others to the line length.
func (t *lineTokenizer) result(lineLen int, stack *StateStack) []Token {
	tokens := t.tokens[:0]
	for _, tok := range t.tokens {
		if tok.Start >= lineLen {
			break
		}
		if tok.End > lineLen {
			tok.End = lineLen
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		tokens = append(tokens, Token{Start: 0, End: lineLen, Scopes: stack.Scopes()})
	}
	return tokens
}

// scan tokenizes text from pos to its end and returns the resulting stack.
// checkWhile is false when retokenizing captures.
func (t *lineTokenizer) scan(text []rune, isFirstLine bool, pos int, stack *StateStack, checkWhile bool) *StateStack {
	anchor := -1
	if checkWhile {
		stack, pos, anchor, isFirstLine = t.checkWhileConditions(text, isFirstLine, pos, stack)
	}

	from, lastEmpty := pos, -1
	for {
		m, rule, isEnd := t.match(text, isFirstLine, from, stack, anchor)
		if m == nil {
			t.produce(stack.contentScopes, len(text))
			return stack
		}
		start, end := m.Captures[0].Start, m.Captures[0].End
		if start == end {
			if start == lastEmpty {
				// second empty match in a row at the same offset
				from = start + 1
				continue
			}
			lastEmpty = start
		}

		if isEnd {
			popped := stack
			t.produce(stack.contentScopes, start)
			stack = stack.withContentScopes(stack.nameScopes)
			t.handleCaptures(text, isFirstLine, stack, popped.rule.ConditionCaptures(), m.Captures)
			t.produce(stack.contentScopes, end)
			stack = stack.parent
			anchor = -1
			if t.fresh[popped] {
				anchor = popped.anchorPos
			}
		} else {
			t.produce(stack.contentScopes, start)
			nameScopes := stack.contentScopes.Push(rule.Name(text, m.Captures))
			switch rule.Kind() {
			case grammar.KindBeginEnd, grammar.KindBeginWhile:
				next := stack.push(rule, anchor, end == len(text), nameScopes, nameScopes)
				t.handleCaptures(text, isFirstLine, next, rule.BeginCaptures(), m.Captures)
				t.produce(next.contentScopes, end)
				anchor = end
				next = next.withContentScopes(nameScopes.Push(rule.ContentName(text, m.Captures)))
				if rule.ConditionHasBackReferences() {
					next = next.withEndRule(regex.ResolveBackReferences(rule.ConditionSource(), regex.CaptureTexts(text, m.Captures)))
				}
				t.fresh[next] = true
				stack = next
			default:
				tmp := stack.push(rule, anchor, false, nameScopes, nameScopes)
				t.handleCaptures(text, isFirstLine, tmp, rule.Captures(), m.Captures)
				t.produce(nameScopes, end)
			}
		}

		if end > pos {
			pos = end
			isFirstLine = false
		}
		from = pos
	}
}

// match searches the candidates of the innermost rule. isEnd reports a
// match of the end pattern.
func (t *lineTokenizer) match(text []rune, isFirstLine bool, from int, stack *StateStack, anchor int) (m *regex.Match, rule *grammar.Rule, isEnd bool) {
	c := stack.rule.Candidates()
	if c == nil || c.Len() == 0 {
		return nil, nil, false
	}
	m, err := t.scanner(stack, c).FindNextMatch(text, from, isFirstLine, from == anchor)
	if err != nil {
		t.searchFailed(stack.rule, err)
	}
	if m == nil {
		return nil, nil, false
	}
	return m, c.Rule(m.Index), m.Index == c.End()
}

func (t *lineTokenizer) scanner(stack *StateStack, c *grammar.CandidateSet) *regex.Scanner {
	if c.End() < 0 || !stack.rule.ConditionHasBackReferences() {
		return c.Scanner()
	}
	k := scannerKey{stack.rule.ID(), stack.endRule}
	if s, ok := t.scanners[k]; ok {
		return s
	}
	s := c.ScannerWithEnd(t.dynamicPattern(stack.rule, stack.endRule))
	t.scanners[k] = s
	return s
}

// dynamicPattern compiles an end or while pattern with resolved back
// references. It returns nil if the pattern does not compile.
func (t *lineTokenizer) dynamicPattern(rule *grammar.Rule, src string) *regex.Pattern {
	if p, ok := t.dynamic[src]; ok {
		return p
	}
	p, err := t.g.CompilePattern(src)
	if err != nil {
		t.log.Warn("invalid pattern after back reference substitution",
			"scope", t.g.ScopeName(),
			"err", &PatternError{RuleID: rule.ID(), Source: src, Err: err})
		metricPatternErrorsTotal.WithLabelValues(t.g.ScopeName()).Inc()
		p = nil
	}
	t.dynamic[src] = p
	return p
}

func (t *lineTokenizer) searchFailed(rule *grammar.Rule, err error) {
	t.log.Warn("pattern search failed", "scope", t.g.ScopeName(), "rule", rule.String(), "err", err)
	metricRegexTimeoutsTotal.WithLabelValues(t.g.ScopeName()).Inc()
}

// checkWhileConditions runs the while patterns of all begin/while frames,
// outermost first. The first failing condition pops its frame and all the
// frames above it.
func (t *lineTokenizer) checkWhileConditions(text []rune, isFirstLine bool, pos int, stack *StateStack) (*StateStack, int, int, bool) {
	// the start of a document is an anchor, as is the start of a line
	// following a begin match that consumed the line terminator
	anchor := -1
	if isFirstLine || stack.beginCapturedEOL {
		anchor = 0
	}
	var frames []*StateStack
	for s := stack; s != nil && s.depth > 0; s = s.parent {
		if s.rule.Kind() == grammar.KindBeginWhile {
			frames = append(frames, s)
		}
	}
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		p := f.rule.Condition()
		if f.rule.ConditionHasBackReferences() {
			p = t.dynamicPattern(f.rule, f.endRule)
		}
		m, err := regex.NewScanner(p).FindNextMatch(text, pos, isFirstLine, pos == anchor)
		if err != nil {
			t.searchFailed(f.rule, err)
		}
		if m == nil {
			t.log.Debug("while condition failed", "scope", t.g.ScopeName(), "rule", f.rule.String(), "depth", f.depth)
			stack = f.parent
			break
		}
		start, end := m.Captures[0].Start, m.Captures[0].End
		t.produce(f.contentScopes, start)
		t.handleCaptures(text, isFirstLine, f, f.rule.ConditionCaptures(), m.Captures)
		t.produce(f.contentScopes, end)
		anchor = end
		if end > pos {
			pos = end
			isFirstLine = false
		}
	}
	return stack, pos, anchor, isFirstLine
}

type captureScope struct {
	scopes *ScopeList
	end    int
}

// handleCaptures emits the tokens for the capture groups of a match. A
// capture nested in a previous one is scoped on top of it. Captures with
// patterns are tokenized again with those patterns.
func (t *lineTokenizer) handleCaptures(text []rune, isFirstLine bool, stack *StateStack, rules []*grammar.Rule, caps []regex.Range) {
	if len(rules) == 0 {
		return
	}
	n := min(len(rules), len(caps))
	maxEnd := caps[0].End
	var local []captureScope
	for i := 0; i < n; i++ {
		r, c := rules[i], caps[i]
		if r == nil || c.Len() <= 0 {
			continue
		}
		if c.Start > maxEnd {
			break
		}
		for len(local) > 0 && local[len(local)-1].end <= c.Start {
			top := local[len(local)-1]
			t.produce(top.scopes, top.end)
			local = local[:len(local)-1]
		}
		if len(local) > 0 {
			t.produce(local[len(local)-1].scopes, c.Start)
		} else {
			t.produce(stack.contentScopes, c.Start)
		}

		if r.HasPatterns() {
			nameScopes := stack.contentScopes.Push(r.Name(text, caps))
			sub := stack.push(r, -1, false, nameScopes, nameScopes.Push(r.ContentName(text, caps)))
			t.scan(text[:c.End], isFirstLine && c.Start == 0, c.Start, sub, false)
			continue
		}
		if name := r.Name(text, caps); name != "" {
			base := stack.contentScopes
			if len(local) > 0 {
				base = local[len(local)-1].scopes
			}
			local = append(local, captureScope{base.Push(name), c.End})
		}
	}
	for i := len(local) - 1; i >= 0; i-- {
		t.produce(local[i].scopes, local[i].end)
	}
}
