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
	"sort"
	"strings"

	"github.com/isgasho/scie/regex"
)

// Compile resolves the includes of raw, compiles its regular expressions and
// returns the resulting Grammar. Every problem is reported as a
// *GrammarError. Compiling the same RawGrammar twice yields identical rule
// IDs.
//
func Compile(raw *RawGrammar, opts ...Option) (*Grammar, error) {
	o := defOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if raw == nil {
		return nil, errorf("", "nil grammar")
	}
	if raw.ScopeName == "" {
		return nil, errorf("scopeName", "missing scope name")
	}

	c := &compiler{
		opts:      o,
		compiled:  make(map[*RawRule]*Rule),
		including: make(map[*RawRule]bool),
		patterns:  make(map[string]*regex.Pattern),
		grammars:  make(map[string]*grammarScope),
	}
	c.base = c.newScope(raw.ScopeName, raw)
	root, err := c.root(c.base)
	if err != nil {
		return nil, err
	}
	g := &Grammar{
		scopeName: raw.ScopeName,
		name:      raw.Name,
		fileTypes: raw.FileTypes,
		root:      root,
		rules:     c.rules,
		log:       o.log,
		timeout:   o.timeout,
	}
	if raw.FirstLineMatch != "" {
		if g.firstLine, err = c.pattern(raw.FirstLineMatch, "firstLineMatch"); err != nil {
			return nil, err
		}
	}
	for _, r := range c.rules {
		if r.active() {
			r.candidates = newCandidateSet(r)
		}
	}
	o.log.Debug("compiled grammar",
		"scope", raw.ScopeName,
		"rules", len(c.rules),
		"patterns", len(c.patterns),
		"grammars", len(c.grammars))
	return g, nil
}

// grammarScope is a grammar taking part in a compilation: the main one and
// every grammar reached through external includes.
type grammarScope struct {
	raw  *RawGrammar
	root *RawRule
	repo *repository
}

type repository struct {
	parent *repository
	rules  map[string]*RawRule
}

// lookup searches the innermost repository first.
func (r *repository) lookup(name string) *RawRule {
	for ; r != nil; r = r.parent {
		if rule, ok := r.rules[name]; ok {
			return rule
		}
	}
	return nil
}

// scope is the context in which include references are resolved.
type scope struct {
	self *grammarScope
	base *grammarScope
	repo *repository
}

type compiler struct {
	opts      options
	rules     []*Rule
	compiled  map[*RawRule]*Rule
	including map[*RawRule]bool
	patterns  map[string]*regex.Pattern
	grammars  map[string]*grammarScope
	base      *grammarScope
}

func (c *compiler) newScope(name string, raw *RawGrammar) *grammarScope {
	gs := &grammarScope{
		raw:  raw,
		root: &RawRule{Patterns: raw.Patterns},
		repo: &repository{rules: raw.Repository},
	}
	c.grammars[name] = gs
	return gs
}

func (c *compiler) root(gs *grammarScope) (*Rule, error) {
	return c.rule(gs.root, scope{self: gs, base: c.base, repo: gs.repo})
}

func (c *compiler) newRule(raw *RawRule, kind Kind) *Rule {
	r := &Rule{
		id:                  RuleID(len(c.rules) + 1),
		kind:                kind,
		name:                raw.Name,
		contentName:         raw.ContentName,
		nameRefs:            hasCaptureRefs(raw.Name),
		contentNameRefs:     hasCaptureRefs(raw.ContentName),
		applyEndPatternLast: raw.ApplyEndPatternLast,
	}
	c.rules = append(c.rules, r)
	// registered before descending so that recursive references find it
	c.compiled[raw] = r
	return r
}

func (c *compiler) rule(raw *RawRule, sc scope) (*Rule, error) {
	if raw.Include != "" {
		return c.include(raw, sc)
	}
	if r, ok := c.compiled[raw]; ok {
		return r, nil
	}
	if err := checkShape(raw); err != nil {
		return nil, err
	}
	// an include chain ends at a concrete rule
	chain := c.including
	c.including = make(map[*RawRule]bool)
	defer func() { c.including = chain }()

	if raw.Repository != nil {
		sc.repo = &repository{parent: sc.repo, rules: raw.Repository}
	}

	var err error
	switch {
	case raw.Match != "":
		r := c.newRule(raw, KindMatch)
		if r.match, err = c.pattern(raw.Match, join(raw.path, "match")); err != nil {
			return nil, err
		}
		if r.captures, err = c.captures(raw.Captures, join(raw.path, "captures"), sc); err != nil {
			return nil, err
		}
		return r, nil

	case raw.Begin != "":
		kind, cond, condKey, condCaps := KindBeginEnd, raw.End, "end", raw.EndCaptures
		if raw.While != "" {
			kind, cond, condKey, condCaps = KindBeginWhile, raw.While, "while", raw.WhileCaptures
		}
		r := c.newRule(raw, kind)
		if r.begin, err = c.pattern(raw.Begin, join(raw.path, "begin")); err != nil {
			return nil, err
		}
		r.condSrc = cond
		r.condRefs = regex.HasBackReferences(cond)
		if !r.condRefs {
			if r.cond, err = c.pattern(cond, join(raw.path, condKey)); err != nil {
				return nil, err
			}
		}
		beginCaps, beginKey := raw.BeginCaptures, "beginCaptures"
		if beginCaps == nil {
			beginCaps, beginKey = raw.Captures, "captures"
		}
		condKey += "Captures"
		if condCaps == nil {
			condCaps, condKey = raw.Captures, "captures"
		}
		if r.beginCaptures, err = c.captures(beginCaps, join(raw.path, beginKey), sc); err != nil {
			return nil, err
		}
		if r.condCaptures, err = c.captures(condCaps, join(raw.path, condKey), sc); err != nil {
			return nil, err
		}
		if r.patterns, err = c.patternList(raw.Patterns, sc); err != nil {
			return nil, err
		}
		return r, nil

	default:
		r := c.newRule(raw, KindIncludeOnly)
		if r.patterns, err = c.patternList(raw.Patterns, sc); err != nil {
			return nil, err
		}
		return r, nil
	}
}

func checkShape(raw *RawRule) error {
	switch {
	case raw.Match != "" && (raw.Begin != "" || raw.End != "" || raw.While != ""):
		return errorf(raw.path, "rule has both match and begin")
	case raw.Begin != "" && raw.End != "" && raw.While != "":
		return errorf(raw.path, "rule has both end and while")
	case raw.Begin != "" && raw.End == "" && raw.While == "":
		return errorf(raw.path, "begin without end or while")
	case raw.Begin == "" && (raw.End != "" || raw.While != ""):
		return errorf(raw.path, "end or while without begin")
	}
	return nil
}

func (c *compiler) patternList(raws []*RawRule, sc scope) ([]*Rule, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	rules := make([]*Rule, 0, len(raws))
	for _, raw := range raws {
		r, err := c.rule(raw, sc)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func (c *compiler) captures(m map[int]*RawRule, path string, sc scope) ([]*Rule, error) {
	if len(m) == 0 {
		return nil, nil
	}
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	caps := make([]*Rule, keys[len(keys)-1]+1)
	for _, n := range keys {
		raw := m[n]
		if r, ok := c.compiled[raw]; ok {
			caps[n] = r
			continue
		}
		if raw.Match != "" || raw.Begin != "" || raw.End != "" || raw.While != "" || raw.Include != "" {
			return nil, errorf(join(path, fmt.Sprint(n)), "capture must only have name, contentName and patterns")
		}
		r := c.newRule(raw, KindCapture)
		if len(raw.Patterns) > 0 {
			csc := sc
			if raw.Repository != nil {
				csc.repo = &repository{parent: sc.repo, rules: raw.Repository}
			}
			var err error
			if r.patterns, err = c.patternList(raw.Patterns, csc); err != nil {
				return nil, err
			}
		}
		caps[n] = r
	}
	return caps, nil
}

func (c *compiler) include(raw *RawRule, sc scope) (*Rule, error) {
	if c.including[raw] {
		return nil, errorf(raw.path, "include cycle through %q", raw.Include)
	}
	c.including[raw] = true
	defer delete(c.including, raw)

	ref := raw.Include
	switch {
	case ref == "$self":
		return c.root(sc.self)
	case ref == "$base":
		return c.root(sc.base)
	case strings.HasPrefix(ref, "#"):
		target := sc.repo.lookup(ref[1:])
		if target == nil {
			return nil, errorf(raw.path, "unknown repository key %q", ref[1:])
		}
		return c.rule(target, sc)
	}

	name, key, _ := strings.Cut(ref, "#")
	gs, err := c.grammar(name, raw.path)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return c.root(gs)
	}
	target := gs.repo.lookup(key)
	if target == nil {
		return nil, errorf(raw.path, "unknown repository key %q in grammar %q", key, name)
	}
	return c.rule(target, scope{self: gs, base: sc.base, repo: gs.repo})
}

func (c *compiler) grammar(name, path string) (*grammarScope, error) {
	if gs, ok := c.grammars[name]; ok {
		return gs, nil
	}
	if c.opts.resolve == nil {
		return nil, errorf(path, "cannot include grammar %q: no include resolver", name)
	}
	raw, err := c.opts.resolve(name)
	if err != nil {
		return nil, &GrammarError{Path: path, Msg: fmt.Sprintf("resolving grammar %q", name), Err: err}
	}
	if raw == nil {
		return nil, errorf(path, "grammar %q not found", name)
	}
	c.opts.log.Debug("included external grammar", "scope", name)
	return c.newScope(name, raw), nil
}

func (c *compiler) pattern(src, path string) (*regex.Pattern, error) {
	if p, ok := c.patterns[src]; ok {
		return p, nil
	}
	p, err := compilePattern(src, c.opts.timeout)
	if err != nil {
		return nil, &GrammarError{Path: path, Msg: "invalid regular expression", Err: err}
	}
	c.patterns[src] = p
	return p, nil
}
