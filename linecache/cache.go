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

// Package linecache memoizes line tokenization.
//
// The tokens of a line only depend on the grammar, the text of the line and
// the state at the end of the previous line. Editors that re-tokenize a
// document after each edit can therefore reuse most results.
//
package linecache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/isgasho/scie"
	"github.com/isgasho/scie/grammar"
)

type key struct {
	line  string
	state string
}

// A Cache holds the most recently used tokenization results of a grammar.
// It is safe for concurrent use. Cached results are shared: callers must
// not modify the returned tokens.
//
type Cache struct {
	g   *grammar.Grammar
	lru *lru.Cache[key, scie.LineResult]
}

// New returns a cache for grammar g holding up to size results.
//
func New(g *grammar.Grammar, size int) (*Cache, error) {
	c, err := lru.New[key, scie.LineResult](size)
	if err != nil {
		return nil, errors.Wrap(err, "linecache")
	}
	return &Cache{g: g, lru: c}, nil
}

// TokenizeLine is like scie.TokenizeLine but returns a cached result when
// the same line was tokenized from an equal stack.
//
func (c *Cache) TokenizeLine(line string, stack *scie.StateStack) scie.LineResult {
	if stack == nil {
		stack = scie.Initial
	}
	k := key{line: line, state: stack.Key()}
	if r, ok := c.lru.Get(k); ok {
		metricLookupsTotal.WithLabelValues("hit").Inc()
		return r
	}
	metricLookupsTotal.WithLabelValues("miss").Inc()
	r := scie.TokenizeLine(c.g, line, stack)
	c.lru.Add(k, r)
	return r
}

// TokenizeLines tokenizes consecutive lines starting from stack.
//
func (c *Cache) TokenizeLines(lines []string, stack *scie.StateStack) []scie.LineResult {
	res := make([]scie.LineResult, len(lines))
	for i, l := range lines {
		res[i] = c.TokenizeLine(l, stack)
		stack = res[i].Stack
	}
	return res
}

// Len returns the number of cached results.
//
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge empties the cache.
//
func (c *Cache) Purge() {
	c.lru.Purge()
}
