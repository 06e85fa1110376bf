package linecache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isgasho/scie"
	"github.com/isgasho/scie/grammar"
	"github.com/isgasho/scie/linecache"
)

const doc = `{
	"scopeName": "source",
	"patterns": [
		{"begin": "/\\*", "end": "\\*/", "name": "comment"},
		{"match": "\\d+", "name": "number"}
	]
}`

func newCache(t *testing.T, size int) *linecache.Cache {
	t.Helper()
	return newGrammarCache(t, doc, size)
}

func newGrammarCache(t *testing.T, doc string, size int) *linecache.Cache {
	t.Helper()
	raw, err := grammar.Parse([]byte(doc))
	require.NoError(t, err)
	g, err := grammar.Compile(raw)
	require.NoError(t, err)
	c, err := linecache.New(g, size)
	require.NoError(t, err)
	return c
}

func TestCache(t *testing.T) {
	c := newCache(t, 16)

	r1 := c.TokenizeLine("a 1 /* x", scie.Initial)
	assert.Equal(t, 1, c.Len())
	r2 := c.TokenizeLine("a 1 /* x", nil)
	assert.Equal(t, 1, c.Len())
	assert.Same(t, r1.Stack, r2.Stack)

	// a different line ending in an equal state shares the entry for the
	// next line
	s1 := c.TokenizeLine("/* y", scie.Initial).Stack
	n1 := c.TokenizeLine("z */ 2", r1.Stack)
	n2 := c.TokenizeLine("z */ 2", s1)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, n1.Tokens, n2.Tokens)

	// same text under a different state is a different entry
	c.TokenizeLine("z */ 2", n1.Stack)
	assert.Equal(t, 4, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestCacheLines(t *testing.T) {
	c := newCache(t, 2)
	lines := []string{"1 /*", "2", "*/ 3"}
	res := c.TokenizeLines(lines, scie.Initial)
	require.Len(t, res, 3)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, res[2].Stack.Depth())
	assert.Equal(t, []string{"source", "comment"}, res[1].Tokens[0].Scopes)
}

func TestCacheSize(t *testing.T) {
	raw, err := grammar.Parse([]byte(doc))
	require.NoError(t, err)
	g, err := grammar.Compile(raw)
	require.NoError(t, err)
	_, err = linecache.New(g, 0)
	assert.Error(t, err)
}

func TestCacheCapturedEOL(t *testing.T) {
	c := newGrammarCache(t, `{"scopeName": "source", "patterns": [{"begin": "a\\n?", "end": "\\Gb|c", "name": "r"}]}`, 16)
	eol := c.TokenizeLine("a", scie.Initial).Stack
	noEOL := c.TokenizeLine("a ", scie.Initial).Stack
	assert.Equal(t, 1, c.TokenizeLine("b", eol).Stack.Depth())
	assert.Equal(t, 2, c.TokenizeLine("b", noEOL).Stack.Depth())
	assert.Equal(t, 4, c.Len())
}
