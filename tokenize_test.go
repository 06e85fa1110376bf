package scie_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/d4l3k/messagediff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isgasho/scie"
	"github.com/isgasho/scie/grammar"
)

func compile(t testing.TB, doc string, opts ...grammar.Option) *grammar.Grammar {
	t.Helper()
	raw, err := grammar.Parse([]byte(doc))
	require.NoError(t, err)
	g, err := grammar.Compile(raw, opts...)
	require.NoError(t, err)
	return g
}

func tok(start, end int, scopes ...string) scie.Token {
	return scie.Token{Start: start, End: end, Scopes: scopes}
}

func checkTokens(t *testing.T, want, got []scie.Token) {
	t.Helper()
	if diff, equal := messagediff.PrettyDiff(want, got); !equal {
		t.Errorf("tokens differ:\n%s", diff)
	}
}

// checkPartition verifies that tokens cover line without gaps or overlaps
// and that every token has scopes.
func checkPartition(t *testing.T, line string, tokens []scie.Token) {
	t.Helper()
	n := utf8.RuneCountInString(line)
	require.NotEmpty(t, tokens)
	assert.Equal(t, 0, tokens[0].Start, "line %q", line)
	assert.Equal(t, n, tokens[len(tokens)-1].End, "line %q", line)
	for i, tk := range tokens {
		assert.NotEmpty(t, tk.Scopes, "line %q token %d", line, i)
		if n > 0 {
			assert.Less(t, tk.Start, tk.End, "line %q token %d", line, i)
		}
		if i > 0 {
			assert.Equal(t, tokens[i-1].End, tk.Start, "line %q token %d", line, i)
		}
	}
}

type lineTest struct {
	line   string
	tokens []scie.Token
	depth  int
}

func runLines(t *testing.T, g *grammar.Grammar, data []lineTest) {
	t.Helper()
	stack := scie.Initial
	for _, d := range data {
		res := scie.TokenizeLine(g, d.line, stack)
		checkTokens(t, d.tokens, res.Tokens)
		checkPartition(t, d.line, res.Tokens)
		assert.Equal(t, d.depth, res.Stack.Depth(), "line %q", d.line)
		stack = res.Stack
	}
}

func TestComment(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [{"match": "^#.*$", "name": "comment.line"}]}`)
	runLines(t, g, []lineTest{
		{"# hello", []scie.Token{tok(0, 7, "source", "comment.line")}, 1},
		{"a # b", []scie.Token{tok(0, 5, "source")}, 1},
	})
}

func TestBeginEndSameLine(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [{"begin": "\\(", "end": "\\)", "name": "paren"}]}`)
	runLines(t, g, []lineTest{
		{"(a)", []scie.Token{
			tok(0, 1, "source", "paren"),
			tok(1, 2, "source", "paren"),
			tok(2, 3, "source", "paren"),
		}, 1},
	})
}

func TestBackReference(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [{"begin": "(['\"])", "end": "\\1", "name": "string"}]}`)
	runLines(t, g, []lineTest{
		{`a'b"c'd`, []scie.Token{
			tok(0, 1, "source"),
			tok(1, 2, "source", "string"),
			tok(2, 5, "source", "string"),
			tok(5, 6, "source", "string"),
			tok(6, 7, "source"),
		}, 1},
		{"it's", []scie.Token{
			tok(0, 2, "source"),
			tok(2, 3, "source", "string"),
			tok(3, 4, "source", "string"),
		}, 2},
		{`"x'`, []scie.Token{
			tok(0, 2, "source", "string"),
			tok(2, 3, "source", "string"),
		}, 1},
	})

	res := scie.TokenizeLine(g, "it's", nil)
	assert.Equal(t, "'", res.Stack.EndRule())
}

func TestNoPatterns(t *testing.T) {
	g := compile(t, `{"scopeName": "source"}`)
	runLines(t, g, []lineTest{
		{"abc", []scie.Token{tok(0, 3, "source")}, 1},
		{"", []scie.Token{tok(0, 0, "source")}, 1},
	})
}

func TestEmptyLineInRegion(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [{"begin": "/\\*", "end": "\\*/", "name": "comment"}]}`)
	runLines(t, g, []lineTest{
		{"a /* b", []scie.Token{
			tok(0, 2, "source"),
			tok(2, 4, "source", "comment"),
			tok(4, 6, "source", "comment"),
		}, 2},
		{"", []scie.Token{tok(0, 0, "source", "comment")}, 2},
		{"c */ d", []scie.Token{
			tok(0, 2, "source", "comment"),
			tok(2, 4, "source", "comment"),
			tok(4, 6, "source"),
		}, 1},
	})
}

func TestContentName(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [
		{"begin": "\"", "end": "\"", "name": "str", "contentName": "content"}
	]}`)
	runLines(t, g, []lineTest{
		{`"ab"`, []scie.Token{
			tok(0, 1, "source", "str"),
			tok(1, 3, "source", "str", "content"),
			tok(3, 4, "source", "str"),
		}, 1},
	})
}

func TestMultipleScopes(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [{"match": "a", "name": "x y"}]}`)
	runLines(t, g, []lineTest{
		{"a", []scie.Token{tok(0, 1, "source", "x", "y")}, 1},
	})
}

func TestSelfInclude(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [
		{"begin": "\\(", "end": "\\)", "name": "paren", "patterns": [{"include": "$self"}]}
	]}`)
	runLines(t, g, []lineTest{
		{"((a))", []scie.Token{
			tok(0, 1, "source", "paren"),
			tok(1, 2, "source", "paren", "paren"),
			tok(2, 3, "source", "paren", "paren"),
			tok(3, 4, "source", "paren", "paren"),
			tok(4, 5, "source", "paren"),
		}, 1},
		{"((", []scie.Token{
			tok(0, 1, "source", "paren"),
			tok(1, 2, "source", "paren", "paren"),
		}, 3},
	})
}

func TestApplyEndPatternLast(t *testing.T) {
	const doc = `{"scopeName": "source", "patterns": [
		{"begin": "<", "end": ">", "name": "tag", "applyEndPatternLast": %s,
		 "patterns": [{"match": ">", "name": "inner"}]}
	]}`
	g := compile(t, fmt.Sprintf(doc, "false"))
	runLines(t, g, []lineTest{
		{"<>", []scie.Token{tok(0, 1, "source", "tag"), tok(1, 2, "source", "tag")}, 1},
	})
	g = compile(t, fmt.Sprintf(doc, "true"))
	runLines(t, g, []lineTest{
		{"<>", []scie.Token{tok(0, 1, "source", "tag"), tok(1, 2, "source", "tag", "inner")}, 2},
	})
}

func TestBeginWhile(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [
		{"begin": "^>", "while": "^>", "name": "quote",
		 "beginCaptures": {"0": {"name": "mark"}}, "whileCaptures": {"0": {"name": "mark"}}}
	]}`)
	runLines(t, g, []lineTest{
		{"> a", []scie.Token{
			tok(0, 1, "source", "quote", "mark"),
			tok(1, 3, "source", "quote"),
		}, 2},
		{"> b", []scie.Token{
			tok(0, 1, "source", "quote", "mark"),
			tok(1, 3, "source", "quote"),
		}, 2},
		{"c", []scie.Token{tok(0, 1, "source")}, 1},
	})
}

func TestNestedWhilePopsInner(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [
		{"begin": "^>", "while": "^>", "name": "quote", "patterns": [
			{"begin": "-", "while": "^>\\s*-", "name": "item"}
		]}
	]}`)
	runLines(t, g, []lineTest{
		{">-a", []scie.Token{
			tok(0, 1, "source", "quote"),
			tok(1, 2, "source", "quote", "item"),
			tok(2, 3, "source", "quote", "item"),
		}, 3},
		{">b", []scie.Token{
			tok(0, 1, "source", "quote"),
			tok(1, 2, "source", "quote"),
		}, 2},
	})
}

func TestCaptures(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [
		{"match": "(a)(b)?(c)", "name": "m", "captures": {"1": {"name": "x"}, "2": {"name": "y"}, "3": {"name": "z"}}},
		{"match": "((d)e)", "captures": {"1": {"name": "outer"}, "2": {"name": "inner"}}}
	]}`)
	runLines(t, g, []lineTest{
		{"ac", []scie.Token{
			tok(0, 1, "source", "m", "x"),
			tok(1, 2, "source", "m", "z"),
		}, 1},
		{"de", []scie.Token{
			tok(0, 1, "source", "outer", "inner"),
			tok(1, 2, "source", "outer"),
		}, 1},
	})
}

func TestCapturePatterns(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [
		{"match": "\"([^\"]*)\"", "name": "str",
		 "captures": {"1": {"patterns": [{"match": "\\\\.", "name": "esc"}]}}}
	]}`)
	runLines(t, g, []lineTest{
		{`"a\nb"`, []scie.Token{
			tok(0, 1, "source", "str"),
			tok(1, 2, "source", "str"),
			tok(2, 4, "source", "str", "esc"),
			tok(4, 5, "source", "str"),
			tok(5, 6, "source", "str"),
		}, 1},
	})
}

func TestCaptureNames(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [
		{"begin": "<(\\w+)>", "end": "</\\1>", "name": "tag.${1:/upcase}", "contentName": "body.$1"}
	]}`)
	runLines(t, g, []lineTest{
		{"<b>x</b>", []scie.Token{
			tok(0, 3, "source", "tag.B"),
			tok(3, 4, "source", "tag.B", "body.b"),
			tok(4, 8, "source", "tag.B"),
		}, 1},
	})
}

func TestGAnchor(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [
		{"begin": "a", "end": "$", "name": "r", "patterns": [{"match": "\\Gb", "name": "gb"}]}
	]}`)
	runLines(t, g, []lineTest{
		{"abb", []scie.Token{
			tok(0, 1, "source", "r"),
			tok(1, 2, "source", "r", "gb"),
			tok(2, 3, "source", "r"),
		}, 1},
	})
}

func TestGAnchorDocumentStart(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [{"match": "\\Gx", "name": "gx"}]}`)
	runLines(t, g, []lineTest{
		{"xy", []scie.Token{tok(0, 1, "source", "gx"), tok(1, 2, "source")}, 1},
		{"xy", []scie.Token{tok(0, 2, "source")}, 1},
	})
}

func TestRepositoryAlias(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [{"include": "#expr"}],
		"repository": {
			"expr": {"include": "#paren"},
			"paren": {"begin": "\\(", "end": "\\)", "name": "paren", "patterns": [{"include": "#expr"}]}
		}
	}`)
	runLines(t, g, []lineTest{
		{"((", []scie.Token{
			tok(0, 1, "source", "paren"),
			tok(1, 2, "source", "paren", "paren"),
		}, 3},
		{"))", []scie.Token{
			tok(0, 1, "source", "paren", "paren"),
			tok(1, 2, "source", "paren"),
		}, 1},
	})
}

func TestAAnchor(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [{"match": "\\Aa", "name": "first"}]}`)
	runLines(t, g, []lineTest{
		{"aa", []scie.Token{tok(0, 1, "source", "first"), tok(1, 2, "source")}, 1},
		{"aa", []scie.Token{tok(0, 2, "source")}, 1},
	})
}

func TestZeroWidthProgress(t *testing.T) {
	g := compile(t, `{"scopeName": "source", "patterns": [
		{"match": "(?=a)", "name": "la"},
		{"begin": "(?=b)", "end": "(?=b)", "name": "r"},
		{"begin": "\\b", "end": "\\b", "name": "w"}
	]}`)
	for _, line := range []string{"bab", "aaa", "b", "ab ba", ""} {
		res := scie.TokenizeLine(g, line, scie.Initial)
		checkPartition(t, line, res.Tokens)
	}
}

func TestInvalidDynamicPattern(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	g := compile(t, `{"scopeName": "source", "patterns": [{"begin": "(x)", "end": "\\1(", "name": "r"}]}`,
		grammar.WithLogger(log))
	runLines(t, g, []lineTest{
		{"xy", []scie.Token{tok(0, 1, "source", "r"), tok(1, 2, "source", "r")}, 2},
	})
	assert.Contains(t, buf.String(), "invalid pattern")
}

func TestStackRoundTrip(t *testing.T) {
	g := compile(t, testGrammar)
	for _, line := range []string{"(a)", `"x"`, "/* c */", "f(\"a\\\"b\")"} {
		res := scie.TokenizeLine(g, line, scie.Initial)
		assert.Equal(t, 1, res.Stack.Depth(), "line %q", line)
	}
}

const testGrammar = `{
	"scopeName": "source.test",
	"patterns": [
		{"include": "#comment"},
		{"include": "#string"},
		{"begin": "\\(", "end": "\\)", "name": "meta.paren",
		 "beginCaptures": {"0": {"name": "punctuation.open"}},
		 "endCaptures": {"0": {"name": "punctuation.close"}},
		 "patterns": [{"include": "$self"}]},
		{"match": "\\b(\\w+)(?=\\()", "captures": {"1": {"name": "entity.name.function"}}},
		{"match": "\\b\\d+\\b", "name": "constant.numeric"}
	],
	"repository": {
		"comment": {"patterns": [
			{"match": "//.*$", "name": "comment.line"},
			{"begin": "/\\*", "end": "\\*/", "name": "comment.block"}
		]},
		"string": {"begin": "([\"'])", "end": "\\1", "name": "string.quoted",
			"patterns": [{"match": "\\\\.", "name": "constant.character.escape"}]}
	}
}`

var testLines = []string{
	`f(1, "a\"b") // call`,
	`/* start`,
	`   end */ g((2))`,
	`'it"s'`,
	``,
	`((`,
	`))`,
}

func TestProperties(t *testing.T) {
	g := compile(t, testGrammar)
	stack := scie.Initial
	for _, line := range testLines {
		res := scie.TokenizeLine(g, line, stack)
		checkPartition(t, line, res.Tokens)

		again := scie.TokenizeLine(g, line, stack)
		checkTokens(t, res.Tokens, again.Tokens)
		assert.True(t, res.Stack.Equals(again.Stack))
		stack = res.Stack
	}
	assert.Equal(t, 1, stack.Depth())
}

func TestRandomLines(t *testing.T) {
	g := compile(t, testGrammar)
	rnd := rand.New(rand.NewSource(123456))
	const alphabet = `()"'\/*ab1 é`
	chars := []rune(alphabet)
	stack := scie.Initial
	for i := 0; i < 200; i++ {
		l := make([]rune, rnd.Intn(20))
		for j := range l {
			l[j] = chars[rnd.Intn(len(chars))]
		}
		line := string(l)
		res := scie.TokenizeLine(g, line, stack)
		checkPartition(t, line, res.Tokens)
		stack = res.Stack
	}
}

func TestTokenizeLines(t *testing.T) {
	g := compile(t, testGrammar)
	res := scie.TokenizeLines(g, testLines, scie.Initial)
	require.Len(t, res, len(testLines))
	stack := scie.Initial
	for i, line := range testLines {
		r := scie.TokenizeLine(g, line, stack)
		checkTokens(t, r.Tokens, res[i].Tokens)
		stack = r.Stack
	}
}
