package scie_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isgasho/scie"
)

func TestFile(t *testing.T) {
	f, err := scie.NewFile("test.txt", strings.NewReader("héllo\r\n\nworld"))
	require.NoError(t, err)
	assert.Equal(t, "test.txt", f.Name())
	require.Equal(t, 3, f.LineCount())
	assert.Equal(t, "héllo", f.Line(1))
	assert.Equal(t, "", f.Line(2))
	assert.Equal(t, "world", f.Line(3))
	assert.Equal(t, "", f.Line(4))

	assert.Equal(t, 0, f.LinePos(1))
	assert.Equal(t, 7, f.LinePos(2))
	assert.Equal(t, 8, f.LinePos(3))
	assert.Equal(t, -1, f.LinePos(0))

	var data = [...]struct {
		pos  int
		line int
		col  int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{7, 2, 1},
		{10, 3, 3},
	}
	for _, d := range data {
		p := f.Position(d.pos)
		assert.True(t, p.IsValid())
		assert.Equal(t, d.line, p.Line, "pos %d", d.pos)
		assert.Equal(t, d.col, p.Column, "pos %d", d.pos)
	}
	assert.Equal(t, "test.txt:3:3", f.Position(10).String())
	assert.False(t, f.Position(-1).IsValid())
}

func TestFileTokenize(t *testing.T) {
	g := compile(t, testGrammar)
	f, err := scie.NewFile("a.test", strings.NewReader("x /* a\nb */ 42\n"))
	require.NoError(t, err)
	require.Equal(t, 2, f.LineCount())

	res := f.Tokenize(g)
	require.Len(t, res, 2)
	assert.Equal(t, 2, res[0].Stack.Depth())
	assert.Equal(t, 1, res[1].Stack.Depth())

	last := res[1].Tokens[len(res[1].Tokens)-1]
	assert.Equal(t, []string{"source.test", "constant.numeric"}, last.Scopes)
	p := f.TokenPosition(2, last)
	assert.Equal(t, "a.test:2:6", p.String())
	assert.Equal(t, 12, p.Offset)
}
