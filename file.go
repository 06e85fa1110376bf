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
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/isgasho/scie/grammar"
)

// Position describes a source position including the file, line, and column
// location.
//
type Position struct {
	Filename string
	Offset   int // rune index in the file
	Line     int // 1-based line number
	Column   int // 1-based column number (rune index)
}

// IsValid returns true if p denotes a position within the file.
//
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// A File is a document split into lines, ready for tokenization. It handles
// file offset to line/column conversion.
//
type File struct {
	name  string
	lines []string
	pos   []int // rune offset of each line
}

// NewFile reads r to the end and splits its content into lines. Line
// terminators ("\n" or "\r\n") are not part of the lines.
//
func NewFile(name string, r io.Reader) (*File, error) {
	f := &File{name: name}
	br := bufio.NewReader(r)
	offset := 0
	for {
		l, err := br.ReadString('\n')
		if len(l) > 0 {
			f.pos = append(f.pos, offset)
			offset += utf8.RuneCountInString(l)
			l = strings.TrimSuffix(l, "\n")
			l = strings.TrimSuffix(l, "\r")
			f.lines = append(f.lines, l)
		}
		if err == io.EOF {
			return f, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", name)
		}
	}
}

// Name returns the file name.
//
func (f *File) Name() string {
	return f.name
}

// LineCount returns the number of lines in the file.
//
func (f *File) LineCount() int {
	return len(f.lines)
}

// Line returns the text of the given 1-based line, or the empty string if
// there is no such line.
//
func (f *File) Line(line int) string {
	if line < 1 || line > len(f.lines) {
		return ""
	}
	return f.lines[line-1]
}

// LinePos return the file offset of the given line, or -1.
//
func (f *File) LinePos(line int) int {
	if line < 1 || line > len(f.pos) {
		return -1
	}
	return f.pos[line-1]
}

// Position returns the 1-based line and column for a given file offset. The
// result is not valid for negative offsets or an empty file.
//
func (f *File) Position(pos int) Position {
	i, j := 0, len(f.pos)
	for i < j {
		h := int(uint(i+j) >> 1)
		if !(f.pos[h] > pos) {
			i = h + 1
		} else {
			j = h
		}
	}
	if i == 0 {
		return Position{Filename: f.name, Offset: pos}
	}
	return Position{f.name, pos, i, pos - f.pos[i-1] + 1}
}

// TokenPosition returns the position of the start of a token found on the
// given line.
//
func (f *File) TokenPosition(line int, t Token) Position {
	lp := f.LinePos(line)
	if lp < 0 {
		return Position{Filename: f.name, Offset: -1}
	}
	return Position{f.name, lp + t.Start, line, t.Start + 1}
}

// Tokenize tokenizes all lines of the file with g.
//
func (f *File) Tokenize(g *grammar.Grammar) []LineResult {
	return TokenizeLines(g, f.lines, Initial)
}
