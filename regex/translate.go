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

package regex

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// never replaces a disabled \A or \G anchor. U+FFFF is a noncharacter and
// does not occur in text.
const never = `\uFFFF`

const hexDigits = `0-9a-fA-F`

// nonHexDigits is the complement of hexDigits as a list of ranges, usable
// inside a bracket class.
var nonHexDigits = `\x00-/:-@G-` + "`" + `g-` + string(unicode.MaxRune)

// posixClasses maps POSIX bracket class names to character class bodies.
// The second entry is the negated body, empty when there is none.
var posixClasses = map[string][2]string{
	"alnum":  {`\p{L}\p{M}\p{Nd}`, ""},
	"alpha":  {`\p{L}\p{M}`, `\P{L}`},
	"ascii":  {`\x00-\x7F`, `\u0080-\uFFFF`},
	"blank":  {`\p{Zs}\t`, ""},
	"cntrl":  {`\p{Cc}`, `\P{Cc}`},
	"digit":  {`\p{Nd}`, `\P{Nd}`},
	"graph":  {`\x21-\x7E`, ""},
	"lower":  {`\p{Ll}`, `\P{Ll}`},
	"print":  {`\x20-\x7E`, ""},
	"punct":  {`\p{P}\p{S}`, ""},
	"space":  {`\s`, `\S`},
	"upper":  {`\p{Lu}`, `\P{Lu}`},
	"word":   {`\w`, `\W`},
	"xdigit": {hexDigits, ""},
}

// translate rewrites an Oniguruma pattern into the dialect of the
// underlying engine. Anchors that are not allowed are replaced by a
// never-matching code point. anchored reports whether src uses \A or \G at
// all.
func translate(src string, allowA, allowG bool) (expr string, anchored bool) {
	var (
		b     strings.Builder
		rs    = []rune(src)
		depth int  // bracket nesting
		quant bool // last token was a quantifier
		prev  rune
	)
	b.Grow(len(src))
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\\' && i+1 < len(rs):
			i++
			e := rs[i]
			quant = false
			switch e {
			case 'A', 'G':
				if depth == 0 {
					anchored = true
					if (e == 'A' && !allowA) || (e == 'G' && !allowG) {
						b.WriteString(never)
						break
					}
				}
				b.WriteRune('\\')
				b.WriteRune(e)
			case 'h':
				if depth > 0 {
					b.WriteString(hexDigits)
				} else {
					b.WriteString("[" + hexDigits + "]")
				}
			case 'H':
				if depth > 0 {
					b.WriteString(nonHexDigits)
				} else {
					b.WriteString("[^" + hexDigits + "]")
				}
			case 'x':
				if n, cp, ok := braceCodePoint(rs[i+1:]); ok {
					writeCodePoint(&b, cp)
					i += n
					break
				}
				b.WriteString(`\x`)
			default:
				b.WriteRune('\\')
				b.WriteRune(e)
			}
		case r == '[' && depth == 0:
			depth = 1
			quant = false
			b.WriteRune(r)
			if i+1 < len(rs) && rs[i+1] == '^' {
				i++
				b.WriteRune('^')
			}
			if i+1 < len(rs) && rs[i+1] == ']' {
				i++
				b.WriteString(`\]`)
			}
		case r == '[':
			if name, neg, n, ok := posixClass(rs[i:]); ok {
				if cls, known := posixClasses[name]; known && (!neg || cls[1] != "") {
					if neg {
						b.WriteString(cls[1])
					} else {
						b.WriteString(cls[0])
					}
					i += n - 1
					break
				}
			}
			// nested classes are unions: flatten them
			depth++
		case r == ']' && depth > 0:
			depth--
			if depth == 0 {
				b.WriteRune(r)
			}
		case depth > 0:
			b.WriteRune(r)
		case r == '+' && quant:
			// possessive quantifier, matched greedily
			quant = false
		case r == '*' || r == '+':
			b.WriteRune(r)
			quant = true
		case r == '?':
			b.WriteRune(r)
			quant = !quant && prev != '('
		case r == '}':
			b.WriteRune(r)
			quant = true
		default:
			b.WriteRune(r)
			quant = false
		}
		prev = r
	}
	return b.String(), anchored
}

// braceCodePoint parses "{HHHH}" at the start of rs.
func braceCodePoint(rs []rune) (n int, cp rune, ok bool) {
	if len(rs) < 3 || rs[0] != '{' {
		return 0, 0, false
	}
	for j := 1; j < len(rs); j++ {
		if rs[j] == '}' {
			v, err := strconv.ParseUint(string(rs[1:j]), 16, 32)
			if err != nil || v > unicode.MaxRune {
				return 0, 0, false
			}
			return j + 1, rune(v), true
		}
	}
	return 0, 0, false
}

func writeCodePoint(b *strings.Builder, cp rune) {
	if cp <= 0xFFFF {
		fmt.Fprintf(b, `\u%04X`, cp)
		return
	}
	b.WriteRune(cp)
}

// posixClass parses "[:name:]" or "[:^name:]" at the start of rs and returns
// the number of runes it spans.
func posixClass(rs []rune) (name string, neg bool, n int, ok bool) {
	if len(rs) < 5 || rs[1] != ':' {
		return "", false, 0, false
	}
	for j := 2; j+1 < len(rs); j++ {
		switch {
		case rs[j] == ':' && rs[j+1] == ']':
			name = string(rs[2:j])
			if strings.HasPrefix(name, "^") {
				neg = true
				name = name[1:]
			}
			return name, neg, j + 2, name != ""
		case rs[j] == '^' && j == 2:
		case !unicode.IsLetter(rs[j]):
			return "", false, 0, false
		}
	}
	return "", false, 0, false
}
