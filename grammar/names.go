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
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/isgasho/scie/regex"
)

var captureRef = regexp2.MustCompile(`\$([0-9]+)|\$\{([0-9]+):/(downcase|upcase)\}`, regexp2.None)

func hasCaptureRefs(name string) bool {
	ok, _ := captureRef.MatchString(name)
	return ok
}

// resolveName substitutes $N and ${N:/upcase}, ${N:/downcase} in name with
// the text of the corresponding capture. Leading dots are removed from the
// captured text so that it cannot introduce an empty scope segment.
func resolveName(name string, text []rune, caps []regex.Range) string {
	out, err := captureRef.ReplaceFunc(name, func(m regexp2.Match) string {
		var cmd string
		g := m.GroupByNumber(1)
		if len(g.Captures) == 0 {
			g = m.GroupByNumber(2)
			cmd = m.GroupByNumber(3).String()
		}
		n, err := strconv.Atoi(g.String())
		if err != nil || n >= len(caps) {
			return m.String()
		}
		c := caps[n]
		if !c.Matched() || c.End > len(text) {
			return ""
		}
		s := strings.TrimLeft(string(text[c.Start:c.End]), ".")
		switch cmd {
		case "upcase":
			return cases.Upper(language.Und).String(s)
		case "downcase":
			return cases.Lower(language.Und).String(s)
		}
		return s
	}, -1, -1)
	if err != nil {
		return name
	}
	return out
}
