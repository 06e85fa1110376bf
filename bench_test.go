package scie_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/isgasho/scie"
)

func BenchmarkTokenizeLine(b *testing.B) {
	g := compile(b, testGrammar)
	rnd := rand.New(rand.NewSource(123456))
	words := []string{"f(", ")", "42", `"str\"ing"`, "/* c */", "// end", "x", " "}
	lines := make([]string, 64)
	for i := range lines {
		var sb strings.Builder
		for sb.Len() < 80 {
			sb.WriteString(words[rnd.Intn(len(words)-1)])
			sb.WriteByte(' ')
		}
		lines[i] = sb.String()
	}

	b.ResetTimer()

	stack := scie.Initial
	for i := 0; i < b.N; i++ {
		stack = scie.TokenizeLine(g, lines[i%len(lines)], stack).Stack
	}
}
