package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	data := []struct {
		name   string
		src    string
		allowA bool
		allowG bool
		want   string
		anch   bool
	}{
		{"plain", `a+b`, true, true, `a+b`, false},
		{"hex", `\h+`, true, true, `[0-9a-fA-F]+`, false},
		{"hexInClass", `[\h_]`, true, true, `[0-9a-fA-F_]`, false},
		{"notHex", `\H`, true, true, `[^0-9a-fA-F]`, false},
		{"notHexInClass", `[\Hx]`, true, true, "[" + nonHexDigits + "x]", false},
		{"codePoint", `\x{41}`, true, true, `\u0041`, false},
		{"shortHex", `\x41`, true, true, `\x41`, false},
		{"posix", `[[:digit:]]+`, true, true, `[\p{Nd}]+`, false},
		{"posixNeg", `[[:^space:]]`, true, true, `[\S]`, false},
		{"posixMixed", `[_[:upper:]]`, true, true, `[_\p{Lu}]`, false},
		{"nested", `[a[bc]]`, true, true, `[abc]`, false},
		{"closeFirst", `[]a]`, true, true, `[\]a]`, false},
		{"possessive", `a++b*+`, true, true, `a+b*`, false},
		{"lazy", `a+?b??`, true, true, `a+?b??`, false},
		{"group", `(?:a)?+`, true, true, `(?:a)?`, false},
		{"escaped", `\\G\+`, false, false, `\\G\+`, false},
		{"anchorG", `\Gfoo`, true, true, `\Gfoo`, true},
		{"noG", `\Gfoo`, true, false, `\uFFFFfoo`, true},
		{"noA", `\Afoo|\G`, false, true, `\uFFFFfoo|\G`, true},
		{"anchorInClass", `[\G]`, false, false, `[\G]`, false},
	}

	for _, td := range data {
		t.Run(td.name, func(t *testing.T) {
			got, anch := translate(td.src, td.allowA, td.allowG)
			assert.Equal(t, td.want, got)
			assert.Equal(t, td.anch, anch)
		})
	}
}

func TestNotHexInClass(t *testing.T) {
	p, err := Compile(`[\H_]+`)
	require.NoError(t, err)
	m, err := NewScanner(p).FindNextMatch([]rune("ab_zé9"), 0, true, true)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, Range{2, 5}, m.Captures[0])
}
