package directive

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseOrdinaryLines(t *testing.T) {
	lines := []string{
		"",
		"export PATH=$PATH:/usr/local/bin",
		"# plain comment without the prefix",
		"  #:IFDEF indented prefix does not count",
	}
	for _, line := range lines {
		d, isDirective, err := Parse("#:", line)
		assert.NoError(t, err)
		assert.False(t, isDirective, "line %q", line)
		assert.Zero(t, d)
	}
}

func TestParseEmptyPrefix(t *testing.T) {
	d, isDirective, err := Parse("", "#:IFDEF HOME")
	assert.NoError(t, err)
	assert.False(t, isDirective)
	assert.Zero(t, d)
}

func TestParseDirectives(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Directive
	}{
		{"ifdef", "#:IFDEF HOME", Directive{Kind: KindIfDef, Arg: "HOME"}},
		{"ifdef lowercase", "#:ifdef HOME", Directive{Kind: KindIfDef, Arg: "HOME"}},
		{"ifdef mixed case with tab", "#:IfDef\tHOME", Directive{Kind: KindIfDef, Arg: "HOME"}},
		{"ifdef empty expression", "#:IFDEF ", Directive{Kind: KindIfDef}},
		{"ifdef keeps inner spacing", "#:IFDEF $A  $B", Directive{Kind: KindIfDef, Arg: "$A  $B"}},
		{"ifdef strips carriage return", "#:IFDEF HOME\r", Directive{Kind: KindIfDef, Arg: "HOME"}},
		{"ifndef", "#:IFNDEF $EDITOR", Directive{Kind: KindIfNDef, Arg: "$EDITOR"}},
		{"if", "#:IF $SHELL == /bin/zsh", Directive{Kind: KindIf, Arg: "$SHELL", Arg2: "/bin/zsh"}},
		{"if without spaces", "#:IF a==b", Directive{Kind: KindIf, Arg: "a", Arg2: "b"}},
		{"if trims operands", "#:IF   a   ==   b  ", Directive{Kind: KindIf, Arg: "a", Arg2: "b"}},
		{"if splits at first equality", "#:IF a == b == c", Directive{Kind: KindIf, Arg: "a", Arg2: "b == c"}},
		{"else", "#:ELSE", Directive{Kind: KindElse}},
		{"else ignores trailing words", "#:ELSE otherwise", Directive{Kind: KindElse}},
		{"endif", "#:ENDIF", Directive{Kind: KindEndIf}},
		{"ask", "#:ASK Install the extra tools?", Directive{Kind: KindAsk, Arg: "Install the extra tools?"}},
		{"option", "#:OPTION vim with plugins", Directive{Kind: KindOption, Arg: "vim with plugins"}},
		{"endask", "#:ENDASK", Directive{Kind: KindEndAsk}},
		{"comment", "#:# managed by snapconf", Directive{Kind: KindComment}},
		{"comment glued to marker", "#:#managed", Directive{Kind: KindComment}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, isDirective, err := Parse("#:", tt.line)
			assert.NoError(t, err)
			assert.True(t, isDirective)
			assert.Equal(t, tt.want, *d)
		})
	}
}

func TestParseUnrecognized(t *testing.T) {
	lines := []string{
		"#:",
		"#:FROBNICATE now",
		"#:IFDEF",     // keyword without separator
		"#:ELSEWHERE", // glued keyword
		"#:IF a = b",  // missing ==
		"#:IF a ==",   // empty right-hand side
		"#:ASK",       // question is required
		"#:ASK ",
		"#:OPTION",
	}
	for _, line := range lines {
		d, isDirective, err := Parse("#:", line)
		assert.True(t, isDirective, "line %q", line)
		assert.Zero(t, d)
		assert.IsError(t, err, ErrUnrecognizedDirective)
	}
}

func TestParseAlternativePrefix(t *testing.T) {
	d, isDirective, err := Parse("//:", "//:ENDIF")
	assert.NoError(t, err)
	assert.True(t, isDirective)
	assert.Equal(t, Directive{Kind: KindEndIf}, *d)

	_, isDirective, err = Parse("//:", "#:ENDIF")
	assert.NoError(t, err)
	assert.False(t, isDirective)
}
