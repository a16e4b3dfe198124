package ssml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []token {
	t.Helper()
	s := newScanner(src)
	var toks []token
	for {
		tok := s.next()
		if tok.kind == tokErr {
			t.Fatalf("scan error: %s", s.err)
		}
		if tok.kind == tokEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestScanner_OpenTextClose(t *testing.T) {
	toks := scanAll(t, `<speak>hello</speak>`)
	require.Len(t, toks, 3)

	require.Equal(t, tokOpen, toks[0].kind)
	require.Equal(t, "speak", toks[0].name)
	require.Empty(t, toks[0].attrs)

	require.Equal(t, tokText, toks[1].kind)
	require.Equal(t, "hello", toks[1].text)

	require.Equal(t, tokClose, toks[2].kind)
	require.Equal(t, "speak", toks[2].name)
}

func TestScanner_SelfClosingTagWithAttributes(t *testing.T) {
	toks := scanAll(t, `<break time="750ms" strength='weak'/>`)
	require.Len(t, toks, 1)
	require.Equal(t, tokEmpty, toks[0].kind)
	require.Equal(t, "break", toks[0].name)
	require.Equal(t, []RawAttr{
		{Name: "time", Value: "750ms"},
		{Name: "strength", Value: "weak"},
	}, toks[0].attrs)
}

func TestScanner_AttributesAcrossNewlines(t *testing.T) {
	toks := scanAll(t, "<speak version=\"1.1\"\n\txml:lang=\"en-US\">x</speak>")
	require.Equal(t, []RawAttr{
		{Name: "version", Value: "1.1"},
		{Name: "xml:lang", Value: "en-US"},
	}, toks[0].attrs)
}

func TestScanner_ByteAndRunePositions(t *testing.T) {
	// "é" is two bytes but one scalar value.
	s := newScanner(`<s>héllo<break/></s>`)

	tok := s.next()
	require.Equal(t, tokOpen, tok.kind)
	require.Equal(t, 0, tok.off)
	require.Equal(t, 0, tok.pos)

	tok = s.next()
	require.Equal(t, tokText, tok.kind)
	require.Equal(t, 3, tok.off)
	require.Equal(t, 3, tok.pos)

	tok = s.next()
	require.Equal(t, tokEmpty, tok.kind)
	require.Equal(t, 9, tok.off) // byte offset counts é as two
	require.Equal(t, 8, tok.pos) // rune offset counts é as one
}

func TestScanner_DecodesEntities(t *testing.T) {
	toks := scanAll(t, `<speak>fish &amp; chips &lt;&gt; &#233; &#x1F600;</speak>`)
	require.Equal(t, "fish & chips <> é 😀", toks[1].text)
}

func TestScanner_DecodesEntitiesInAttributeValues(t *testing.T) {
	toks := scanAll(t, `<phoneme ph="&#x2C8;t&#x259;&quot;"/>`)
	require.Equal(t, "ˈtə\"", toks[0].attrs[0].Value)
}

func TestScanner_SkipsPrologDoctypeAndCDATA(t *testing.T) {
	src := `<?xml version="1.0"?><!DOCTYPE speak><![CDATA[ignored]]><speak>hi</speak>`
	toks := scanAll(t, src)
	require.Len(t, toks, 3)
	require.Equal(t, tokOpen, toks[0].kind)
	require.Equal(t, "speak", toks[0].name)
}

func TestScanner_ReportsComments(t *testing.T) {
	toks := scanAll(t, `<speak><!-- a comment -->hi</speak>`)
	require.Len(t, toks, 4)
	require.Equal(t, tokComment, toks[1].kind)
	require.Equal(t, tokText, toks[2].kind)
}

func TestScanner_Malformed(t *testing.T) {
	cases := map[string]string{
		"unterminated tag":       `<speak`,
		"unterminated comment":   `<!-- never closed`,
		"unquoted attribute":     `<break time=750ms/>`,
		"missing equals":         `<break time"750ms"/>`,
		"unterminated value":     `<break time="750ms/>`,
		"bad entity":             `<speak>&bogus;</speak>`,
		"unterminated entity":    `<speak>&amp</speak>`,
		"entity beyond unicode":  `<speak>&#x110000;</speak>`,
		"missing attr space":     `<break time="1s"strength="weak"/>`,
		"malformed close tag":    `<speak>x</ speak>`,
		"unterminated close tag": `<speak>x</speak`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			s := newScanner(src)
			for {
				tok := s.next()
				if tok.kind == tokErr {
					require.Equal(t, ErrMalformedMarkup, s.err.Kind)
					return
				}
				require.NotEqual(t, tokEOF, tok.kind, "expected a scan error")
			}
		})
	}
}

func TestScanner_ErrorCarriesPosition(t *testing.T) {
	s := newScanner(`<speak>é&bad;</speak>`)
	s.next() // open
	tok := s.next()
	require.Equal(t, tokErr, tok.kind)
	require.Equal(t, 9, s.err.Offset)
	require.Equal(t, 8, s.err.Pos)
}
