package ssml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// reparse renders the document and parses the result again.
func reparse(t *testing.T, doc *Document) *Document {
	t.Helper()
	out := doc.WriteSSML()
	doc2, err := Parse(out)
	require.NoError(t, err, "re-parsing %q", out)
	return doc2
}

// requireSameSkeleton compares kind, span and self-closing flag of every tag
// in document order. Parent pointers make the trees unsuitable for a plain
// deep-equality check.
func requireSameSkeleton(t *testing.T, a, b *Document) {
	t.Helper()
	at, bt := a.Tags(), b.Tags()
	require.Equal(t, len(at), len(bt))
	for i := range at {
		require.Equal(t, at[i].Kind, bt[i].Kind, "tag %d", i)
		require.Equal(t, at[i].Span, bt[i].Span, "tag %d (%s)", i, at[i].Kind)
		require.Equal(t, at[i].SelfClosing, bt[i].SelfClosing, "tag %d (%s)", i, at[i].Kind)
	}
	require.Equal(t, a.Text(), b.Text())
}

func TestWriteSSML_PlainDocument(t *testing.T) {
	doc := mustParse(t, `<speak><p><s>one.</s><s>two.</s></p></speak>`)
	require.Equal(t, `<speak version="1.1"><p><s>one.</s> <s>two.</s></p></speak>`, doc.WriteSSML())
}

func TestWriteSSML_SelfClosingAndAttributes(t *testing.T) {
	doc := mustParse(t, `<speak><break time="750ms" strength="medium"/></speak>`)
	require.Equal(t, `<speak version="1.1"><break strength="medium" time="750ms"/></speak>`, doc.WriteSSML())
}

func TestWriteSSML_EscapesTextAndAttributes(t *testing.T) {
	doc := mustParse(t, `<speak><mark name="a&amp;b"/>fish &amp; chips &lt;raw&gt;</speak>`)
	out := doc.WriteSSML()
	require.Contains(t, out, `name="a&amp;b"`)
	require.Contains(t, out, "fish &amp; chips &lt;raw&gt;")
}

func TestWriteSSML_SubKeepsLiteralContent(t *testing.T) {
	doc := mustParse(t, `<speak>the <sub alias="World Wide Web Consortium">W3C</sub>.</speak>`)
	require.Equal(t, `<speak version="1.1">the <sub alias="World Wide Web Consortium">W3C</sub>.</speak>`, doc.WriteSSML())
}

func TestWriteSSML_DescKeepsLiteralContent(t *testing.T) {
	doc := mustParse(t, `<speak><audio src="a.wav">alt<desc>door slam</desc></audio></speak>`)
	require.Equal(t, `<speak version="1.1"><audio src="a.wav">alt<desc>door slam</desc></audio></speak>`, doc.WriteSSML())
}

func TestWriteSSML_CustomTagsRoundTripVerbatim(t *testing.T) {
	doc := mustParse(t, `<speak><mstts:express-as style="cheerful">hi</mstts:express-as></speak>`)
	require.Equal(t, `<speak version="1.1"><mstts:express-as style="cheerful">hi</mstts:express-as></speak>`, doc.WriteSSML())
}

func TestWriteSSML_RoundTripSkeleton(t *testing.T) {
	srcs := []string{
		`<speak version="1.1" xml:lang="en-US"><p><s>You have 4 new messages.</s><s>The first is from Stephanie Williams and arrived at <break/> 3:45pm.</s></p></speak>`,
		`<speak><prosody rate="20%" pitch="+2st" volume="-6dB">hey</prosody></speak>`,
		`<speak><prosody contour="(0%,+20Hz) (40%,+10Hz)">hey</prosody></speak>`,
		`<speak><voice gender="female" age="30" name="anna">hi</voice></speak>`,
		`<speak><say-as interpret-as="date" format="mdy">1/2/2000</say-as></speak>`,
		`<speak><phoneme alphabet="ipa" ph="pɪˈkɑːn">pecan</phoneme></speak>`,
		`<speak><audio src="http://example.com/a.wav" fetchhint="safe" repeatCount="3">alt</audio></speak>`,
		`<speak>the <sub alias="World Wide Web Consortium">W3C</sub>.</speak>`,
		`<speak><lang xml:lang="fr" onlangfailure="ignoretext">bonjour</lang></speak>`,
		`<speak><emphasis level="strong">now</emphasis><break time="1.5 s"/></speak>`,
	}
	for _, src := range srcs {
		doc := mustParse(t, src)
		requireSameSkeleton(t, doc, reparse(t, doc))
	}
}

func TestWriteSSML_IsStableAcrossARewrite(t *testing.T) {
	doc := mustParse(t, `<speak><p><s>héllo <break time="2s"/> wörld</s></p></speak>`)
	once := doc.WriteSSML()
	twice := reparse(t, doc).WriteSSML()
	require.Equal(t, once, twice)
}

func TestFormatDuration(t *testing.T) {
	cases := map[string]string{
		"750ms": "750ms",
		"3s":    "3s",
		"1.5 s": "1500ms",
		"90s":   "90s",
	}
	for in, want := range cases {
		d, err := ParseTimeDesignation(in)
		require.NoError(t, err)
		require.Equal(t, want, formatDuration(d), in)
	}
}
