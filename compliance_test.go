package ssml

// Compliance documents derived from Appendix E of the SSML 1.1
// recommendation (https://www.w3.org/TR/speech-synthesis11), plus vendor
// documents adjusted to valid attribute values.

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompliance_SimpleExample(t *testing.T) {
	doc := mustParse(t, `<?xml version="1.0"?>
        <speak version="1.1"
               xmlns="http://www.w3.org/2001/10/synthesis"
               xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
               xsi:schemaLocation="http://www.w3.org/2001/10/synthesis
                           http://www.w3.org/TR/speech-synthesis11/synthesis.xsd"
               xml:lang="en-US">
          <p>
            <s>You have 4 new messages.</s>
            <s>The first is from Stephanie Williams and arrived at <break/> 3:45pm.
            </s>
            <s>
              The subject is <prosody rate="20%">ski trip</prosody>
            </s>
          </p>
        </speak>`)

	whole := "You have 4 new messages. The first is from Stephanie Williams and arrived at 3:45pm. The subject is ski trip"
	require.Equal(t, whole, strings.TrimSpace(doc.Text()))

	tags := doc.Tags()
	require.Len(t, tags, 7)

	require.Equal(t, Speak, tags[0].Kind)
	require.Equal(t, "en-US", tags[0].Attributes.(*SpeakAttrs).Lang)
	require.Equal(t, whole, strings.TrimSpace(doc.SpanText(tags[0].Span)))

	require.Equal(t, Paragraph, tags[1].Kind)
	require.Equal(t, whole, strings.TrimSpace(doc.SpanText(tags[1].Span)))

	require.Equal(t, Sentence, tags[2].Kind)
	require.Equal(t, "You have 4 new messages.", strings.TrimSpace(doc.SpanText(tags[2].Span)))

	require.Equal(t, Sentence, tags[3].Kind)
	require.Equal(t, "The first is from Stephanie Williams and arrived at 3:45pm.",
		strings.TrimSpace(doc.SpanText(tags[3].Span)))

	require.Equal(t, Break, tags[4].Kind)
	ba := tags[4].Attributes.(*BreakAttrs)
	require.Equal(t, BreakStrength(""), ba.Strength)
	require.Nil(t, ba.Time)

	require.Equal(t, Sentence, tags[5].Kind)
	require.Equal(t, "The subject is ski trip", strings.TrimSpace(doc.SpanText(tags[5].Span)))

	require.Equal(t, Prosody, tags[6].Kind)
	pa := tags[6].Attributes.(*ProsodyAttrs)
	require.Nil(t, pa.Pitch)
	require.Nil(t, pa.Contour)
	require.Nil(t, pa.Range)
	require.Equal(t, &Rate{Percent: 20}, pa.Rate)
	require.Nil(t, pa.Duration)
	require.Nil(t, pa.Volume)
}

func TestCompliance_AudioExample(t *testing.T) {
	doc := mustParse(t, `<?xml version="1.0"?>
        <speak version="1.1"
               xmlns="http://www.w3.org/2001/10/synthesis"
               xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
               xsi:schemaLocation="http://www.w3.org/2001/10/synthesis
                           http://www.w3.org/TR/speech-synthesis11/synthesis.xsd"
               xml:lang="en-US">

          <p>
            <voice gender="male">
              <s>Today we preview the latest romantic music from Example.</s>

              <s>Hear what the Software Reviews said about Example's newest hit.</s>
            </voice>
          </p>

          <p>
            <voice gender="female">
              He sings about issues that touch us all.
            </voice>
          </p>

          <p>
            <voice gender="male">
              Here's a sample.  <audio src="http://www.example.com/music.wav"/>
              Would you like to buy it?
            </voice>
          </p>

        </speak>
        `)
	require.Equal(t,
		"Today we preview the latest romantic music from Example. Hear what the Software Reviews said about Example's newest hit. He sings about issues that touch us all. Here's a sample. Would you like to buy it?",
		strings.TrimSpace(doc.Text()))
}

func TestCompliance_MixedLanguageExample(t *testing.T) {
	doc := mustParse(t, `<?xml version="1.0" encoding="ISO-8859-1"?>
        <speak version="1.1" xmlns="http://www.w3.org/2001/10/synthesis"
               xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
               xsi:schemaLocation="http://www.w3.org/2001/10/synthesis
                         http://www.w3.org/TR/speech-synthesis11/synthesis.xsd"
               xml:lang="en-US">

          The title of the movie is:
          "La vita è bella"
          (Life is beautiful),
          which is directed by Roberto Benigni.
        </speak>`)
	require.Equal(t,
		`The title of the movie is: "La vita è bella" (Life is beautiful), which is directed by Roberto Benigni.`,
		strings.TrimSpace(doc.Text()))
}

func TestCompliance_IPASupport(t *testing.T) {
	doc := mustParse(t, `<?xml version="1.0" encoding="ISO-8859-1"?>
        <speak version="1.1" xmlns="http://www.w3.org/2001/10/synthesis"
               xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
               xsi:schemaLocation="http://www.w3.org/2001/10/synthesis
                         http://www.w3.org/TR/speech-synthesis11/synthesis.xsd"
               xml:lang="en-US">

          The title of the movie is:
          <phoneme alphabet="ipa"
            ph="&#x2C8;l&#x251; &#x2C8;vi&#x2D0;&#x27E;&#x259; &#x2C8;&#x294;e&#x26A; &#x2C8;b&#x25B;l&#x259;">
          La vita è bella </phoneme>
          <!-- The IPA pronunciation is ˈlɑ ˈviːɾə ˈʔeɪ ˈbɛlə -->
          (Life is beautiful),
          which is directed by
          <phoneme alphabet="ipa"
            ph="&#x279;&#x259;&#x2C8;b&#x25B;&#x2D0;&#x279;&#x27E;o&#x28A; b&#x25B;&#x2C8;ni&#x2D0;nji">
          Roberto Benigni </phoneme>
          <!-- The IPA pronunciation is ɹəˈbɛːɹɾoʊ bɛˈniːnji -->
        </speak>`)
	require.Equal(t,
		"The title of the movie is: La vita è bella (Life is beautiful), which is directed by Roberto Benigni",
		strings.TrimSpace(doc.Text()))

	phonemes := doc.Query(Phoneme)
	require.Len(t, phonemes, 2)
	first := phonemes[0].Attributes.(*PhonemeAttrs)
	require.Equal(t, AlphabetIPA, first.Alphabet)
	require.Equal(t, "ˈlɑ ˈviːɾə ˈʔeɪ ˈbɛlə", first.Ph)
	second := phonemes[1].Attributes.(*PhonemeAttrs)
	require.Equal(t, AlphabetIPA, second.Alphabet)
	require.Equal(t, "ɹəˈbɛːɹɾoʊ bɛˈniːnji", second.Ph)
}

func TestCompliance_GoogleTTSExample(t *testing.T) {
	doc := mustParse(t, `<speak>
          Here are <say-as interpret-as="characters">SSML</say-as> samples.
          I can pause <break time="3s"/>.
          I can play a sound
          <audio src="https://www.example.com/MY_MP3_FILE.mp3">didn't get your MP3 audio file</audio>.
          I can speak in cardinals. Your number is <say-as interpret-as="cardinal">10</say-as>.
          Or I can speak in ordinals. You are <say-as interpret-as="ordinal">10</say-as> in line.
          Or I can even speak in digits. The digits for ten are <say-as interpret-as="characters">10</say-as>.
          I can also substitute phrases, like the <sub alias="World Wide Web Consortium">W3C</sub>.
          Finally, I can speak a paragraph with two sentences.
          <p><s>This is sentence one.</s><s>This is sentence two.</s></p>
        </speak>`)
	require.Equal(t,
		"Here are SSML samples. I can pause . I can play a sound didn't get your MP3 audio file. I can speak in cardinals. Your number is 10. Or I can speak in ordinals. You are 10 in line. Or I can even speak in digits. The digits for ten are 10. I can also substitute phrases, like the World Wide Web Consortium. Finally, I can speak a paragraph with two sentences. This is sentence one. This is sentence two.",
		strings.TrimSpace(doc.Text()))

	br := doc.Query(Break)
	require.Len(t, br, 1)
	require.Equal(t, 3*time.Second, *br[0].Attributes.(*BreakAttrs).Time)
}

func TestCompliance_VendorCustomTags(t *testing.T) {
	doc := mustParse(t, `<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xmlns:mstts="https://www.w3.org/2001/mstts" xml:lang="en-US">
    <mstts:backgroundaudio src="string" volume="string" fadein="string" fadeout="string"/>
    <voice name="string">
        <audio src="string"></audio>
        <bookmark mark="string"/>
        <break strength="medium" time="5s" />
        <emphasis level="reduced"></emphasis>
        <lang xml:lang="string"></lang>
        <lexicon xml:id="some_id" uri="string"/>
        <math xmlns="http://www.w3.org/1998/Math/MathML"></math>
        <mstts:express-as style="string" styledegree="value" role="string"></mstts:express-as>
        <mstts:silence type="string" value="string"/>
        <mstts:viseme type="string"/>
        <p></p>
        <phoneme alphabet="string" ph="string"></phoneme>
        <prosody pitch="2.2Hz" contour="(0%,+20Hz) (10%,+30Hz) (40%,+10Hz)" range="-2Hz" rate="20%" volume="2dB"></prosody>
        <s></s>
        <say-as interpret-as="characters" detail="string"></say-as>
        <sub alias="string"></sub>
    </voice>
</speak>`)
	require.Equal(t, "string", strings.TrimSpace(doc.Text())) // only the sub alias is spoken

	wantKinds := []ElementKind{
		Speak, "mstts:backgroundaudio", Voice, Audio, "bookmark", Break,
		Emphasis, Lang, Lexicon, "math", "mstts:express-as", "mstts:silence",
		"mstts:viseme", Paragraph, Phoneme, Prosody, Sentence, SayAs, Sub,
	}
	tags := doc.Tags()
	require.Len(t, tags, len(wantKinds))
	for i, tag := range tags {
		require.Equal(t, wantKinds[i], tag.Kind, "tag %d", i)
	}

	br := doc.Query(Break)[0].Attributes.(*BreakAttrs)
	require.Equal(t, StrengthMedium, br.Strength)
	require.Equal(t, 5*time.Second, *br.Time)

	ph := doc.Query(Phoneme)[0].Attributes.(*PhonemeAttrs)
	require.Equal(t, PhonemeAlphabet("string"), ph.Alphabet)
	require.Equal(t, "string", ph.Ph)

	pr := doc.Query(Prosody)[0].Attributes.(*ProsodyAttrs)
	require.Equal(t, &Pitch{Value: 2.2, Unit: UnitHertz}, pr.Pitch)
	require.Equal(t, &Pitch{Value: -2, Unit: UnitHertz, Relative: true}, pr.Range)
	require.Len(t, pr.Contour, 3)
}
