// Package ssml parses Speech Synthesis Markup Language ([SSML]) documents
// into an immutable document model: the plain text a synthesiser would
// speak, a typed tag tree, and an ordered event log, with every tag carrying
// a span of Unicode scalar positions into the extracted text.
//
// [SSML]: https://www.w3.org/TR/speech-synthesis11/
package ssml

import (
	"net/url"
	"time"
)

// Implemented SSML specification version.
const Version = "1.1"

// ElementKind names an SSML element. The standard SSML 1.1 vocabulary is
// covered by the constants below; any other value is a custom (non-standard)
// element kind carrying its raw tag name.
type ElementKind string

const (
	Speak       ElementKind = "speak"
	Lexicon     ElementKind = "lexicon"
	Lookup      ElementKind = "lookup"
	Meta        ElementKind = "meta"
	Metadata    ElementKind = "metadata"
	Paragraph   ElementKind = "p"
	Sentence    ElementKind = "s"
	Token       ElementKind = "token"
	Word        ElementKind = "w"
	SayAs       ElementKind = "say-as"
	Phoneme     ElementKind = "phoneme"
	Sub         ElementKind = "sub"
	Lang        ElementKind = "lang"
	Voice       ElementKind = "voice"
	Emphasis    ElementKind = "emphasis"
	Break       ElementKind = "break"
	Prosody     ElementKind = "prosody"
	Audio       ElementKind = "audio"
	Mark        ElementKind = "mark"
	Description ElementKind = "desc"
)

var standardKinds = map[ElementKind]bool{
	Speak: true, Lexicon: true, Lookup: true, Meta: true, Metadata: true,
	Paragraph: true, Sentence: true, Token: true, Word: true, SayAs: true,
	Phoneme: true, Sub: true, Lang: true, Voice: true, Emphasis: true,
	Break: true, Prosody: true, Audio: true, Mark: true, Description: true,
}

// Custom reports whether the kind is outside the standard SSML vocabulary.
func (k ElementKind) Custom() bool { return !standardKinds[k] }

func (k ElementKind) String() string { return string(k) }

// container reports whether the element may have child elements at all.
func (k ElementKind) container() bool {
	switch k {
	case Speak, Paragraph, Sentence, Voice, Emphasis, Token, Word, Lang, Prosody, Audio:
		return true
	}
	return k.Custom()
}

// sentenceContent is the set of standard kinds permitted inside s, and
// inside emphasis.
var sentenceContent = map[ElementKind]bool{
	Audio: true, Break: true, Emphasis: true, Lang: true, Lookup: true,
	Mark: true, Phoneme: true, Prosody: true, SayAs: true, Sub: true,
	Token: true, Voice: true, Word: true,
}

// tokenContent is the set of standard kinds permitted inside token and w.
var tokenContent = map[ElementKind]bool{
	Audio: true, Break: true, Emphasis: true, Mark: true,
	Phoneme: true, Prosody: true, SayAs: true, Sub: true,
}

// CanNest reports whether a child element is permitted directly inside a
// parent element. speak is never permitted as a child, custom elements are
// permitted inside any container, and custom containers accept anything
// except speak.
func CanNest(parent, child ElementKind) bool {
	if child == Speak || !parent.container() {
		return false
	}
	if child.Custom() {
		return true
	}
	switch parent {
	case Speak, Voice, Lang, Prosody, Audio:
		return true
	case Paragraph:
		return child == Sentence || sentenceContent[child]
	case Sentence, Emphasis:
		return sentenceContent[child]
	case Token, Word:
		return tokenContent[child]
	}
	return parent.Custom()
}

// Span is a half-open range of positions into a document's extracted text.
// Positions count Unicode scalar values, not bytes.
type Span struct {
	Start, End int
}

// Empty reports whether the span covers no text.
func (s Span) Empty() bool { return s.End <= s.Start }

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool { return s.Start <= o.Start && o.End <= s.End }

// RawAttr is an attribute as written in the markup, with entities decoded,
// in document order.
type RawAttr struct {
	Name  string
	Value string
}

// Attributes is the decoded attribute set of a tag. The concrete type is
// determined by the tag's kind; elements that carry no attributes (p, s,
// metadata) have nil Attributes. The interface is closed: only types in
// this package implement it.
type Attributes interface {
	Kind() ElementKind
	attributes()
}

// SpeakAttrs are the attributes of the speak document element. Extra holds
// root attributes outside the SSML vocabulary (xmlns and friends) verbatim.
type SpeakAttrs struct {
	Version       string
	Lang          string
	Base          string
	OnLangFailure OnLangFailure
	Extra         []RawAttr
}

func (*SpeakAttrs) Kind() ElementKind { return Speak }
func (*SpeakAttrs) attributes()       {}

// LexiconAttrs are the attributes of a lexicon element.
type LexiconAttrs struct {
	URI          *url.URL
	ID           string
	Type         string
	FetchTimeout *time.Duration
	MaxAge       *int
	MaxStale     *int
}

func (*LexiconAttrs) Kind() ElementKind { return Lexicon }
func (*LexiconAttrs) attributes()       {}

// LookupAttrs are the attributes of a lookup element.
type LookupAttrs struct {
	Ref string
}

func (*LookupAttrs) Kind() ElementKind { return Lookup }
func (*LookupAttrs) attributes()       {}

// MetaAttrs are the attributes of a meta element. Exactly one of Name and
// HTTPEquiv is set.
type MetaAttrs struct {
	Name      string
	HTTPEquiv string
	Content   string
}

func (*MetaAttrs) Kind() ElementKind { return Meta }
func (*MetaAttrs) attributes()       {}

// TokenAttrs are the attributes of a token or w element.
type TokenAttrs struct {
	Word bool // written as <w>
	Role string
}

func (a *TokenAttrs) Kind() ElementKind {
	if a.Word {
		return Word
	}
	return Token
}
func (*TokenAttrs) attributes() {}

// SayAsAttrs are the attributes of a say-as element.
type SayAsAttrs struct {
	InterpretAs InterpretAs
	Format      SayAsFormat // "" when absent
	Detail      string      // free-form, "" when absent
}

func (*SayAsAttrs) Kind() ElementKind { return SayAs }
func (*SayAsAttrs) attributes()       {}

// PhonemeAttrs are the attributes of a phoneme element.
type PhonemeAttrs struct {
	Ph       string
	Alphabet PhonemeAlphabet // "" when absent
}

func (*PhonemeAttrs) Kind() ElementKind { return Phoneme }
func (*PhonemeAttrs) attributes()       {}

// SubAttrs are the attributes of a sub element. Alias is the substitute
// emitted into the extracted text; Text retains the literal element content
// it replaced.
type SubAttrs struct {
	Alias string
	Text  string
}

func (*SubAttrs) Kind() ElementKind { return Sub }
func (*SubAttrs) attributes()       {}

// LangAttrs are the attributes of a lang element.
type LangAttrs struct {
	Lang          string
	OnLangFailure OnLangFailure
}

func (*LangAttrs) Kind() ElementKind { return Lang }
func (*LangAttrs) attributes()       {}

// VoiceAttrs are the attributes of a voice element.
type VoiceAttrs struct {
	Gender    Gender // "" when absent
	Age       *int
	Variant   *int
	Names     []string
	Languages []LanguageAccent
}

func (*VoiceAttrs) Kind() ElementKind { return Voice }
func (*VoiceAttrs) attributes()       {}

// LanguageAccent is one entry of a voice languages list, "lang" or
// "lang:accent".
type LanguageAccent struct {
	Lang   string
	Accent string
}

// EmphasisAttrs are the attributes of an emphasis element.
type EmphasisAttrs struct {
	Level EmphasisLevel // "" when absent
}

func (*EmphasisAttrs) Kind() ElementKind { return Emphasis }
func (*EmphasisAttrs) attributes()       {}

// BreakAttrs are the attributes of a break element.
type BreakAttrs struct {
	Strength BreakStrength // "" when absent
	Time     *time.Duration
}

func (*BreakAttrs) Kind() ElementKind { return Break }
func (*BreakAttrs) attributes()       {}

// ProsodyAttrs are the attributes of a prosody element. Contour is nil when
// the attribute is absent and non-nil (possibly empty) when present.
type ProsodyAttrs struct {
	Pitch    *Pitch
	Contour  []ContourPoint
	Range    *Pitch
	Rate     *Rate
	Duration *time.Duration
	Volume   *Volume
}

func (*ProsodyAttrs) Kind() ElementKind { return Prosody }
func (*ProsodyAttrs) attributes()       {}

// AudioAttrs are the attributes of an audio element. Fields with SSML
// defaults (FetchHint, ClipBegin, RepeatCount, SoundLevel, Speed) carry the
// default when the attribute is absent.
type AudioAttrs struct {
	Src          *url.URL // nil for <audio> without src
	FetchTimeout *time.Duration
	FetchHint    FetchHint
	MaxAge       *int
	MaxStale     *int
	ClipBegin    time.Duration
	ClipEnd      *time.Duration
	RepeatCount  int
	RepeatDur    *time.Duration
	SoundLevel   float64 // decibels
	Speed        float64 // rate ratio, 1 = normal
}

func (*AudioAttrs) Kind() ElementKind { return Audio }
func (*AudioAttrs) attributes()       {}

// MarkAttrs are the attributes of a mark element.
type MarkAttrs struct {
	Name string
}

func (*MarkAttrs) Kind() ElementKind { return Mark }
func (*MarkAttrs) attributes()       {}

// DescAttrs carry the literal text content of a desc element. The text is
// never part of the extracted document text.
type DescAttrs struct {
	Text string
}

func (*DescAttrs) Kind() ElementKind { return Description }
func (*DescAttrs) attributes()       {}

// CustomAttrs are the attributes of a non-standard element, kept verbatim
// in document order.
type CustomAttrs struct {
	Name  string
	Attrs []RawAttr
}

func (a *CustomAttrs) Kind() ElementKind { return ElementKind(a.Name) }
func (*CustomAttrs) attributes()         {}

// Get returns the value of the named raw attribute.
func (a *CustomAttrs) Get(name string) (string, bool) {
	for _, at := range a.Attrs {
		if at.Name == name {
			return at.Value, true
		}
	}
	return "", false
}

// Tag is one element of the parsed tree. A tag owns its children
// exclusively; the parent reference is non-owning and reachable only
// through Parent.
type Tag struct {
	Kind        ElementKind
	Attributes  Attributes
	Span        Span
	SelfClosing bool
	Children    []*Tag

	parent *Tag
}

// Parent returns the enclosing tag, or nil for the document element.
func (t *Tag) Parent() *Tag { return t.parent }

// Document is the result of a successful parse. It is immutable and safe
// for concurrent readers.
type Document struct {
	text   string
	root   *Tag
	events []Event
}

// Text returns the extracted synthesisable text.
func (d *Document) Text() string { return d.text }

// Root returns the speak document element.
func (d *Document) Root() *Tag { return d.root }

// SpanText returns the extracted text covered by the span. Out-of-range
// spans are clipped to the document.
func (d *Document) SpanText(s Span) string {
	runes := []rune(d.text)
	if s.Start < 0 {
		s.Start = 0
	}
	if s.End > len(runes) {
		s.End = len(runes)
	}
	if s.Empty() {
		return ""
	}
	return string(runes[s.Start:s.End])
}

// Tags returns every tag of the document in depth-first document order,
// starting with the root.
func (d *Document) Tags() []*Tag {
	var out []*Tag
	var visit func(*Tag)
	visit = func(t *Tag) {
		out = append(out, t)
		for _, c := range t.Children {
			visit(c)
		}
	}
	if d.root != nil {
		visit(d.root)
	}
	return out
}
