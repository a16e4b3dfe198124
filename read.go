package ssml

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Parser holds parse-time configuration. The zero value is ready to use:
// custom elements are treated as synthesisable, so their text enters the
// extracted document text.
type Parser struct {
	synthesizable func(name string) bool
}

// WithCustomTagPolicy returns a Parser that consults fn for every custom
// (non-standard) element: when fn reports false the text inside that
// element is excluded from the extracted text, while the tags themselves
// stay in the tree.
func (p Parser) WithCustomTagPolicy(fn func(name string) bool) Parser {
	p.synthesizable = fn
	return p
}

// Parse parses an SSML document with the default configuration.
func Parse(input string) (*Document, error) {
	return Parser{}.Parse(input)
}

// Parse parses an SSML document. The first violation aborts the parse and
// is returned as a *ParseError.
func (p Parser) Parse(input string) (*Document, error) {
	b := &builder{synthesizable: p.synthesizable}
	return b.run(newScanner(input))
}

// expanders maps element kinds whose children are replaced in the extracted
// text to the function producing the substitute.
var expanders = map[ElementKind]func(*Tag) string{
	Sub: func(t *Tag) string { return t.Attributes.(*SubAttrs).Alias },
}

// openElement is one entry of the builder's open-element stack.
type openElement struct {
	tag        *Tag
	name       string // raw tag name for close matching
	suppressed bool   // this element excluded text on entry
}

type builder struct {
	synthesizable func(string) bool

	text   strings.Builder
	chars  int  // runes written to text
	endsWS bool // text ends with a whitespace rune

	stack  []openElement
	root   *Tag
	events []Event
	closed bool // the document element has been closed

	// suppress counts active text exclusions. Exclusions compose: text is
	// kept only while the counter is zero.
	suppress int

	// literal capture for desc content and sub original text
	capture *strings.Builder
}

func (b *builder) run(s *scanner) (*Document, error) {
	for {
		tok := s.next()
		switch tok.kind {
		case tokErr:
			return nil, s.err
		case tokComment:
			continue
		case tokText:
			if err := b.onText(tok); err != nil {
				return nil, err
			}
		case tokOpen, tokEmpty:
			if err := b.onOpen(tok); err != nil {
				return nil, err
			}
		case tokClose:
			if err := b.onClose(tok); err != nil {
				return nil, err
			}
		case tokEOF:
			return b.finish(tok)
		}
	}
}

func (b *builder) finish(tok token) (*Document, error) {
	if n := len(b.stack); n > 0 {
		return nil, &ParseError{
			Kind: ErrUnterminatedElement, Offset: tok.off, Pos: tok.pos,
			Element: b.stack[n-1].tag.Kind,
		}
	}
	if b.root == nil {
		return nil, &ParseError{
			Kind: ErrMalformedMarkup, Offset: tok.off, Pos: tok.pos,
			Reason: "no speak document element",
		}
	}
	return &Document{text: b.text.String(), root: b.root, events: b.events}, nil
}

// appendText writes s to the extracted text verbatim and logs it as a
// TextRun, merging with an immediately preceding TextRun event.
func (b *builder) appendText(s string) {
	if s == "" {
		return
	}
	start := b.chars
	b.text.WriteString(s)
	b.chars += utf8.RuneCountInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	b.endsWS = unicode.IsSpace(last)
	if n := len(b.events); n > 0 && b.events[n-1].Kind == TextRun {
		b.events[n-1].Span.End = b.chars
		b.events[n-1].Text += s
		return
	}
	b.events = append(b.events, Event{
		Kind: TextRun,
		Span: Span{Start: start, End: b.chars},
		Text: s,
	})
}

// pushText appends character data with whitespace normalisation: runs of
// whitespace collapse to a single space, leading whitespace becomes one
// space only when the text so far does not already end in whitespace, and
// whitespace-only input contributes at most one space.
func (b *builder) pushText(s string) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		if b.text.Len() > 0 && !b.endsWS {
			b.appendText(" ")
		}
		return
	}
	if startsWithSpace(s) && b.text.Len() > 0 && !b.endsWS {
		b.appendText(" ")
	}
	for i, line := range strings.Split(trimmed, "\n") {
		if i > 0 {
			b.appendText(" ")
		}
		b.appendText(strings.TrimSpace(line))
	}
	if endsWithSpace(s) {
		b.appendText(" ")
	}
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}

func (b *builder) onText(tok token) error {
	if len(b.stack) == 0 {
		if strings.TrimSpace(tok.text) != "" {
			return &ParseError{
				Kind: ErrMalformedMarkup, Offset: tok.off, Pos: tok.pos,
				Reason: "text outside the document element",
			}
		}
		return nil
	}
	if b.capture != nil {
		b.capture.WriteString(tok.text)
	}
	if b.suppress > 0 {
		return nil
	}
	b.pushText(tok.text)
	return nil
}

func (b *builder) onOpen(tok token) error {
	kind := ElementKind(tok.name)
	if len(b.stack) == 0 {
		if b.closed {
			return &ParseError{
				Kind: ErrMalformedMarkup, Offset: tok.off, Pos: tok.pos,
				Reason: "content after the document element",
			}
		}
		if kind != Speak {
			return &ParseError{
				Kind: ErrInvalidNesting, Offset: tok.off, Pos: tok.pos,
				Child: kind,
			}
		}
	} else {
		parent := b.stack[len(b.stack)-1].tag
		if !CanNest(parent.Kind, kind) {
			return &ParseError{
				Kind: ErrInvalidNesting, Offset: tok.off, Pos: tok.pos,
				Parent: parent.Kind, Child: kind,
			}
		}
	}

	// Sentence and paragraph starts separate words even when the markup
	// carries no whitespace of its own.
	if (kind == Paragraph || kind == Sentence) && b.suppress == 0 {
		if b.text.Len() > 0 && !b.endsWS {
			b.appendText(" ")
		}
	}

	attrs, err := decodeAttributes(kind, tok)
	if err != nil {
		return err
	}
	tag := &Tag{
		Kind:        kind,
		Attributes:  attrs,
		Span:        Span{Start: b.chars, End: b.chars},
		SelfClosing: tok.kind == tokEmpty,
	}
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1].tag
		tag.parent = parent
		parent.Children = append(parent.Children, tag)
	} else {
		b.root = tag
	}
	b.events = append(b.events, Event{Kind: EnterTag, Tag: tag, Span: tag.Span})

	entry := openElement{tag: tag, name: tok.name}
	switch {
	case kind == Description, kind == Sub:
		entry.suppressed = true
		b.capture = &strings.Builder{}
	case kind.Custom() && b.synthesizable != nil && !b.synthesizable(tok.name):
		entry.suppressed = true
	}
	if entry.suppressed {
		b.suppress++
	}

	if tok.kind == tokEmpty {
		b.closeElement(entry)
		return nil
	}
	b.stack = append(b.stack, entry)
	return nil
}

func (b *builder) onClose(tok token) error {
	if len(b.stack) == 0 {
		return &ParseError{
			Kind: ErrMismatchedClose, Offset: tok.off, Pos: tok.pos,
			Found: ElementKind(tok.name),
		}
	}
	entry := b.stack[len(b.stack)-1]
	if tok.name != entry.name {
		return &ParseError{
			Kind: ErrMismatchedClose, Offset: tok.off, Pos: tok.pos,
			Expected: entry.tag.Kind, Found: ElementKind(tok.name),
		}
	}
	b.stack = b.stack[:len(b.stack)-1]
	b.closeElement(entry)
	return nil
}

// closeElement finalises a tag: stores captured literal text, releases the
// element's text exclusion, emits any expansion, fixes the span end and
// logs the exit event.
func (b *builder) closeElement(entry openElement) {
	tag := entry.tag
	if b.capture != nil {
		switch a := tag.Attributes.(type) {
		case *DescAttrs:
			a.Text = b.capture.String()
			b.capture = nil
		case *SubAttrs:
			a.Text = b.capture.String()
			b.capture = nil
		}
	}
	if entry.suppressed {
		b.suppress--
	}
	if expand, ok := expanders[tag.Kind]; ok && b.suppress == 0 {
		if b.text.Len() > 0 && !b.endsWS {
			b.appendText(" ")
		}
		tag.Span.Start = b.chars
		b.appendText(expand(tag))
	}
	tag.Span.End = b.chars
	b.events = append(b.events, Event{Kind: ExitTag, Tag: tag, Span: tag.Span})
	if len(b.stack) == 0 && tag.Kind == Speak {
		b.closed = true
	}
}

// ----------- attribute decoding -------------

type rawAttrs []RawAttr

func (a rawAttrs) get(name string) (string, bool) {
	for _, at := range a {
		if at.Name == name {
			return at.Value, true
		}
	}
	return "", false
}

// attrFail wraps a decoder ValueError (or a missing attribute) into a
// ParseError positioned at the element's open tag.
func attrFail(kind ElementKind, attr string, tok token, err error) *ParseError {
	pe := &ParseError{
		Offset: tok.off, Pos: tok.pos,
		Element: kind, Attr: attr,
	}
	if ve, ok := err.(*ValueError); ok {
		pe.Kind = ve.Kind
		pe.Reason = ve.Reason
	} else if err != nil {
		pe.Kind = ErrMalformedNumber
		pe.Reason = err.Error()
	} else {
		pe.Kind = ErrMissingAttribute
	}
	return pe
}

// decodeAttributes decodes the raw attribute list per element kind. p, s
// and metadata carry no attributes and decode to nil.
func decodeAttributes(kind ElementKind, tok token) (Attributes, *ParseError) {
	attrs := rawAttrs(tok.attrs)
	if kind.Custom() {
		return &CustomAttrs{Name: tok.name, Attrs: tok.attrs}, nil
	}
	switch kind {
	case Speak:
		return decodeSpeak(attrs, tok)
	case Lexicon:
		return decodeLexicon(attrs, tok)
	case Lookup:
		ref, ok := attrs.get("ref")
		if !ok {
			return nil, attrFail(kind, "ref", tok, nil)
		}
		return &LookupAttrs{Ref: ref}, nil
	case Meta:
		return decodeMeta(attrs, tok)
	case Token, Word:
		role, _ := attrs.get("role")
		return &TokenAttrs{Word: kind == Word, Role: role}, nil
	case SayAs:
		return decodeSayAs(attrs, tok)
	case Phoneme:
		ph, ok := attrs.get("ph")
		if !ok {
			return nil, attrFail(kind, "ph", tok, nil)
		}
		alphabet, _ := attrs.get("alphabet")
		return &PhonemeAttrs{Ph: ph, Alphabet: PhonemeAlphabet(alphabet)}, nil
	case Sub:
		alias, ok := attrs.get("alias")
		if !ok {
			return nil, attrFail(kind, "alias", tok, nil)
		}
		return &SubAttrs{Alias: alias}, nil
	case Lang:
		return decodeLang(attrs, tok)
	case Voice:
		return decodeVoice(attrs, tok)
	case Emphasis:
		level, ok := attrs.get("level")
		if !ok {
			return &EmphasisAttrs{}, nil
		}
		l, err := ParseEmphasisLevel(level)
		if err != nil {
			return nil, attrFail(kind, "level", tok, err)
		}
		return &EmphasisAttrs{Level: l}, nil
	case Break:
		return decodeBreak(attrs, tok)
	case Prosody:
		return decodeProsody(attrs, tok)
	case Audio:
		return decodeAudio(attrs, tok)
	case Mark:
		name, ok := attrs.get("name")
		if !ok {
			return nil, attrFail(kind, "name", tok, nil)
		}
		return &MarkAttrs{Name: name}, nil
	case Description:
		return &DescAttrs{}, nil
	}
	return nil, nil
}

// speakAttrNames are consumed by decodeSpeak; anything else on the root
// (xmlns, xsi:schemaLocation, ...) is retained raw.
var speakAttrNames = map[string]bool{
	"version": true, "xml:lang": true, "xml:base": true, "onlangfailure": true,
}

func decodeSpeak(attrs rawAttrs, tok token) (Attributes, *ParseError) {
	a := &SpeakAttrs{Version: Version}
	if v, ok := attrs.get("version"); ok {
		if v != "1.0" && v != "1.1" {
			return nil, attrFail(Speak, "version", tok,
				valueErr(ErrUnknownEnumerationValue, v, "unsupported SSML version"))
		}
		a.Version = v
	}
	a.Lang, _ = attrs.get("xml:lang")
	a.Base, _ = attrs.get("xml:base")
	if v, ok := attrs.get("onlangfailure"); ok {
		f, err := ParseOnLangFailure(v)
		if err != nil {
			return nil, attrFail(Speak, "onlangfailure", tok, err)
		}
		a.OnLangFailure = f
	}
	for _, at := range attrs {
		if !speakAttrNames[at.Name] {
			a.Extra = append(a.Extra, at)
		}
	}
	return a, nil
}

func decodeLexicon(attrs rawAttrs, tok token) (Attributes, *ParseError) {
	uri, ok := attrs.get("uri")
	if !ok {
		return nil, attrFail(Lexicon, "uri", tok, nil)
	}
	u, err := ParseURI(uri)
	if err != nil {
		return nil, attrFail(Lexicon, "uri", tok, err)
	}
	a := &LexiconAttrs{URI: u, Type: "application/pls+xml"}
	a.ID, _ = attrs.get("xml:id")
	if v, ok := attrs.get("type"); ok {
		a.Type = v
	}
	var pe *ParseError
	a.FetchTimeout, pe = optionalDuration(attrs, "fetchtimeout", Lexicon, tok)
	if pe != nil {
		return nil, pe
	}
	if a.MaxAge, pe = optionalInt(attrs, "maxage", Lexicon, tok); pe != nil {
		return nil, pe
	}
	if a.MaxStale, pe = optionalInt(attrs, "maxstale", Lexicon, tok); pe != nil {
		return nil, pe
	}
	return a, nil
}

func decodeMeta(attrs rawAttrs, tok token) (Attributes, *ParseError) {
	content, ok := attrs.get("content")
	if !ok {
		return nil, attrFail(Meta, "content", tok, nil)
	}
	name, hasName := attrs.get("name")
	httpEquiv, hasEquiv := attrs.get("http-equiv")
	if hasName == hasEquiv {
		return nil, attrFail(Meta, "name", tok,
			valueErr(ErrUnknownEnumerationValue, name, "meta requires exactly one of name and http-equiv"))
	}
	return &MetaAttrs{Name: name, HTTPEquiv: httpEquiv, Content: content}, nil
}

func decodeSayAs(attrs rawAttrs, tok token) (Attributes, *ParseError) {
	v, ok := attrs.get("interpret-as")
	if !ok {
		return nil, attrFail(SayAs, "interpret-as", tok, nil)
	}
	interpret, err := ParseInterpretAs(v)
	if err != nil {
		return nil, attrFail(SayAs, "interpret-as", tok, err)
	}
	a := &SayAsAttrs{InterpretAs: interpret}
	if v, ok := attrs.get("format"); ok && v != "" {
		f, err := ParseSayAsFormat(v)
		if err != nil {
			return nil, attrFail(SayAs, "format", tok, err)
		}
		a.Format = f
	}
	a.Detail, _ = attrs.get("detail")
	return a, nil
}

func decodeLang(attrs rawAttrs, tok token) (Attributes, *ParseError) {
	lang, ok := attrs.get("xml:lang")
	if !ok {
		return nil, attrFail(Lang, "xml:lang", tok, nil)
	}
	a := &LangAttrs{Lang: lang}
	if v, ok := attrs.get("onlangfailure"); ok {
		f, err := ParseOnLangFailure(v)
		if err != nil {
			return nil, attrFail(Lang, "onlangfailure", tok, err)
		}
		a.OnLangFailure = f
	}
	return a, nil
}

func decodeVoice(attrs rawAttrs, tok token) (Attributes, *ParseError) {
	a := &VoiceAttrs{}
	if v, ok := attrs.get("gender"); ok && v != "" {
		g, err := ParseGender(v)
		if err != nil {
			return nil, attrFail(Voice, "gender", tok, err)
		}
		a.Gender = g
	}
	var pe *ParseError
	if a.Age, pe = optionalInt(attrs, "age", Voice, tok); pe != nil {
		return nil, pe
	}
	if a.Variant, pe = optionalInt(attrs, "variant", Voice, tok); pe != nil {
		return nil, pe
	}
	if v, ok := attrs.get("name"); ok {
		a.Names = strings.Fields(v)
	}
	if v, ok := attrs.get("languages"); ok {
		for _, entry := range strings.Fields(v) {
			la, err := ParseLanguageAccent(entry)
			if err != nil {
				return nil, attrFail(Voice, "languages", tok, err)
			}
			a.Languages = append(a.Languages, la)
		}
	}
	return a, nil
}

func decodeBreak(attrs rawAttrs, tok token) (Attributes, *ParseError) {
	a := &BreakAttrs{}
	if v, ok := attrs.get("strength"); ok {
		s, err := ParseBreakStrength(v)
		if err != nil {
			return nil, attrFail(Break, "strength", tok, err)
		}
		a.Strength = s
	}
	var pe *ParseError
	if a.Time, pe = optionalDuration(attrs, "time", Break, tok); pe != nil {
		return nil, pe
	}
	return a, nil
}

func decodeProsody(attrs rawAttrs, tok token) (Attributes, *ParseError) {
	a := &ProsodyAttrs{}
	if v, ok := attrs.get("pitch"); ok {
		p, err := ParsePitch(v)
		if err != nil {
			return nil, attrFail(Prosody, "pitch", tok, err)
		}
		a.Pitch = p
	}
	if v, ok := attrs.get("contour"); ok {
		c, err := ParseContour(v)
		if err != nil {
			return nil, attrFail(Prosody, "contour", tok, err)
		}
		a.Contour = c
	}
	if v, ok := attrs.get("range"); ok {
		p, err := ParsePitch(v)
		if err != nil {
			return nil, attrFail(Prosody, "range", tok, err)
		}
		a.Range = p
	}
	if v, ok := attrs.get("rate"); ok {
		r, err := ParseRate(v)
		if err != nil {
			return nil, attrFail(Prosody, "rate", tok, err)
		}
		a.Rate = r
	}
	var pe *ParseError
	if a.Duration, pe = optionalDuration(attrs, "duration", Prosody, tok); pe != nil {
		return nil, pe
	}
	if v, ok := attrs.get("volume"); ok {
		vol, err := ParseVolume(v)
		if err != nil {
			return nil, attrFail(Prosody, "volume", tok, err)
		}
		a.Volume = vol
	}
	return a, nil
}

func decodeAudio(attrs rawAttrs, tok token) (Attributes, *ParseError) {
	a := &AudioAttrs{FetchHint: FetchPrefetch, RepeatCount: 1, Speed: 1}
	if v, ok := attrs.get("src"); ok {
		u, err := ParseURI(v)
		if err != nil {
			return nil, attrFail(Audio, "src", tok, err)
		}
		a.Src = u
	}
	var pe *ParseError
	if a.FetchTimeout, pe = optionalDuration(attrs, "fetchtimeout", Audio, tok); pe != nil {
		return nil, pe
	}
	if v, ok := attrs.get("fetchhint"); ok {
		h, err := ParseFetchHint(v)
		if err != nil {
			return nil, attrFail(Audio, "fetchhint", tok, err)
		}
		a.FetchHint = h
	}
	if a.MaxAge, pe = optionalInt(attrs, "maxage", Audio, tok); pe != nil {
		return nil, pe
	}
	if a.MaxStale, pe = optionalInt(attrs, "maxstale", Audio, tok); pe != nil {
		return nil, pe
	}
	if v, ok := attrs.get("clipBegin"); ok {
		d, err := ParseTimeDesignation(v)
		if err != nil {
			return nil, attrFail(Audio, "clipBegin", tok, err)
		}
		a.ClipBegin = d
	}
	if a.ClipEnd, pe = optionalDuration(attrs, "clipEnd", Audio, tok); pe != nil {
		return nil, pe
	}
	if v, ok := attrs.get("repeatCount"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, attrFail(Audio, "repeatCount", tok,
				valueErr(ErrMalformedNumber, v, "repeatCount must be a positive integer"))
		}
		a.RepeatCount = n
	}
	if a.RepeatDur, pe = optionalDuration(attrs, "repeatDur", Audio, tok); pe != nil {
		return nil, pe
	}
	if v, ok := attrs.get("soundLevel"); ok {
		f, err := ParseDecibel(v)
		if err != nil {
			return nil, attrFail(Audio, "soundLevel", tok, err)
		}
		a.SoundLevel = f
	}
	if v, ok := attrs.get("speed"); ok {
		f, err := ParsePercentage(v, false)
		if err != nil {
			return nil, attrFail(Audio, "speed", tok, err)
		}
		a.Speed = f / 100
	}
	return a, nil
}

func optionalDuration(attrs rawAttrs, name string, kind ElementKind, tok token) (*time.Duration, *ParseError) {
	v, ok := attrs.get(name)
	if !ok || v == "" {
		return nil, nil
	}
	d, err := ParseTimeDesignation(v)
	if err != nil {
		return nil, attrFail(kind, name, tok, err)
	}
	return &d, nil
}

func optionalInt(attrs rawAttrs, name string, kind ElementKind, tok token) (*int, *ParseError) {
	v, ok := attrs.get(name)
	if !ok || v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return nil, attrFail(kind, name, tok,
			valueErr(ErrMalformedNumber, v, "must be a non-negative integer"))
	}
	return &n, nil
}
