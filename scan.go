package ssml

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Simple in-memory markup scanner for the SSML subset of XML. It tracks
// byte and rune offsets side by side so parse errors can report positions
// in Unicode scalar values, which encoding/xml does not expose.
//
// The XML declaration, processing instructions, DOCTYPE and CDATA sections
// are skipped; comments are reported as tokens so the tree builder can
// ignore them without losing position tracking.

type tokenKind int

const (
	tokErr tokenKind = iota - 1
	tokEOF
	tokOpen
	tokClose
	tokEmpty
	tokText
	tokComment
)

func (t tokenKind) String() string {
	switch t {
	case tokOpen:
		return "open tag"
	case tokClose:
		return "close tag"
	case tokEmpty:
		return "self-closing tag"
	case tokText:
		return "text"
	case tokComment:
		return "comment"
	case tokEOF:
		return "EOF"
	case tokErr:
		return "error"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

type token struct {
	kind  tokenKind
	name  string    // tag name (tokOpen, tokEmpty, tokClose)
	attrs []RawAttr // attributes in document order, entities decoded
	text  string    // character data, entities decoded (tokText)
	off   int       // byte offset of the token start
	pos   int       // rune offset of the token start
}

type scanner struct {
	src string
	off int // next unread byte
	pos int // rune offset of off
	err *ParseError
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

// advance consumes n bytes, keeping the rune offset in step.
func (s *scanner) advance(n int) {
	s.pos += utf8.RuneCountInString(s.src[s.off : s.off+n])
	s.off += n
}

func (s *scanner) fail(off, pos int, reason string) token {
	s.err = &ParseError{Kind: ErrMalformedMarkup, Offset: off, Pos: pos, Reason: reason}
	return token{kind: tokErr, off: off, pos: pos}
}

func (s *scanner) eof() bool { return s.off >= len(s.src) }

// skipTo consumes input up to and including the marker, or reports failure.
func (s *scanner) skipTo(marker string) bool {
	i := strings.Index(s.src[s.off:], marker)
	if i < 0 {
		return false
	}
	s.advance(i + len(marker))
	return true
}

func (s *scanner) next() token {
	if s.err != nil {
		return token{kind: tokErr, off: s.off, pos: s.pos}
	}
	for {
		if s.eof() {
			return token{kind: tokEOF, off: s.off, pos: s.pos}
		}
		if s.src[s.off] != '<' {
			return s.scanText()
		}
		off, pos := s.off, s.pos
		rest := s.src[s.off:]
		switch {
		case strings.HasPrefix(rest, "<!--"):
			s.advance(4)
			if !s.skipTo("-->") {
				return s.fail(off, pos, "unterminated comment")
			}
			return token{kind: tokComment, off: off, pos: pos}
		case strings.HasPrefix(rest, "<![CDATA["):
			s.advance(9)
			if !s.skipTo("]]>") {
				return s.fail(off, pos, "unterminated CDATA section")
			}
		case strings.HasPrefix(rest, "<!"):
			s.advance(2)
			if !s.skipTo(">") {
				return s.fail(off, pos, "unterminated markup declaration")
			}
		case strings.HasPrefix(rest, "<?"):
			s.advance(2)
			if !s.skipTo("?>") {
				return s.fail(off, pos, "unterminated processing instruction")
			}
		case strings.HasPrefix(rest, "</"):
			return s.scanCloseTag()
		default:
			return s.scanOpenTag()
		}
	}
}

func (s *scanner) scanText() token {
	off, pos := s.off, s.pos
	end := strings.IndexByte(s.src[s.off:], '<')
	if end < 0 {
		end = len(s.src) - s.off
	}
	raw := s.src[s.off : s.off+end]
	s.advance(end)
	text, ok := s.decodeEntities(raw, off, pos)
	if !ok {
		return token{kind: tokErr, off: s.err.Offset, pos: s.err.Pos}
	}
	return token{kind: tokText, text: text, off: off, pos: pos}
}

func (s *scanner) scanCloseTag() token {
	off, pos := s.off, s.pos
	s.advance(2) // "</"
	name := s.scanName()
	if name == "" {
		return s.fail(off, pos, "malformed close tag")
	}
	s.skipSpace()
	if s.eof() || s.src[s.off] != '>' {
		return s.fail(off, pos, "unterminated close tag")
	}
	s.advance(1)
	return token{kind: tokClose, name: name, off: off, pos: pos}
}

func (s *scanner) scanOpenTag() token {
	off, pos := s.off, s.pos
	s.advance(1) // "<"
	name := s.scanName()
	if name == "" {
		return s.fail(off, pos, "malformed tag name")
	}
	var attrs []RawAttr
	for {
		hadSpace := s.skipSpace()
		if s.eof() {
			return s.fail(off, pos, "unterminated tag")
		}
		switch {
		case s.src[s.off] == '>':
			s.advance(1)
			return token{kind: tokOpen, name: name, attrs: attrs, off: off, pos: pos}
		case strings.HasPrefix(s.src[s.off:], "/>"):
			s.advance(2)
			return token{kind: tokEmpty, name: name, attrs: attrs, off: off, pos: pos}
		}
		if !hadSpace {
			return s.fail(s.off, s.pos, "expected whitespace before attribute")
		}
		attr, ok := s.scanAttr()
		if !ok {
			return token{kind: tokErr, off: s.err.Offset, pos: s.err.Pos}
		}
		attrs = append(attrs, attr)
	}
}

func (s *scanner) scanAttr() (RawAttr, bool) {
	name := s.scanName()
	if name == "" {
		s.fail(s.off, s.pos, "malformed attribute name")
		return RawAttr{}, false
	}
	s.skipSpace()
	if s.eof() || s.src[s.off] != '=' {
		s.fail(s.off, s.pos, "expected = after attribute name")
		return RawAttr{}, false
	}
	s.advance(1)
	s.skipSpace()
	if s.eof() || (s.src[s.off] != '"' && s.src[s.off] != '\'') {
		s.fail(s.off, s.pos, "attribute value must be quoted")
		return RawAttr{}, false
	}
	quote := s.src[s.off]
	s.advance(1)
	voff, vpos := s.off, s.pos
	end := strings.IndexByte(s.src[s.off:], quote)
	if end < 0 {
		s.fail(voff, vpos, "unterminated attribute value")
		return RawAttr{}, false
	}
	raw := s.src[s.off : s.off+end]
	s.advance(end + 1)
	value, ok := s.decodeEntities(raw, voff, vpos)
	if !ok {
		return RawAttr{}, false
	}
	return RawAttr{Name: name, Value: value}, true
}

func nameStart(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func nameByte(b byte) bool {
	return nameStart(b) || b >= '0' && b <= '9' || b == '-' || b == '.' || b == ':'
}

// scanName consumes an XML name, or nothing when the next byte cannot start
// one. Names are restricted to ASCII, which covers the SSML vocabulary and
// the vendor extensions in the wild.
func (s *scanner) scanName() string {
	if s.eof() || !nameStart(s.src[s.off]) {
		return ""
	}
	i := s.off + 1
	for i < len(s.src) && nameByte(s.src[i]) {
		i++
	}
	name := s.src[s.off:i]
	s.advance(i - s.off)
	return name
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func (s *scanner) skipSpace() bool {
	start := s.off
	for !s.eof() && isSpaceByte(s.src[s.off]) {
		s.advance(1)
	}
	return s.off > start
}

var namedEntities = map[string]rune{
	"amp": '&', "lt": '<', "gt": '>', "apos": '\'', "quot": '"',
}

// decodeEntities resolves character references in raw, which starts at the
// given byte/rune offsets of the input. On failure it records a ParseError
// positioned at the offending reference and returns false.
func (s *scanner) decodeEntities(raw string, off, pos int) (string, bool) {
	amp := strings.IndexByte(raw, '&')
	if amp < 0 {
		return raw, true
	}
	var b strings.Builder
	b.Grow(len(raw))
	rest := raw
	for amp >= 0 {
		b.WriteString(rest[:amp])
		off += amp
		pos += utf8.RuneCountInString(rest[:amp])
		rest = rest[amp:]
		semi := strings.IndexByte(rest, ';')
		if semi < 0 {
			s.err = &ParseError{Kind: ErrMalformedMarkup, Offset: off, Pos: pos, Reason: "unterminated character reference"}
			return "", false
		}
		r, ok := decodeEntity(rest[1:semi])
		if !ok {
			s.err = &ParseError{
				Kind: ErrMalformedMarkup, Offset: off, Pos: pos,
				Reason: fmt.Sprintf("invalid character reference %q", rest[:semi+1]),
			}
			return "", false
		}
		b.WriteRune(r)
		off += semi + 1
		pos += semi + 1 // references are ASCII
		rest = rest[semi+1:]
		amp = strings.IndexByte(rest, '&')
	}
	b.WriteString(rest)
	return b.String(), true
}

func decodeEntity(body string) (rune, bool) {
	if r, ok := namedEntities[body]; ok {
		return r, true
	}
	if !strings.HasPrefix(body, "#") {
		return 0, false
	}
	digits, base := body[1:], 10
	if strings.HasPrefix(digits, "x") || strings.HasPrefix(digits, "X") {
		digits, base = digits[1:], 16
	}
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		return 0, false
	}
	return rune(n), true
}
