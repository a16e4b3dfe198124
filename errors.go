package ssml

import (
	"fmt"
)

// ErrorKind classifies a parse failure.
type ErrorKind string

const (
	// ErrMalformedMarkup indicates a low-level markup syntax error: an
	// unterminated tag or comment, broken attribute quoting, an invalid
	// character entity, or content outside the document element.
	ErrMalformedMarkup ErrorKind = "malformed-markup"
	// ErrInvalidNesting indicates a content-model violation: the child
	// element is not permitted inside the parent element.
	ErrInvalidNesting ErrorKind = "invalid-nesting"
	// ErrMismatchedClose indicates a close tag that does not match the
	// innermost open element.
	ErrMismatchedClose ErrorKind = "mismatched-close"
	// ErrUnterminatedElement indicates the input ended with open elements.
	ErrUnterminatedElement ErrorKind = "unterminated-element"

	// ErrMissingAttribute indicates a required attribute is absent.
	ErrMissingAttribute ErrorKind = "missing-attribute"
	// ErrMalformedDuration indicates a time designation that does not match
	// the "NNms" / "NN s" / "HH:MM:SS.fff" grammar.
	ErrMalformedDuration ErrorKind = "malformed-duration"
	// ErrMalformedPercentage indicates a percentage value that does not
	// match the grammar, or a signed percentage where only unsigned values
	// are legal.
	ErrMalformedPercentage ErrorKind = "malformed-percentage"
	// ErrMalformedDecibel indicates a value without a valid "dB" suffix or
	// with a malformed number.
	ErrMalformedDecibel ErrorKind = "malformed-decibel"
	// ErrMalformedNumber indicates a malformed integer attribute such as
	// voice age or audio repeatCount.
	ErrMalformedNumber ErrorKind = "malformed-number"
	// ErrMalformedURI indicates an attribute that failed to parse as a URI.
	ErrMalformedURI ErrorKind = "malformed-uri"
	// ErrUnknownEnumerationValue indicates a value outside a closed
	// attribute vocabulary.
	ErrUnknownEnumerationValue ErrorKind = "unknown-enumeration-value"
)

// attributeKinds are the ErrorKinds reported while decoding attributes.
var attributeKinds = map[ErrorKind]bool{
	ErrMissingAttribute:        true,
	ErrMalformedDuration:       true,
	ErrMalformedPercentage:     true,
	ErrMalformedDecibel:        true,
	ErrMalformedNumber:         true,
	ErrMalformedURI:            true,
	ErrUnknownEnumerationValue: true,
}

// ParseError is the error type returned by Parse. Offset and Pos locate the
// failure in the raw input; Offset counts bytes, Pos counts Unicode scalar
// values. The remaining fields are populated per Kind.
type ParseError struct {
	Kind   ErrorKind
	Offset int // byte offset into the raw input
	Pos    int // rune offset into the raw input

	// Parent and Child are set for ErrInvalidNesting. An empty Parent means
	// the violation happened at the document root.
	Parent ElementKind
	Child  ElementKind

	// Expected and Found are set for ErrMismatchedClose. An empty Expected
	// means a close tag appeared with no element open.
	Expected ElementKind
	Found    ElementKind

	// Element and Attr are set for attribute errors.
	Element ElementKind
	Attr    string

	Reason string
}

// AttributeError reports whether the error was raised while decoding an
// element's attributes.
func (e *ParseError) AttributeError() bool {
	return attributeKinds[e.Kind]
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrInvalidNesting:
		if e.Parent == "" {
			return fmt.Sprintf("%s at %d: %s is not permitted at the document root, expected speak", e.Kind, e.Pos, e.Child)
		}
		return fmt.Sprintf("%s at %d: %s cannot be placed inside %s", e.Kind, e.Pos, e.Child, e.Parent)
	case ErrMismatchedClose:
		if e.Expected == "" {
			return fmt.Sprintf("%s at %d: close tag %s without matching open tag", e.Kind, e.Pos, e.Found)
		}
		return fmt.Sprintf("%s at %d: expected close tag %s, found %s", e.Kind, e.Pos, e.Expected, e.Found)
	case ErrUnterminatedElement:
		return fmt.Sprintf("%s at %d: input ended with %s still open", e.Kind, e.Pos, e.Element)
	case ErrMissingAttribute:
		return fmt.Sprintf("%s at %d: %s attribute is required with a %s element", e.Kind, e.Pos, e.Attr, e.Element)
	default:
		if e.AttributeError() {
			return fmt.Sprintf("%s at %d: attribute %s of %s: %s", e.Kind, e.Pos, e.Attr, e.Element, e.Reason)
		}
		return fmt.Sprintf("%s at %d: %s", e.Kind, e.Pos, e.Reason)
	}
}

// ValueError is returned by the attribute value decoders. It carries no
// input position; the parser wraps it into a ParseError with the position
// of the offending element.
type ValueError struct {
	Kind   ErrorKind
	Value  string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %q: %s", e.Kind, e.Value, e.Reason)
}

func valueErr(kind ErrorKind, value, reason string) *ValueError {
	return &ValueError{Kind: kind, Value: value, Reason: reason}
}
