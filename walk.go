package ssml

import (
	"fmt"
	"iter"
)

// EventKind discriminates the entries of a document's event log.
type EventKind int

const (
	// EnterTag marks an element opening, before any of its content.
	EnterTag EventKind = iota
	// ExitTag marks an element closing, after all of its content.
	ExitTag
	// TextRun is a maximal run of extracted text between tag events.
	TextRun
)

func (k EventKind) String() string {
	switch k {
	case EnterTag:
		return "enter"
	case ExitTag:
		return "exit"
	case TextRun:
		return "text"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is one entry of the event log. Tag is set for EnterTag and ExitTag;
// Text is set for TextRun. Span covers the tag's extracted text for ExitTag
// and the run itself for TextRun.
type Event struct {
	Kind EventKind
	Tag  *Tag
	Span Span
	Text string
}

// Events returns the document's event log in document order as a
// restartable sequence: enter and exit events bracket each element's
// content, and the concatenation of all TextRun texts equals Text()
// exactly.
func (d *Document) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, e := range d.events {
			if !yield(e) {
				return
			}
		}
	}
}

// Walk visits every tag in document order until fn returns false.
func (d *Document) Walk(fn func(*Tag) bool) {
	var visit func(*Tag) bool
	visit = func(t *Tag) bool {
		if !fn(t) {
			return false
		}
		for _, c := range t.Children {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	if d.root != nil {
		visit(d.root)
	}
}

// Query returns every tag of the given kind in document order.
func (d *Document) Query(kind ElementKind) []*Tag {
	var out []*Tag
	d.Walk(func(t *Tag) bool {
		if t.Kind == kind {
			out = append(out, t)
		}
		return true
	})
	return out
}
