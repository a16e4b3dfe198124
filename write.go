package ssml

import (
	"strconv"
	"strings"
	"time"
)

// WriteSSML renders the document back to markup from the event log. The
// structural skeleton round-trips: element names, decoded attributes and
// the extracted text, with entities re-escaped. Raw source whitespace,
// comments and the prolog are not preserved.
func (d *Document) WriteSSML() string {
	var b strings.Builder
	var skipText *Tag
	for e := range d.Events() {
		switch e.Kind {
		case EnterTag:
			writeOpen(&b, e.Tag)
			if e.Tag.Kind == Sub {
				// The event log carries the alias, the markup carries the
				// literal text it replaced.
				skipText = e.Tag
			}
		case ExitTag:
			if e.Tag == skipText {
				skipText = nil
			}
			if !e.Tag.SelfClosing {
				b.WriteString("</")
				b.WriteString(string(e.Tag.Kind))
				b.WriteByte('>')
			}
		case TextRun:
			if skipText == nil {
				b.WriteString(escapeText(e.Text))
			}
		}
	}
	return b.String()
}

func writeOpen(b *strings.Builder, t *Tag) {
	b.WriteByte('<')
	b.WriteString(string(t.Kind))
	for _, at := range formatAttrs(t.Attributes) {
		b.WriteByte(' ')
		b.WriteString(at.Name)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(at.Value))
		b.WriteByte('"')
	}
	if t.SelfClosing {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	switch a := t.Attributes.(type) {
	case *DescAttrs:
		b.WriteString(escapeText(a.Text))
	case *SubAttrs:
		b.WriteString(escapeText(a.Text))
	}
}

func formatAttrs(attrs Attributes) []RawAttr {
	var out []RawAttr
	add := func(name, value string) {
		out = append(out, RawAttr{Name: name, Value: value})
	}
	switch a := attrs.(type) {
	case nil:
	case *SpeakAttrs:
		add("version", a.Version)
		if a.Lang != "" {
			add("xml:lang", a.Lang)
		}
		if a.Base != "" {
			add("xml:base", a.Base)
		}
		if a.OnLangFailure != "" {
			add("onlangfailure", string(a.OnLangFailure))
		}
		out = append(out, a.Extra...)
	case *LexiconAttrs:
		add("uri", a.URI.String())
		if a.ID != "" {
			add("xml:id", a.ID)
		}
		if a.Type != "application/pls+xml" {
			add("type", a.Type)
		}
		if a.FetchTimeout != nil {
			add("fetchtimeout", formatDuration(*a.FetchTimeout))
		}
		if a.MaxAge != nil {
			add("maxage", strconv.Itoa(*a.MaxAge))
		}
		if a.MaxStale != nil {
			add("maxstale", strconv.Itoa(*a.MaxStale))
		}
	case *LookupAttrs:
		add("ref", a.Ref)
	case *MetaAttrs:
		if a.Name != "" {
			add("name", a.Name)
		} else {
			add("http-equiv", a.HTTPEquiv)
		}
		add("content", a.Content)
	case *TokenAttrs:
		if a.Role != "" {
			add("role", a.Role)
		}
	case *SayAsAttrs:
		add("interpret-as", string(a.InterpretAs))
		if a.Format != "" {
			add("format", string(a.Format))
		}
		if a.Detail != "" {
			add("detail", a.Detail)
		}
	case *PhonemeAttrs:
		if a.Alphabet != "" {
			add("alphabet", string(a.Alphabet))
		}
		add("ph", a.Ph)
	case *SubAttrs:
		add("alias", a.Alias)
	case *LangAttrs:
		add("xml:lang", a.Lang)
		if a.OnLangFailure != "" {
			add("onlangfailure", string(a.OnLangFailure))
		}
	case *VoiceAttrs:
		if a.Gender != "" {
			add("gender", string(a.Gender))
		}
		if a.Age != nil {
			add("age", strconv.Itoa(*a.Age))
		}
		if a.Variant != nil {
			add("variant", strconv.Itoa(*a.Variant))
		}
		if len(a.Names) > 0 {
			add("name", strings.Join(a.Names, " "))
		}
		if len(a.Languages) > 0 {
			entries := make([]string, len(a.Languages))
			for i, la := range a.Languages {
				entries[i] = la.Lang
				if la.Accent != "" {
					entries[i] += ":" + la.Accent
				}
			}
			add("languages", strings.Join(entries, " "))
		}
	case *EmphasisAttrs:
		if a.Level != "" {
			add("level", string(a.Level))
		}
	case *BreakAttrs:
		if a.Strength != "" {
			add("strength", string(a.Strength))
		}
		if a.Time != nil {
			add("time", formatDuration(*a.Time))
		}
	case *ProsodyAttrs:
		if a.Pitch != nil {
			add("pitch", formatPitch(a.Pitch))
		}
		if a.Contour != nil {
			add("contour", formatContour(a.Contour))
		}
		if a.Range != nil {
			add("range", formatPitch(a.Range))
		}
		if a.Rate != nil {
			add("rate", formatRate(a.Rate))
		}
		if a.Duration != nil {
			add("duration", formatDuration(*a.Duration))
		}
		if a.Volume != nil {
			add("volume", formatVolume(a.Volume))
		}
	case *AudioAttrs:
		if a.Src != nil {
			add("src", a.Src.String())
		}
		if a.FetchTimeout != nil {
			add("fetchtimeout", formatDuration(*a.FetchTimeout))
		}
		if a.FetchHint != FetchPrefetch {
			add("fetchhint", string(a.FetchHint))
		}
		if a.MaxAge != nil {
			add("maxage", strconv.Itoa(*a.MaxAge))
		}
		if a.MaxStale != nil {
			add("maxstale", strconv.Itoa(*a.MaxStale))
		}
		if a.ClipBegin != 0 {
			add("clipBegin", formatDuration(a.ClipBegin))
		}
		if a.ClipEnd != nil {
			add("clipEnd", formatDuration(*a.ClipEnd))
		}
		if a.RepeatCount != 1 {
			add("repeatCount", strconv.Itoa(a.RepeatCount))
		}
		if a.RepeatDur != nil {
			add("repeatDur", formatDuration(*a.RepeatDur))
		}
		if a.SoundLevel != 0 {
			add("soundLevel", formatNumber(a.SoundLevel)+"dB")
		}
		if a.Speed != 1 {
			add("speed", formatNumber(a.Speed*100)+"%")
		}
	case *MarkAttrs:
		add("name", a.Name)
	case *DescAttrs:
	case *CustomAttrs:
		out = append(out, a.Attrs...)
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDuration(d time.Duration) string {
	if d%time.Second == 0 {
		return strconv.FormatInt(int64(d/time.Second), 10) + "s"
	}
	return formatNumber(float64(d)/float64(time.Millisecond)) + "ms"
}

func formatPitch(p *Pitch) string {
	if p.Label != "" {
		return string(p.Label)
	}
	// Hertz values re-parse as relative only with an explicit sign.
	if p.Unit == UnitHertz && p.Relative && p.Value >= 0 {
		return "+" + formatNumber(p.Value) + string(p.Unit)
	}
	return formatNumber(p.Value) + string(p.Unit)
}

func formatContour(points []ContourPoint) string {
	entries := make([]string, len(points))
	for i, pt := range points {
		entries[i] = "(" + formatNumber(pt.Time) + "%," + formatPitch(&pt.Pitch) + ")"
	}
	return strings.Join(entries, " ")
}

func formatRate(r *Rate) string {
	if r.Label != "" {
		return string(r.Label)
	}
	return formatNumber(r.Percent) + "%"
}

func formatVolume(v *Volume) string {
	if v.Label != "" {
		return string(v.Label)
	}
	return formatNumber(v.Decibel) + "dB"
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attrEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;",
)

func escapeText(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
