package ssml

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Attribute value micro-grammars. Each decoder is independent of the parser
// and returns a *ValueError without input position; the parser attaches the
// position of the element that carried the value.

// BreakStrength is the break element strength vocabulary.
type BreakStrength string

const (
	StrengthNone        BreakStrength = "none"
	StrengthExtraWeak   BreakStrength = "x-weak"
	StrengthWeak        BreakStrength = "weak"
	StrengthMedium      BreakStrength = "medium"
	StrengthStrong      BreakStrength = "strong"
	StrengthExtraStrong BreakStrength = "x-strong"
)

var breakStrengths = map[string]BreakStrength{
	"none": StrengthNone, "x-weak": StrengthExtraWeak, "weak": StrengthWeak,
	"medium": StrengthMedium, "strong": StrengthStrong, "x-strong": StrengthExtraStrong,
}

// ParseBreakStrength decodes a break strength value.
func ParseBreakStrength(v string) (BreakStrength, error) {
	if s, ok := breakStrengths[v]; ok {
		return s, nil
	}
	return "", valueErr(ErrUnknownEnumerationValue, v, "not a break strength")
}

// EmphasisLevel is the emphasis element level vocabulary.
type EmphasisLevel string

const (
	EmphasisStrong   EmphasisLevel = "strong"
	EmphasisModerate EmphasisLevel = "moderate"
	EmphasisNone     EmphasisLevel = "none"
	EmphasisReduced  EmphasisLevel = "reduced"
)

var emphasisLevels = map[string]EmphasisLevel{
	"strong": EmphasisStrong, "moderate": EmphasisModerate,
	"none": EmphasisNone, "reduced": EmphasisReduced,
}

// ParseEmphasisLevel decodes an emphasis level value.
func ParseEmphasisLevel(v string) (EmphasisLevel, error) {
	if l, ok := emphasisLevels[v]; ok {
		return l, nil
	}
	return "", valueErr(ErrUnknownEnumerationValue, v, "not an emphasis level")
}

// InterpretAs is the say-as interpret-as vocabulary.
type InterpretAs string

const (
	InterpretCardinal     InterpretAs = "cardinal"
	InterpretNumber       InterpretAs = "number"
	InterpretOrdinal      InterpretAs = "ordinal"
	InterpretCharacters   InterpretAs = "characters"
	InterpretSpellOut     InterpretAs = "spell-out"
	InterpretDigits       InterpretAs = "digits"
	InterpretFraction     InterpretAs = "fraction"
	InterpretUnit         InterpretAs = "unit"
	InterpretDate         InterpretAs = "date"
	InterpretTime         InterpretAs = "time"
	InterpretTelephone    InterpretAs = "telephone"
	InterpretAddress      InterpretAs = "address"
	InterpretCurrency     InterpretAs = "currency"
	InterpretExpletive    InterpretAs = "expletive"
	InterpretInterjection InterpretAs = "interjection"
)

var interpretAsValues = map[string]InterpretAs{
	"cardinal": InterpretCardinal, "number": InterpretNumber,
	"ordinal": InterpretOrdinal, "characters": InterpretCharacters,
	"spell-out": InterpretSpellOut, "digits": InterpretDigits,
	"fraction": InterpretFraction, "unit": InterpretUnit,
	"date": InterpretDate, "time": InterpretTime,
	"telephone": InterpretTelephone, "address": InterpretAddress,
	"currency": InterpretCurrency, "expletive": InterpretExpletive,
	"interjection": InterpretInterjection,
}

// ParseInterpretAs decodes a say-as interpret-as value.
func ParseInterpretAs(v string) (InterpretAs, error) {
	if i, ok := interpretAsValues[v]; ok {
		return i, nil
	}
	return "", valueErr(ErrUnknownEnumerationValue, v, "not an interpret-as value")
}

// SayAsFormat is the say-as format vocabulary.
type SayAsFormat string

const (
	FormatMDY   SayAsFormat = "mdy"
	FormatDMY   SayAsFormat = "dmy"
	FormatYMD   SayAsFormat = "ymd"
	FormatMD    SayAsFormat = "md"
	FormatDM    SayAsFormat = "dm"
	FormatMY    SayAsFormat = "my"
	FormatYM    SayAsFormat = "ym"
	FormatD     SayAsFormat = "d"
	FormatM     SayAsFormat = "m"
	FormatY     SayAsFormat = "y"
	FormatHMS12 SayAsFormat = "hms12"
	FormatHMS24 SayAsFormat = "hms24"
	FormatHM    SayAsFormat = "hm"
	FormatMS    SayAsFormat = "ms"
)

var sayAsFormats = map[string]SayAsFormat{
	"mdy": FormatMDY, "dmy": FormatDMY, "ymd": FormatYMD,
	"md": FormatMD, "dm": FormatDM, "my": FormatMY, "ym": FormatYM,
	"d": FormatD, "m": FormatM, "y": FormatY,
	"hms12": FormatHMS12, "hms24": FormatHMS24, "hm": FormatHM, "ms": FormatMS,
}

// ParseSayAsFormat decodes a say-as format value.
func ParseSayAsFormat(v string) (SayAsFormat, error) {
	if f, ok := sayAsFormats[v]; ok {
		return f, nil
	}
	return "", valueErr(ErrUnknownEnumerationValue, v, "not a say-as format")
}

// PhonemeAlphabet names a pronunciation alphabet. AlphabetIPA is the only
// value with defined semantics; other vendor alphabets pass through as-is.
type PhonemeAlphabet string

// AlphabetIPA is the International Phonetic Alphabet.
const AlphabetIPA PhonemeAlphabet = "ipa"

// Gender is the voice gender vocabulary.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
)

var genders = map[string]Gender{
	"male": GenderMale, "female": GenderFemale, "neutral": GenderNeutral,
}

// ParseGender decodes a voice gender value.
func ParseGender(v string) (Gender, error) {
	if g, ok := genders[v]; ok {
		return g, nil
	}
	return "", valueErr(ErrUnknownEnumerationValue, v, "not a voice gender")
}

// OnLangFailure is the onlangfailure vocabulary of speak and lang.
type OnLangFailure string

const (
	ChangeVoice     OnLangFailure = "changevoice"
	IgnoreText      OnLangFailure = "ignoretext"
	IgnoreLang      OnLangFailure = "ignorelang"
	ProcessorChoice OnLangFailure = "processorchoice"
)

var onLangFailures = map[string]OnLangFailure{
	"changevoice": ChangeVoice, "ignoretext": IgnoreText,
	"ignorelang": IgnoreLang, "processorchoice": ProcessorChoice,
}

// ParseOnLangFailure decodes an onlangfailure value.
func ParseOnLangFailure(v string) (OnLangFailure, error) {
	if f, ok := onLangFailures[v]; ok {
		return f, nil
	}
	return "", valueErr(ErrUnknownEnumerationValue, v, "not an onlangfailure value")
}

// FetchHint is the audio/lexicon fetchhint vocabulary.
type FetchHint string

const (
	FetchPrefetch FetchHint = "prefetch"
	FetchSafe     FetchHint = "safe"
)

// ParseFetchHint decodes a fetchhint value.
func ParseFetchHint(v string) (FetchHint, error) {
	switch v {
	case "prefetch":
		return FetchPrefetch, nil
	case "safe":
		return FetchSafe, nil
	}
	return "", valueErr(ErrUnknownEnumerationValue, v, "not a fetchhint value")
}

// PitchLevel is the labelled prosody pitch/range vocabulary.
type PitchLevel string

const (
	PitchExtraLow  PitchLevel = "x-low"
	PitchLow       PitchLevel = "low"
	PitchMedium    PitchLevel = "medium"
	PitchHigh      PitchLevel = "high"
	PitchExtraHigh PitchLevel = "x-high"
	PitchDefault   PitchLevel = "default"
)

var pitchLevels = map[string]PitchLevel{
	"x-low": PitchExtraLow, "low": PitchLow, "medium": PitchMedium,
	"high": PitchHigh, "x-high": PitchExtraHigh, "default": PitchDefault,
}

// PitchUnit is the unit of a numeric pitch value.
type PitchUnit string

const (
	UnitHertz     PitchUnit = "Hz"
	UnitSemitones PitchUnit = "st"
	UnitPercent   PitchUnit = "%"
)

// Pitch is a prosody pitch or range value: either a label, or a number with
// a unit. Semitone and percentage values are always relative; Hertz values
// are relative only when written with an explicit sign.
type Pitch struct {
	Label    PitchLevel // "" for numeric values
	Value    float64
	Unit     PitchUnit
	Relative bool
}

// ParsePitch decodes a prosody pitch or pitch range value: a label, "NNHz",
// "NNst" or "NN%", each optionally signed.
func ParsePitch(v string) (*Pitch, error) {
	if l, ok := pitchLevels[v]; ok {
		return &Pitch{Label: l}, nil
	}
	var unit PitchUnit
	switch {
	case strings.HasSuffix(v, "Hz"):
		unit = UnitHertz
	case strings.HasSuffix(v, "st"):
		unit = UnitSemitones
	case strings.HasSuffix(v, "%"):
		unit = UnitPercent
	default:
		return nil, valueErr(ErrUnknownEnumerationValue, v, "not a pitch label or a Hz/st/% value")
	}
	num := strings.TrimSuffix(v, string(unit))
	f, signed, err := parseNumber(num, true)
	if err != nil {
		return nil, valueErr(ErrUnknownEnumerationValue, v, "malformed pitch number")
	}
	return &Pitch{
		Value:    f,
		Unit:     unit,
		Relative: unit != UnitHertz || signed,
	}, nil
}

// RateLevel is the labelled prosody rate vocabulary.
type RateLevel string

const (
	RateExtraSlow RateLevel = "x-slow"
	RateSlow      RateLevel = "slow"
	RateMedium    RateLevel = "medium"
	RateFast      RateLevel = "fast"
	RateExtraFast RateLevel = "x-fast"
	RateDefault   RateLevel = "default"
)

var rateLevels = map[string]RateLevel{
	"x-slow": RateExtraSlow, "slow": RateSlow, "medium": RateMedium,
	"fast": RateFast, "x-fast": RateExtraFast, "default": RateDefault,
}

// Rate is a prosody rate value: either a label or a non-negative percentage
// of the default rate.
type Rate struct {
	Label   RateLevel // "" for percentage values
	Percent float64   // valid when Label is ""
}

// ParseRate decodes a prosody rate value. Percentages must be unsigned or
// explicitly positive; negative rates are rejected.
func ParseRate(v string) (*Rate, error) {
	if l, ok := rateLevels[v]; ok {
		return &Rate{Label: l}, nil
	}
	f, err := ParsePercentage(v, false)
	if err != nil {
		return nil, err
	}
	return &Rate{Percent: f}, nil
}

// VolumeLevel is the labelled prosody volume vocabulary.
type VolumeLevel string

const (
	VolumeSilent     VolumeLevel = "silent"
	VolumeExtraSoft  VolumeLevel = "x-soft"
	VolumeSoft       VolumeLevel = "soft"
	VolumeMedium     VolumeLevel = "medium"
	VolumeLoud       VolumeLevel = "loud"
	VolumeExtraLoud  VolumeLevel = "x-loud"
	VolumeDefaultLvl VolumeLevel = "default"
)

var volumeLevels = map[string]VolumeLevel{
	"silent": VolumeSilent, "x-soft": VolumeExtraSoft, "soft": VolumeSoft,
	"medium": VolumeMedium, "loud": VolumeLoud, "x-loud": VolumeExtraLoud,
	"default": VolumeDefaultLvl,
}

// Volume is a prosody volume value: either a label or a signed decibel
// offset from the current volume.
type Volume struct {
	Label   VolumeLevel // "" for decibel values
	Decibel float64     // valid when Label is ""
}

// ParseVolume decodes a prosody volume value.
func ParseVolume(v string) (*Volume, error) {
	if l, ok := volumeLevels[v]; ok {
		return &Volume{Label: l}, nil
	}
	f, err := ParseDecibel(v)
	if err != nil {
		return nil, err
	}
	return &Volume{Decibel: f}, nil
}

// ContourPoint is one "(time%,pitch)" pair of a prosody contour.
type ContourPoint struct {
	Time  float64 // percentage of the element's duration
	Pitch Pitch
}

// ParseContour decodes a prosody contour: whitespace-separated
// "(time%,pitch)" pairs. An empty or blank value decodes to an empty,
// non-nil slice.
func ParseContour(v string) ([]ContourPoint, error) {
	points := []ContourPoint{}
	for _, pair := range strings.Fields(v) {
		if !strings.HasPrefix(pair, "(") || !strings.HasSuffix(pair, ")") {
			return nil, valueErr(ErrMalformedPercentage, pair, "contour point must be written (time%,pitch)")
		}
		body := pair[1 : len(pair)-1]
		timePart, pitchPart, ok := strings.Cut(body, ",")
		if !ok {
			return nil, valueErr(ErrMalformedPercentage, pair, "contour point must have a time and a pitch")
		}
		t, err := ParsePercentage(strings.TrimSpace(timePart), true)
		if err != nil {
			return nil, err
		}
		p, err := ParsePitch(strings.TrimSpace(pitchPart))
		if err != nil {
			return nil, err
		}
		points = append(points, ContourPoint{Time: t, Pitch: *p})
	}
	return points, nil
}

// ParseTimeDesignation decodes an SSML time designation: "NNms", "NNs"
// (optionally with a single space before the unit) or a clock value
// "HH:MM:SS" with an optional fractional second. Negative and unit-less
// values are rejected.
func ParseTimeDesignation(v string) (time.Duration, error) {
	if strings.Contains(v, ":") {
		return parseClockTime(v)
	}
	var num string
	var unit time.Duration
	switch {
	case strings.HasSuffix(v, "ms"):
		num, unit = v[:len(v)-2], time.Millisecond
	case strings.HasSuffix(v, "s"):
		num, unit = v[:len(v)-1], time.Second
	default:
		return 0, valueErr(ErrMalformedDuration, v, "missing s or ms unit")
	}
	num = strings.TrimRight(num, " ")
	f, signed, err := parseNumber(num, false)
	if err != nil || signed {
		return 0, valueErr(ErrMalformedDuration, v, "not a non-negative number with unit")
	}
	return time.Duration(f * float64(unit)), nil
}

func parseClockTime(v string) (time.Duration, error) {
	parts := strings.Split(v, ":")
	if len(parts) != 3 {
		return 0, valueErr(ErrMalformedDuration, v, "clock values are HH:MM:SS with optional fraction")
	}
	h, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, valueErr(ErrMalformedDuration, v, "malformed hours")
	}
	m, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || m > 59 {
		return 0, valueErr(ErrMalformedDuration, v, "malformed minutes")
	}
	s, _, err2 := parseNumber(parts[2], false)
	if err2 != nil || s >= 60 {
		return 0, valueErr(ErrMalformedDuration, v, "malformed seconds")
	}
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
	return d + time.Duration(s*float64(time.Second)), nil
}

// ParsePercentage decodes a "NN%" value. When signed is false a leading
// minus is rejected; an explicit plus is always accepted. The returned
// value carries the sign.
func ParsePercentage(v string, signed bool) (float64, error) {
	if !strings.HasSuffix(v, "%") {
		return 0, valueErr(ErrMalformedPercentage, v, "missing % suffix")
	}
	f, neg, err := parseNumber(v[:len(v)-1], true)
	if err != nil {
		return 0, valueErr(ErrMalformedPercentage, v, "malformed number")
	}
	if !signed && neg && f < 0 {
		return 0, valueErr(ErrMalformedPercentage, v, "negative percentage not permitted")
	}
	return f, nil
}

// ParseDecibel decodes a "NNdB" value. The suffix is case-sensitive and
// exponent notation is rejected.
func ParseDecibel(v string) (float64, error) {
	if !strings.HasSuffix(v, "dB") {
		return 0, valueErr(ErrMalformedDecibel, v, "missing dB suffix")
	}
	f, _, err := parseNumber(v[:len(v)-2], true)
	if err != nil {
		return 0, valueErr(ErrMalformedDecibel, v, "malformed number")
	}
	return f, nil
}

// ParseLanguageAccent decodes one voice languages entry, "lang" or
// "lang:accent".
func ParseLanguageAccent(v string) (LanguageAccent, error) {
	lang, accent, _ := strings.Cut(v, ":")
	if lang == "" || strings.Contains(accent, ":") {
		return LanguageAccent{}, valueErr(ErrUnknownEnumerationValue, v, "languages entries are lang or lang:accent")
	}
	return LanguageAccent{Lang: lang, Accent: accent}, nil
}

// ParseURI decodes a URI attribute value.
func ParseURI(v string) (*url.URL, error) {
	if v == "" {
		return nil, valueErr(ErrMalformedURI, v, "empty URI")
	}
	u, err := url.Parse(v)
	if err != nil {
		return nil, valueErr(ErrMalformedURI, v, err.Error())
	}
	return u, nil
}

// parseNumber parses a plain decimal number: optional sign when allowSign,
// digits with at most one decimal point, at least one digit. Exponents,
// hex, underscores and surrounding whitespace are rejected. The second
// result reports an explicit sign.
func parseNumber(v string, allowSign bool) (float64, bool, error) {
	s := v
	signed := false
	if allowSign && len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		signed = true
		s = s[1:]
	}
	if s == "" {
		return 0, false, strconv.ErrSyntax
	}
	digits, dot := 0, false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.' && !dot:
			dot = true
		default:
			return 0, false, strconv.ErrSyntax
		}
	}
	if digits == 0 {
		return 0, false, strconv.ErrSyntax
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, err
	}
	return f, signed, nil
}
