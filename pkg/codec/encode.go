package codec

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/iamrecursion/obsidian-pkvs/pkg/value"
)

// Encode serialises v to the persisted text format. The output is plain JSON
// when the graph contains no special kinds, and a JavaScript reconstruction
// expression otherwise. A root absent value encodes to the bare text
// "undefined", which is not valid JSON; callers must special-case it.
func Encode(v value.Value, opts ...EncodeOption) (string, error) {
	return encodeWith(v, applyEncodeOptions(opts))
}

func encodeWith(v value.Value, cfg encodeConfig) (string, error) {
	if cfg.ignoreFunctions && v != nil && v.Kind() == value.KindFunction {
		v = value.Undefined{}
	}
	if v == nil || v.Kind() == value.KindUndefined {
		return "undefined", nil
	}
	if cfg.jsonOnly && v.Kind() == value.KindFunction {
		return "undefined", nil
	}

	enc := &encoder{cfg: cfg}
	var b strings.Builder
	if err := enc.render(&b, v, 0); err != nil {
		return "", err
	}
	skeleton := b.String()
	if !cfg.unsafe {
		skeleton = escapeUnsafe(skeleton)
	}
	if enc.empty() {
		return skeleton, nil
	}
	return enc.substitute(skeleton)
}

// encoder accumulates the per-pass placeholder tables. Each table is
// append-only for the duration of the pass; placeholder indices are only
// meaningful within it.
type encoder struct {
	cfg encodeConfig

	funcs      []*value.Function
	regexps    []*value.Regexp
	dates      []value.Date
	maps       []*value.Map
	sets       []*value.Set
	arrays     []*value.Array
	undefs     int
	infinities []float64
	bigints    []value.BigInt
	urls       []value.URL
}

func (e *encoder) empty() bool {
	return len(e.funcs) == 0 && len(e.regexps) == 0 && len(e.dates) == 0 &&
		len(e.maps) == 0 && len(e.sets) == 0 && len(e.arrays) == 0 &&
		e.undefs == 0 && len(e.infinities) == 0 && len(e.bigints) == 0 &&
		len(e.urls) == 0
}

func (e *encoder) render(b *strings.Builder, v value.Value, depth int) error {
	switch t := v.(type) {
	case value.Null:
		b.WriteString("null")
	case value.Bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.String:
		return quoteString(b, string(t))
	case value.Number:
		f := float64(t)
		if t.Finite() {
			b.WriteString(formatNumber(f))
			return nil
		}
		if e.cfg.jsonOnly {
			b.WriteString("null")
			return nil
		}
		e.emitPlaceholder(b, tagInfinity, len(e.infinities))
		e.infinities = append(e.infinities, f)
	case value.Undefined:
		if e.cfg.jsonOnly {
			b.WriteString("null")
			return nil
		}
		e.emitPlaceholder(b, tagUndefined, e.undefs)
		e.undefs++
	case *value.Function:
		if e.cfg.jsonOnly {
			b.WriteString("null")
			return nil
		}
		if e.cfg.ignoreFunctions {
			return e.render(b, value.Undefined{}, depth)
		}
		e.emitPlaceholder(b, tagFunction, len(e.funcs))
		e.funcs = append(e.funcs, t)
	case value.BigInt:
		if e.cfg.jsonOnly {
			return &UnsupportedValueError{Reason: "big integer in JSON-only data"}
		}
		e.emitPlaceholder(b, tagBigInt, len(e.bigints))
		e.bigints = append(e.bigints, t)
	case value.Date:
		if e.cfg.jsonOnly {
			return quoteString(b, isoDate(t))
		}
		e.emitPlaceholder(b, tagDate, len(e.dates))
		e.dates = append(e.dates, t)
	case value.URL:
		if e.cfg.jsonOnly {
			return quoteString(b, t.Href)
		}
		e.emitPlaceholder(b, tagURL, len(e.urls))
		e.urls = append(e.urls, t)
	case *value.Regexp:
		if e.cfg.jsonOnly {
			b.WriteString("{}")
			return nil
		}
		e.emitPlaceholder(b, tagRegexp, len(e.regexps))
		e.regexps = append(e.regexps, t)
	case *value.Map:
		if e.cfg.jsonOnly {
			b.WriteString("{}")
			return nil
		}
		e.emitPlaceholder(b, tagMap, len(e.maps))
		e.maps = append(e.maps, t)
	case *value.Set:
		if e.cfg.jsonOnly {
			b.WriteString("{}")
			return nil
		}
		e.emitPlaceholder(b, tagSet, len(e.sets))
		e.sets = append(e.sets, t)
	case *value.Array:
		if !e.cfg.jsonOnly && t.Sparse() {
			e.emitPlaceholder(b, tagArray, len(e.arrays))
			e.arrays = append(e.arrays, t)
			return nil
		}
		return e.renderArray(b, t, depth)
	case *value.Object:
		return e.renderObject(b, t, depth)
	default:
		return &UnsupportedValueError{Reason: "unrecognised value kind"}
	}
	return nil
}

func (e *encoder) renderArray(b *strings.Builder, arr *value.Array, depth int) error {
	if arr.Len() == 0 {
		b.WriteString("[]")
		return nil
	}
	b.WriteByte('[')
	for i := 0; i < arr.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		e.newline(b, depth+1)
		// Holes only reach here in JSON-only mode, where they render null.
		elem := arr.At(i)
		if e.cfg.jsonOnly && !arr.Has(i) {
			b.WriteString("null")
			continue
		}
		if err := e.render(b, elem, depth+1); err != nil {
			return err
		}
	}
	e.newline(b, depth)
	b.WriteByte(']')
	return nil
}

func (e *encoder) renderObject(b *strings.Builder, obj *value.Object, depth int) error {
	first := true
	b.WriteByte('{')
	for _, p := range obj.Properties() {
		// JSON enumeration: symbolic keys are not persisted.
		if p.Key.IsSymbol() {
			continue
		}
		if e.omitProperty(p.Value) {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		e.newline(b, depth+1)
		if err := quoteString(b, p.Key.Name()); err != nil {
			return err
		}
		b.WriteByte(':')
		if e.cfg.indent != "" {
			b.WriteByte(' ')
		}
		if err := e.render(b, p.Value, depth+1); err != nil {
			return err
		}
	}
	if !first {
		e.newline(b, depth)
	}
	b.WriteByte('}')
	return nil
}

func (e *encoder) omitProperty(v value.Value) bool {
	if v == nil {
		return false
	}
	switch v.Kind() {
	case value.KindFunction:
		return e.cfg.ignoreFunctions || e.cfg.jsonOnly
	case value.KindUndefined:
		return e.cfg.jsonOnly
	}
	return false
}

func (e *encoder) emitPlaceholder(b *strings.Builder, tag string, index int) {
	b.WriteByte('"')
	b.WriteString(placeholder(tag, index))
	b.WriteByte('"')
}

func (e *encoder) newline(b *strings.Builder, depth int) {
	if e.cfg.indent == "" {
		return
	}
	b.WriteByte('\n')
	for i := 0; i < depth; i++ {
		b.WriteString(e.cfg.indent)
	}
}

// quoteString writes s as a JSON string literal. HTML and line-terminator
// escaping happens later over the whole skeleton, so it is not done here.
// Invalid UTF-8 has no faithful string-literal rendering, so it is rejected
// rather than silently replaced.
func quoteString(b *strings.Builder, s string) error {
	if !utf8.ValidString(s) {
		return &UnsupportedValueError{Reason: "string is not valid UTF-8"}
	}
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				b.WriteString(`\u`)
				hex := strconv.FormatInt(int64(r), 16)
				for len(hex) < 4 {
					hex = "0" + hex
				}
				b.WriteString(hex)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return nil
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isoDate(d value.Date) string {
	return d.Time.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// escapeUnsafe rewrites the characters that are unsafe to embed in HTML
// script contexts or in JavaScript source (the line terminators) to Unicode
// escapes. It runs over the skeleton before placeholder substitution so
// reconstructed function bodies are never re-escaped.
func escapeUnsafe(s string) string {
	return unsafeReplacer.Replace(s)
}

var unsafeReplacer = strings.NewReplacer(
	"<", `\u003C`,
	">", `\u003E`,
	"/", `\u002F`,
	" ", `\u2028`,
	" ", `\u2029`,
)
