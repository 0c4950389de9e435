package codec

import (
	"math"
	"strconv"
	"strings"

	"github.com/iamrecursion/obsidian-pkvs/pkg/value"
)

// substitute replaces every placeholder in the escaped skeleton with the
// reconstruction expression for the value it stands for. A match preceded by
// an unescaped backslash sits inside a larger string literal and is user
// content, not a placeholder; it stays untouched. So does a token whose
// index falls outside the pass's tables.
func (e *encoder) substitute(skeleton string) (string, error) {
	pattern := placeholderPattern()
	matches := pattern.FindAllStringSubmatchIndex(skeleton, -1)
	if len(matches) == 0 {
		return skeleton, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(skeleton[last:m[0]])
		last = m[1]
		raw := skeleton[m[0]:m[1]]
		if m[2] != -1 {
			b.WriteString(raw)
			continue
		}
		tag := skeleton[m[4]:m[5]]
		index, err := strconv.Atoi(skeleton[m[6]:m[7]])
		if err != nil {
			b.WriteString(raw)
			continue
		}
		snippet, ok, err := e.reconstruct(tag, index)
		if err != nil {
			return "", err
		}
		if !ok {
			b.WriteString(raw)
			continue
		}
		b.WriteString(snippet)
	}
	b.WriteString(skeleton[last:])
	return b.String(), nil
}

func (e *encoder) reconstruct(tag string, index int) (string, bool, error) {
	switch tag {
	case tagUndefined:
		if index >= e.undefs {
			return "", false, nil
		}
		return "undefined", true, nil
	case tagInfinity:
		if index >= len(e.infinities) {
			return "", false, nil
		}
		return formatNonFinite(e.infinities[index]), true, nil
	case tagDate:
		if index >= len(e.dates) {
			return "", false, nil
		}
		return `new Date("` + isoDate(e.dates[index]) + `")`, true, nil
	case tagBigInt:
		if index >= len(e.bigints) {
			return "", false, nil
		}
		return `BigInt("` + e.bigints[index].Int.String() + `")`, true, nil
	case tagRegexp:
		if index >= len(e.regexps) {
			return "", false, nil
		}
		re := e.regexps[index]
		source, err := e.encodeSub(value.String(re.Source))
		if err != nil {
			return "", false, err
		}
		return "new RegExp(" + source + `, "` + re.Flags + `")`, true, nil
	case tagURL:
		if index >= len(e.urls) {
			return "", false, nil
		}
		href, err := e.encodeSub(value.String(e.urls[index].Href))
		if err != nil {
			return "", false, err
		}
		return "new URL(" + href + ")", true, nil
	case tagMap:
		if index >= len(e.maps) {
			return "", false, nil
		}
		entries := value.NewArray()
		for _, entry := range e.maps[index].Entries() {
			entries.Append(value.NewArray(entry.Key, entry.Value))
		}
		text, err := e.encodeSub(entries)
		if err != nil {
			return "", false, err
		}
		return "new Map(" + text + ")", true, nil
	case tagSet:
		if index >= len(e.sets) {
			return "", false, nil
		}
		text, err := e.encodeSub(value.NewArray(e.sets[index].Values()...))
		if err != nil {
			return "", false, err
		}
		return "new Set(" + text + ")", true, nil
	case tagArray:
		if index >= len(e.arrays) {
			return "", false, nil
		}
		arr := e.arrays[index]
		carrier := value.NewObject()
		carrier.Set(value.StringKey("length"), value.Number(arr.Len()))
		for i := 0; i < arr.Len(); i++ {
			if arr.Has(i) {
				carrier.Set(value.StringKey(strconv.Itoa(i)), arr.At(i))
			}
		}
		text, err := e.encodeSub(carrier)
		if err != nil {
			return "", false, err
		}
		return "Array.prototype.slice.call(" + text + ")", true, nil
	case tagFunction:
		if index >= len(e.funcs) {
			return "", false, nil
		}
		source, err := normalizeFunctionSource(e.funcs[index].Source)
		if err != nil {
			return "", false, err
		}
		return source, true, nil
	default:
		return "", false, nil
	}
}

// encodeSub runs a full nested encode pass, placeholder substitution
// included, with the same options and session identifier.
func (e *encoder) encodeSub(v value.Value) (string, error) {
	return encodeWith(v, e.cfg)
}

func formatNonFinite(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return "NaN"
	}
}
