package codec_test

import (
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/iamrecursion/obsidian-pkvs/pkg/codec"
	"github.com/iamrecursion/obsidian-pkvs/pkg/value"
)

func mustEncode(t *testing.T, v value.Value, opts ...codec.EncodeOption) string {
	t.Helper()
	text, err := codec.Encode(v, opts...)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return text
}

func mustDecode(t *testing.T, text string) value.Value {
	t.Helper()
	v, err := codec.Decode(text)
	if err != nil {
		t.Fatalf("decode %q: %v", text, err)
	}
	return v
}

func roundTrip(t *testing.T, v value.Value) value.Value {
	t.Helper()
	text := mustEncode(t, v)
	got := mustDecode(t, text)
	if !value.Equal(got, v) {
		t.Fatalf("round trip mismatch\ntext: %s\nwant: %#v\ngot:  %#v", text, v, got)
	}
	return got
}

func TestRoundTripScalars(t *testing.T) {
	cases := []struct {
		name string
		v    value.Value
	}{
		{"string", value.String("hello")},
		{"empty string", value.String("")},
		{"html string", value.String("<script>alert('x')</script>")},
		{"slash string", value.String("a/b")},
		{"integer", value.Number(42)},
		{"negative", value.Number(-2.5)},
		{"zero", value.Number(0)},
		{"nan", value.Number(math.NaN())},
		{"infinity", value.Number(math.Inf(1))},
		{"negative infinity", value.Number(math.Inf(-1))},
		{"true", value.Bool(true)},
		{"false", value.Bool(false)},
		{"null", value.Null{}},
		{"undefined", value.Undefined{}},
		{"bigint", value.NewBigInt(big.NewInt(9007199254740993))},
		{"bigint zero", value.NewBigInt(big.NewInt(0))},
		{"negative bigint", value.NewBigInt(big.NewInt(-12))},
		{"date", value.NewDate(time.Date(2016, 4, 28, 22, 2, 17, 156e6, time.UTC))},
		{"regexp", value.NewRegexp(`ab+c`, "gi")},
		{"regexp with slash", value.NewRegexp(`a/b\d+`, "")},
		{"url", value.NewURL("https://example.com/path?q=1")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			roundTrip(t, tc.v)
		})
	}
}

func TestRoundTripComposites(t *testing.T) {
	obj := value.NewObject()
	obj.Set(value.StringKey("name"), value.String("ada"))
	obj.Set(value.StringKey("count"), value.Number(3))
	obj.Set(value.StringKey("none"), value.Undefined{})
	obj.Set(value.StringKey("nested"), value.NewArray(value.Number(1), value.Null{}))
	roundTrip(t, obj)

	m := value.NewMap()
	m.Put(value.String("a"), value.Number(1))
	m.Put(value.Number(2), value.NewArray(value.String("x")))
	m.Put(value.Bool(true), value.NewDate(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)))
	roundTrip(t, m)

	s := value.NewSet()
	s.Add(value.Number(1))
	s.Add(value.String("one"))
	s.Add(value.NewRegexp("x", "g"))
	roundTrip(t, s)

	dense := value.NewArray(value.Number(1), value.Number(2), value.Number(3))
	roundTrip(t, dense)
}

func TestRoundTripSparseArray(t *testing.T) {
	arr := value.NewSparseArray(3)
	arr.SetIndex(0, value.Number(1))
	arr.SetIndex(2, value.Number(3))

	got := roundTrip(t, arr).(*value.Array)
	if got.Len() != 3 {
		t.Fatalf("length = %d, want 3", got.Len())
	}
	if got.Has(1) {
		t.Fatalf("index 1 should be a hole")
	}
	if !got.Has(0) || !got.Has(2) {
		t.Fatalf("indices 0 and 2 should be present")
	}
}

func TestRoundTripSparseTail(t *testing.T) {
	arr := value.NewSparseArray(5)
	arr.SetIndex(0, value.String("head"))

	got := roundTrip(t, arr).(*value.Array)
	if got.Len() != 5 {
		t.Fatalf("length = %d, want 5", got.Len())
	}
	for i := 1; i < 5; i++ {
		if got.Has(i) {
			t.Fatalf("index %d should be a hole", i)
		}
	}
}

func TestRoundTripFunctions(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"expression", "function add(a, b) { return a + b; }"},
		{"anonymous", "function (a) { return a; }"},
		{"arrow", "(a) => a * 2"},
		{"arrow block", "(a, b) => { return a < b; }"},
		{"async arrow", "async (a) => a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			roundTrip(t, value.NewFunction(tc.source))
		})
	}
}

func TestMethodShorthandNormalization(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"plain", "greet(name) { return 'hi ' + name; }", "function(name) { return 'hi ' + name; }"},
		{"async", "async fetchIt(u) { return u; }", "async function(u) { return u; }"},
		{"generator", "*walk() { yield 1; }", "function*() { yield 1; }"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text := mustEncode(t, value.NewFunction(tc.source), codec.Unsafe())
			if text != tc.want {
				t.Fatalf("normalised source = %q, want %q", text, tc.want)
			}
			if _, err := codec.Decode(text); err != nil {
				t.Fatalf("normalised source does not decode: %v", err)
			}
		})
	}
}

func TestNativeFunctionRejected(t *testing.T) {
	fn := value.NewFunction("function hasOwnProperty() { [native code] }")
	_, err := codec.Encode(fn)
	var unsupported *codec.UnsupportedValueError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedValueError", err)
	}
}

func TestEscaping(t *testing.T) {
	text := mustEncode(t, value.String("<script>"))
	if strings.ContainsAny(text, "<>") {
		t.Fatalf("escaped output still contains angle brackets: %s", text)
	}
	if mustDecode(t, text).(value.String) != "<script>" {
		t.Fatalf("escaped text does not round trip")
	}

	unsafe := mustEncode(t, value.String("<script>"), codec.Unsafe())
	if !strings.Contains(unsafe, "<script>") {
		t.Fatalf("unsafe output should keep angle brackets: %s", unsafe)
	}
}

func TestLineTerminatorEscaping(t *testing.T) {
	text := mustEncode(t, value.String("a\u2028b\u2029c"))
	if strings.ContainsRune(text, '\u2028') || strings.ContainsRune(text, '\u2029') {
		t.Fatalf("output contains raw line terminators: %q", text)
	}
	if mustDecode(t, text).(value.String) != "a\u2028b\u2029c" {
		t.Fatalf("line terminators do not round trip")
	}
}

func TestFunctionBodyNotReescaped(t *testing.T) {
	fn := value.NewFunction("(a, b) => a < b")
	text := mustEncode(t, fn)
	if text != "(a, b) => a < b" {
		t.Fatalf("function body was mangled: %q", text)
	}
}

func TestPlaceholderLiteralInUserString(t *testing.T) {
	// A foreign session identifier can never match the current pattern.
	literal := "@__F-aaaabbbbccccddddeeeeffff00001111-0__@"
	got := roundTrip(t, value.String(literal))
	if got.(value.String) != value.String(literal) {
		t.Fatalf("placeholder literal was substituted: %v", got)
	}
}

func TestRootUndefinedEncodesToBareText(t *testing.T) {
	if text := mustEncode(t, value.Undefined{}); text != "undefined" {
		t.Fatalf("root undefined = %q", text)
	}
	if _, ok := mustDecode(t, "undefined").(value.Undefined); !ok {
		t.Fatalf("bare undefined text should decode to the absent value")
	}
}

func TestFalsyValuesAreNeverClassifiedSpecial(t *testing.T) {
	cases := []struct {
		v    value.Value
		want string
	}{
		{value.Bool(false), "false"},
		{value.Number(0), "0"},
		{value.String(""), `""`},
		{value.Null{}, "null"},
	}
	for _, tc := range cases {
		text := mustEncode(t, tc.v)
		if text != tc.want {
			t.Fatalf("Encode(%#v) = %q, want %q", tc.v, text, tc.want)
		}
		if strings.Contains(text, "@__") {
			t.Fatalf("falsy value produced a placeholder: %q", text)
		}
	}
}

func TestJSONOnlyIdempotence(t *testing.T) {
	obj := value.NewObject()
	obj.Set(value.StringKey("b"), value.Number(1.5))
	obj.Set(value.StringKey("a"), value.NewArray(value.String("x"), value.Bool(true), value.Null{}))
	inner := value.NewObject()
	inner.Set(value.StringKey("k"), value.String("v"))
	obj.Set(value.StringKey("o"), inner)

	first := mustEncode(t, obj)
	second := mustEncode(t, mustDecode(t, first))
	if first != second {
		t.Fatalf("re-encoding decoded JSON-only text changed it\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestJSONOnlyRendering(t *testing.T) {
	obj := value.NewObject()
	obj.Set(value.StringKey("when"), value.NewDate(time.Date(2016, 4, 28, 22, 2, 17, 156e6, time.UTC)))
	obj.Set(value.StringKey("where"), value.NewURL("https://example.com"))
	obj.Set(value.StringKey("gone"), value.Undefined{})
	obj.Set(value.StringKey("re"), value.NewRegexp("x", "g"))
	obj.Set(value.StringKey("nan"), value.Number(math.NaN()))

	text := mustEncode(t, obj, codec.JSONOnly(), codec.Unsafe())
	want := `{"when":"2016-04-28T22:02:17.156Z","where":"https://example.com","re":{},"nan":null}`
	if text != want {
		t.Fatalf("JSON-only output = %s, want %s", text, want)
	}
}

func TestJSONOnlyRejectsBigInt(t *testing.T) {
	_, err := codec.Encode(value.NewBigInt(big.NewInt(1)), codec.JSONOnly())
	var unsupported *codec.UnsupportedValueError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedValueError", err)
	}
}

func TestIgnoreFunctions(t *testing.T) {
	if text := mustEncode(t, value.NewFunction("() => 1"), codec.IgnoreFunctions()); text != "undefined" {
		t.Fatalf("root function with IgnoreFunctions = %q", text)
	}

	obj := value.NewObject()
	obj.Set(value.StringKey("keep"), value.Number(1))
	obj.Set(value.StringKey("drop"), value.NewFunction("() => 2"))
	text := mustEncode(t, obj, codec.IgnoreFunctions())
	if text != `{"keep":1}` {
		t.Fatalf("function property was not stripped: %s", text)
	}
}

func TestIndent(t *testing.T) {
	obj := value.NewObject()
	obj.Set(value.StringKey("a"), value.Number(1))
	obj.Set(value.StringKey("b"), value.NewArray(value.Number(2)))

	text := mustEncode(t, obj, codec.WithIndent("  "))
	want := "{\n  \"a\": 1,\n  \"b\": [\n    2\n  ]\n}"
	if text != want {
		t.Fatalf("indented output = %q, want %q", text, want)
	}
}

func TestSymbolKeysAreNotPersisted(t *testing.T) {
	obj := value.NewObject()
	obj.Set(value.StringKey("visible"), value.Number(1))
	obj.Set(value.SymbolFor("hidden"), value.Number(2))

	text := mustEncode(t, obj)
	if text != `{"visible":1}` {
		t.Fatalf("symbol key leaked into persisted text: %s", text)
	}
}

func TestNestedSpecials(t *testing.T) {
	m := value.NewMap()
	inner := value.NewSet()
	inner.Add(value.NewDate(time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC)))
	m.Put(value.String("times"), inner)

	obj := value.NewObject()
	obj.Set(value.StringKey("m"), m)
	obj.Set(value.StringKey("fn"), value.NewFunction("() => new Date()"))
	roundTrip(t, obj)
}

func TestDecodeFunctionEndingInEmptyCall(t *testing.T) {
	for _, source := range []string{
		"() => new Date()",
		"() => new Map()",
	} {
		fn, ok := mustDecode(t, source).(*value.Function)
		if !ok {
			t.Fatalf("Decode(%q) did not produce a function", source)
		}
		if fn.Source != source {
			t.Fatalf("source = %q, want %q", fn.Source, source)
		}
	}
}

func TestDecodeRejectsBadSparseLength(t *testing.T) {
	cases := []string{
		`Array.prototype.slice.call({"length":2.5})`,
		`Array.prototype.slice.call({"length":1e18})`,
		`Array.prototype.slice.call({"length":-1})`,
	}
	for _, text := range cases {
		_, err := codec.Decode(text)
		var decodeErr *codec.DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("Decode(%q) err = %v, want DecodeError", text, err)
		}
	}
}

func TestInvalidUTF8StringRejected(t *testing.T) {
	for _, v := range []value.Value{
		value.String("a\xffb"),
		value.NewURL("https://example.com/\xff"),
	} {
		_, err := codec.Encode(v, codec.JSONOnly())
		var unsupported *codec.UnsupportedValueError
		if !errors.As(err, &unsupported) {
			t.Fatalf("Encode(%#v) err = %v, want UnsupportedValueError", v, err)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []string{
		"{",
		"require('fs')",
		"new WebSocket(\"ws://x\")",
		"[1, 2,, 3]",
		"1 + 2",
	}
	for _, text := range cases {
		_, err := codec.Decode(text)
		var decodeErr *codec.DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("Decode(%q) err = %v, want DecodeError", text, err)
		}
	}
}
