package codec

import (
	"testing"
	"time"

	"github.com/iamrecursion/obsidian-pkvs/pkg/value"
)

func mustDate(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
}

// These tests need the process session identifier, so they live inside the
// package.

func TestBackslashGuardLeavesQuotedTokensAlone(t *testing.T) {
	quoted := `say "` + placeholder(tagUndefined, 0) + `" ok`
	obj := value.NewObject()
	obj.Set(value.StringKey("u"), value.Undefined{})
	obj.Set(value.StringKey("s"), value.String(quoted))

	text, err := Encode(obj)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(text)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, ok := decoded.(*value.Object)
	if !ok {
		t.Fatalf("decoded %T, want object", decoded)
	}
	s, _ := got.Get(value.StringKey("s"))
	if s != value.String(quoted) {
		t.Fatalf("quoted token was substituted: %#v", s)
	}
	u, _ := got.Get(value.StringKey("u"))
	if _, ok := u.(value.Undefined); !ok {
		t.Fatalf("real placeholder was not substituted: %#v", u)
	}
}

func TestOutOfRangeTokenStaysInert(t *testing.T) {
	obj := value.NewObject()
	obj.Set(value.StringKey("d"), value.NewDate(mustDate(t)))
	obj.Set(value.StringKey("s"), value.String(placeholder(tagDate, 5)))

	text, err := Encode(obj)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(text)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := decoded.(*value.Object)
	s, _ := got.Get(value.StringKey("s"))
	if s != value.String(placeholder(tagDate, 5)) {
		t.Fatalf("out-of-range token was substituted: %#v", s)
	}
}
