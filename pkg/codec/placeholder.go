package codec

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Placeholder tags, one per special kind.
const (
	tagFunction  = "F"
	tagRegexp    = "R"
	tagDate      = "D"
	tagMap       = "M"
	tagSet       = "S"
	tagArray     = "A"
	tagUndefined = "U"
	tagInfinity  = "I"
	tagBigInt    = "B"
	tagURL       = "L"
)

// sessionID returns the per-process random identifier embedded in every
// placeholder. A fresh process cannot match tokens persisted by another
// session, which is what keeps literal placeholder text in user strings
// inert.
var sessionID = sync.OnceValue(func() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
})

// placeholderPattern matches a quoted placeholder in the escaped skeleton.
// The optional leading backslash captures tokens sitting inside a larger
// string literal; those are user content and must not be substituted.
var placeholderPattern = sync.OnceValue(func() *regexp.Regexp {
	return regexp.MustCompile(`(\\)?"@__([FRDMSAUIBL])-` + sessionID() + `-(\d+)__@"`)
})

func placeholder(tag string, index int) string {
	return fmt.Sprintf("@__%s-%s-%d__@", tag, sessionID(), index)
}
