package codec

import (
	"regexp"
	"strings"
)

var (
	nativeCodePattern   = regexp.MustCompile(`\{\s*\[native code\]\s*\}`)
	functionFormPattern = regexp.MustCompile(`function.*?\(`)
)

// normalizeFunctionSource prepares a function's source text for embedding in
// the persisted expression. Standard function expressions and arrow
// functions pass through unchanged; method-shorthand forms are rewritten
// into explicit function expressions, keeping the async and generator
// markers. Native built-ins have no reproducible source and are rejected.
func normalizeFunctionSource(source string) (string, error) {
	if nativeCodePattern.MatchString(source) {
		return "", &UnsupportedValueError{Reason: "native function has no serialisable source"}
	}
	if functionFormPattern.MatchString(source) {
		return source, nil
	}
	if strings.Contains(source, "=>") {
		return source, nil
	}

	argsStart := strings.Index(source, "(")
	if argsStart < 0 {
		return "", &UnsupportedValueError{Reason: "function source has no parameter list"}
	}
	head := strings.Fields(strings.TrimSpace(source[:argsStart]))
	async := false
	generator := false
	named := false
	for _, tok := range head {
		switch {
		case tok == "async":
			async = true
		case strings.Contains(tok, "*"):
			generator = true
			if strings.Trim(tok, "*") != "" {
				named = true
			}
		default:
			named = true
		}
	}
	if !named {
		return source, nil
	}

	var b strings.Builder
	if async {
		b.WriteString("async ")
	}
	b.WriteString("function")
	if generator {
		b.WriteByte('*')
	}
	b.WriteString(source[argsStart:])
	return b.String(), nil
}
