package codec

// EncodeOption configures one Encode pass.
type EncodeOption func(*encodeConfig)

type encodeConfig struct {
	indent          string
	jsonOnly        bool
	unsafe          bool
	ignoreFunctions bool
}

func applyEncodeOptions(opts []EncodeOption) encodeConfig {
	cfg := encodeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithIndent pretty-prints the skeleton using indent per nesting level.
func WithIndent(indent string) EncodeOption {
	return func(cfg *encodeConfig) {
		cfg.indent = indent
	}
}

// JSONOnly skips special-kind detection. The caller asserts the graph is
// plain JSON data; specials that slip through are rendered the way
// JSON.stringify would render them, except big integers, which fail.
func JSONOnly() EncodeOption {
	return func(cfg *encodeConfig) {
		cfg.jsonOnly = true
	}
}

// Unsafe skips the HTML and line-terminator escaping of the skeleton.
func Unsafe() EncodeOption {
	return func(cfg *encodeConfig) {
		cfg.unsafe = true
	}
}

// IgnoreFunctions strips function-typed properties instead of serialising
// them. A function root encodes as the absent value.
func IgnoreFunctions() EncodeOption {
	return func(cfg *encodeConfig) {
		cfg.ignoreFunctions = true
	}
}
