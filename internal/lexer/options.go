package lexer

import (
	"wl/internal/diag"
	"wl/internal/token"
)

// DefaultMaxTokenLength bounds a single token when Options leave it unset.
const DefaultMaxTokenLength = 64 * 1024

type Options struct {
	// Reporter receives lexical diagnostics. May be nil: errors are then
	// dropped but tokenizing goes on.
	Reporter diag.Reporter
	// Keywords lists reserved words; nil means DefaultKeywords.
	Keywords []string
	// MaxTokenLength caps a token in characters; 0 means DefaultMaxTokenLength.
	MaxTokenLength int
}

func (o Options) keywordSet() map[string]token.Kind {
	words := o.Keywords
	if words == nil {
		words = DefaultKeywords
	}
	set := make(map[string]token.Kind, len(words))
	for _, w := range words {
		set[w] = Keyword
	}
	return set
}

func (o Options) maxTokenLength() int {
	if o.MaxTokenLength > 0 {
		return o.MaxTokenLength
	}
	return DefaultMaxTokenLength
}
