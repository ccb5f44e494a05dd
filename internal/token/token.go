package token

import (
	"strconv"
)

// Kind classifies a token. The set of kinds belongs to the tokenizer.
type Kind int32

// Unknown is the kind of a token nobody classified.
const Unknown Kind = -1

func (k Kind) String() string {
	if k == Unknown {
		return "Unknown"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a classified lexical unit. Tag identifies the token within its
// kind; for the reference tokenizer it is the exact source text.
type Token struct {
	Kind Kind
	Tag  string
}

// IsZero reports whether t is the zero Token.
func (t Token) IsZero() bool {
	return t == Token{}
}

func (t Token) String() string {
	return t.Kind.String() + "(" + strconv.Quote(t.Tag) + ")"
}
