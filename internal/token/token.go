package token

import "ergc/internal/source"

// Token is a single lexical unit with its exact source span.
type Token struct {
	Kind Kind
	Text string
	Span source.Span
}

func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return t.Kind.String() + "(" + t.Text + ")"
}
