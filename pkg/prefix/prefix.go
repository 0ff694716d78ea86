// Package prefix parses free-text chat commands of the form "<prefix><name> <args...>".
package prefix

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parsed is a command split off a chat message. It borrows from the original text.
type Parsed struct {
	// Command is the first whitespace-delimited run after the prefix.
	Command string
	args    string
}

// Parse strips prefix from text and splits the command name from its arguments.
// It reports false when text does not start with prefix or nothing but
// whitespace follows it.
func Parse(text, prefix string) (Parsed, bool) {
	rest, ok := strings.CutPrefix(text, prefix)
	if !ok {
		return Parsed{}, false
	}

	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if rest == "" {
		return Parsed{}, false
	}

	idx := strings.IndexFunc(rest, unicode.IsSpace)
	if idx < 0 {
		return Parsed{Command: rest}, true
	}

	_, sepLen := utf8.DecodeRuneInString(rest[idx:])

	return Parsed{
		Command: rest[:idx],
		args:    strings.TrimRightFunc(rest[idx+sepLen:], unicode.IsSpace),
	}, true
}

// ArgumentText returns everything after the command name, trailing-trimmed.
func (p Parsed) ArgumentText() string {
	return p.args
}

// Arguments returns a fresh cursor over the argument text.
// Each call starts from the beginning; cursors are independent.
func (p Parsed) Arguments() *Arguments {
	return NewArguments(p.args)
}

// Arguments is a cursor over whitespace-delimited tokens that can also hand
// out the unconsumed tail verbatim. Next and Remainder may be interleaved freely.
type Arguments struct {
	rest string
}

// NewArguments creates a cursor over s.
func NewArguments(s string) *Arguments {
	return &Arguments{rest: s}
}

// Next consumes and returns the next token. It reports false once the
// arguments are exhausted; empty tokens are never produced.
func (a *Arguments) Next() (string, bool) {
	trimmed := strings.TrimLeftFunc(a.rest, unicode.IsSpace)
	if trimmed == "" {
		a.rest = ""
		return "", false
	}

	idx := strings.IndexFunc(trimmed, unicode.IsSpace)
	if idx < 0 {
		a.rest = ""
		return trimmed, true
	}

	a.rest = trimmed[idx:]

	return trimmed[:idx], true
}

// Remainder returns the unconsumed tail, left-trimmed. It does not advance the cursor.
func (a *Arguments) Remainder() string {
	return strings.TrimLeftFunc(a.rest, unicode.IsSpace)
}

// Rest drains the cursor and returns every remaining token.
func (a *Arguments) Rest() []string {
	var tokens []string
	for {
		tok, ok := a.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Clone returns an independent cursor positioned at the same token.
func (a *Arguments) Clone() *Arguments {
	return &Arguments{rest: a.rest}
}
