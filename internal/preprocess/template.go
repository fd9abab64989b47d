// Package preprocess expands macro tokens in raw schema trees into the
// explicit node maps the parser understands. Processing is a pure rewrite
// and never fails: anything unrecognized passes through unchanged so the
// parser reports the real error.
package preprocess

import "strings"

// token is a parsed macro string of the form {{tag|p1|p2|...}}.
type token struct {
	tag  string
	body []string
}

// parseToken recognizes macro strings. The string must be wrapped in {{ }};
// the leading and trailing brace runs are stripped as character sets, then
// surrounding whitespace. Fields are split on | without individual
// trimming, so a spaced tag never matches.
func parseToken(s string) (token, bool) {
	if !strings.HasPrefix(s, "{{") || !strings.HasSuffix(s, "}}") {
		return token{}, false
	}
	inner := strings.TrimSpace(strings.TrimRight(strings.TrimLeft(s, "{"), "}"))
	fields := strings.Split(inner, "|")
	return token{tag: fields[0], body: fields[1:]}, true
}
