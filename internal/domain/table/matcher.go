package table

import "strings"

// Matcher decides whether a (trimmed) header name denotes a semantic column.
type Matcher interface {
	Match(header string) bool
	// String names the matcher in ColumnNotFoundError messages.
	String() string
}

type containsMatcher struct {
	token string
	upper string
}

// Contains matches headers whose uppercased form contains the uppercased token.
func Contains(token string) Matcher {
	return containsMatcher{token: token, upper: strings.ToUpper(token)}
}

func (m containsMatcher) Match(header string) bool {
	return strings.Contains(strings.ToUpper(header), m.upper)
}

func (m containsMatcher) String() string { return m.token }

type allOf []Matcher

// AllOf matches headers accepted by every matcher in ms.
func AllOf(ms ...Matcher) Matcher { return allOf(ms) }

func (a allOf) Match(header string) bool {
	if len(a) == 0 {
		return false
	}
	for _, m := range a {
		if !m.Match(header) {
			return false
		}
	}
	return true
}

func (a allOf) String() string {
	parts := make([]string, len(a))
	for i, m := range a {
		parts[i] = m.String()
	}
	return strings.Join(parts, "+")
}

// Tokens is Contains for a single token and AllOf(Contains...) for several.
func Tokens(tokens ...string) Matcher {
	if len(tokens) == 1 {
		return Contains(tokens[0])
	}
	ms := make([]Matcher, len(tokens))
	for i, t := range tokens {
		ms[i] = Contains(t)
	}
	return AllOf(ms...)
}

type funcMatcher struct {
	name string
	fn   func(string) bool
}

// Func adapts a predicate into a Matcher reported under name.
func Func(name string, fn func(header string) bool) Matcher {
	return funcMatcher{name: name, fn: fn}
}

func (m funcMatcher) Match(header string) bool { return m.fn(header) }
func (m funcMatcher) String() string           { return m.name }
