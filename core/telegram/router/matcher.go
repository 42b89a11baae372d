package router

import "strings"

// Matcher decides whether an event payload selects a rule.
type Matcher interface {
	Match(payload string) bool
	String() string
}

type exactMatcher string

// Exact matches one exact payload.
func Exact(s string) Matcher { return exactMatcher(s) }

func (m exactMatcher) Match(p string) bool { return p == string(m) }
func (m exactMatcher) String() string      { return "exact:" + string(m) }

type oneOfMatcher []string

// OneOf matches any of the listed payloads.
func OneOf(values ...string) Matcher { return oneOfMatcher(values) }

func (m oneOfMatcher) Match(p string) bool {
	for _, v := range m {
		if p == v {
			return true
		}
	}
	return false
}

func (m oneOfMatcher) String() string { return "one_of:" + strings.Join(m, ",") }

type keyMatcher string

// Key matches button data whose part before the first "|" equals key.
func Key(key string) Matcher { return keyMatcher(key) }

func (m keyMatcher) Match(p string) bool {
	k, _, _ := strings.Cut(p, "|")
	return k == string(m)
}

func (m keyMatcher) String() string { return "key:" + string(m) }

type anyMatcher struct{}

// AnyText matches every payload. A rule using it catches everything of its
// kind that reaches it, so it belongs at the end of the table.
func AnyText() Matcher { return anyMatcher{} }

func (anyMatcher) Match(string) bool { return true }
func (anyMatcher) String() string    { return "any" }

func isCatchAll(m Matcher) bool {
	_, ok := m.(anyMatcher)
	return ok
}
