package router

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dobryakk5/nsk/core/telegram/state"
)

var (
	// ErrInvalidRule reports a rule missing a required field.
	ErrInvalidRule = errors.New("router: invalid rule")
	// ErrShadowed reports a rule that can never be selected because an
	// earlier rule already takes every event it would match.
	ErrShadowed = errors.New("router: rule shadowed")
)

// Condition restricts a rule to some conversation states. The zero value is
// invalid; use AnyState or InState.
type Condition struct {
	any    bool
	states []state.State
}

// AnyState accepts every state.
func AnyState() Condition { return Condition{any: true} }

// InState accepts only the listed states.
func InState(states ...state.State) Condition {
	out := make([]state.State, 0, len(states))
	for _, st := range states {
		if st.IsIdle() {
			st = state.Idle
		}
		out = append(out, st)
	}
	return Condition{states: out}
}

// Allows reports whether st satisfies the condition.
func (c Condition) Allows(st state.State) bool {
	if c.any {
		return true
	}
	if st.IsIdle() {
		st = state.Idle
	}
	return slices.Contains(c.states, st)
}

func (c Condition) valid() bool { return c.any || len(c.states) > 0 }

func (c Condition) overlaps(o Condition) bool {
	if c.any || o.any {
		return true
	}
	for _, st := range o.states {
		if c.Allows(st) {
			return true
		}
	}
	return false
}

// covers reports whether every state o allows is also allowed by c.
func (c Condition) covers(o Condition) bool {
	if c.any {
		return true
	}
	if o.any {
		return false
	}
	for _, st := range o.states {
		if !c.Allows(st) {
			return false
		}
	}
	return true
}

func (c Condition) String() string {
	if c.any {
		return "any"
	}
	names := make([]string, len(c.states))
	for i, st := range c.states {
		names[i] = st.String()
	}
	return "state:" + strings.Join(names, ",")
}

// Rule binds (kind, payload matcher, state condition) to a handler.
type Rule struct {
	Name string
	On   Kind
	// Match selects payloads; see Event.Payload.
	Match Matcher
	When  Condition
	// Description, when set on a command rule, lists it in the command menu.
	Description string
	Handler     Handler
}

func (r Rule) selects(ev Event, st state.State) bool {
	return r.On == ev.Kind && r.When.Allows(st) && r.Match.Match(ev.Payload())
}

// CommandInfo is a command menu entry.
type CommandInfo struct {
	Command     string
	Description string
}

// Table is an ordered rule list scanned first-match-wins.
type Table struct {
	rules []Rule
}

// NewTable builds a table from rules in priority order.
func NewTable(rules ...Rule) *Table {
	return &Table{rules: slices.Clone(rules)}
}

// Add appends rules at the lowest priority.
func (t *Table) Add(rules ...Rule) *Table {
	t.rules = append(t.rules, rules...)
	return t
}

// Rules returns a copy of the rules in priority order.
func (t *Table) Rules() []Rule {
	return slices.Clone(t.rules)
}

// Len returns the number of rules.
func (t *Table) Len() int { return len(t.rules) }

// Match returns the first rule accepting ev in state st.
func (t *Table) Match(ev Event, st state.State) (Rule, bool) {
	for _, r := range t.rules {
		if r.selects(ev, st) {
			return r, true
		}
	}
	return Rule{}, false
}

// Validate checks every rule for required fields and unreachable placement.
func (t *Table) Validate() error {
	var errs []error
	for i, r := range t.rules {
		pos := i + 1
		switch {
		case strings.TrimSpace(r.Name) == "":
			errs = append(errs, fmt.Errorf("%w: rule %d has no name", ErrInvalidRule, pos))
			continue
		case r.On < KindCommand || r.On > KindButton:
			errs = append(errs, fmt.Errorf("%w: %s has unknown kind %d", ErrInvalidRule, r.Name, r.On))
			continue
		case r.Match == nil:
			errs = append(errs, fmt.Errorf("%w: %s has no matcher", ErrInvalidRule, r.Name))
			continue
		case !r.When.valid():
			errs = append(errs, fmt.Errorf("%w: %s has no state condition", ErrInvalidRule, r.Name))
			continue
		case r.Handler == nil:
			errs = append(errs, fmt.Errorf("%w: %s has no handler", ErrInvalidRule, r.Name))
			continue
		}
		for j := 0; j < i; j++ {
			prev := t.rules[j]
			if prev.On != r.On || prev.Match == nil || !prev.When.valid() {
				continue
			}
			shadowed := isCatchAll(prev.Match) && prev.When.overlaps(r.When) ||
				prev.Match.String() == r.Match.String() && prev.When.covers(r.When)
			if shadowed {
				errs = append(errs, fmt.Errorf("%w: %s (rule %d) is unreachable behind %s (rule %d)", ErrShadowed, r.Name, pos, prev.Name, j+1))
				break
			}
		}
	}
	return errors.Join(errs...)
}

// Describe renders one line per rule in priority order.
func (t *Table) Describe() string {
	var b strings.Builder
	for i, r := range t.rules {
		match := "<nil>"
		if r.Match != nil {
			match = r.Match.String()
		}
		fmt.Fprintf(&b, "%02d %s on=%s match=%s when=%s", i+1, r.Name, r.On, match, r.When)
		if r.Description != "" {
			fmt.Fprintf(&b, " desc=%q", r.Description)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Commands lists exact command rules that carry a description, first occurrence wins.
func (t *Table) Commands() []CommandInfo {
	var out []CommandInfo
	seen := map[string]bool{}
	for _, r := range t.rules {
		if r.On != KindCommand || r.Description == "" {
			continue
		}
		m, ok := r.Match.(exactMatcher)
		if !ok || seen[string(m)] {
			continue
		}
		seen[string(m)] = true
		out = append(out, CommandInfo{Command: string(m), Description: r.Description})
	}
	return out
}
