// Package args translates named option values into command-line tokens.
//
// Every binding method owns a Table: an ordered list of rules, each
// mapping a set of accepted option names (aliases) to one canonical flag
// of the engine's CLI. Translate walks the table in declared order, so the
// emitted token order is stable no matter how the caller built its values.
//
// # Usage
//
//	table := args.Table{
//	    args.Option("--recheck-method", "recheck-method"),
//	    args.Flag("--force", "force"),
//	}
//	tokens, err := args.Translate(args.Values{"recheck_method": "copy"}, table, "a.txt")
//	// tokens == ["--recheck-method", "copy", "a.txt"]
package args

import (
	"fmt"
	"strconv"
	"strings"
)

// Values holds option values keyed by any of a rule's aliases.
type Values map[string]any

// Kind selects how a rule renders its value.
type Kind int

const (
	// KindFlag renders a boolean: the flag alone when true, nothing otherwise.
	KindFlag Kind = iota

	// KindOption renders the flag followed by one value token.
	KindOption

	// KindPair renders the flag followed by a 2-tuple joined with Rule.Sep.
	KindPair

	// KindMulti repeats the flag once for every value of a []string.
	KindMulti
)

// String returns the name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindFlag:
		return "bool"
	case KindOption:
		return "string"
	case KindPair:
		return "pair"
	case KindMulti:
		return "string list"
	default:
		return "unknown"
	}
}

// DefaultPairSep joins the two halves of a pair value.
const DefaultPairSep = "::"

// Rule maps a set of aliases to one canonical flag.
type Rule struct {
	// Aliases are the accepted option names, in lookup order.
	Aliases []string

	// Flag is the canonical CLI token, e.g. "--no-commit".
	Flag string

	// Kind selects the rendering.
	Kind Kind

	// Sep joins pair values. Only used by KindPair.
	Sep string
}

// Flag builds a boolean rule. Each alias is also accepted with '-' and '_'
// swapped, so "no-commit" covers "no_commit".
func Flag(flag string, aliases ...string) Rule {
	return newRule(KindFlag, flag, aliases)
}

// Option builds a single-value rule.
func Option(flag string, aliases ...string) Rule {
	return newRule(KindOption, flag, aliases)
}

// Pair builds a 2-tuple rule whose halves are joined with sep.
func Pair(flag, sep string, aliases ...string) Rule {
	r := newRule(KindPair, flag, aliases)
	r.Sep = sep
	return r
}

// Multi builds a repeatable rule.
func Multi(flag string, aliases ...string) Rule {
	return newRule(KindMulti, flag, aliases)
}

func newRule(kind Kind, flag string, aliases []string) Rule {
	if len(aliases) == 0 {
		aliases = []string{strings.TrimLeft(flag, "-")}
	}
	seen := make(map[string]bool, len(aliases)*2)
	expanded := make([]string, 0, len(aliases)*2)
	for _, a := range aliases {
		for _, v := range []string{a, swapSeparators(a)} {
			key := normalize(v)
			if seen[key] {
				continue
			}
			seen[key] = true
			expanded = append(expanded, v)
		}
	}
	return Rule{Aliases: expanded, Flag: flag, Kind: kind}
}

// Table is an ordered list of rules for one command.
type Table []Rule

// Validate checks that no alias resolves to more than one rule.
func (t Table) Validate() error {
	owner := make(map[string]string)
	for _, r := range t {
		if r.Flag == "" {
			return fmt.Errorf("rule with aliases %v has no flag", r.Aliases)
		}
		for _, a := range r.Aliases {
			key := normalize(a)
			if prev, ok := owner[key]; ok && prev != r.Flag {
				return fmt.Errorf("%w: %q maps to both %s and %s", ErrAmbiguousAlias, a, prev, r.Flag)
			}
			owner[key] = r.Flag
		}
	}
	return nil
}

// Flags returns the canonical flags in declared order.
func (t Table) Flags() []string {
	out := make([]string, len(t))
	for i, r := range t {
		out[i] = r.Flag
	}
	return out
}

// Translate renders values according to table and appends targets.
// Nothing is returned when any value has the wrong type.
func Translate(values Values, table Table, targets ...string) ([]string, error) {
	index := indexValues(values)
	tokens := make([]string, 0, len(table)*2+len(targets))

	for _, rule := range table {
		name, value, ok := lookup(index, rule)
		if !ok {
			continue
		}
		rendered, err := render(rule, name, value)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, rendered...)
	}

	for _, target := range targets {
		if target == "" {
			continue
		}
		tokens = append(tokens, target)
	}
	return tokens, nil
}

type entry struct {
	name  string
	value any
}

// indexValues keys values by their normalized name. When two keys collide
// after normalization the lexically smaller original key wins, so the
// result does not depend on map iteration order.
func indexValues(values Values) map[string]entry {
	index := make(map[string]entry, len(values))
	for name, value := range values {
		key := normalize(name)
		if prev, ok := index[key]; ok && prev.name < name {
			continue
		}
		index[key] = entry{name: name, value: value}
	}
	return index
}

func lookup(index map[string]entry, rule Rule) (string, any, bool) {
	for _, alias := range rule.Aliases {
		if e, ok := index[normalize(alias)]; ok && e.value != nil {
			return e.name, e.value, true
		}
	}
	return "", nil, false
}

func render(rule Rule, name string, value any) ([]string, error) {
	switch rule.Kind {
	case KindFlag:
		b, ok := value.(bool)
		if !ok {
			return nil, mismatch(name, rule.Kind, value)
		}
		if !b {
			return nil, nil
		}
		return []string{rule.Flag}, nil

	case KindOption:
		s, ok := stringValue(value)
		if !ok {
			return nil, mismatch(name, rule.Kind, value)
		}
		if s == "" {
			return nil, nil
		}
		return []string{rule.Flag, s}, nil

	case KindPair:
		pair, ok := value.([2]string)
		if !ok {
			return nil, mismatch(name, rule.Kind, value)
		}
		if pair[0] == "" && pair[1] == "" {
			return nil, nil
		}
		sep := rule.Sep
		if sep == "" {
			sep = DefaultPairSep
		}
		return []string{rule.Flag, pair[0] + sep + pair[1]}, nil

	case KindMulti:
		var list []string
		switch v := value.(type) {
		case []string:
			list = v
		case string:
			list = []string{v}
		default:
			return nil, mismatch(name, rule.Kind, value)
		}
		out := make([]string, 0, len(list)*2)
		for _, s := range list {
			if s == "" {
				continue
			}
			out = append(out, rule.Flag, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("option %q: unsupported rule kind %d", name, rule.Kind)
}

// stringValue accepts strings, Stringers and integers.
func stringValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	}
	return "", false
}

func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}

func swapSeparators(name string) string {
	if strings.Contains(name, "-") {
		return strings.ReplaceAll(name, "-", "_")
	}
	return strings.ReplaceAll(name, "_", "-")
}
