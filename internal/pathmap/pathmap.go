// Package pathmap implements §4.8 path remapping: an ordered list of
// (from, to) prefix rules applied only to Real(path) names, later rules
// winning. Grounded in original_source's FilePathMapping::map_prefix.
package pathmap

import "strings"

// Rule is one (from, to) prefix-replacement rule.
type Rule struct {
	From string
	To   string
}

// Table holds an ordered list of rules, applied in reverse order (§4.8:
// "iterate in reverse (later rules win)").
type Table struct {
	rules []Rule
}

func NewTable(rules ...Rule) *Table {
	return &Table{rules: rules}
}

// Map applies the remapping table to path, returning the remapped path and
// whether any rule fired. Rules are tried from last to first so that a
// rule added later overrides an earlier, more general one.
func (t *Table) Map(path string) (mapped string, wasRemapped bool) {
	for i := len(t.rules) - 1; i >= 0; i-- {
		rule := t.rules[i]
		if rest, ok := strings.CutPrefix(path, rule.From); ok {
			return rule.To + rest, true
		}
	}
	return path, false
}
