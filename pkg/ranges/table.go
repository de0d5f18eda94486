package ranges

import (
	"fmt"
	"sort"
)

// Table is an immutable view over the registrant-range rule data.
// It is built exactly once from a Source; a load failure is a
// construction error, never an empty table. After New returns, the
// table is read-only and safe for concurrent use without locking.
type Table struct {
	prefix map[string][]Rule
	groups map[string]Group
}

// New loads the rule data from src and builds a Table.
func New(src Source) (*Table, error) {
	prefix, err := src.LoadPrefixRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load prefix rules: %w", err)
	}
	groups, err := src.LoadGroupRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load group rules: %w", err)
	}
	if len(prefix) == 0 {
		return nil, fmt.Errorf("range source yielded no prefix rules")
	}
	return &Table{prefix: prefix, groups: groups}, nil
}

// PrefixRules returns the rules deciding the group-code length for a
// product code, in source order. Unknown products yield nil.
func (t *Table) PrefixRules(product string) []Rule {
	return t.prefix[product]
}

// GroupRules returns the agency and registrant-length rules for a
// (product, group) pair, in source order.
func (t *Table) GroupRules(product, group string) (Group, bool) {
	g, ok := t.groups[product+"-"+group]
	return g, ok
}

// Products returns the known product codes, sorted.
func (t *Table) Products() []string {
	out := make([]string, 0, len(t.prefix))
	for p := range t.prefix {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// GroupKeys returns the known "<product>-<group>" keys, sorted.
func (t *Table) GroupKeys() []string {
	out := make([]string, 0, len(t.groups))
	for k := range t.groups {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
