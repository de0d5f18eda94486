package ranges

import (
	"fmt"
	"testing"
)

func testSource() *StaticSource {
	return &StaticSource{
		Prefix: map[string][]Rule{
			"978": {
				{Low: "0000000", High: "5999999", Length: 1},
				{Low: "6000000", High: "9999999", Length: 2},
			},
		},
		Groups: map[string]Group{
			"978-0": {
				Agency: "English language",
				Rules: []Rule{
					{Low: "0000000", High: "1999999", Length: 2},
					{Low: "2000000", High: "9999999", Length: 3},
				},
			},
		},
	}
}

func TestNewTable(t *testing.T) {
	table, err := New(testSource())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rules := table.PrefixRules("978")
	if len(rules) != 2 {
		t.Fatalf("PrefixRules(978) returned %d rules, want 2", len(rules))
	}
	if rules[0].Length != 1 || rules[1].Length != 2 {
		t.Errorf("rules out of source order: %+v", rules)
	}

	if got := table.PrefixRules("977"); len(got) != 0 {
		t.Errorf("PrefixRules(977) = %v, want empty", got)
	}

	g, ok := table.GroupRules("978", "0")
	if !ok {
		t.Fatal("GroupRules(978, 0) not found")
	}
	if g.Agency != "English language" {
		t.Errorf("agency = %q", g.Agency)
	}
	if _, ok := table.GroupRules("978", "1"); ok {
		t.Error("GroupRules(978, 1) should be absent")
	}
}

func TestNewTableFailure(t *testing.T) {
	// A broken source is a construction error, never an empty table.
	if _, err := New(&failingSource{}); err == nil {
		t.Error("New must surface source failures")
	}
	if _, err := New(&StaticSource{}); err == nil {
		t.Error("New must reject an empty rule set")
	}
}

type failingSource struct{}

func (f *failingSource) LoadPrefixRules() (map[string][]Rule, error) {
	return nil, fmt.Errorf("boom")
}

func (f *failingSource) LoadGroupRules() (map[string]Group, error) {
	return nil, fmt.Errorf("boom")
}

func TestRuleContains(t *testing.T) {
	r := Rule{Low: "0070000", High: "0099999", Length: 3}

	// Comparison is lexicographic on zero-padded strings; a numeric
	// comparison would strip the leading zero and mis-classify.
	if !r.Contains("0084321") {
		t.Error("0084321 should fall inside 0070000-0099999")
	}
	if r.Contains("0104321") {
		t.Error("0104321 should fall outside 0070000-0099999")
	}

	if !r.ContainsTruncated("008") {
		t.Error("truncated bounds 007-009 should contain 008")
	}
	if r.ContainsTruncated("011") {
		t.Error("truncated bounds 007-009 should not contain 011")
	}
}
