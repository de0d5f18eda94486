package isbn

import (
	"testing"

	"github.com/GlazerMann/isbn/pkg/ranges"
)

// staticParser builds a parser over a hand-rolled rule set for cases
// the bundled dataset cannot exercise, like overlapping rules.
func staticParser(t *testing.T, src *ranges.StaticSource) *Parser {
	t.Helper()
	table, err := ranges.New(src)
	if err != nil {
		t.Fatalf("ranges.New failed: %v", err)
	}
	return NewParser(table)
}

func TestFirstMatchingRuleWins(t *testing.T) {
	// The second rule also contains the window but declares a different
	// length; the first listed match must be taken.
	p := staticParser(t, &ranges.StaticSource{
		Prefix: map[string][]ranges.Rule{
			"978": {
				{Low: "0000000", High: "4999999", Length: 1},
				{Low: "0000000", High: "9999999", Length: 2},
			},
		},
		Groups: map[string]ranges.Group{
			"978-1": {
				Agency: "Test agency",
				Rules: []ranges.Rule{
					{Low: "0000000", High: "4999999", Length: 3},
					{Low: "0000000", High: "9999999", Length: 4},
				},
			},
		},
	})

	res := p.Parse("978123456789") // no checksum, 12 digits
	if !res.IsValid() {
		t.Fatalf("unexpected errors: %v", res.Errors())
	}
	if group, _ := res.Group(); group != "1" {
		t.Errorf("group = %q, want %q (first rule, length 1)", group, "1")
	}
	if registrant, _ := res.Registrant(); registrant != "234" {
		t.Errorf("registrant = %q, want %q (first rule, length 3)", registrant, "234")
	}
}

func TestRegistrantRuleTruncation(t *testing.T) {
	// Group consumes 5 of the 9 body digits, leaving a 4-digit window.
	// The rule bounds are 7 digits wide and must be truncated to 4
	// before comparing, or nothing would ever match.
	p := staticParser(t, &ranges.StaticSource{
		Prefix: map[string][]ranges.Rule{
			"978": {{Low: "9990000", High: "9999999", Length: 5}},
		},
		Groups: map[string]ranges.Group{
			"978-99901": {
				Agency: "Test agency",
				Rules: []ranges.Rule{
					{Low: "0000000", High: "4999999", Length: 1},
					{Low: "5000000", High: "9999999", Length: 2},
				},
			},
		},
	})

	res := p.Parse("978999017216") // body 999017216: group 99901, window 7216
	if !res.IsValid() {
		t.Fatalf("unexpected errors: %v", res.Errors())
	}
	if registrant, _ := res.Registrant(); registrant != "72" {
		t.Errorf("registrant = %q, want %q", registrant, "72")
	}
	if publication, _ := res.Publication(); publication != "16" {
		t.Errorf("publication = %q, want %q", publication, "16")
	}
}

func TestRegistrantCoverageGapIsLenient(t *testing.T) {
	// The group is resolvable but its rules leave a hole; the original
	// behavior is to leave registrant and publication unset without
	// recording an error.
	p := staticParser(t, &ranges.StaticSource{
		Prefix: map[string][]ranges.Rule{
			"978": {{Low: "0000000", High: "9999999", Length: 1}},
		},
		Groups: map[string]ranges.Group{
			"978-5": {
				Agency: "Test agency",
				Rules:  []ranges.Rule{{Low: "0000000", High: "1999999", Length: 2}},
			},
		},
	})

	res := p.Parse("978590000000")
	if !res.IsValid() {
		t.Fatalf("unexpected errors: %v", res.Errors())
	}
	if _, ok := res.Registrant(); ok {
		t.Error("registrant should stay unset in a coverage gap")
	}
	if agency, ok := res.Agency(); !ok || agency != "Test agency" {
		t.Errorf("agency = %q, %v; recorded unconditionally once the group entry is found", agency, ok)
	}
}

func TestZeroLengthRegistrantRule(t *testing.T) {
	p := staticParser(t, &ranges.StaticSource{
		Prefix: map[string][]ranges.Rule{
			"978": {{Low: "0000000", High: "9999999", Length: 1}},
		},
		Groups: map[string]ranges.Group{
			"978-5": {
				Agency: "Test agency",
				Rules:  []ranges.Rule{{Low: "0000000", High: "9999999", Length: 0}},
			},
		},
	})

	res := p.Parse("978512345678")
	if !res.IsValid() {
		t.Fatalf("unexpected errors: %v", res.Errors())
	}
	if _, ok := res.Registrant(); ok {
		t.Error("a zero-length registrant rule assigns nothing")
	}
}

func TestProductWithoutPrefixRules(t *testing.T) {
	// 979 resolves as a product but the table has no rules for it, so
	// group resolution must report an unmatched country code.
	p := staticParser(t, &ranges.StaticSource{
		Prefix: map[string][]ranges.Rule{
			"978": {{Low: "0000000", High: "9999999", Length: 1}},
		},
		Groups: map[string]ranges.Group{},
	})

	res := p.Parse("979812345678")
	if res.IsValid() {
		t.Fatal("expected invalid result")
	}
	if !hasKind(res.Errors(), ErrInvalidCountryCode) {
		t.Errorf("errors = %v, want InvalidCountryCode", res.Errors())
	}
}
