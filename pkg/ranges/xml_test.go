package ranges

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleMessage = `<?xml version="1.0" encoding="UTF-8"?>
<ISBNRangeMessage>
  <MessageSerialNumber>test</MessageSerialNumber>
  <EAN.UCCPrefixes>
    <EAN.UCC>
      <Prefix>978</Prefix>
      <Rules>
        <Rule><Range>0000000-5999999</Range><Length>1</Length></Rule>
        <Rule><Range>6000000-9999999</Range><Length>2</Length></Rule>
      </Rules>
    </EAN.UCC>
  </EAN.UCCPrefixes>
  <RegistrationGroups>
    <Group>
      <Prefix>978-2</Prefix>
      <Agency>French language</Agency>
      <Rules>
        <Rule><Range>0000000-1999999</Range><Length>2</Length></Rule>
        <Rule><Range>2000000-3499999</Range><Length>3</Length></Rule>
      </Rules>
    </Group>
  </RegistrationGroups>
</ISBNRangeMessage>`

func TestParseRangeMessage(t *testing.T) {
	prefix, groups, err := ParseRangeMessage(strings.NewReader(sampleMessage))
	if err != nil {
		t.Fatalf("ParseRangeMessage failed: %v", err)
	}

	rules := prefix["978"]
	if len(rules) != 2 {
		t.Fatalf("978 rules = %d, want 2", len(rules))
	}
	if rules[0].Low != "0000000" || rules[0].High != "5999999" || rules[0].Length != 1 {
		t.Errorf("first rule = %+v", rules[0])
	}

	g, ok := groups["978-2"]
	if !ok {
		t.Fatal("group 978-2 missing")
	}
	if g.Agency != "French language" {
		t.Errorf("agency = %q", g.Agency)
	}
	if len(g.Rules) != 2 || g.Rules[1].Length != 3 {
		t.Errorf("group rules = %+v", g.Rules)
	}
}

func TestParseRangeMessageMalformed(t *testing.T) {
	if _, _, err := ParseRangeMessage(strings.NewReader("<ISBNRangeMessage></ISBNRangeMessage>")); err == nil {
		t.Error("empty message must be rejected")
	}
	bad := strings.Replace(sampleMessage, "0000000-5999999", "00000005999999", 1)
	if _, _, err := ParseRangeMessage(strings.NewReader(bad)); err == nil {
		t.Error("ranges without a separator must be rejected")
	}
}

func TestParseRangeMessageCharset(t *testing.T) {
	// Same document re-declared as ISO-8859-1, with a non-ASCII agency
	// name encoded as a raw Latin-1 byte.
	doc := strings.Replace(sampleMessage, `encoding="UTF-8"`, `encoding="ISO-8859-1"`, 1)
	doc = strings.Replace(doc, "French language", "Fran\xe7ais", 1)

	_, groups, err := ParseRangeMessage(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseRangeMessage failed on ISO-8859-1 input: %v", err)
	}
	if got := groups["978-2"].Agency; got != "Français" {
		t.Errorf("agency = %q, want %q", got, "Français")
	}
}

func TestXMLSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranges.xml")
	if err := os.WriteFile(path, []byte(sampleMessage), 0644); err != nil {
		t.Fatalf("failed to write sample file: %v", err)
	}

	src := NewXMLSource(path)
	table, err := New(src)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := table.PrefixRules("978"); len(got) != 2 {
		t.Errorf("PrefixRules(978) = %d rules, want 2", len(got))
	}
}

func TestXMLSourceMissingFile(t *testing.T) {
	src := NewXMLSource(filepath.Join(t.TempDir(), "missing.xml"))
	if _, err := New(src); err == nil {
		t.Error("a missing range file must fail table construction")
	}
}

func TestDefaultTable(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}

	for _, product := range []string{"978", "979"} {
		if len(table.PrefixRules(product)) == 0 {
			t.Errorf("bundled dataset lacks prefix rules for %s", product)
		}
	}
	g, ok := table.GroupRules("978", "0")
	if !ok || g.Agency != "English language" {
		t.Errorf("GroupRules(978, 0) = %+v, %v", g, ok)
	}

	// Default is a shared singleton.
	again, err := Default()
	if err != nil || again != table {
		t.Error("Default must return the same table on every call")
	}
}
