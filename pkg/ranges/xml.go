package ranges

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// xmlMessage mirrors the ISBN International RangeMessage document.
type xmlMessage struct {
	XMLName  xml.Name    `xml:"ISBNRangeMessage"`
	Serial   string      `xml:"MessageSerialNumber"`
	Date     string      `xml:"MessageDate"`
	Prefixes []xmlPrefix `xml:"EAN.UCCPrefixes>EAN.UCC"`
	Groups   []xmlGroup  `xml:"RegistrationGroups>Group"`
}

type xmlPrefix struct {
	Prefix string    `xml:"Prefix"`
	Rules  []xmlRule `xml:"Rules>Rule"`
}

type xmlGroup struct {
	Prefix string    `xml:"Prefix"`
	Agency string    `xml:"Agency"`
	Rules  []xmlRule `xml:"Rules>Rule"`
}

type xmlRule struct {
	Range  string `xml:"Range"`
	Length int    `xml:"Length"`
}

// XMLSource loads rules from a RangeMessage XML file. The file is read
// and decoded once, on first use.
type XMLSource struct {
	path string

	once   sync.Once
	err    error
	prefix map[string][]Rule
	groups map[string]Group
}

// NewXMLSource creates a source for the RangeMessage file at path.
// The file is not touched until the first Load call.
func NewXMLSource(path string) *XMLSource {
	return &XMLSource{path: path}
}

func (s *XMLSource) load() {
	f, err := os.Open(s.path)
	if err != nil {
		s.err = fmt.Errorf("failed to open range file: %w", err)
		return
	}
	defer f.Close()
	s.prefix, s.groups, s.err = ParseRangeMessage(f)
	if s.err != nil {
		s.err = fmt.Errorf("failed to parse range file %s: %w", s.path, s.err)
	}
}

func (s *XMLSource) LoadPrefixRules() (map[string][]Rule, error) {
	s.once.Do(s.load)
	return s.prefix, s.err
}

func (s *XMLSource) LoadGroupRules() (map[string]Group, error) {
	s.once.Do(s.load)
	return s.groups, s.err
}

// ParseRangeMessage decodes a RangeMessage XML document into rule maps.
// Non-UTF-8 documents are handled through the IANA charset index.
func ParseRangeMessage(r io.Reader) (map[string][]Rule, map[string]Group, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := ianaindex.IANA.Encoding(charset)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("unsupported charset %q", charset)
		}
		return transform.NewReader(input, enc.NewDecoder()), nil
	}

	var msg xmlMessage
	if err := dec.Decode(&msg); err != nil {
		return nil, nil, err
	}
	if len(msg.Prefixes) == 0 {
		return nil, nil, fmt.Errorf("range message holds no EAN.UCC prefixes")
	}

	prefix := make(map[string][]Rule, len(msg.Prefixes))
	for _, p := range msg.Prefixes {
		rules, err := convertRules(p.Rules)
		if err != nil {
			return nil, nil, fmt.Errorf("prefix %s: %w", p.Prefix, err)
		}
		prefix[p.Prefix] = rules
	}

	groups := make(map[string]Group, len(msg.Groups))
	for _, g := range msg.Groups {
		rules, err := convertRules(g.Rules)
		if err != nil {
			return nil, nil, fmt.Errorf("group %s: %w", g.Prefix, err)
		}
		groups[g.Prefix] = Group{Agency: g.Agency, Rules: rules}
	}
	return prefix, groups, nil
}

func convertRules(in []xmlRule) ([]Rule, error) {
	out := make([]Rule, 0, len(in))
	for _, r := range in {
		low, high, ok := strings.Cut(r.Range, "-")
		if !ok {
			return nil, fmt.Errorf("malformed range %q", r.Range)
		}
		out = append(out, Rule{Low: low, High: high, Length: r.Length})
	}
	return out, nil
}
