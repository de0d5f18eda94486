// Package isbn decomposes ISBN/EAN/GTIN book identifiers into their
// constituent parts using the registrant-range rule table, and renders
// them back out in the standard formats with a freshly computed
// checksum.
package isbn

import (
	"strings"

	"github.com/GlazerMann/isbn/pkg/ranges"
)

// Parser decomposes raw codes against one read-only range table.
// A Parser is safe for concurrent use.
type Parser struct {
	table *ranges.Table
}

// NewParser returns a parser over the given table.
func NewParser(table *ranges.Table) *Parser {
	return &Parser{table: table}
}

// NewDefaultParser returns a parser over the bundled range dataset.
func NewDefaultParser() (*Parser, error) {
	table, err := ranges.Default()
	if err != nil {
		return nil, err
	}
	return NewParser(table), nil
}

// ParsedISBN is the result of one decomposition. It is immutable once
// Parse returns: each resolution step consumed part of the remaining
// digit string exactly once, and no field is re-assigned afterwards.
type ParsedISBN struct {
	raw string

	product     string
	group       string
	registrant  string
	publication string
	agency      string

	productSet     bool
	groupSet       bool
	registrantSet  bool
	publicationSet bool
	agencySet      bool

	// remainder holds digits that no resolution step attributed. It is
	// empty for a fully decomposed code and non-empty when registrant
	// resolution bailed out, so that formatting still conserves every
	// input digit.
	remainder string

	errs []ParseError
}

// Parse decomposes a raw code. It never fails outright: structural
// problems are recorded in the result's error list and every resolution
// step degrades to a no-op when it has nothing to work with.
func (p *Parser) Parse(code string) *ParsedISBN {
	res := &ParsedISBN{raw: code}

	if strings.TrimSpace(code) == "" {
		res.addError(ErrEmpty)
		return res
	}

	payload := res.normalize(code)
	payload = res.resolveProduct(payload)
	payload = p.resolveGroup(res, payload)
	p.resolveRegistrant(res, payload)
	return res
}

func (r *ParsedISBN) addError(kind ErrorKind) {
	// Errors accumulate in recording order and are never deduplicated.
	r.errs = append(r.errs, ParseError{Kind: kind, Message: kind.message()})
}

// normalize strips formatting characters, trims the trailing checksum
// digit when one is present, and checks that only digits remain.
func (r *ParsedISBN) normalize(code string) string {
	digits := strings.Map(func(c rune) rune {
		switch c {
		case '-', '_', ' ':
			return -1
		}
		return c
	}, code)

	switch len(digits) {
	case 13, 10:
		// The supplied checksum is discarded, not verified: it is
		// recomputed from the decomposed fields on every format call.
		digits = digits[:len(digits)-1]
	case 12, 9:
		// Already checksum-free.
	default:
		r.addError(ErrInvalidLength)
	}

	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			r.addError(ErrInvalidCharacters)
			break
		}
	}
	return digits
}

// resolveProduct peels the GS1 product code off the front of payload.
// A 9-digit payload is a legacy ISBN-10 body: the product is 978 by
// definition and no digits are consumed.
func (r *ParsedISBN) resolveProduct(payload string) string {
	if len(payload) == 9 {
		r.product = "978"
		r.productSet = true
		return payload
	}
	if len(payload) >= 3 {
		switch prefix := payload[:3]; prefix {
		case "978", "979":
			r.product = prefix
			r.productSet = true
			return payload[3:]
		}
	}
	r.addError(ErrInvalidProductCode)
	return payload
}

// resolveGroup peels the registration-group code off payload using the
// product's prefix rules. Rules are scanned in listed order and the
// first containing range wins.
func (p *Parser) resolveGroup(res *ParsedISBN, payload string) string {
	if !res.productSet {
		return payload
	}
	window := lookupWindow(payload)
	for _, rule := range p.table.PrefixRules(res.product) {
		if !rule.Contains(window) {
			continue
		}
		if rule.Length == 0 || rule.Length > len(payload) {
			break
		}
		res.group = payload[:rule.Length]
		res.groupSet = true
		return payload[rule.Length:]
	}
	res.addError(ErrInvalidCountryCode)
	return payload
}

// resolveRegistrant peels the registrant code off payload using the
// (product, group) rules; whatever follows is the publication code.
// An unresolvable registrant is not an error: the fields simply stay
// unset and the leftover digits are kept for formatting.
func (p *Parser) resolveRegistrant(res *ParsedISBN, payload string) {
	if !res.groupSet {
		res.remainder = payload
		return
	}
	res.remainder = payload

	g, ok := p.table.GroupRules(res.product, res.group)
	if !ok {
		return
	}
	res.agency = g.Agency
	res.agencySet = true

	window := lookupWindow(payload)
	for _, rule := range g.Rules {
		// Bounds are truncated to the window width because the
		// remaining code may be shorter than the full range.
		if !rule.ContainsTruncated(window) {
			continue
		}
		if rule.Length == 0 || rule.Length > len(payload) {
			break
		}
		res.registrant = payload[:rule.Length]
		res.registrantSet = true
		res.publication = payload[rule.Length:]
		res.publicationSet = true
		res.remainder = ""
		return
	}
}

// lookupWindow returns up to the first seven digits of s, the width the
// range table's bounds are written in.
func lookupWindow(s string) string {
	if len(s) > 7 {
		return s[:7]
	}
	return s
}

// Raw returns the original caller-supplied string.
func (r *ParsedISBN) Raw() string {
	return r.raw
}

// Product returns the GS1 product code (978 or 979).
func (r *ParsedISBN) Product() (string, bool) {
	return r.product, r.productSet
}

// Group returns the registration group (country/language) code.
func (r *ParsedISBN) Group() (string, bool) {
	return r.group, r.groupSet
}

// Registrant returns the registrant (publisher) code.
func (r *ParsedISBN) Registrant() (string, bool) {
	return r.registrant, r.registrantSet
}

// Publication returns the publication code. It may be a set empty
// string when the registrant consumed every remaining digit.
func (r *ParsedISBN) Publication() (string, bool) {
	return r.publication, r.publicationSet
}

// Agency returns the name of the agency administering the registration
// group, when the group was found in the table.
func (r *ParsedISBN) Agency() (string, bool) {
	return r.agency, r.agencySet
}

// IsValid reports whether no structural check failed.
func (r *ParsedISBN) IsValid() bool {
	return len(r.errs) == 0
}

// Errors returns the recorded defects in recording order.
func (r *ParsedISBN) Errors() []ParseError {
	out := make([]ParseError, len(r.errs))
	copy(out, r.errs)
	return out
}

// Diagnostic combines the raw input with every recorded error message.
func (r *ParsedISBN) Diagnostic() string {
	if len(r.errs) == 0 {
		return r.raw
	}
	msgs := make([]string, 0, len(r.errs))
	for _, e := range r.errs {
		msgs = append(msgs, e.Message)
	}
	return r.raw + ": " + strings.Join(msgs, "; ")
}

// body returns every digit that followed the product code, whether or
// not it was attributed to a field.
func (r *ParsedISBN) body() string {
	return r.group + r.registrant + r.publication + r.remainder
}
