package isbn

import (
	"fmt"
	"strings"
)

// Output formats. The zero value ("") renders like FormatEAN.
const (
	FormatISBN10 = "ISBN-10"
	FormatISBN13 = "ISBN-13"
	FormatISBN   = "ISBN" // alias for ISBN-13
	FormatGTIN14 = "GTIN-14"
	FormatEAN    = "EAN"
)

// Format renders a valid decomposition in the requested format with a
// freshly computed checksum. GTIN-14 output uses the default logistic
// prefix '1'; use FormatGTIN14 on the result for a different one.
// Formatting an invalid result returns a *FormatError.
func (r *ParsedISBN) Format(format string) (string, error) {
	return r.render(format, '1')
}

// FormatGTIN14 renders the code as a 14-digit GTIN with the given
// one-digit logistic prefix.
func (r *ParsedISBN) FormatGTIN14(prefix byte) (string, error) {
	return r.render(FormatGTIN14, prefix)
}

// Checksum computes the check character for the requested format.
// It reports false for invalid decompositions.
func (r *ParsedISBN) Checksum(format string) (byte, bool) {
	if !r.IsValid() {
		return 0, false
	}
	if format == FormatISBN10 {
		return checksumISBN10(r.body()), true
	}
	if format == FormatGTIN14 {
		return checksumEAN("1" + r.product + r.body()), true
	}
	return checksumEAN(r.product + r.body()), true
}

func (r *ParsedISBN) render(format string, gtinPrefix byte) (string, error) {
	if !r.IsValid() {
		return "", &FormatError{Raw: r.raw, Errors: r.Errors()}
	}

	switch format {
	case FormatISBN10:
		check := checksumISBN10(r.body())
		return strings.Join(append(r.segments(), string(check)), "-"), nil
	case FormatISBN13, FormatISBN:
		check := checksumEAN(r.product + r.body())
		segs := append([]string{r.product}, r.segments()...)
		return strings.Join(append(segs, string(check)), "-"), nil
	case FormatGTIN14:
		if gtinPrefix < '0' || gtinPrefix > '9' {
			return "", fmt.Errorf("gtin-14 prefix must be a single digit, got %q", gtinPrefix)
		}
		payload := string(gtinPrefix) + r.product + r.body()
		return payload + string(checksumEAN(payload)), nil
	case FormatEAN, "":
		payload := r.product + r.body()
		return payload + string(checksumEAN(payload)), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

// segments returns the hyphenation pieces after the product code.
// Digits the decomposition could not attribute stay together as one
// trailing piece, so output always conserves the input digits.
func (r *ParsedISBN) segments() []string {
	var out []string
	if r.groupSet {
		out = append(out, r.group)
	}
	if r.registrantSet {
		out = append(out, r.registrant)
	}
	if r.publicationSet && r.publication != "" {
		out = append(out, r.publication)
	}
	if r.remainder != "" {
		out = append(out, r.remainder)
	}
	return out
}
