package ranges

// Rule assigns a field length to a band of the 7-digit lookup window.
// Low and High are fixed-width, zero-padded digit strings. Comparison is
// lexicographic, never numeric: leading zeros are significant, and a
// numeric comparison would mis-select lengths for windows like "0070434".
type Rule struct {
	Low    string
	High   string
	Length int
}

// Contains reports whether window falls inside [Low, High].
func (r Rule) Contains(window string) bool {
	return r.Low <= window && window <= r.High
}

// ContainsTruncated compares window against bounds cut down to len(window)
// characters. Used when the remaining code is shorter than the range width.
func (r Rule) ContainsTruncated(window string) bool {
	low, high := r.Low, r.High
	n := len(window)
	if n < len(low) {
		low = low[:n]
	}
	if n < len(high) {
		high = high[:n]
	}
	return low <= window && window <= high
}

// Group is the rule set of one registration group, e.g. "978-0".
type Group struct {
	// Agency is the name of the national or language-area ISBN agency
	// that administers the group.
	Agency string
	Rules  []Rule
}
