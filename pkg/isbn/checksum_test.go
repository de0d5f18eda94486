package isbn

import "testing"

func TestChecksumISBN10(t *testing.T) {
	testCases := []struct {
		digits string
		want   byte
	}{
		{"030640615", '2'},
		{"225300930", 'X'},
		{"013419044", '0'},
		{"000000000", '0'},
	}
	for _, tc := range testCases {
		if got := checksumISBN10(tc.digits); got != tc.want {
			t.Errorf("checksumISBN10(%q) = %q, want %q", tc.digits, got, tc.want)
		}
	}
}

func TestChecksumEAN(t *testing.T) {
	testCases := []struct {
		digits string
		want   byte
	}{
		{"978030640615", '7'},
		{"978225300930", '6'},
		{"978013419044", '0'},
		// GTIN-14 payload: the right-to-left weighting holds for the
		// wider payload too.
		{"1978030640615", '4'},
		{"000000000000", '0'},
	}
	for _, tc := range testCases {
		if got := checksumEAN(tc.digits); got != tc.want {
			t.Errorf("checksumEAN(%q) = %q, want %q", tc.digits, got, tc.want)
		}
	}
}
