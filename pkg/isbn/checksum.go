package isbn

// checksumISBN10 computes the ISBN-10 check character over the 9-digit
// group+registrant+publication body: digit i carries weight 10-i, the
// sum is taken mod 11, and a result of 10 renders as 'X'.
func checksumISBN10(digits string) byte {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (10 - i)
	}
	c := (11 - sum%11) % 11
	if c == 10 {
		return 'X'
	}
	return byte('0' + c)
}

// checksumEAN computes the EAN/GTIN check digit. Weighting runs
// right to left: the digit next to the check position always carries
// weight 3, the next weight 1, and so on, which holds for any payload
// width (12 for EAN-13, 13 for GTIN-14).
func checksumEAN(digits string) byte {
	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		if i%2 == 0 {
			sum += d * 3
		} else {
			sum += d
		}
	}
	return byte('0' + (10-sum%10)%10)
}
