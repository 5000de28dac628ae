package onix

import "strings"

// NormalizeISBN strips hyphens and spaces, the forms ISBNs arrive in from
// trade feeds and hand-edited files alike.
func NormalizeISBN(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// ValidateISBN13 checks length, digits and the ISBN-13 check digit: digits
// are weighted 1,3,1,3,... and the 13th digit must equal
// (10 - sum mod 10) mod 10.
func ValidateISBN13(isbn string) bool {
	isbn = NormalizeISBN(isbn)
	if len(isbn) != 13 {
		return false
	}
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(isbn[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	last := int(isbn[12] - '0')
	if last < 0 || last > 9 {
		return false
	}
	return (10-sum%10)%10 == last
}

// ConvertISBN10To13 prepends the 978 bookland prefix to the first nine
// digits of an ISBN-10 and recomputes the check digit. Returns ok=false
// when the input is not a plausible ISBN-10.
func ConvertISBN10To13(isbn10 string) (string, bool) {
	isbn10 = NormalizeISBN(isbn10)
	if len(isbn10) != 10 {
		return "", false
	}
	for i := 0; i < 9; i++ {
		if isbn10[i] < '0' || isbn10[i] > '9' {
			return "", false
		}
	}
	// last ISBN-10 position may be X, it is dropped anyway
	if c := isbn10[9]; (c < '0' || c > '9') && c != 'X' && c != 'x' {
		return "", false
	}
	body := "978" + isbn10[:9]
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(body[i] - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	check := (10 - sum%10) % 10
	return body + string(rune('0'+check)), true
}
